package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduphysics/internal/model"
)

// ListFilter holds the optional student list filters. Zero values mean
// "not filtered"; active filters are ANDed together.
type ListFilter struct {
	Gender string // exact match
	Class  string // membership test against classes
	Month  string // prefix match on registerDate, e.g. "2024-03"
	Search string // case-insensitive substring across name/email/mobile
}

// StudentRepository defines student persistence operations.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	FindByEmail(ctx context.Context, email string) (*model.Student, error)
	List(ctx context.Context, filter ListFilter) ([]model.Student, error)
	ListAll(ctx context.Context) ([]model.Student, error)
	Save(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// Create inserts a new student record.
func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// FindByID finds a student by ID.
func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail finds a student by email. Emails are stored lower-cased, so the
// lookup is case-insensitive by construction.
func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns students matching the filter, most recent first.
func (r *studentRepository) List(ctx context.Context, filter ListFilter) ([]model.Student, error) {
	q := r.db.WithContext(ctx).Model(&model.Student{})

	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}
	if filter.Class != "" {
		// classes is a JSON array of strings; membership is a substring
		// match on the serialized form.
		q = q.Where("classes LIKE ?", `%"`+filter.Class+`"%`)
	}
	if filter.Month != "" {
		q = q.Where("register_date LIKE ?", filter.Month+"%")
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(mobile) LIKE ?",
			needle, needle, needle, needle,
		)
	}

	var students []model.Student
	if err := q.Order("created_at DESC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// ListAll returns every student record, for the analytics full scans.
func (r *studentRepository) ListAll(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := r.db.WithContext(ctx).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// Save writes back a mutated student record.
func (r *studentRepository) Save(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

// Delete removes a student record, returning the number of rows affected.
func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Student{})
	return res.RowsAffected, res.Error
}
