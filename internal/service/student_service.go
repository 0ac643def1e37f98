package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eduphysics/internal/cache"
	apperrors "eduphysics/internal/errors"
	"eduphysics/internal/model"
	"eduphysics/internal/repository"
)

// StudentService handles student record operations.
type StudentService interface {
	List(ctx context.Context, filter repository.ListFilter) ([]model.Student, error)
	Get(ctx context.Context, id string) (*model.Student, error)
	Create(ctx context.Context, input map[string]interface{}) (*model.Student, error)
	Register(ctx context.Context, input map[string]interface{}) (*model.Student, error)
	Update(ctx context.Context, id string, input map[string]interface{}) (*model.Student, error)
	Verify(ctx context.Context, id string, status string) (*model.Student, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo      repository.StudentRepository
	validator *StudentValidator
	cache     *cache.Client
}

// NewStudentService creates a new student service.
func NewStudentService(repo repository.StudentRepository, validator *StudentValidator, cache *cache.Client) StudentService {
	return &studentService{
		repo:      repo,
		validator: validator,
		cache:     cache,
	}
}

// List returns students matching the filter, most recent first. An empty
// result set is not an error.
func (s *studentService) List(ctx context.Context, filter repository.ListFilter) ([]model.Student, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

// Get returns a single student. A malformed identifier maps to the same
// not-found outcome as a missing record.
func (s *studentService) Get(ctx context.Context, id string) (*model.Student, error) {
	studentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return student, nil
}

// Create registers a walk-in student via the admin path.
func (s *studentService) Create(ctx context.Context, input map[string]interface{}) (*model.Student, error) {
	student, err := s.validator.ValidateCreate(input)
	if err != nil {
		return nil, err
	}
	if err := s.insert(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Register creates a pending online registration via the public path. The
// payment receipt stays persisted but is never serialized in responses.
func (s *studentService) Register(ctx context.Context, input map[string]interface{}) (*model.Student, error) {
	student, err := s.validator.ValidateRegistration(input)
	if err != nil {
		return nil, err
	}
	if err := s.insert(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// insert persists a new record, enforcing email uniqueness. The unique index
// on email backs up the pre-check, so a concurrent duplicate insert still
// surfaces as a conflict rather than a duplicate row.
func (s *studentService) insert(ctx context.Context, student *model.Student) error {
	existing, err := s.repo.FindByEmail(ctx, student.Email)
	if err == nil && existing != nil {
		return apperrors.ErrEmailRegistered
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check email: %w", err)
	}

	if err := s.repo.Create(ctx, student); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return apperrors.ErrEmailRegistered
		}
		return fmt.Errorf("create student: %w", err)
	}
	s.invalidateReports(ctx)
	return nil
}

// Update applies a partial update. Only the fixed allow-list of fields is
// mutated; anything else in the payload is silently ignored.
func (s *studentService) Update(ctx context.Context, id string, input map[string]interface{}) (*model.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	emailChanged, err := s.validator.ApplyUpdate(student, input)
	if err != nil {
		return nil, err
	}

	if emailChanged {
		existing, err := s.repo.FindByEmail(ctx, student.Email)
		if err == nil && existing != nil && existing.ID != student.ID {
			return nil, apperrors.ErrEmailRegistered
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	if err := s.repo.Save(ctx, student); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, apperrors.ErrEmailRegistered
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	s.invalidateReports(ctx)
	return student, nil
}

// Verify sets the verification status of an online registration. Only
// "verified" and "rejected" are accepted. Re-verifying an already decided
// record succeeds idempotently.
func (s *studentService) Verify(ctx context.Context, id string, status string) (*model.Student, error) {
	if status != model.StatusVerified && status != model.StatusRejected {
		return nil, apperrors.ErrInvalidStatus
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student.Status = status
	if err := s.repo.Save(ctx, student); err != nil {
		return nil, fmt.Errorf("verify student: %w", err)
	}
	s.invalidateReports(ctx)
	return student, nil
}

// Delete removes a student record permanently.
func (s *studentService) Delete(ctx context.Context, id string) error {
	studentID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.ErrStudentNotFound
	}
	affected, err := s.repo.Delete(ctx, studentID)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrStudentNotFound
	}
	s.invalidateReports(ctx)
	return nil
}

// invalidateReports drops the cached analytics reports after any mutation.
func (s *studentService) invalidateReports(ctx context.Context) {
	_ = s.cache.Delete(ctx, overviewCacheKey, financeCacheKey)
}
