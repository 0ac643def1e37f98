package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration types.
const (
	// RegistrationOnline marks records created through public self-registration.
	// Walk-in records created by an admin carry no registration type at all.
	RegistrationOnline = "online"
)

// Verification statuses for online registrations.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// Class tags reported by the analytics endpoints. Students may carry other
// tags; those are stored and filtered but never broken out in reports.
const (
	ClassPhysics       = "physics"
	ClassChemistry     = "chemistry"
	ClassCombinedMaths = "combined-maths"
)

// Student represents one enrollment record.
//
// JSON field names match the legacy API contract (camelCase). PaymentReceipt
// is persisted but never serialized in any response.
type Student struct {
	ID                 uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName          string    `json:"firstName" gorm:"size:255;not null"`
	LastName           string    `json:"lastName" gorm:"size:255;not null"`
	Email              string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Mobile             string    `json:"mobile" gorm:"size:64;not null"`
	Gender             string    `json:"gender" gorm:"size:32;not null;index"`
	Address            string    `json:"address" gorm:"size:512;not null"`
	Classes            []string  `json:"classes" gorm:"serializer:json;type:text;not null"`
	RegisterDate       string    `json:"registerDate" gorm:"size:10;not null;index"` // YYYY-MM-DD, compared as a string prefix
	RegistrationFee    int       `json:"registrationFee" gorm:"not null"`
	RegistrationType   string    `json:"registrationType,omitempty" gorm:"size:16;index"`
	Status             string    `json:"status,omitempty" gorm:"size:16;index"`
	PaymentReceipt     string    `json:"-" gorm:"type:longtext"` // Never expose in JSON
	PaymentReceiptName string    `json:"paymentReceiptName,omitempty" gorm:"size:255"`
	CreatedAt          time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsOnline reports whether the record came through public self-registration.
func (s *Student) IsOnline() bool {
	return s.RegistrationType == RegistrationOnline
}
