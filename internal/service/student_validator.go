package service

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "eduphysics/internal/errors"
	"eduphysics/internal/model"
)

// adminRequiredFields is the required set for the admin-create path.
var adminRequiredFields = []string{
	"firstName", "lastName", "email", "mobile", "gender",
	"address", "classes", "registerDate", "registrationFee",
}

// publicRequiredFields is the required set for public self-registration.
// registerDate is defaulted to today when absent; paymentReceipt is mandatory.
var publicRequiredFields = []string{
	"firstName", "lastName", "email", "mobile", "gender",
	"address", "classes", "registrationFee",
}

// updateAllowedFields is the fixed allow-list for partial updates. Any other
// submitted field is silently ignored.
var updateAllowedFields = []string{
	"firstName", "lastName", "email", "mobile", "gender",
	"address", "classes", "registerDate", "registrationFee",
}

// StudentValidator checks raw request payloads and shapes them into Student
// records. A field is "present" only when it is truthy: absent, null, empty
// string, zero fee, and empty class list all fail the required check. A
// string field carrying a non-string value fails validation rather than being
// silently blanked. No format validation is performed on email, mobile, or
// registerDate beyond non-emptiness.
type StudentValidator struct{}

// NewStudentValidator creates a new student validator.
func NewStudentValidator() *StudentValidator {
	return &StudentValidator{}
}

// ValidateCreate validates and normalizes an admin-create payload.
func (v *StudentValidator) ValidateCreate(input map[string]interface{}) (*model.Student, error) {
	if err := requireFields(input, adminRequiredFields); err != nil {
		return nil, err
	}
	registerDate, err := trimmedString("registerDate", input["registerDate"])
	if err != nil {
		return nil, err
	}
	return v.shape(input, registerDate)
}

// ValidateRegistration validates and normalizes a public self-registration
// payload. registerDate defaults to today (UTC) when absent.
func (v *StudentValidator) ValidateRegistration(input map[string]interface{}) (*model.Student, error) {
	if err := requireFields(input, publicRequiredFields); err != nil {
		return nil, err
	}
	if !truthy(input["paymentReceipt"]) {
		return nil, apperrors.NewValidationError("paymentReceipt", "Payment receipt is required")
	}
	receipt, err := coerceString("paymentReceipt", input["paymentReceipt"])
	if err != nil {
		return nil, err
	}
	receiptName, err := trimmedString("paymentReceiptName", input["paymentReceiptName"])
	if err != nil {
		return nil, err
	}

	registerDate, err := trimmedString("registerDate", input["registerDate"])
	if err != nil {
		return nil, err
	}
	if registerDate == "" {
		registerDate = time.Now().UTC().Format("2006-01-02")
	}

	student, err := v.shape(input, registerDate)
	if err != nil {
		return nil, err
	}
	student.PaymentReceipt = receipt
	student.PaymentReceiptName = receiptName
	student.RegistrationType = model.RegistrationOnline
	student.Status = model.StatusPending
	return student, nil
}

// ApplyUpdate copies allow-listed fields from input onto the record, with the
// same trimming and coercions as create. It reports whether the email changed
// (case-insensitively) so the caller can re-check uniqueness.
func (v *StudentValidator) ApplyUpdate(student *model.Student, input map[string]interface{}) (emailChanged bool, err error) {
	for _, field := range updateAllowedFields {
		raw, ok := input[field]
		if !ok {
			continue
		}
		switch field {
		case "email":
			val, err := trimmedString(field, raw)
			if err != nil {
				return false, err
			}
			email := strings.ToLower(val)
			if email != student.Email {
				emailChanged = true
			}
			student.Email = email
		case "registrationFee":
			fee, err := coerceFee(raw)
			if err != nil {
				return false, err
			}
			student.RegistrationFee = fee
		case "classes":
			classes, err := coerceClasses(raw)
			if err != nil {
				return false, err
			}
			student.Classes = classes
		default:
			val, err := trimmedString(field, raw)
			if err != nil {
				return false, err
			}
			switch field {
			case "firstName":
				student.FirstName = val
			case "lastName":
				student.LastName = val
			case "mobile":
				student.Mobile = val
			case "gender":
				student.Gender = val
			case "address":
				student.Address = val
			case "registerDate":
				student.RegisterDate = val
			}
		}
	}
	return emailChanged, nil
}

// shape builds the normalized Student from an already required-checked payload.
func (v *StudentValidator) shape(input map[string]interface{}, registerDate string) (*model.Student, error) {
	fee, err := coerceFee(input["registrationFee"])
	if err != nil {
		return nil, err
	}
	classes, err := coerceClasses(input["classes"])
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Classes:         classes,
		RegisterDate:    registerDate,
		RegistrationFee: fee,
	}
	for field, target := range map[string]*string{
		"firstName": &student.FirstName,
		"lastName":  &student.LastName,
		"email":     &student.Email,
		"mobile":    &student.Mobile,
		"gender":    &student.Gender,
		"address":   &student.Address,
	} {
		val, err := trimmedString(field, input[field])
		if err != nil {
			return nil, err
		}
		*target = val
	}
	student.Email = strings.ToLower(student.Email)
	return student, nil
}

func requireFields(input map[string]interface{}, fields []string) error {
	for _, field := range fields {
		if !truthy(input[field]) {
			return apperrors.NewFieldRequired(field)
		}
	}
	return nil
}

// truthy mirrors the legacy required-check semantics: nil, empty string,
// zero number, false, and empty list are all missing.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case []interface{}:
		return len(val) > 0
	case []string:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}

// coerceString returns the string value of a field, failing when the payload
// carries a non-string value. Absent (nil) values yield the empty string;
// required-ness is checked separately.
func coerceString(field string, v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.NewValidationError(field, field+" must be a string")
	}
	return s, nil
}

func trimmedString(field string, v interface{}) (string, error) {
	s, err := coerceString(field, v)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// coerceFee converts a JSON number or integer string to a fee. Fractional
// JSON numbers truncate; fractional strings are rejected.
func coerceFee(v interface{}) (int, error) {
	switch val := v.(type) {
	case float64:
		return int(val), nil
	case int:
		return val, nil
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return int(f), nil
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n, nil
		}
	}
	return 0, apperrors.NewValidationError("registrationFee", "registrationFee must be a number")
}

// coerceClasses converts the decoded classes value into a string slice.
func coerceClasses(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return val, nil
	case []interface{}:
		classes := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, apperrors.NewValidationError("classes", "classes must be a list of class tags")
			}
			classes = append(classes, s)
		}
		return classes, nil
	}
	return nil, apperrors.NewValidationError("classes", "classes must be a list of class tags")
}
