package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "eduphysics/internal/errors"
	"eduphysics/internal/model"
)

func TestStudentValidator_ValidateCreate(t *testing.T) {
	v := NewStudentValidator()

	t.Run("trims and lower-cases", func(t *testing.T) {
		student, err := v.ValidateCreate(map[string]interface{}{
			"firstName":       " Nadeesha ",
			"lastName":        " Silva ",
			"email":           "  Nadeesha.Silva@Example.COM ",
			"mobile":          " 0719876543 ",
			"gender":          "female",
			"address":         " 45 Lake View ",
			"classes":         []interface{}{"chemistry"},
			"registerDate":    "2024-03-10",
			"registrationFee": float64(1000),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Nadeesha", student.FirstName)
		assert.Equal(t, "Silva", student.LastName)
		assert.Equal(t, "nadeesha.silva@example.com", student.Email)
		assert.Equal(t, "0719876543", student.Mobile)
		assert.Equal(t, "45 Lake View", student.Address)
		assert.Equal(t, 1000, student.RegistrationFee)
	})

	t.Run("each required field is checked", func(t *testing.T) {
		base := func() map[string]interface{} {
			return map[string]interface{}{
				"firstName":       "A",
				"lastName":        "B",
				"email":           "a@b.c",
				"mobile":          "1",
				"gender":          "male",
				"address":         "x",
				"classes":         []interface{}{"physics"},
				"registerDate":    "2024-01-01",
				"registrationFee": float64(1000),
			}
		}

		for _, field := range []string{"firstName", "lastName", "email", "mobile", "gender", "address", "classes", "registerDate", "registrationFee"} {
			payload := base()
			delete(payload, field)
			_, err := v.ValidateCreate(payload)
			assert.True(t, apperrors.IsValidation(err), "missing %s should fail", field)

			payload = base()
			switch field {
			case "classes":
				payload[field] = []interface{}{}
			case "registrationFee":
				payload[field] = float64(0)
			default:
				payload[field] = ""
			}
			_, err = v.ValidateCreate(payload)
			assert.True(t, apperrors.IsValidation(err), "falsy %s should fail", field)
		}
	})

	t.Run("fee coercions", func(t *testing.T) {
		base := map[string]interface{}{
			"firstName":    "A",
			"lastName":     "B",
			"email":        "a@b.c",
			"mobile":       "1",
			"gender":       "male",
			"address":      "x",
			"classes":      []interface{}{"physics"},
			"registerDate": "2024-01-01",
		}

		base["registrationFee"] = "2000"
		student, err := v.ValidateCreate(base)
		assert.NoError(t, err)
		assert.Equal(t, 2000, student.RegistrationFee)

		base["registrationFee"] = "two thousand"
		_, err = v.ValidateCreate(base)
		assert.True(t, apperrors.IsValidation(err))

		base["registrationFee"] = "2000.9"
		_, err = v.ValidateCreate(base)
		assert.True(t, apperrors.IsValidation(err), "fractional fee string should fail")

		base["registrationFee"] = float64(2000.9)
		student, err = v.ValidateCreate(base)
		assert.NoError(t, err)
		assert.Equal(t, 2000, student.RegistrationFee)
	})

	t.Run("non-string values for string fields fail", func(t *testing.T) {
		base := func() map[string]interface{} {
			return map[string]interface{}{
				"firstName":       "A",
				"lastName":        "B",
				"email":           "a@b.c",
				"mobile":          "1",
				"gender":          "male",
				"address":         "x",
				"classes":         []interface{}{"physics"},
				"registerDate":    "2024-01-01",
				"registrationFee": float64(1000),
			}
		}

		for _, field := range []string{"firstName", "lastName", "email", "mobile", "gender", "address", "registerDate"} {
			payload := base()
			payload[field] = float64(42)
			student, err := v.ValidateCreate(payload)
			assert.Nil(t, student)
			assert.True(t, apperrors.IsValidation(err), "numeric %s should fail", field)
		}
	})
}

func TestStudentValidator_ValidateRegistration(t *testing.T) {
	v := NewStudentValidator()

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"firstName":       "Tharindu",
			"lastName":        "Fernando",
			"email":           "tharindu@example.com",
			"mobile":          "0754455667",
			"gender":          "male",
			"address":         "8 Station Road",
			"classes":         []interface{}{"physics"},
			"registrationFee": float64(3000),
			"paymentReceipt":  "base64-bytes",
		}
	}

	t.Run("registerDate defaults to today when absent", func(t *testing.T) {
		student, err := v.ValidateRegistration(base())
		assert.NoError(t, err)
		assert.Equal(t, time.Now().UTC().Format("2006-01-02"), student.RegisterDate)
		assert.Equal(t, model.RegistrationOnline, student.RegistrationType)
		assert.Equal(t, model.StatusPending, student.Status)
	})

	t.Run("explicit registerDate is kept", func(t *testing.T) {
		payload := base()
		payload["registerDate"] = "2024-02-29"
		student, err := v.ValidateRegistration(payload)
		assert.NoError(t, err)
		assert.Equal(t, "2024-02-29", student.RegisterDate)
	})

	t.Run("payment receipt is mandatory", func(t *testing.T) {
		payload := base()
		payload["paymentReceipt"] = ""
		_, err := v.ValidateRegistration(payload)
		assert.True(t, apperrors.IsValidation(err))
	})
}
