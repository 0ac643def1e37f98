package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStudentJSONOmitsPaymentReceipt(t *testing.T) {
	student := Student{
		ID:                 uuid.New(),
		FirstName:          "Kasun",
		LastName:           "Perera",
		Email:              "kasun@example.com",
		Mobile:             "0771234567",
		Gender:             "male",
		Address:            "12 Galle Road, Colombo",
		Classes:            []string{ClassPhysics},
		RegisterDate:       "2024-03-01",
		RegistrationFee:    2000,
		RegistrationType:   RegistrationOnline,
		Status:             StatusPending,
		PaymentReceipt:     "data:image/png;base64,iVBORw0KGgo=",
		PaymentReceiptName: "receipt.png",
	}

	body, err := json.Marshal(student)
	assert.NoError(t, err)

	var fields map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &fields))

	assert.NotContains(t, fields, "paymentReceipt")
	assert.NotContains(t, string(body), student.PaymentReceipt)
	assert.Equal(t, "receipt.png", fields["paymentReceiptName"])
	assert.Equal(t, "kasun@example.com", fields["email"])
	assert.Equal(t, "pending", fields["status"])
}

func TestStudentJSONOmitsEmptyRegistrationType(t *testing.T) {
	body, err := json.Marshal(Student{FirstName: "Walk", LastName: "In"})
	assert.NoError(t, err)

	var fields map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &fields))

	assert.NotContains(t, fields, "registrationType")
	assert.NotContains(t, fields, "status")
	assert.NotContains(t, fields, "paymentReceiptName")
}

func TestAdminJSONOmitsPasswordHash(t *testing.T) {
	body, err := json.Marshal(Admin{ID: 1, Username: "admin", PasswordHash: "$2a$10$abc"})
	assert.NoError(t, err)

	var fields map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &fields))

	assert.NotContains(t, fields, "PasswordHash")
	assert.NotContains(t, string(body), "$2a$10$abc")
	assert.Equal(t, "admin", fields["username"])
}
