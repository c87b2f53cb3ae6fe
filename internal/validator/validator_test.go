package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=client freelancer"`
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(registerForm{
		Email:    "user@example.com",
		Password: "password123",
		Role:     "client",
	})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(registerForm{
		Email:    "not-an-email",
		Password: "short",
		Role:     "superuser",
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)

	// Ключи - json-имена полей, не Go-имена
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "password")
	assert.Contains(t, vErr.Errors, "role")
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, vErr.Errors["role"], "client, freelancer")
}

func TestValidate_RequiredMessage(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(registerForm{})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", vErr.Errors["email"])
}
