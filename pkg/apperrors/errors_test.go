package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	appErr := ErrPaymentProvider(cause, "Failed to create payment intent")

	assert.True(t, Is(appErr, cause), "обернутая причина должна находиться через errors.Is")
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	t.Parallel()

	appErr, ok := AsAppError(ErrInsufficientPermissions)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode)
	assert.Equal(t, "auth", appErr.Domain)

	_, ok = AsAppError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestDomainFactories(t *testing.T) {
	t.Parallel()

	notFound := NewNotFoundError("contract")
	assert.Equal(t, http.StatusNotFound, notFound.HTTPCode)

	invalid := ErrInvalidStatus("payments", "Payment cannot be released")
	assert.Equal(t, http.StatusBadRequest, invalid.HTTPCode)
	assert.Equal(t, "payments", invalid.Domain)

	assert.Equal(t, http.StatusServiceUnavailable, ErrPaymentsNotConfigured.HTTPCode)
	assert.Equal(t, http.StatusServiceUnavailable, ErrAINotConfigured.HTTPCode)
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := NewBadRequestError("Validation failed").WithDetails(map[string]string{"email": "Invalid email format"})
	assert.NotNil(t, err.Details)
}
