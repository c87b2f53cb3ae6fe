package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusTransitions(t *testing.T) {
	t.Parallel()

	// pending: подтверждение, отказ или отмена холда
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusCaptured))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusReleased))

	// captured: выплата или возврат
	assert.True(t, PaymentStatusCaptured.CanTransitionTo(PaymentStatusReleased))
	assert.True(t, PaymentStatusCaptured.CanTransitionTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusCaptured.CanTransitionTo(PaymentStatusPending))

	// терминальные состояния
	for _, terminal := range []PaymentStatus{PaymentStatusReleased, PaymentStatusRefunded, PaymentStatusFailed} {
		for _, next := range []PaymentStatus{PaymentStatusPending, PaymentStatusCaptured, PaymentStatusReleased, PaymentStatusRefunded, PaymentStatusFailed} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s должен быть запрещен", terminal, next)
		}
	}
}

func TestParseUserRole(t *testing.T) {
	t.Parallel()

	role, err := ParseUserRole("client")
	assert.NoError(t, err)
	assert.Equal(t, UserRoleClient, role)

	_, err = ParseUserRole("superuser")
	assert.Error(t, err, "роли вне закрытого множества отклоняются")
}
