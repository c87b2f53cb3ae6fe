package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v81"
)

func TestAccountStatusOf(t *testing.T) {
	t.Parallel()

	// Статус connected дается по charges_enabled: выплаты Stripe
	// может включить позже, на онбординг это уже не влияет
	assert.Equal(t, AccountConnected, accountStatusOf(&stripe.Account{ChargesEnabled: true}))
	assert.Equal(t, AccountConnected, accountStatusOf(&stripe.Account{ChargesEnabled: true, PayoutsEnabled: true}))

	assert.Equal(t, AccountPending, accountStatusOf(&stripe.Account{}))
	assert.Equal(t, AccountPending, accountStatusOf(&stripe.Account{PayoutsEnabled: true}))
}
