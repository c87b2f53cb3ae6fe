package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

// StripeProvider - реализация Provider поверх официального Stripe SDK.
type StripeProvider struct {
	api            *client.API
	webhookSecret  string
	accountCountry string
	baseURL        string
}

// NewStripeProvider создает провайдера. Возвращает nil, если ключ не задан:
// платежные эндпоинты в этом случае должны отвечать 503.
func NewStripeProvider(secretKey, webhookSecret, accountCountry, baseURL string) *StripeProvider {
	if secretKey == "" {
		return nil
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{
		api:            api,
		webhookSecret:  webhookSecret,
		accountCountry: accountCountry,
		baseURL:        baseURL,
	}
}

func (p *StripeProvider) CreateEscrowIntent(ctx context.Context, amount float64, contractID string) (*EscrowIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ToCents(amount)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		// Ручной capture: средства блокируются до релиза вехи.
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("contract_id", contractID)
	params.AddMetadata("type", "escrow")

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	return &EscrowIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
	}, nil
}

func (p *StripeProvider) GetIntentStatus(ctx context.Context, intentID string) (IntentStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return "", fmt.Errorf("stripe: get payment intent: %w", err)
	}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		return IntentStatusSucceeded, nil
	case stripe.PaymentIntentStatusCanceled:
		return IntentStatusCanceled, nil
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		// Сюда интент попадает и после неудачной попытки оплаты.
		if pi.LastPaymentError != nil {
			return IntentStatusFailed, nil
		}
		return IntentStatusPending, nil
	default:
		return IntentStatusPending, nil
	}
}

func (p *StripeProvider) CaptureIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	if _, err := p.api.PaymentIntents.Capture(intentID, params); err != nil {
		return fmt.Errorf("stripe: capture payment intent: %w", err)
	}
	return nil
}

func (p *StripeProvider) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String("requested_by_customer"),
	}
	params.Context = ctx
	if _, err := p.api.PaymentIntents.Cancel(intentID, params); err != nil {
		return fmt.Errorf("stripe: cancel payment intent: %w", err)
	}
	return nil
}

func (p *StripeProvider) CreateRefund(ctx context.Context, intentID string, amount *float64) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	if amount != nil {
		params.Amount = stripe.Int64(ToCents(*amount))
	}
	params.Context = ctx
	r, err := p.api.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create refund: %w", err)
	}
	return r.ID, nil
}

func (p *StripeProvider) CreateConnectedAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Country: stripe.String(p.accountCountry),
		Email:   stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	params.Context = ctx
	acc, err := p.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create connected account: %w", err)
	}
	return acc.ID, nil
}

func (p *StripeProvider) CreateAccountLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(p.baseURL + "/dashboard/settings?stripe=refresh"),
		ReturnURL:  stripe.String(p.baseURL + "/dashboard/settings?stripe=connected"),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx
	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create account link: %w", err)
	}
	return link.URL, nil
}

func (p *StripeProvider) GetAccountStatus(ctx context.Context, accountID string) (AccountStatus, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	acc, err := p.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return "", fmt.Errorf("stripe: get account: %w", err)
	}
	return accountStatusOf(acc), nil
}

// accountStatusOf отображает аккаунт Stripe в статус онбординга.
// Аккаунт считается подключенным, как только разрешен прием платежей;
// payouts_enabled может включаться позже и на статус не влияет.
func accountStatusOf(acc *stripe.Account) AccountStatus {
	if acc.ChargesEnabled {
		return AccountConnected
	}
	return AccountPending
}

func (p *StripeProvider) Transfer(ctx context.Context, amount float64, accountID, milestoneID string) (string, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(ToCents(amount)),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(accountID),
	}
	params.Context = ctx
	params.AddMetadata("milestone_id", milestoneID)

	tr, err := p.api.Transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create transfer: %w", err)
	}
	return tr.ID, nil
}

// ConstructWebhookEvent проверяет подпись и разбирает вебхук Stripe.
func (p *StripeProvider) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, p.webhookSecret)
}
