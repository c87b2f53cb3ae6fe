package dto

import "time"

// Платежные эндпоинты отдают camelCase: так их ждет фронтенд.

type CreatePaymentRequest struct {
	ContractID  string `json:"contractId" validate:"required,uuid"`
	MilestoneID string `json:"milestoneId" validate:"omitempty,uuid"`
}

type PaymentIntentResponse struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
}

type ConnectResponse struct {
	URL       string `json:"url"`
	AccountID string `json:"accountId"`
}

type ConnectStatusResponse struct {
	Status string `json:"status"`
	// null, пока аккаунт для выплат не создан
	StripeAccountID *string `json:"stripeAccountId"`
}

type RefundRequest struct {
	PaymentID string `json:"paymentId" validate:"required,uuid"`
	// Amount задает частичный возврат; без него возвращается вся сумма
	Amount *float64 `json:"amount" validate:"omitempty,gt=0"`
	Reason string   `json:"reason" validate:"omitempty,max=500"`
}

type PaymentResponse struct {
	ID          string    `json:"id"`
	ContractID  string    `json:"contractId"`
	MilestoneID *string   `json:"milestoneId,omitempty"`
	Amount      float64   `json:"amount"`
	Fee         float64   `json:"fee"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ReleaseResponse struct {
	Payment    PaymentResponse `json:"payment"`
	TransferID string          `json:"transferId"`
	Payout     float64         `json:"payout"`
}
