package models

import "time"

type Payment struct {
	BaseModel
	PayerID     string  `gorm:"not null;index" json:"payer_id"`
	ContractID  string  `gorm:"not null;index" json:"contract_id"`
	MilestoneID *string `gorm:"index" json:"milestone_id,omitempty"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Fee         float64 `json:"fee"`

	Status PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Type   PaymentType   `gorm:"type:varchar(20);not null" json:"type"`

	// StripePaymentIntentID - внешний ключ корреляции с леджером процессора.
	// Уникален: один intent - одна локальная запись.
	StripePaymentIntentID string `gorm:"uniqueIndex;default:null" json:"stripe_payment_intent_id,omitempty"`

	// StripeTransferID заполняется при release
	StripeTransferID string `json:"stripe_transfer_id,omitempty"`

	// CapturedAt ставится после фактического списания средств у процессора.
	// Пока поле пустое, деньги лежат холдом и возврат делается отменой интента.
	CapturedAt *time.Time `json:"captured_at,omitempty"`
}
