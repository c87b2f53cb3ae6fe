package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	IsVerified   bool     `gorm:"default:false" json:"is_verified"`

	// StripeAccountID - идентификатор connected-аккаунта фрилансера.
	// Единственный мост между нами и леджером Stripe, дубликатов быть не должно.
	StripeAccountID string `gorm:"uniqueIndex;default:null" json:"stripe_account_id,omitempty"`

	// Relations
	Profile       *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
