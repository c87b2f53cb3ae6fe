package models

import "time"

// Message - прямое сообщение между двумя пользователями.
// "Диалог" не хранится: он вычисляется как все сообщения между
// неупорядоченной парой пользователей.
type Message struct {
	BaseModel
	SenderID      string     `gorm:"not null;index" json:"sender_id"`
	RecipientID   string     `gorm:"not null;index" json:"recipient_id"`
	Content       string     `gorm:"not null" json:"content"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	ReadAt        *time.Time `json:"read_at,omitempty"`

	// Relations
	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}
