package dto

import "time"

type SendMessageRequest struct {
	RecipientID   string `json:"recipient_id" validate:"required,uuid"`
	Content       string `json:"content" validate:"required,min=1,max=5000"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

type MessageResponse struct {
	ID            string     `json:"id"`
	SenderID      string     `json:"sender_id"`
	SenderName    string     `json:"sender_name,omitempty"`
	RecipientID   string     `json:"recipient_id"`
	Content       string     `json:"content"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ConversationResponse - производное представление диалога: отдельной
// таблицы диалогов нет, переписка группируется по собеседнику.
type ConversationResponse struct {
	PartnerID     string    `json:"partner_id"`
	PartnerName   string    `json:"partner_name,omitempty"`
	PartnerAvatar string    `json:"partner_avatar,omitempty"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
}
