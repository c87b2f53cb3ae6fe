package models

import "gorm.io/datatypes"

type Profile struct {
	BaseModel
	UserID     string         `gorm:"not null;uniqueIndex" json:"user_id"`
	FullName   string         `json:"full_name"`
	Bio        string         `json:"bio"`
	AvatarURL  string         `json:"avatar_url"`
	HourlyRate *float64       `json:"hourly_rate,omitempty"`
	Location   string         `json:"location"`
	Skills     datatypes.JSON `gorm:"type:jsonb" json:"skills"` // ["Go", "React", ...]

	// Embedding профиля для семантического матчинга (JSON-массив float64).
	// Генерируется из bio + skills через embeddings API.
	Embedding datatypes.JSON `gorm:"type:jsonb" json:"-"`
}
