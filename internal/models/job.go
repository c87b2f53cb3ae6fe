package models

import "gorm.io/datatypes"

type Job struct {
	BaseModel
	ClientID       string         `gorm:"not null;index" json:"client_id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `gorm:"not null" json:"description"`
	BudgetMin      *float64       `json:"budget_min,omitempty"`
	BudgetMax      *float64       `json:"budget_max,omitempty"`
	Timeline       string         `json:"timeline"` // "2 weeks", "1 month"
	RequiredSkills datatypes.JSON `gorm:"type:jsonb" json:"required_skills"`
	Status         JobStatus      `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	// Embedding описания для матчинга с фрилансерами
	Embedding datatypes.JSON `gorm:"type:jsonb" json:"-"`

	// Relations
	Client       *User         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Applications []Application `gorm:"foreignKey:JobID" json:"applications,omitempty"`
}
