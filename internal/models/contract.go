package models

import "time"

type Contract struct {
	BaseModel
	JobID        string         `gorm:"not null;index" json:"job_id"`
	ClientID     string         `gorm:"not null;index" json:"client_id"`
	FreelancerID string         `gorm:"not null;index" json:"freelancer_id"`
	TotalAmount  float64        `gorm:"not null" json:"total_amount"`
	PlatformFee  float64        `gorm:"not null" json:"platform_fee"` // 15% от TotalAmount
	Status       ContractStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	StartDate    time.Time      `gorm:"default:now()" json:"start_date"`
	EndDate      *time.Time     `json:"end_date,omitempty"`

	// Relations
	Job        *Job        `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Client     *User       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Freelancer *User       `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
	Milestones []Milestone `gorm:"foreignKey:ContractID" json:"milestones,omitempty"`
}

type Milestone struct {
	BaseModel
	ContractID  string          `gorm:"not null;index" json:"contract_id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Amount      float64         `gorm:"not null" json:"amount"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Status      MilestoneStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReleasedAt  *time.Time      `json:"released_at,omitempty"`
}
