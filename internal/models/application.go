package models

type Application struct {
	BaseModel
	JobID          string            `gorm:"not null;index;uniqueIndex:idx_applications_job_freelancer" json:"job_id"`
	FreelancerID   string            `gorm:"not null;index;uniqueIndex:idx_applications_job_freelancer" json:"freelancer_id"`
	CoverLetter    string            `gorm:"not null" json:"cover_letter"`
	ProposedRate   float64           `gorm:"not null" json:"proposed_rate"`
	EstimatedHours *int              `json:"estimated_hours,omitempty"`
	Status         ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// Relations
	Job        *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}
