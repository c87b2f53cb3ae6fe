package dto

import "time"

type CreateApplicationRequest struct {
	JobID          string  `json:"job_id" validate:"required,uuid"`
	CoverLetter    string  `json:"cover_letter" validate:"required,min=20,max=5000"`
	ProposedRate   float64 `json:"proposed_rate" validate:"required,gt=0"`
	EstimatedHours *int    `json:"estimated_hours" validate:"omitempty,gt=0"`
}

type ApplicationResponse struct {
	ID             string    `json:"id"`
	JobID          string    `json:"job_id"`
	JobTitle       string    `json:"job_title,omitempty"`
	FreelancerID   string    `json:"freelancer_id"`
	FreelancerName string    `json:"freelancer_name,omitempty"`
	CoverLetter    string    `json:"cover_letter"`
	ProposedRate   float64   `json:"proposed_rate"`
	EstimatedHours *int      `json:"estimated_hours,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
