package dto

import "time"

// MilestoneInput - веха при создании контракта.
type MilestoneInput struct {
	Title       string     `json:"title" validate:"required,min=2,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

// CreateContractRequest принимает отклик и формирует контракт с вехами.
type CreateContractRequest struct {
	ApplicationID string           `json:"application_id" validate:"required,uuid"`
	Milestones    []MilestoneInput `json:"milestones" validate:"required,min=1,max=20,dive"`
}

type MilestoneResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Amount      float64    `json:"amount"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}

type ContractResponse struct {
	ID             string              `json:"id"`
	JobID          string              `json:"job_id"`
	JobTitle       string              `json:"job_title,omitempty"`
	ClientID       string              `json:"client_id"`
	ClientName     string              `json:"client_name,omitempty"`
	FreelancerID   string              `json:"freelancer_id"`
	FreelancerName string              `json:"freelancer_name,omitempty"`
	TotalAmount    float64             `json:"total_amount"`
	PlatformFee    float64             `json:"platform_fee"`
	Status         string              `json:"status"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        *time.Time          `json:"end_date,omitempty"`
	Milestones     []MilestoneResponse `json:"milestones,omitempty"`
}
