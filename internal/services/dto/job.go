package dto

import "time"

type CreateJobRequest struct {
	Title          string   `json:"title" validate:"required,min=5,max=200"`
	Description    string   `json:"description" validate:"required,min=20"`
	BudgetMin      *float64 `json:"budget_min" validate:"omitempty,gt=0"`
	BudgetMax      *float64 `json:"budget_max" validate:"omitempty,gt=0"`
	Timeline       string   `json:"timeline" validate:"omitempty,max=100"`
	RequiredSkills []string `json:"required_skills" validate:"omitempty,max=30,dive,min=1,max=50"`
	Publish        bool     `json:"publish"`
}

type UpdateJobRequest struct {
	Title          string   `json:"title" validate:"omitempty,min=5,max=200"`
	Description    string   `json:"description" validate:"omitempty,min=20"`
	BudgetMin      *float64 `json:"budget_min" validate:"omitempty,gt=0"`
	BudgetMax      *float64 `json:"budget_max" validate:"omitempty,gt=0"`
	Timeline       string   `json:"timeline" validate:"omitempty,max=100"`
	RequiredSkills []string `json:"required_skills" validate:"omitempty,max=30,dive,min=1,max=50"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft open in_progress completed cancelled"`
}

type JobResponse struct {
	ID             string           `json:"id"`
	ClientID       string           `json:"client_id"`
	ClientName     string           `json:"client_name,omitempty"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	BudgetMin      *float64         `json:"budget_min,omitempty"`
	BudgetMax      *float64         `json:"budget_max,omitempty"`
	Timeline       string           `json:"timeline,omitempty"`
	RequiredSkills []string         `json:"required_skills,omitempty"`
	Status         string           `json:"status"`
	Applications   int64            `json:"applications_count"`
	CreatedAt      time.Time        `json:"created_at"`
}

type JobListQuery struct {
	Status    string
	Search    string
	BudgetMin *float64
	BudgetMax *float64
	Page      int
	PageSize  int
}

type JobListResponse struct {
	Jobs     []JobResponse `json:"jobs"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
