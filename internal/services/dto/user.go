package dto

import "time"

type UserResponse struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	Role            string           `json:"role"`
	IsVerified      bool             `json:"is_verified"`
	StripeConnected bool             `json:"stripe_connected"`
	Profile         *ProfileResponse `json:"profile,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type ProfileResponse struct {
	FullName   string   `json:"full_name"`
	Bio        string   `json:"bio,omitempty"`
	AvatarURL  string   `json:"avatar_url,omitempty"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Rating     float64  `json:"rating"`
	ReviewsNum int64    `json:"reviews_count"`
}

type UpdateProfileRequest struct {
	FullName   string   `json:"full_name" validate:"omitempty,min=2,max=100"`
	Bio        string   `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL  string   `json:"avatar_url" validate:"omitempty,url"`
	HourlyRate *float64 `json:"hourly_rate" validate:"omitempty,gt=0"`
	Location   string   `json:"location" validate:"omitempty,max=100"`
	Skills     []string `json:"skills" validate:"omitempty,max=30,dive,min=1,max=50"`
}
