package dto

type GenerateJobDescriptionRequest struct {
	Title  string   `json:"title" validate:"required,min=5,max=200"`
	Brief  string   `json:"brief" validate:"omitempty,max=2000"`
	Skills []string `json:"skills" validate:"omitempty,max=30,dive,min=1,max=50"`
}

type GenerateProposalRequest struct {
	JobID string `json:"job_id" validate:"required,uuid"`
}

type GenerateBioRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

type GeneratedTextResponse struct {
	Text string `json:"text"`
}

type MatchItem struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type FreelancerMatchResponse struct {
	JobID   string      `json:"job_id"`
	Matches []MatchItem `json:"matches"`
}

type JobMatchResponse struct {
	Matches []MatchItem `json:"matches"`
}
