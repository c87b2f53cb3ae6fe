package services

import (
	"context"
	"encoding/json"

	"talentlink_backend/internal/ai"
	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"
)

const matchLimit = 10

type AIService interface {
	GenerateJobDescription(ctx context.Context, actor auth.Actor, req *dto.GenerateJobDescriptionRequest) (*dto.GeneratedTextResponse, error)
	GenerateProposal(ctx context.Context, actor auth.Actor, req *dto.GenerateProposalRequest) (*dto.GeneratedTextResponse, error)
	GenerateBio(ctx context.Context, actor auth.Actor, req *dto.GenerateBioRequest) (*dto.GeneratedTextResponse, error)
	MatchFreelancers(ctx context.Context, actor auth.Actor, jobID string) (*dto.FreelancerMatchResponse, error)
	MatchJobs(ctx context.Context, actor auth.Actor) (*dto.JobMatchResponse, error)
}

type AIServiceImpl struct {
	client   ai.Client
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
}

func NewAIService(client ai.Client, jobRepo repositories.JobRepository, userRepo repositories.UserRepository) AIService {
	return &AIServiceImpl{
		client:   client,
		jobRepo:  jobRepo,
		userRepo: userRepo,
	}
}

func (s *AIServiceImpl) GenerateJobDescription(ctx context.Context, actor auth.Actor, req *dto.GenerateJobDescriptionRequest) (*dto.GeneratedTextResponse, error) {
	if !s.client.Enabled() {
		return nil, apperrors.ErrAINotConfigured
	}
	if !actor.IsClient() && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	system, user := ai.JobDescriptionPrompt(req.Title, req.Brief, req.Skills)
	text, err := s.client.GenerateText(ctx, system, user)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ai", "Failed to generate text", 502)
	}
	return &dto.GeneratedTextResponse{Text: text}, nil
}

func (s *AIServiceImpl) GenerateProposal(ctx context.Context, actor auth.Actor, req *dto.GenerateProposalRequest) (*dto.GeneratedTextResponse, error) {
	if !s.client.Enabled() {
		return nil, apperrors.ErrAINotConfigured
	}
	if !actor.IsFreelancer() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	job, err := s.jobRepo.FindByID(req.JobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.NewNotFoundError("job")
		}
		return nil, apperrors.InternalError(err)
	}

	bio := ""
	if profile, err := s.userRepo.FindProfileByUserID(actor.ID); err == nil {
		bio = profile.Bio
	}

	system, user := ai.ProposalPrompt(job.Title, job.Description, bio)
	text, err := s.client.GenerateText(ctx, system, user)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ai", "Failed to generate text", 502)
	}
	return &dto.GeneratedTextResponse{Text: text}, nil
}

func (s *AIServiceImpl) GenerateBio(ctx context.Context, actor auth.Actor, req *dto.GenerateBioRequest) (*dto.GeneratedTextResponse, error) {
	if !s.client.Enabled() {
		return nil, apperrors.ErrAINotConfigured
	}

	profile, err := s.userRepo.FindProfileByUserID(actor.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.NewNotFoundError("profile")
		}
		return nil, apperrors.InternalError(err)
	}

	var skills []string
	if len(profile.Skills) > 0 {
		json.Unmarshal(profile.Skills, &skills)
	}

	system, user := ai.ProfileBioPrompt(profile.FullName, skills, req.Notes)
	text, err := s.client.GenerateText(ctx, system, user)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "ai", "Failed to generate text", 502)
	}
	return &dto.GeneratedTextResponse{Text: text}, nil
}

// MatchFreelancers ранжирует фрилансеров по близости эмбеддингов к вакансии.
func (s *AIServiceImpl) MatchFreelancers(ctx context.Context, actor auth.Actor, jobID string) (*dto.FreelancerMatchResponse, error) {
	if !s.client.Enabled() {
		return nil, apperrors.ErrAINotConfigured
	}

	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.NewNotFoundError("job")
		}
		return nil, apperrors.InternalError(err)
	}
	if job.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	query, err := ai.DecodeEmbedding(job.Embedding)
	if err != nil || len(query) == 0 {
		return nil, apperrors.ErrInvalidOperation("ai", "Job has no embedding yet, update the job first")
	}

	profiles, err := s.userRepo.FindFreelancerProfiles(1000, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	candidates := make(map[string][]float32, len(profiles))
	for i := range profiles {
		emb, err := ai.DecodeEmbedding(profiles[i].Embedding)
		if err != nil || len(emb) == 0 {
			continue
		}
		candidates[profiles[i].UserID] = emb
	}

	matches := ai.RankBySimilarity(query, candidates, matchLimit)
	resp := &dto.FreelancerMatchResponse{JobID: jobID, Matches: make([]dto.MatchItem, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, dto.MatchItem{ID: m.ID, Score: m.Score})
	}
	return resp, nil
}

// MatchJobs ранжирует открытые вакансии под профиль фрилансера.
func (s *AIServiceImpl) MatchJobs(ctx context.Context, actor auth.Actor) (*dto.JobMatchResponse, error) {
	if !s.client.Enabled() {
		return nil, apperrors.ErrAINotConfigured
	}
	if !actor.IsFreelancer() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	profile, err := s.userRepo.FindProfileByUserID(actor.ID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.NewNotFoundError("profile")
		}
		return nil, apperrors.InternalError(err)
	}

	query, err := ai.DecodeEmbedding(profile.Embedding)
	if err != nil || len(query) == 0 {
		return nil, apperrors.ErrInvalidOperation("ai", "Profile has no embedding yet, update your profile first")
	}

	jobs, err := s.jobRepo.FindOpenJobs(1000, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	candidates := make(map[string][]float32, len(jobs))
	for i := range jobs {
		emb, err := ai.DecodeEmbedding(jobs[i].Embedding)
		if err != nil || len(emb) == 0 {
			continue
		}
		candidates[jobs[i].ID] = emb
	}

	matches := ai.RankBySimilarity(query, candidates, matchLimit)
	resp := &dto.JobMatchResponse{Matches: make([]dto.MatchItem, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, dto.MatchItem{ID: m.ID, Score: m.Score})
	}
	return resp, nil
}
