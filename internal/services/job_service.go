package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"talentlink_backend/internal/ai"
	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/cache"
	"talentlink_backend/internal/logger"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

const jobListCacheTTL = 30 * time.Second

type JobService interface {
	Create(actor auth.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	Update(actor auth.Actor, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	Get(jobID string) (*dto.JobResponse, error)
	List(query dto.JobListQuery) (*dto.JobListResponse, error)
	MyJobs(actor auth.Actor, page, pageSize int) ([]dto.JobResponse, error)
	Delete(actor auth.Actor, jobID string) error
}

type JobServiceImpl struct {
	jobRepo         repositories.JobRepository
	applicationRepo repositories.ApplicationRepository
	cache           *cache.Cache
	aiClient        ai.Client
}

func NewJobService(
	jobRepo repositories.JobRepository,
	applicationRepo repositories.ApplicationRepository,
	c *cache.Cache,
	aiClient ai.Client,
) JobService {
	return &JobServiceImpl{
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		cache:           c,
		aiClient:        aiClient,
	}
}

// Create - размещение вакансии. Только клиенты.
func (s *JobServiceImpl) Create(actor auth.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if !actor.IsClient() && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return nil, apperrors.NewBadRequestError("budget_min cannot exceed budget_max")
	}

	job := &models.Job{
		ClientID:    actor.ID,
		Title:       req.Title,
		Description: req.Description,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Timeline:    req.Timeline,
		Status:      models.JobStatusDraft,
	}
	if req.Publish {
		job.Status = models.JobStatusOpen
	}
	if req.RequiredSkills != nil {
		skills, err := json.Marshal(req.RequiredSkills)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		job.RequiredSkills = datatypes.JSON(skills)
	}

	if err := s.jobRepo.Create(job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.refreshJobEmbedding(job)
	s.invalidateListCache()

	resp := s.toJobResponse(job)
	return &resp, nil
}

// Update - редактирование вакансии владельцем или админом.
func (s *JobServiceImpl) Update(actor auth.Actor, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.findOwnedJob(actor, jobID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.BudgetMin != nil {
		job.BudgetMin = req.BudgetMin
	}
	if req.BudgetMax != nil {
		job.BudgetMax = req.BudgetMax
	}
	if req.Timeline != "" {
		job.Timeline = req.Timeline
	}
	if req.RequiredSkills != nil {
		skills, err := json.Marshal(req.RequiredSkills)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		job.RequiredSkills = datatypes.JSON(skills)
	}
	if req.Status != "" {
		next := models.JobStatus(req.Status)
		// Завершение и отмена управляются контрактом, не руками
		if next == models.JobStatusInProgress || next == models.JobStatusCompleted {
			return nil, apperrors.ErrInvalidStatus("job", "Job status is managed by its contract")
		}
		job.Status = next
	}

	if err := s.jobRepo.Update(job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.refreshJobEmbedding(job)
	s.invalidateListCache()

	resp := s.toJobResponse(job)
	return &resp, nil
}

func (s *JobServiceImpl) Get(jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.NewNotFoundError("job")
		}
		return nil, apperrors.InternalError(err)
	}

	resp := s.toJobResponse(job)
	return &resp, nil
}

// List возвращает опубликованные вакансии. Первая страница без фильтров
// кэшируется: это самый горячий запрос маркетплейса.
func (s *JobServiceImpl) List(query dto.JobListQuery) (*dto.JobListResponse, error) {
	ctx := context.Background()
	cacheable := query.Search == "" && query.BudgetMin == nil && query.BudgetMax == nil
	cacheKey := fmt.Sprintf("jobs:list:%s:%d:%d", query.Status, query.Page, query.PageSize)

	if cacheable {
		var cached dto.JobListResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	status := models.JobStatusOpen
	if query.Status != "" {
		status = models.JobStatus(query.Status)
	}

	jobs, total, err := s.jobRepo.FindWithFilter(repositories.JobFilter{
		Status:    status,
		Search:    query.Search,
		BudgetMin: query.BudgetMin,
		BudgetMax: query.BudgetMax,
		Page:      query.Page,
		PageSize:  query.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.JobListResponse{
		Jobs:     make([]dto.JobResponse, 0, len(jobs)),
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, s.toJobResponse(&jobs[i]))
	}

	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, resp, jobListCacheTTL); err != nil {
			logger.Warn("Failed to cache job list", "error", err)
		}
	}
	return resp, nil
}

func (s *JobServiceImpl) MyJobs(actor auth.Actor, page, pageSize int) ([]dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindByClient(actor.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, s.toJobResponse(&jobs[i]))
	}
	return responses, nil
}

func (s *JobServiceImpl) Delete(actor auth.Actor, jobID string) error {
	job, err := s.findOwnedJob(actor, jobID)
	if err != nil {
		return err
	}

	// Вакансию с активным контрактом удалять нельзя
	if job.Status == models.JobStatusInProgress {
		return apperrors.ErrInvalidStatus("job", "Cannot delete a job with an active contract")
	}

	if err := s.jobRepo.Delete(jobID); err != nil {
		return apperrors.InternalError(err)
	}
	s.invalidateListCache()
	return nil
}

func (s *JobServiceImpl) findOwnedJob(actor auth.Actor, jobID string) (*models.Job, error) {
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
	return job, nil
}

func (s *JobServiceImpl) invalidateListCache() {
	if err := s.cache.DeleteByPattern(context.Background(), "jobs:list:*"); err != nil {
		logger.Warn("Failed to invalidate job list cache", "error", err)
	}
}

func (s *JobServiceImpl) refreshJobEmbedding(job *models.Job) {
	if s.aiClient == nil || !s.aiClient.Enabled() {
		return
	}

	text := ai.EmbeddingText(job.Title, job.Description, string(job.RequiredSkills))
	emb, err := s.aiClient.Embed(context.Background(), text)
	if err != nil {
		logger.Warn("Failed to embed job", "job_id", job.ID, "error", err)
		return
	}

	data, err := ai.EncodeEmbedding(emb)
	if err != nil {
		return
	}
	if err := s.jobRepo.UpdateEmbedding(job.ID, data); err != nil {
		logger.Warn("Failed to store job embedding", "job_id", job.ID, "error", err)
	}
}

func (s *JobServiceImpl) toJobResponse(job *models.Job) dto.JobResponse {
	resp := dto.JobResponse{
		ID:          job.ID,
		ClientID:    job.ClientID,
		Title:       job.Title,
		Description: job.Description,
		BudgetMin:   job.BudgetMin,
		BudgetMax:   job.BudgetMax,
		Timeline:    job.Timeline,
		Status:      string(job.Status),
		CreatedAt:   job.CreatedAt,
	}
	if len(job.RequiredSkills) > 0 {
		json.Unmarshal(job.RequiredSkills, &resp.RequiredSkills)
	}
	if job.Client != nil && job.Client.Profile != nil {
		resp.ClientName = job.Client.Profile.FullName
	}
	if count, err := s.applicationRepo.CountByJob(job.ID); err == nil {
		resp.Applications = count
	}
	return resp
}
