package services

import (
	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"
)

type ApplicationService interface {
	Apply(actor auth.Actor, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	ListByJob(actor auth.Actor, jobID string, page, pageSize int) ([]dto.ApplicationResponse, error)
	MyApplications(actor auth.Actor, page, pageSize int) ([]dto.ApplicationResponse, error)
	Withdraw(actor auth.Actor, applicationID string) error
	Reject(actor auth.Actor, applicationID string) error
}

type ApplicationServiceImpl struct {
	applicationRepo     repositories.ApplicationRepository
	jobRepo             repositories.JobRepository
	notificationService NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	notificationService NotificationService,
) ApplicationService {
	return &ApplicationServiceImpl{
		applicationRepo:     applicationRepo,
		jobRepo:             jobRepo,
		notificationService: notificationService,
	}
}

// Apply - отклик фрилансера на вакансию.
func (s *ApplicationServiceImpl) Apply(actor auth.Actor, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
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

	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrInvalidStatus("applications", "Job is not accepting applications")
	}
	if job.ClientID == actor.ID {
		return nil, apperrors.ErrInvalidOperation("applications", "Cannot apply to your own job")
	}

	application := &models.Application{
		JobID:          req.JobID,
		FreelancerID:   actor.ID,
		CoverLetter:    req.CoverLetter,
		ProposedRate:   req.ProposedRate,
		EstimatedHours: req.EstimatedHours,
		Status:         models.ApplicationStatusPending,
	}

	if err := s.applicationRepo.Create(application); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateApplication) {
			return nil, apperrors.ErrConflict(err, "applications", "You have already applied to this job")
		}
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.Notify(job.ClientID, NotificationApplicationReceived,
		"New application",
		"You received a new application for \""+job.Title+"\"",
		map[string]interface{}{"job_id": job.ID, "application_id": application.ID})

	resp := toApplicationResponse(application)
	resp.JobTitle = job.Title
	return &resp, nil
}

// ListByJob - отклики на вакансию. Доступно владельцу и админу.
func (s *ApplicationServiceImpl) ListByJob(actor auth.Actor, jobID string, page, pageSize int) ([]dto.ApplicationResponse, error) {
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

	applications, err := s.applicationRepo.FindByJob(jobID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		resp := toApplicationResponse(&applications[i])
		resp.JobTitle = job.Title
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *ApplicationServiceImpl) MyApplications(actor auth.Actor, page, pageSize int) ([]dto.ApplicationResponse, error) {
	applications, err := s.applicationRepo.FindByFreelancer(actor.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, toApplicationResponse(&applications[i]))
	}
	return responses, nil
}

// Withdraw - отзыв собственного отклика, пока он не рассмотрен.
func (s *ApplicationServiceImpl) Withdraw(actor auth.Actor, applicationID string) error {
	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.NewNotFoundError("application")
		}
		return apperrors.InternalError(err)
	}

	if application.FreelancerID != actor.ID {
		return apperrors.ErrInsufficientPermissions
	}
	if application.Status != models.ApplicationStatusPending {
		return apperrors.ErrInvalidStatus("applications", "Only pending applications can be withdrawn")
	}

	return s.applicationRepo.UpdateStatus(applicationID, models.ApplicationStatusWithdrawn)
}

// Reject - отказ клиента по отклику. Принятие откликов идет через
// создание контракта, здесь только явный отказ.
func (s *ApplicationServiceImpl) Reject(actor auth.Actor, applicationID string) error {
	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.NewNotFoundError("application")
		}
		return apperrors.InternalError(err)
	}

	job, err := s.jobRepo.FindByID(application.JobID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if job.ClientID != actor.ID && !actor.IsAdmin() {
		return apperrors.ErrInsufficientPermissions
	}
	if application.Status != models.ApplicationStatusPending {
		return apperrors.ErrInvalidStatus("applications", "Only pending applications can be rejected")
	}

	if err := s.applicationRepo.UpdateStatus(applicationID, models.ApplicationStatusRejected); err != nil {
		return apperrors.InternalError(err)
	}

	s.notificationService.Notify(application.FreelancerID, NotificationApplicationStatus,
		"Application update",
		"Your application for \""+job.Title+"\" was not selected.",
		map[string]interface{}{"job_id": job.ID, "application_id": application.ID})
	return nil
}

func toApplicationResponse(a *models.Application) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:             a.ID,
		JobID:          a.JobID,
		FreelancerID:   a.FreelancerID,
		CoverLetter:    a.CoverLetter,
		ProposedRate:   a.ProposedRate,
		EstimatedHours: a.EstimatedHours,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
	}
	if a.Job != nil {
		resp.JobTitle = a.Job.Title
	}
	if a.Freelancer != nil && a.Freelancer.Profile != nil {
		resp.FreelancerName = a.Freelancer.Profile.FullName
	}
	return resp
}
