package services

import (
	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/payments"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"
)

type ContractService interface {
	CreateFromApplication(actor auth.Actor, req *dto.CreateContractRequest) (*dto.ContractResponse, error)
	Get(actor auth.Actor, contractID string) (*dto.ContractResponse, error)
	List(actor auth.Actor, page, pageSize int) ([]dto.ContractResponse, error)
	Cancel(actor auth.Actor, contractID string) error
}

type ContractServiceImpl struct {
	contractRepo        repositories.ContractRepository
	applicationRepo     repositories.ApplicationRepository
	jobRepo             repositories.JobRepository
	notificationService NotificationService
}

func NewContractService(
	contractRepo repositories.ContractRepository,
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	notificationService NotificationService,
) ContractService {
	return &ContractServiceImpl{
		contractRepo:        contractRepo,
		applicationRepo:     applicationRepo,
		jobRepo:             jobRepo,
		notificationService: notificationService,
	}
}

// CreateFromApplication принимает отклик и создает контракт с вехами.
// Сумма контракта - сумма вех, комиссия платформы фиксируется при создании.
func (s *ContractServiceImpl) CreateFromApplication(actor auth.Actor, req *dto.CreateContractRequest) (*dto.ContractResponse, error) {
	application, err := s.applicationRepo.FindByID(req.ApplicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.NewNotFoundError("application")
		}
		return nil, apperrors.InternalError(err)
	}

	job := application.Job
	if job == nil {
		return nil, apperrors.NewNotFoundError("job")
	}
	if job.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if application.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrInvalidStatus("contracts", "Application has already been processed")
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrInvalidStatus("contracts", "Job is no longer open")
	}

	// По одной вакансии заключается один контракт
	if _, err := s.contractRepo.FindByJob(job.ID); err == nil {
		return nil, apperrors.ErrConflict(nil, "contracts", "Job already has a contract")
	} else if !apperrors.Is(err, repositories.ErrContractNotFound) {
		return nil, apperrors.InternalError(err)
	}

	var total float64
	milestones := make([]models.Milestone, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		total += m.Amount
		milestones = append(milestones, models.Milestone{
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			DueDate:     m.DueDate,
			Status:      models.MilestoneStatusPending,
		})
	}

	contract := &models.Contract{
		JobID:        job.ID,
		ClientID:     job.ClientID,
		FreelancerID: application.FreelancerID,
		TotalAmount:  total,
		PlatformFee:  payments.PlatformFee(total),
		Status:       models.ContractStatusActive,
		Milestones:   milestones,
	}

	if err := s.contractRepo.Create(contract); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Отклик принят, остальные отклоняются, вакансия уходит в работу
	if err := s.applicationRepo.UpdateStatus(application.ID, models.ApplicationStatusAccepted); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.applicationRepo.RejectOthers(job.ID, application.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.jobRepo.UpdateStatus(job.ID, models.JobStatusInProgress); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.Notify(application.FreelancerID, NotificationContractCreated,
		"Application accepted",
		"Your application for \""+job.Title+"\" was accepted. A contract has been created.",
		map[string]interface{}{"contract_id": contract.ID, "job_id": job.ID})

	resp := toContractResponse(contract)
	resp.JobTitle = job.Title
	return &resp, nil
}

// Get - контракт видят только его стороны и админ.
func (s *ContractServiceImpl) Get(actor auth.Actor, contractID string) (*dto.ContractResponse, error) {
	contract, err := s.findVisibleContract(actor, contractID)
	if err != nil {
		return nil, err
	}

	resp := toContractResponse(contract)
	return &resp, nil
}

func (s *ContractServiceImpl) List(actor auth.Actor, page, pageSize int) ([]dto.ContractResponse, error) {
	contracts, err := s.contractRepo.FindByUser(actor.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ContractResponse, 0, len(contracts))
	for i := range contracts {
		responses = append(responses, toContractResponse(&contracts[i]))
	}
	return responses, nil
}

// Cancel отменяет контракт, пока по нему нет захолдированных средств.
// Возвраты по оплаченным вехам идут через refund.
func (s *ContractServiceImpl) Cancel(actor auth.Actor, contractID string) error {
	contract, err := s.findVisibleContract(actor, contractID)
	if err != nil {
		return err
	}

	if contract.ClientID != actor.ID && !actor.IsAdmin() {
		return apperrors.ErrInsufficientPermissions
	}
	if contract.Status != models.ContractStatusActive {
		return apperrors.ErrInvalidStatus("contracts", "Only active contracts can be cancelled")
	}
	for _, m := range contract.Milestones {
		if m.Status == models.MilestoneStatusInEscrow || m.Status == models.MilestoneStatusReleased {
			return apperrors.ErrInvalidStatus("contracts", "Contract has funded milestones, refund them first")
		}
	}

	if err := s.contractRepo.UpdateStatus(contractID, models.ContractStatusCancelled); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.jobRepo.UpdateStatus(contract.JobID, models.JobStatusCancelled); err != nil {
		return apperrors.InternalError(err)
	}

	s.notificationService.Notify(contract.FreelancerID, NotificationContractCreated,
		"Contract cancelled",
		"The contract has been cancelled by the client.",
		map[string]interface{}{"contract_id": contract.ID})
	return nil
}

func (s *ContractServiceImpl) findVisibleContract(actor auth.Actor, contractID string) (*models.Contract, error) {
	contract, err := s.contractRepo.FindByID(contractID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrContractNotFound) {
			return nil, apperrors.NewNotFoundError("contract")
		}
		return nil, apperrors.InternalError(err)
	}
	if contract.ClientID != actor.ID && contract.FreelancerID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return contract, nil
}

func toContractResponse(c *models.Contract) dto.ContractResponse {
	resp := dto.ContractResponse{
		ID:           c.ID,
		JobID:        c.JobID,
		ClientID:     c.ClientID,
		FreelancerID: c.FreelancerID,
		TotalAmount:  c.TotalAmount,
		PlatformFee:  c.PlatformFee,
		Status:       string(c.Status),
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
	}
	if c.Job != nil {
		resp.JobTitle = c.Job.Title
	}
	if c.Client != nil && c.Client.Profile != nil {
		resp.ClientName = c.Client.Profile.FullName
	}
	if c.Freelancer != nil && c.Freelancer.Profile != nil {
		resp.FreelancerName = c.Freelancer.Profile.FullName
	}
	for _, m := range c.Milestones {
		resp.Milestones = append(resp.Milestones, dto.MilestoneResponse{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			DueDate:     m.DueDate,
			Status:      string(m.Status),
			ReleasedAt:  m.ReleasedAt,
		})
	}
	return resp
}
