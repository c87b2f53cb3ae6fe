package services

import (
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"
)

type AdminService interface {
	PlatformStats() (*dto.PlatformStatsResponse, error)
	RegistrationStats() (*repositories.RegistrationStats, error)
}

type AdminServiceImpl struct {
	userRepo     repositories.UserRepository
	jobRepo      repositories.JobRepository
	contractRepo repositories.ContractRepository
	paymentRepo  repositories.PaymentRepository
}

func NewAdminService(
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	contractRepo repositories.ContractRepository,
	paymentRepo repositories.PaymentRepository,
) AdminService {
	return &AdminServiceImpl{
		userRepo:     userRepo,
		jobRepo:      jobRepo,
		contractRepo: contractRepo,
		paymentRepo:  paymentRepo,
	}
}

// PlatformStats собирает сводку для админского дашборда.
func (s *AdminServiceImpl) PlatformStats() (*dto.PlatformStatsResponse, error) {
	stats := &dto.PlatformStatsResponse{
		UsersByRole: make(map[string]int64),
	}

	total, err := s.userRepo.CountAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	stats.TotalUsers = total

	for _, role := range []models.UserRole{models.UserRoleClient, models.UserRoleFreelancer, models.UserRoleAdmin} {
		count, err := s.userRepo.CountByRole(role)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		stats.UsersByRole[string(role)] = count
	}

	if stats.TotalJobs, err = s.jobRepo.CountAll(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.OpenJobs, err = s.jobRepo.CountByStatus(models.JobStatusOpen); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.ActiveContracts, err = s.contractRepo.CountByStatus(models.ContractStatusActive); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.ContractVolume, err = s.contractRepo.TotalVolume(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.CollectedFees, err = s.paymentRepo.TotalReleasedFees(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.PendingPayments, err = s.paymentRepo.CountByStatus(models.PaymentStatusPending); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return stats, nil
}

func (s *AdminServiceImpl) RegistrationStats() (*repositories.RegistrationStats, error) {
	stats, err := s.userRepo.GetRegistrationStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}
