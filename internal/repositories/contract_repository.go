package repositories

import (
	"errors"
	"time"

	"talentlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrContractNotFound  = errors.New("contract not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
)

type ContractRepository interface {
	Create(contract *models.Contract) error
	FindByID(id string) (*models.Contract, error)
	FindByUser(userID string, limit, offset int) ([]models.Contract, error)
	FindByJob(jobID string) (*models.Contract, error)
	UpdateStatus(contractID string, status models.ContractStatus) error
	CountByStatus(status models.ContractStatus) (int64, error)
	TotalVolume() (float64, error)

	// Milestone operations
	CreateMilestone(milestone *models.Milestone) error
	FindMilestoneByID(id string) (*models.Milestone, error)
	FindMilestonesByContract(contractID string) ([]models.Milestone, error)
	UpdateMilestoneStatus(milestoneID string, status models.MilestoneStatus) error
	MarkMilestoneReleased(milestoneID string) error
	AllMilestonesReleased(contractID string) (bool, error)
}

type ContractRepositoryImpl struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &ContractRepositoryImpl{db: db}
}

func (r *ContractRepositoryImpl) Create(contract *models.Contract) error {
	// Контракт создается вместе с вехами одной транзакцией
	return r.db.Create(contract).Error
}

func (r *ContractRepositoryImpl) FindByID(id string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.Preload("Job").
		Preload("Client").Preload("Client.Profile").
		Preload("Freelancer").Preload("Freelancer.Profile").
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("milestones.created_at ASC")
		}).
		First(&contract, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepositoryImpl) FindByUser(userID string, limit, offset int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.Preload("Job").Preload("Milestones").
		Where("client_id = ? OR freelancer_id = ?", userID, userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepositoryImpl) FindByJob(jobID string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.Where("job_id = ?", jobID).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepositoryImpl) UpdateStatus(contractID string, status models.ContractStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.ContractStatusCompleted {
		updates["end_date"] = time.Now()
	}

	result := r.db.Model(&models.Contract{}).Where("id = ?", contractID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContractNotFound
	}
	return nil
}

func (r *ContractRepositoryImpl) CountByStatus(status models.ContractStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Contract{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// TotalVolume возвращает сумму всех контрактов платформы.
func (r *ContractRepositoryImpl) TotalVolume() (float64, error) {
	var total float64
	err := r.db.Model(&models.Contract{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&total).Error
	return total, err
}

// Milestone operations

func (r *ContractRepositoryImpl) CreateMilestone(milestone *models.Milestone) error {
	return r.db.Create(milestone).Error
}

func (r *ContractRepositoryImpl) FindMilestoneByID(id string) (*models.Milestone, error) {
	var milestone models.Milestone
	err := r.db.First(&milestone, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, err
	}
	return &milestone, nil
}

func (r *ContractRepositoryImpl) FindMilestonesByContract(contractID string) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.db.Where("contract_id = ?", contractID).
		Order("created_at ASC").Find(&milestones).Error
	return milestones, err
}

func (r *ContractRepositoryImpl) UpdateMilestoneStatus(milestoneID string, status models.MilestoneStatus) error {
	result := r.db.Model(&models.Milestone{}).Where("id = ?", milestoneID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

func (r *ContractRepositoryImpl) MarkMilestoneReleased(milestoneID string) error {
	now := time.Now()
	result := r.db.Model(&models.Milestone{}).Where("id = ?", milestoneID).Updates(map[string]interface{}{
		"status":      models.MilestoneStatusReleased,
		"released_at": now,
		"updated_at":  now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

func (r *ContractRepositoryImpl) AllMilestonesReleased(contractID string) (bool, error) {
	var pending int64
	err := r.db.Model(&models.Milestone{}).
		Where("contract_id = ? AND status != ?", contractID, models.MilestoneStatusReleased).
		Count(&pending).Error
	if err != nil {
		return false, err
	}
	return pending == 0, nil
}
