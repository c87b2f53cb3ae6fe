package repositories

import (
	"errors"
	"time"

	"talentlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already submitted for this job")
)

type ApplicationRepository interface {
	Create(application *models.Application) error
	FindByID(id string) (*models.Application, error)
	FindByJob(jobID string, limit, offset int) ([]models.Application, error)
	FindByFreelancer(freelancerID string, limit, offset int) ([]models.Application, error)
	FindByJobAndFreelancer(jobID, freelancerID string) (*models.Application, error)
	UpdateStatus(applicationID string, status models.ApplicationStatus) error
	RejectOthers(jobID, acceptedID string) error
	CountByJob(jobID string) (int64, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(application *models.Application) error {
	// Один отклик на вакансию от одного фрилансера
	var existing models.Application
	err := r.db.Where("job_id = ? AND freelancer_id = ?", application.JobID, application.FreelancerID).
		First(&existing).Error
	if err == nil {
		return ErrDuplicateApplication
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.db.Create(application).Error
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.Application, error) {
	var application models.Application
	err := r.db.Preload("Job").Preload("Freelancer").Preload("Freelancer.Profile").
		First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByJob(jobID string, limit, offset int) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.Preload("Freelancer").Preload("Freelancer.Profile").
		Where("job_id = ?", jobID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindByFreelancer(freelancerID string, limit, offset int) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.Preload("Job").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindByJobAndFreelancer(jobID, freelancerID string) (*models.Application, error) {
	var application models.Application
	err := r.db.Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) UpdateStatus(applicationID string, status models.ApplicationStatus) error {
	result := r.db.Model(&models.Application{}).Where("id = ?", applicationID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// RejectOthers отклоняет все остальные отклики вакансии после принятия одного.
func (r *ApplicationRepositoryImpl) RejectOthers(jobID, acceptedID string) error {
	return r.db.Model(&models.Application{}).
		Where("job_id = ? AND id != ? AND status = ?", jobID, acceptedID, models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":     models.ApplicationStatusRejected,
			"updated_at": time.Now(),
		}).Error
}

func (r *ApplicationRepositoryImpl) CountByJob(jobID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Application{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}
