package repositories

import (
	"errors"
	"time"

	"talentlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id string) (*models.Job, error)
	Update(job *models.Job) error
	UpdateStatus(jobID string, status models.JobStatus) error
	UpdateEmbedding(jobID string, embedding []byte) error
	Delete(jobID string) error
	FindWithFilter(criteria JobFilter) ([]models.Job, int64, error)
	FindByClient(clientID string, limit, offset int) ([]models.Job, error)
	FindOpenJobs(limit, offset int) ([]models.Job, error)
	CountByStatus(status models.JobStatus) (int64, error)
	CountAll() (int64, error)
}

type JobFilter struct {
	Status    models.JobStatus
	ClientID  string
	Search    string
	BudgetMin *float64
	BudgetMax *float64
	Page      int
	PageSize  int
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.Preload("Client").Preload("Client.Profile").First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(job *models.Job) error {
	result := r.db.Model(job).Updates(map[string]interface{}{
		"title":           job.Title,
		"description":     job.Description,
		"budget_min":      job.BudgetMin,
		"budget_max":      job.BudgetMax,
		"timeline":        job.Timeline,
		"required_skills": job.RequiredSkills,
		"status":          job.Status,
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) UpdateStatus(jobID string, status models.JobStatus) error {
	result := r.db.Model(&models.Job{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) UpdateEmbedding(jobID string, embedding []byte) error {
	result := r.db.Model(&models.Job{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"embedding":  embedding,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(jobID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Сначала удаляем отклики, чтобы не оставлять сирот
		if err := tx.Where("job_id = ?", jobID).Delete(&models.Application{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", jobID).Delete(&models.Job{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrJobNotFound
		}
		return nil
	})
}

func (r *JobRepositoryImpl) FindWithFilter(criteria JobFilter) ([]models.Job, int64, error) {
	var jobs []models.Job
	query := r.db.Model(&models.Job{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.ClientID != "" {
		query = query.Where("client_id = ?", criteria.ClientID)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}
	if criteria.BudgetMin != nil {
		query = query.Where("budget_max >= ?", *criteria.BudgetMin)
	}
	if criteria.BudgetMax != nil {
		query = query.Where("budget_min <= ?", *criteria.BudgetMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("Client").Preload("Client.Profile").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error

	return jobs, total, err
}

func (r *JobRepositoryImpl) FindByClient(clientID string, limit, offset int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Where("client_id = ?", clientID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindOpenJobs(limit, offset int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Where("status = ?", models.JobStatusOpen).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) CountByStatus(status models.JobStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Job{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *JobRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Job{}).Count(&count).Error
	return count, err
}
