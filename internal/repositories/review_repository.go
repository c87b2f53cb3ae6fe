package repositories

import (
	"errors"

	"talentlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review already submitted for this contract")
)

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByID(id string) (*models.Review, error)
	FindByContract(contractID string) ([]models.Review, error)
	FindByReviewee(revieweeID string, limit, offset int) ([]models.Review, error)
	FindByContractAndReviewer(contractID, reviewerID string) (*models.Review, error)
	AverageRating(revieweeID string) (float64, int64, error)
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Create(review *models.Review) error {
	var existing models.Review
	err := r.db.Where("contract_id = ? AND reviewer_id = ?", review.ContractID, review.ReviewerID).
		First(&existing).Error
	if err == nil {
		return ErrDuplicateReview
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(id string) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByContract(contractID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("contract_id = ?", contractID).
		Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) FindByReviewee(revieweeID string, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) FindByContractAndReviewer(contractID, reviewerID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("contract_id = ? AND reviewer_id = ?", contractID, reviewerID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

// AverageRating возвращает средний рейтинг и количество отзывов.
func (r *ReviewRepositoryImpl) AverageRating(revieweeID string) (float64, int64, error) {
	var count int64
	if err := r.db.Model(&models.Review{}).Where("reviewee_id = ?", revieweeID).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var avg float64
	err := r.db.Model(&models.Review{}).
		Where("reviewee_id = ?", revieweeID).
		Select("COALESCE(AVG(rating), 0)").Scan(&avg).Error
	return avg, count, err
}
