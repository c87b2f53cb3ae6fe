package repositories

import (
	"errors"
	"time"

	"talentlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(payment *models.Payment) error
	FindByID(id string) (*models.Payment, error)
	FindByIntentID(intentID string) (*models.Payment, error)
	FindByContract(contractID string) ([]models.Payment, error)
	FindByUser(userID string, limit, offset int) ([]models.Payment, error)
	UpdateStatus(paymentID string, status models.PaymentStatus) error
	SetTransferID(paymentID, transferID string) error
	SetCapturedAt(paymentID string, capturedAt time.Time) error
	FindPendingOlderThan(age time.Duration, limit int) ([]models.Payment, error)
	TotalReleasedFees() (float64, error)
	CountByStatus(status models.PaymentStatus) (int64, error)
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepositoryImpl) FindByID(id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindByIntentID(intentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("stripe_payment_intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindByContract(contractID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("contract_id = ?", contractID).
		Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) FindByUser(userID string, limit, offset int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("payer_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) UpdateStatus(paymentID string, status models.PaymentStatus) error {
	result := r.db.Model(&models.Payment{}).Where("id = ?", paymentID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepositoryImpl) SetTransferID(paymentID, transferID string) error {
	result := r.db.Model(&models.Payment{}).Where("id = ?", paymentID).Updates(map[string]interface{}{
		"stripe_transfer_id": transferID,
		"updated_at":         time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepositoryImpl) SetCapturedAt(paymentID string, capturedAt time.Time) error {
	result := r.db.Model(&models.Payment{}).Where("id = ?", paymentID).Updates(map[string]interface{}{
		"captured_at": capturedAt,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// FindPendingOlderThan возвращает зависшие pending-платежи для сверки с провайдером.
func (r *PaymentRepositoryImpl) FindPendingOlderThan(age time.Duration, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	cutoff := time.Now().Add(-age)
	err := r.db.Where("status = ? AND created_at < ? AND stripe_payment_intent_id IS NOT NULL", models.PaymentStatusPending, cutoff).
		Order("created_at ASC").Limit(limit).Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) TotalReleasedFees() (float64, error) {
	var total float64
	err := r.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusReleased).
		Select("COALESCE(SUM(fee), 0)").Scan(&total).Error
	return total, err
}

func (r *PaymentRepositoryImpl) CountByStatus(status models.PaymentStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
