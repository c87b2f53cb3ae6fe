package repositories

import (
	"errors"
	"time"

	"talentlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(message *models.Message) error
	FindByID(id string) (*models.Message, error)
	FindThread(userID, partnerID string, limit, offset int) ([]models.Message, error)
	FindConversationHeads(userID string) ([]models.Message, error)
	CountUnreadByPartner(userID string) (map[string]int64, error)
	MarkThreadRead(userID, partnerID string) error
	CountUnread(userID string) (int64, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByID(id string) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").Preload("Recipient").First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindThread возвращает переписку двух пользователей, старые сообщения первыми.
func (r *MessageRepositoryImpl) FindThread(userID, partnerID string, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Sender.Profile").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, partnerID, partnerID, userID).
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&messages).Error
	return messages, err
}

// FindConversationHeads возвращает последнее сообщение каждой переписки
// пользователя. Таблицы диалогов нет, поэтому собеседник вычисляется
// оконной функцией прямо в запросе.
func (r *MessageRepositoryImpl) FindConversationHeads(userID string) ([]models.Message, error) {
	var ids []string
	err := r.db.Raw(`
		SELECT id FROM (
			SELECT id,
			       ROW_NUMBER() OVER (
			           PARTITION BY CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END
			           ORDER BY created_at DESC
			       ) AS rn
			FROM messages
			WHERE sender_id = ? OR recipient_id = ?
		) ranked
		WHERE rn = 1`, userID, userID, userID).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var messages []models.Message
	err = r.db.Preload("Sender").Preload("Sender.Profile").
		Preload("Recipient").Preload("Recipient.Profile").
		Where("id IN ?", ids).
		Order("created_at DESC").Find(&messages).Error
	return messages, err
}

// CountUnreadByPartner считает непрочитанные входящие в разрезе отправителей.
func (r *MessageRepositoryImpl) CountUnreadByPartner(userID string) (map[string]int64, error) {
	type unreadRow struct {
		PartnerID string
		Count     int64
	}
	var rows []unreadRow
	err := r.db.Model(&models.Message{}).
		Select("sender_id AS partner_id, COUNT(*) AS count").
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Group("sender_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.PartnerID] = row.Count
	}
	return counts, nil
}

func (r *MessageRepositoryImpl) MarkThreadRead(userID, partnerID string) error {
	return r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", userID, partnerID).
		Update("read_at", time.Now()).Error
}

func (r *MessageRepositoryImpl) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
