package services

import (
	"encoding/json"

	"talentlink_backend/internal/logger"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"
	"talentlink_backend/ws"

	"gorm.io/datatypes"
)

// Типы уведомлений
const (
	NotificationApplicationReceived = "application_received"
	NotificationApplicationStatus   = "application_status"
	NotificationContractCreated     = "contract_created"
	NotificationPaymentReleased     = "payment_released"
	NotificationPaymentFailed       = "payment_failed"
	NotificationNewMessage          = "new_message"
	NotificationReviewReceived      = "review_received"
)

type NotificationService interface {
	Notify(userID, notificationType, title, message string, data map[string]interface{})
	List(userID string, onlyUnread bool, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	Delete(userID, notificationID string) error
	DeleteAll(userID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	wsManager        *ws.WebSocketManager
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, wsManager *ws.WebSocketManager) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		wsManager:        wsManager,
	}
}

// Notify сохраняет уведомление и пушит его в websocket, если пользователь
// онлайн. Уведомления не должны ломать основную операцию, поэтому ошибки
// только логируются.
func (s *NotificationServiceImpl) Notify(userID, notificationType, title, message string, data map[string]interface{}) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			notification.Data = datatypes.JSON(raw)
		}
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Error("Failed to create notification", "user_id", userID, "type", notificationType, "error", err)
		return
	}

	if s.wsManager != nil {
		s.wsManager.SendToUser(userID, ws.Event{
			Type: ws.EventNotification,
			Data: toNotificationResponse(notification),
		})
	}
}

func (s *NotificationServiceImpl) List(userID string, onlyUnread bool, page, pageSize int) (*dto.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.FindByUser(userID, onlyUnread, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *NotificationServiceImpl) MarkRead(userID, notificationID string) error {
	if err := s.notificationRepo.MarkRead(notificationID, userID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotFoundError("notification")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) Delete(userID, notificationID string) error {
	if err := s.notificationRepo.Delete(notificationID, userID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotFoundError("notification")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) DeleteAll(userID string) error {
	if err := s.notificationRepo.DeleteAll(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func toNotificationResponse(n *models.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		json.Unmarshal(n.Data, &resp.Data)
	}
	return resp
}
