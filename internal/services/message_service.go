package services

import (
	"sort"

	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"
	"talentlink_backend/ws"
)

type MessageService interface {
	Send(actor auth.Actor, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	Thread(actor auth.Actor, partnerID string, page, pageSize int) ([]dto.MessageResponse, error)
	Conversations(actor auth.Actor) ([]dto.ConversationResponse, error)
	UnreadCount(actor auth.Actor) (int64, error)
}

type MessageServiceImpl struct {
	messageRepo         repositories.MessageRepository
	userRepo            repositories.UserRepository
	wsManager           *ws.WebSocketManager
	notificationService NotificationService
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	wsManager *ws.WebSocketManager,
	notificationService NotificationService,
) MessageService {
	return &MessageServiceImpl{
		messageRepo:         messageRepo,
		userRepo:            userRepo,
		wsManager:           wsManager,
		notificationService: notificationService,
	}
}

func (s *MessageServiceImpl) Send(actor auth.Actor, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if req.RecipientID == actor.ID {
		return nil, apperrors.ErrInvalidOperation("messages", "Cannot send a message to yourself")
	}

	recipient, err := s.userRepo.FindByID(req.RecipientID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("recipient")
		}
		return nil, apperrors.InternalError(err)
	}

	message := &models.Message{
		SenderID:      actor.ID,
		RecipientID:   recipient.ID,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toMessageResponse(message)

	// Пуш получателю, если он онлайн; иначе обычное уведомление
	if s.wsManager != nil && s.wsManager.IsOnline(recipient.ID) {
		s.wsManager.SendToUser(recipient.ID, ws.Event{Type: ws.EventNewMessage, Data: resp})
	} else {
		senderName := actor.ID
		if sender, err := s.userRepo.FindByID(actor.ID); err == nil && sender.Profile != nil {
			senderName = sender.Profile.FullName
		}
		s.notificationService.Notify(recipient.ID, NotificationNewMessage,
			"New message",
			"You have a new message from "+senderName,
			map[string]interface{}{"sender_id": actor.ID})
	}

	return &resp, nil
}

// Thread возвращает переписку с собеседником и помечает входящие прочитанными.
func (s *MessageServiceImpl) Thread(actor auth.Actor, partnerID string, page, pageSize int) ([]dto.MessageResponse, error) {
	messages, err := s.messageRepo.FindThread(actor.ID, partnerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.messageRepo.MarkThreadRead(actor.ID, partnerID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, toMessageResponse(&messages[i]))
	}
	return responses, nil
}

// Conversations строит список диалогов. Таблицы диалогов нет: репозиторий
// отдает последнее сообщение каждой переписки и счетчики непрочитанных,
// здесь они собираются в ответ.
func (s *MessageServiceImpl) Conversations(actor auth.Actor) ([]dto.ConversationResponse, error) {
	heads, err := s.messageRepo.FindConversationHeads(actor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.messageRepo.CountUnreadByPartner(actor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return BuildConversations(actor.ID, heads, unread), nil
}

func (s *MessageServiceImpl) UnreadCount(actor auth.Actor) (int64, error) {
	count, err := s.messageRepo.CountUnread(actor.ID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// BuildConversations собирает диалоги из последних сообщений переписок
// и счетчиков непрочитанных по отправителям.
func BuildConversations(userID string, heads []models.Message, unread map[string]int64) []dto.ConversationResponse {
	conversations := make([]dto.ConversationResponse, 0, len(heads))

	for i := range heads {
		m := &heads[i]

		partnerID := m.SenderID
		partner := m.Sender
		if m.SenderID == userID {
			partnerID = m.RecipientID
			partner = m.Recipient
		}

		conv := dto.ConversationResponse{
			PartnerID:     partnerID,
			LastMessage:   m.Content,
			LastMessageAt: m.CreatedAt,
			UnreadCount:   unread[partnerID],
		}
		if partner != nil && partner.Profile != nil {
			conv.PartnerName = partner.Profile.FullName
			conv.PartnerAvatar = partner.Profile.AvatarURL
		}
		conversations = append(conversations, conv)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})
	return conversations
}

func toMessageResponse(m *models.Message) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:            m.ID,
		SenderID:      m.SenderID,
		RecipientID:   m.RecipientID,
		Content:       m.Content,
		AttachmentURL: m.AttachmentURL,
		ReadAt:        m.ReadAt,
		CreatedAt:     m.CreatedAt,
	}
	if m.Sender != nil && m.Sender.Profile != nil {
		resp.SenderName = m.Sender.Profile.FullName
	}
	return resp
}
