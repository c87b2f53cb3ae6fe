package services

import (
	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"
)

type ReviewService interface {
	Create(actor auth.Actor, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListForUser(userID string, page, pageSize int) ([]dto.ReviewResponse, error)
}

type ReviewServiceImpl struct {
	reviewRepo          repositories.ReviewRepository
	contractRepo        repositories.ContractRepository
	notificationService NotificationService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	contractRepo repositories.ContractRepository,
	notificationService NotificationService,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:          reviewRepo,
		contractRepo:        contractRepo,
		notificationService: notificationService,
	}
}

// Create - отзыв по завершенному контракту. Каждая сторона оставляет
// один отзыв о другой стороне.
func (s *ReviewServiceImpl) Create(actor auth.Actor, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	contract, err := s.contractRepo.FindByID(req.ContractID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrContractNotFound) {
			return nil, apperrors.NewNotFoundError("contract")
		}
		return nil, apperrors.InternalError(err)
	}

	var revieweeID string
	switch actor.ID {
	case contract.ClientID:
		revieweeID = contract.FreelancerID
	case contract.FreelancerID:
		revieweeID = contract.ClientID
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}

	if contract.Status != models.ContractStatusCompleted {
		return nil, apperrors.ErrInvalidStatus("reviews", "Reviews can only be left on completed contracts")
	}

	review := &models.Review{
		ContractID: contract.ID,
		ReviewerID: actor.ID,
		RevieweeID: revieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateReview) {
			return nil, apperrors.ErrConflict(err, "reviews", "You have already reviewed this contract")
		}
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.Notify(revieweeID, NotificationReviewReceived,
		"New review",
		"You received a new review.",
		map[string]interface{}{"contract_id": contract.ID, "rating": req.Rating})

	resp := toReviewResponse(review)
	return &resp, nil
}

func (s *ReviewServiceImpl) ListForUser(userID string, page, pageSize int) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByReviewee(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toReviewResponse(&reviews[i]))
	}
	return responses, nil
}

func toReviewResponse(r *models.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:         r.ID,
		ContractID: r.ContractID,
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
