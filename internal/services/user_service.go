package services

import (
	"context"
	"encoding/json"

	"talentlink_backend/internal/ai"
	"talentlink_backend/internal/logger"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/repositories"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type UserService interface {
	GetUser(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListFreelancers(page, pageSize int) ([]dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo   repositories.UserRepository
	reviewRepo repositories.ReviewRepository
	aiClient   ai.Client
}

func NewUserService(userRepo repositories.UserRepository, reviewRepo repositories.ReviewRepository, aiClient ai.Client) UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		aiClient:   aiClient,
	}
}

func (s *UserServiceImpl) GetUser(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, apperrors.InternalError(err)
	}

	rating, count, err := s.reviewRepo.AverageRating(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toUserResponse(user, rating, count)
	return &resp, nil
}

func (s *UserServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, apperrors.InternalError(err)
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{UserID: userID}
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.AvatarURL != "" {
		profile.AvatarURL = req.AvatarURL
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = req.HourlyRate
	}
	if req.Location != "" {
		profile.Location = req.Location
	}
	if req.Skills != nil {
		skills, err := json.Marshal(req.Skills)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		profile.Skills = datatypes.JSON(skills)
	}

	if err := s.userRepo.SaveProfile(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.Profile = profile

	// Обновляем эмбеддинг профиля для подбора. Ошибка не блокирует ответ.
	s.refreshProfileEmbedding(userID, profile)

	rating, count, err := s.reviewRepo.AverageRating(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toUserResponse(user, rating, count)
	return &resp, nil
}

func (s *UserServiceImpl) ListFreelancers(page, pageSize int) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindByRole(models.UserRoleFreelancer, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		rating, count, err := s.reviewRepo.AverageRating(users[i].ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		responses = append(responses, toUserResponse(&users[i], rating, count))
	}
	return responses, nil
}

func (s *UserServiceImpl) refreshProfileEmbedding(userID string, profile *models.Profile) {
	if s.aiClient == nil || !s.aiClient.Enabled() {
		return
	}

	text := ai.EmbeddingText(profile.FullName, profile.Bio, string(profile.Skills))
	if text == "" {
		return
	}

	emb, err := s.aiClient.Embed(context.Background(), text)
	if err != nil {
		logger.Warn("Failed to embed profile", "user_id", userID, "error", err)
		return
	}

	data, err := ai.EncodeEmbedding(emb)
	if err != nil {
		return
	}
	if err := s.userRepo.UpdateProfileEmbedding(userID, data); err != nil {
		logger.Warn("Failed to store profile embedding", "user_id", userID, "error", err)
	}
}

// toUserResponse - общий маппер модели пользователя в ответ API.
func toUserResponse(user *models.User, rating float64, reviewsCount int64) dto.UserResponse {
	resp := dto.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Role:            string(user.Role),
		IsVerified:      user.IsVerified,
		StripeConnected: user.StripeAccountID != "",
		CreatedAt:       user.CreatedAt,
	}

	if user.Profile != nil {
		var skills []string
		if len(user.Profile.Skills) > 0 {
			json.Unmarshal(user.Profile.Skills, &skills)
		}
		resp.Profile = &dto.ProfileResponse{
			FullName:   user.Profile.FullName,
			Bio:        user.Profile.Bio,
			AvatarURL:  user.Profile.AvatarURL,
			HourlyRate: user.Profile.HourlyRate,
			Location:   user.Profile.Location,
			Skills:     skills,
			Rating:     rating,
			ReviewsNum: reviewsCount,
		}
	}
	return resp
}
