package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talentlink_backend/internal/auth"
	"talentlink_backend/internal/config"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/services"
	"talentlink_backend/internal/services/dto"
	"talentlink_backend/internal/validator"
	"talentlink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContractID = "3f2b8c1e-9a4d-4f6b-8c2e-1d5a7b9c3e0f"

type fakePaymentService struct {
	services.PaymentService
	initiateErr  error
	lastActor    auth.Actor
	lastRequest  *dto.CreatePaymentRequest
	statusResult string
}

func (s *fakePaymentService) InitiateEscrow(_ context.Context, actor auth.Actor, req *dto.CreatePaymentRequest) (*dto.PaymentIntentResponse, error) {
	s.lastActor = actor
	s.lastRequest = req
	if s.initiateErr != nil {
		return nil, s.initiateErr
	}
	return &dto.PaymentIntentResponse{
		ClientSecret:    "pi_secret_test",
		PaymentIntentID: "pi_test",
		Amount:          1000,
	}, nil
}

func (s *fakePaymentService) ConnectStatus(context.Context, auth.Actor) (*dto.ConnectStatusResponse, error) {
	return &dto.ConnectStatusResponse{Status: s.statusResult}, nil
}

func setupPaymentRouter(t *testing.T, svc services.PaymentService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var cfg config.Config
	cfg.JWT.Secret = "handler-test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = &cfg

	router := gin.New()
	api := router.Group("/api")
	handler := NewPaymentHandler(NewBaseHandler(validator.New()), svc)
	handler.RegisterRoutes(api)
	return router
}

func bearerToken(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestPaymentHandler_RequiresAuth(t *testing.T) {
	router := setupPaymentRouter(t, &fakePaymentService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_ValidatesBody(t *testing.T) {
	svc := &fakePaymentService{}
	router := setupPaymentRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "client-1", models.UserRoleClient))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "contractId")
	assert.Nil(t, svc.lastRequest, "сервис не должен вызываться при невалидном теле")
}

func TestPaymentHandler_InitiateEscrow(t *testing.T) {
	svc := &fakePaymentService{}
	router := setupPaymentRouter(t, svc)

	body := `{"contractId": "` + testContractID + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "client-1", models.UserRoleClient))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"clientSecret":"pi_secret_test"`)
	assert.Equal(t, "client-1", svc.lastActor.ID)
	assert.Equal(t, testContractID, svc.lastRequest.ContractID)
}

func TestPaymentHandler_ServiceErrorsKeepHTTPCode(t *testing.T) {
	svc := &fakePaymentService{initiateErr: apperrors.ErrPaymentsNotConfigured}
	router := setupPaymentRouter(t, svc)

	body := `{"contractId": "` + testContractID + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "client-1", models.UserRoleClient))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPaymentHandler_ConnectStatus(t *testing.T) {
	svc := &fakePaymentService{statusResult: "connected"}
	router := setupPaymentRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stripe/connect/status", nil)
	req.Header.Set("Authorization", bearerToken(t, "freelancer-1", models.UserRoleFreelancer))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"connected"`)
}

func TestPaymentHandler_RejectsUnknownRoleToken(t *testing.T) {
	router := setupPaymentRouter(t, &fakePaymentService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	req.Header.Set("Authorization", bearerToken(t, "user-1", models.UserRole("superuser")))
	router.ServeHTTP(w, req)

	// Роль вне закрытого множества - токен отклоняется
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
