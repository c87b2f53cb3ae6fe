package handlers

import (
	"net/http"

	"talentlink_backend/internal/middleware"
	"talentlink_backend/internal/services"
	"talentlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	*BaseHandler
	aiService services.AIService
	limiter   *middleware.RateLimiter
}

func NewAIHandler(base *BaseHandler, aiService services.AIService, limiter *middleware.RateLimiter) *AIHandler {
	return &AIHandler{
		BaseHandler: base,
		aiService:   aiService,
		limiter:     limiter,
	}
}

func (h *AIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ai := rg.Group("/ai")
	ai.Use(middleware.AuthMiddleware())
	// Генерация дорогая, режем частоту на пользователя
	ai.Use(h.limiter.Middleware())
	{
		ai.POST("/job-description", h.GenerateJobDescription)
		ai.POST("/proposal", h.GenerateProposal)
		ai.POST("/bio", h.GenerateBio)
		ai.GET("/jobs/:id/matches", h.MatchFreelancers)
		ai.GET("/job-matches", h.MatchJobs)
	}
}

func (h *AIHandler) GenerateJobDescription(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.GenerateJobDescriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.aiService.GenerateJobDescription(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) GenerateProposal(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.GenerateProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.aiService.GenerateProposal(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) GenerateBio(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.GenerateBioRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.aiService.GenerateBio(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) MatchFreelancers(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	resp, err := h.aiService.MatchFreelancers(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) MatchJobs(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	resp, err := h.aiService.MatchJobs(c.Request.Context(), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
