package handlers

import (
	"net/http"

	"talentlink_backend/internal/middleware"
	"talentlink_backend/internal/services"
	"talentlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	*BaseHandler
	contractService services.ContractService
	paymentService  services.PaymentService
	reviewService   services.ReviewService
}

func NewContractHandler(
	base *BaseHandler,
	contractService services.ContractService,
	paymentService services.PaymentService,
	reviewService services.ReviewService,
) *ContractHandler {
	return &ContractHandler{
		BaseHandler:     base,
		contractService: contractService,
		paymentService:  paymentService,
		reviewService:   reviewService,
	}
}

func (h *ContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contracts := rg.Group("/contracts")
	contracts.Use(middleware.AuthMiddleware())
	{
		contracts.POST("", h.Create)
		contracts.GET("", h.List)
		contracts.GET("/:id", h.Get)
		contracts.POST("/:id/cancel", h.Cancel)
	}

	milestones := rg.Group("/milestones")
	milestones.Use(middleware.AuthMiddleware())
	{
		milestones.POST("/:id/release", h.ReleaseMilestone)
	}

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("", h.CreateReview)
	}
}

func (h *ContractHandler) Create(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateContractRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.contractService.CreateFromApplication(actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ContractHandler) List(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.contractService.List(actor, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": resp})
}

func (h *ContractHandler) Get(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	resp, err := h.contractService.Get(actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContractHandler) Cancel(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.contractService.Cancel(actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract cancelled"})
}

// ReleaseMilestone - выплата вехи фрилансеру.
func (h *ContractHandler) ReleaseMilestone(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	resp, err := h.paymentService.ReleaseMilestone(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContractHandler) CreateReview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.reviewService.Create(actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
