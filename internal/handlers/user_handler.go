package handlers

import (
	"net/http"

	"talentlink_backend/internal/middleware"
	"talentlink_backend/internal/services"
	"talentlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	reviewService services.ReviewService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, reviewService services.ReviewService) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		reviewService: reviewService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/freelancers", h.ListFreelancers)
		users.GET("/:id", h.GetUser)
		users.GET("/:id/reviews", h.ListReviews)
	}

	me := rg.Group("/me")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("", h.GetMe)
		me.PUT("/profile", h.UpdateProfile)
	}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	resp, err := h.userService.GetUser(actor.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.userService.UpdateProfile(actor.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) ListFreelancers(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.userService.ListFreelancers(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"freelancers": resp, "page": page, "page_size": pageSize})
}

func (h *UserHandler) ListReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.reviewService.ListForUser(c.Param("id"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": resp})
}
