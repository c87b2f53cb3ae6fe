package handlers

import (
	"net/http"

	"talentlink_backend/internal/middleware"
	"talentlink_backend/internal/models"
	"talentlink_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/stats", h.PlatformStats)
		admin.GET("/stats/registrations", h.RegistrationStats)
	}
}

func (h *AdminHandler) PlatformStats(c *gin.Context) {
	resp, err := h.adminService.PlatformStats()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) RegistrationStats(c *gin.Context) {
	resp, err := h.adminService.RegistrationStats()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
