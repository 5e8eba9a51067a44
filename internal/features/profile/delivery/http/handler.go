package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"staticshop-backend/internal/common/middleware"
	"staticshop-backend/internal/features/profile/service"
)

type ProfileHandler struct {
	service service.ProfileService
	logger  zerolog.Logger
}

func NewProfileHandler(service service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profiles := router.Group("/profiles")
	{
		profiles.GET("/me", h.getMe)
	}
}

// @Summary Get own authorization profile
// @Description Returns the caller's authorization profile, provisioning the default one if the creation event was missed.
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AuthorizationProfile "Profile"
// @Failure 401 {object} middleware.ErrorResponse "Not authenticated"
// @Failure 404 {object} middleware.ErrorResponse "Identity not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal error"
// @Router /profiles/me [get]
func (h *ProfileHandler) getMe(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	profile, err := h.service.GetOwnProfile(c.Request.Context(), callerID)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
