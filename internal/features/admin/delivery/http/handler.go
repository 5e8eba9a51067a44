package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"staticshop-backend/internal/common/middleware"
	"staticshop-backend/internal/features/admin/service"
)

type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.GET("/users", h.listUsers)
		admin.POST("/users/role", h.setRole)
		admin.POST("/users/disabled", h.setDisabled)
	}
}

// @Summary List all users
// @Description Returns every identity record merged with its authorization profile. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ManagedUser "Merged user list"
// @Failure 401 {object} middleware.ErrorResponse "Not authenticated"
// @Failure 403 {object} middleware.ErrorResponse "Caller is not an admin"
// @Failure 500 {object} middleware.ErrorResponse "Internal error"
// @Router /admin/users [get]
func (h *AdminHandler) listUsers(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	users, err := h.service.ListUsers(c.Request.Context(), callerID)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Set a role flag on a user
// @Description Sets isAdmin or isDealer on the target's authorization profile. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "targetId, roleName (isAdmin|isDealer), value"
// @Success 200 {object} models.MutationResult "Mutation result"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 401 {object} middleware.ErrorResponse "Not authenticated"
// @Failure 403 {object} middleware.ErrorResponse "Caller is not an admin"
// @Failure 500 {object} middleware.ErrorResponse "Internal error"
// @Router /admin/users/role [post]
func (h *AdminHandler) setRole(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	result, err := h.service.SetRole(c.Request.Context(), callerID, bindPayload(c))
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Enable or disable a user
// @Description Updates the disabled flag on the identity record and the authorization profile. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "targetId, disabled"
// @Success 200 {object} models.MutationResult "Mutation result"
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 401 {object} middleware.ErrorResponse "Not authenticated"
// @Failure 403 {object} middleware.ErrorResponse "Caller is not an admin"
// @Failure 500 {object} middleware.ErrorResponse "Internal error"
// @Router /admin/users/disabled [post]
func (h *AdminHandler) setDisabled(c *gin.Context) {
	callerID, _ := middleware.CallerID(c)

	result, err := h.service.SetDisabled(c.Request.Context(), callerID, bindPayload(c))
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindPayload reads the body leniently. A malformed body becomes an empty
// payload so the caller-authorization check still runs first; validation
// then rejects the missing fields.
func bindPayload(c *gin.Context) map[string]interface{} {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		return map[string]interface{}{}
	}
	return payload
}
