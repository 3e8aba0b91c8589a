package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justicia-digital/procesos-api/internal/service"
	appErrors "github.com/justicia-digital/procesos-api/pkg/errors"
	"github.com/justicia-digital/procesos-api/pkg/response"
)

// NotificacionHandler lets users read their pending notices.
type NotificacionHandler struct {
	notificaciones *service.NotificacionService
}

// NewNotificacionHandler constructs NotificacionHandler.
func NewNotificacionHandler(notificaciones *service.NotificacionService) *NotificacionHandler {
	return &NotificacionHandler{notificaciones: notificaciones}
}

// List godoc
// @Summary List the current user's notifications, newest first
// @Tags Notificaciones
// @Produce json
// @Param limit query int false "Max results"
// @Success 200 {object} response.Envelope
// @Router /notificaciones [get]
func (h *NotificacionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	notificaciones, err := h.notificaciones.Listar(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notificaciones, nil)
}

// MarcarLeida godoc
// @Summary Mark a notification as read
// @Tags Notificaciones
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 {object} response.Envelope
// @Router /notificaciones/{id}/leida [post]
func (h *NotificacionHandler) MarcarLeida(c *gin.Context) {
	if err := h.notificaciones.MarcarLeida(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
