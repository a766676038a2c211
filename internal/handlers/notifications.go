package handlers

import (
	"net/http"
	"strconv"

	apperrors "futspot/internal/errors"

	"github.com/gin-gonic/gin"
)

// ListNotifications - GET /api/notificacoes?lida=
func (h *Handlers) ListNotifications(c *gin.Context) {
	var read *bool
	if v := c.Query("lida"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, apperrors.Validation("O filtro lida deve ser true ou false."))
			return
		}
		read = &b
	}

	items, err := h.services.Notifications.List(c.Request.Context(), principal(c).UserID, read)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UnreadCount - GET /api/notificacoes/nao-lidas-numero
func (h *Handlers) UnreadCount(c *gin.Context) {
	resp, err := h.services.Notifications.UnreadCount(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkNotificationRead - PATCH /api/notificacoes/:id/marcar-como-lida
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if err := h.services.Notifications.MarkRead(c.Request.Context(), principal(c).UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead - PATCH /api/notificacoes/marcar-todas
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.services.Notifications.MarkAllRead(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"atualizadas": n})
}
