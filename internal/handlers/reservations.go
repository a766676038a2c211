package handlers

import (
	"net/http"

	"futspot/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateReservation - POST /api/agendamentos
// Игрок запрашивает слот
func (h *Handlers) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.services.Reservations.Create(c.Request.Context(), principal(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CancelReservation - DELETE /api/agendamentos/:id
// Отмена игроком или владельцем площадки
func (h *Handlers) CancelReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.services.Reservations.Cancel(c.Request.Context(), principal(c).UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmReservation - PATCH /api/agendamentos/:id/confirmar
func (h *Handlers) ConfirmReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.services.Reservations.Confirm(c.Request.Context(), principal(c).UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefuseReservation - PATCH /api/agendamentos/:id/recusar
func (h *Handlers) RefuseReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.services.Reservations.Refuse(c.Request.Context(), principal(c).UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MyAgenda - GET /api/agendamentos/me
func (h *Handlers) MyAgenda(c *gin.Context) {
	resp, err := h.services.Reservations.MyAgenda(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OwnerReservations - GET /api/agendamentos/locador?data=&status=
func (h *Handlers) OwnerReservations(c *gin.Context) {
	resp, err := h.services.Reservations.OwnerReservations(c.Request.Context(),
		principal(c).UserID, c.Query("data"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
