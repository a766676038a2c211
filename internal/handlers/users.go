package handlers

import (
	"net/http"

	"futspot/internal/models"

	"github.com/gin-gonic/gin"
)

// Me - GET /api/users/me
func (h *Handlers) Me(c *gin.Context) {
	profile, err := h.services.Users.Me(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe - PATCH /api/users/me
func (h *Handlers) UpdateMe(c *gin.Context) {
	var req models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.services.Users.Update(c.Request.Context(), principal(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// MyStats - GET /api/users/me/stats
// Статистика зависит от роли: игрок или владелец
func (h *Handlers) MyStats(c *gin.Context) {
	p := principal(c)

	var (
		resp any
		err  error
	)
	if p.Role == models.RoleOwner {
		resp, err = h.services.Stats.OwnerStats(c.Request.Context(), p.UserID)
	} else {
		resp, err = h.services.Stats.PlayerStats(c.Request.Context(), p.UserID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Occupancy - GET /api/locadores/me/ocupacao?data=
func (h *Handlers) Occupancy(c *gin.Context) {
	resp, err := h.services.Stats.OwnerOccupancy(c.Request.Context(), principal(c).UserID, c.Query("data"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PlayerStatsForOwner - GET /api/locadores/jogador/:jogadorId/stats
func (h *Handlers) PlayerStatsForOwner(c *gin.Context) {
	playerID, ok := pathID(c, "jogadorId")
	if !ok {
		return
	}

	resp, err := h.services.Stats.PlayerProfileForOwner(c.Request.Context(), principal(c).UserID, playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
