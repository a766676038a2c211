package handlers

import (
	"net/http"

	"futspot/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateRating - POST /api/avaliacoes
func (h *Handlers) CreateRating(c *gin.Context) {
	var req models.CreateRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.services.Ratings.Create(c.Request.Context(), principal(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}
