package handlers

import (
	"net/http"

	"futspot/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateMonthlyPlan - POST /api/mensalidades
func (h *Handlers) CreateMonthlyPlan(c *gin.Context) {
	var req models.MonthlyPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.services.MonthlyPlans.Create(c.Request.Context(), principal(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// VenueMonthlyPlans - GET /api/mensalidades/local/:localId
func (h *Handlers) VenueMonthlyPlans(c *gin.Context) {
	venueID, ok := pathID(c, "localId")
	if !ok {
		return
	}

	plans, err := h.services.MonthlyPlans.ListByVenue(c.Request.Context(), principal(c).UserID, venueID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// UpdateMonthlyPlan - PATCH /api/mensalidades/:id
func (h *Handlers) UpdateMonthlyPlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.MonthlyPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.services.MonthlyPlans.Update(c.Request.Context(), principal(c).UserID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeleteMonthlyPlan - DELETE /api/mensalidades/:id
func (h *Handlers) DeleteMonthlyPlan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.MonthlyPlans.Delete(c.Request.Context(), principal(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
