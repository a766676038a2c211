package handlers

import (
	"net/http"

	"futspot/internal/models"
	"futspot/internal/schedule"

	"github.com/gin-gonic/gin"
)

// SearchVenues - GET /api/locais/search?cidade=&data=&tipos=&periodos=
// Поиск площадок со свободными слотами на дату
func (h *Handlers) SearchVenues(c *gin.Context) {
	q := models.SearchVenuesQuery{
		City:       c.Query("cidade"),
		Date:       c.Query("data"),
		Categories: splitCSV(c.Query("tipos")),
		Periods:    schedule.ParsePeriods(c.Query("periodos")),
	}

	items, err := h.services.Availability.SearchVenues(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetVenue - GET /api/locais/:id
func (h *Handlers) GetVenue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	venue, err := h.services.Venues.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venue)
}

// Availability - GET /api/locais/:id/disponibilidade?data=
func (h *Handlers) Availability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.services.Availability.Availability(c.Request.Context(), id, c.Query("data"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FreeSlots - GET /api/locais/:id/disponibilidade/data?data=
func (h *Handlers) FreeSlots(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.services.Availability.AvailableSlotsOnly(c.Request.Context(), id, c.Query("data"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MyVenues - GET /api/locais
func (h *Handlers) MyVenues(c *gin.Context) {
	venues, err := h.services.Venues.ListMine(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if venues == nil {
		venues = []models.Venue{}
	}
	c.JSON(http.StatusOK, venues)
}

// CreateVenue - POST /api/locais
func (h *Handlers) CreateVenue(c *gin.Context) {
	var req models.VenueRequest
	if !bindJSON(c, &req) {
		return
	}

	venue, err := h.services.Venues.Create(c.Request.Context(), principal(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, venue)
}

// UpdateVenue - PUT /api/locais/:id
func (h *Handlers) UpdateVenue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.VenueRequest
	if !bindJSON(c, &req) {
		return
	}

	venue, err := h.services.Venues.Update(c.Request.Context(), principal(c).UserID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venue)
}

// DeleteVenue - DELETE /api/locais/:id
func (h *Handlers) DeleteVenue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Venues.Delete(c.Request.Context(), principal(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
