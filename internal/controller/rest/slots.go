package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetSlots GET /professionals/:id/slots?service_id=&date=
func (h *Handler) GetSlots(c *gin.Context) {
	professionalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	serviceID, ok := queryID(c, "service_id")
	if !ok {
		return
	}
	date, err := h.availability.ParseDate(c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	free, err := h.availability.ComputeAvailableSlots(c.Request.Context(), professionalID, serviceID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"professional_id": professionalID,
		"service_id":      serviceID,
		"date":            c.Query("date"),
		"slots":           free,
	})
}

// CheckAvailability GET /professionals/:id/availability?date=&start_time=&duration=
func (h *Handler) CheckAvailability(c *gin.Context) {
	professionalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	date, err := h.availability.ParseDate(c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil {
		badRequest(c, "duration must be a number of minutes")
		return
	}

	available, err := h.availability.IsSlotAvailable(c.Request.Context(), professionalID, date, c.Query("start_time"), duration)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}
