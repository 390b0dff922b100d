package rest

import (
	"net/http"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status model.AppointmentStatus `json:"status" binding:"required"`
	Reason string                  `json:"reason"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CreateAppointment POST /appointments
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req service.CreateAppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a, err := h.appointments.Create(c.Request.Context(), req, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// GetAppointment GET /appointments/:id
func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	a, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// RescheduleAppointment PATCH /appointments/:id
func (h *Handler) RescheduleAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.RescheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a, err := h.appointments.Reschedule(c.Request.Context(), id, req, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// ChangeAppointmentStatus POST /appointments/:id/status
func (h *Handler) ChangeAppointmentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a, err := h.appointments.Transition(c.Request.Context(), id, req.Status, req.Reason, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// CancelAppointment POST /appointments/:id/cancel
func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req cancelRequest
	// тело необязательно
	_ = c.ShouldBindJSON(&req)

	a, err := h.appointments.Cancel(c.Request.Context(), id, req.Reason, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// ListProfessionalAppointments GET /professionals/:id/appointments?date=
func (h *Handler) ListProfessionalAppointments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	date, err := h.availability.ParseDate(c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	list, err := h.appointments.ListForProfessional(c.Request.Context(), id, date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": nonNil(list)})
}

// ListClientAppointments GET /clients/:id/appointments
func (h *Handler) ListClientAppointments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.clients.Get(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	list, err := h.appointments.ListForClient(c.Request.Context(), id, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": nonNil(list)})
}

// nonNil пустой список вместо null в JSON
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
