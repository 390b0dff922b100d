package rest

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

type createProfessionalRequest struct {
	Name string `json:"name" binding:"required"`
}

type workingHoursRequest struct {
	Shifts []*model.WorkingHoursEntry `json:"shifts"`
}

type vacationRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Reason   string    `json:"reason"`
}

// CreateProfessional POST /professionals
func (h *Handler) CreateProfessional(c *gin.Context) {
	var req createProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := h.professionals.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ListProfessionals GET /professionals
func (h *Handler) ListProfessionals(c *gin.Context) {
	list, err := h.professionals.ListActive(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"professionals": nonNil(list)})
}

// GetProfessional GET /professionals/:id
func (h *Handler) GetProfessional(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.professionals.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SetWorkingHours PUT /professionals/:id/working-hours
func (h *Handler) SetWorkingHours(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req workingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.professionals.SetWorkingHours(c.Request.Context(), id, req.Shifts); err != nil {
		h.respondError(c, err)
		return
	}

	h.GetWorkingHours(c)
}

// GetWorkingHours GET /professionals/:id/working-hours
func (h *Handler) GetWorkingHours(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.professionals.GetWorkingHoursEntries(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"professional_id": id, "shifts": nonNil(entries)})
}

// AddVacation POST /professionals/:id/vacations
func (h *Handler) AddVacation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req vacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	v, affected, err := h.professionals.AddVacation(c.Request.Context(), service.VacationInput{
		ProfessionalID: id,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Reason:         req.Reason,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"vacation":              v,
		"affected_appointments": nonNil(affected),
	})
}

// ListVacations GET /professionals/:id/vacations
func (h *Handler) ListVacations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := h.professionals.ListVacations(c.Request.Context(), id, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vacations": nonNil(list)})
}

// DeleteVacation DELETE /vacations/:id
func (h *Handler) DeleteVacation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.professionals.DeleteVacation(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
