package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError переводит ошибку сервиса в HTTP-ответ.
// Конфликт времени никогда не отдаётся как 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var conflict *service.SlotConflictError
	switch {
	case errors.As(err, &conflict):
		loc := h.availability.Location()
		c.JSON(http.StatusConflict, gin.H{
			"error":           "slot_conflict",
			"message":         "requested time is not available",
			"professional_id": conflict.ProfessionalID,
			"date":            conflict.Start.In(loc).Format(service.DateLayout),
			"start_time":      conflict.Start.In(loc).Format("15:04"),
			"end_time":        endTime(conflict.Start.In(loc), conflict.End.In(loc)),
			"reason":          conflict.Reason,
			"concurrent":      conflict.Concurrent,
		})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "message": err.Error()})
	case errors.Is(err, service.ErrPastBooking):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "past_booking", "message": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

// endTime "HH:MM", конец суток - "24:00"
func endTime(start, end time.Time) string {
	if end.Day() != start.Day() && end.Hour() == 0 && end.Minute() == 0 {
		return "24:00"
	}
	return end.Format("15:04")
}
