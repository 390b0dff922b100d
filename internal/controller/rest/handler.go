package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler обработчики HTTP API
type Handler struct {
	availability  AvailabilityAPI
	appointments  AppointmentAPI
	professionals ProfessionalAPI
	catalog       CatalogAPI
	clients       ClientAPI
	logger        *zap.Logger
	now           func() time.Time
}

func NewHandler(
	availability AvailabilityAPI,
	appointments AppointmentAPI,
	professionals ProfessionalAPI,
	catalog CatalogAPI,
	clients ClientAPI,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		availability:  availability,
		appointments:  appointments,
		professionals: professionals,
		catalog:       catalog,
		clients:       clients,
		logger:        logger,
		now:           time.Now,
	}
}

// pathID разбирает числовой параметр пути; при ошибке отвечает 400
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": "query parameter " + name + " is required"})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": message})
}
