package rest

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig настройки HTTP слоя
type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	// Ready проверки для /readyz
	Ready map[string]Pinger
}

// NewRouter собирает gin.Engine со всеми маршрутами API
func NewRouter(h *Handler, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(logger), Recovery(logger))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", Healthz)
	r.GET("/readyz", Readyz(cfg.Ready))

	api := r.Group("/api/v1")
	api.Use(RateLimit(cfg.RateLimitPerMinute, logger), Timeout(cfg.RequestTimeout))
	{
		api.POST("/professionals", h.CreateProfessional)
		api.GET("/professionals", h.ListProfessionals)
		api.GET("/professionals/:id", h.GetProfessional)
		api.PUT("/professionals/:id/working-hours", h.SetWorkingHours)
		api.GET("/professionals/:id/working-hours", h.GetWorkingHours)
		api.POST("/professionals/:id/vacations", h.AddVacation)
		api.GET("/professionals/:id/vacations", h.ListVacations)
		api.GET("/professionals/:id/slots", h.GetSlots)
		api.GET("/professionals/:id/availability", h.CheckAvailability)
		api.GET("/professionals/:id/appointments", h.ListProfessionalAppointments)
		api.DELETE("/vacations/:id", h.DeleteVacation)

		api.POST("/services", h.CreateService)
		api.GET("/services", h.ListServices)
		api.GET("/services/:id", h.GetService)

		api.POST("/clients", h.CreateClient)
		api.GET("/clients/:id", h.GetClient)
		api.GET("/clients/:id/appointments", h.ListClientAppointments)

		api.POST("/appointments", h.CreateAppointment)
		api.GET("/appointments/:id", h.GetAppointment)
		api.PATCH("/appointments/:id", h.RescheduleAppointment)
		api.POST("/appointments/:id/status", h.ChangeAppointmentStatus)
		api.POST("/appointments/:id/cancel", h.CancelAppointment)
	}

	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
