package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/scheduling"
)

type Deps struct {
	Config      *config.Config
	Service     *scheduling.Service
	Assignments handlers.AssignmentLister

	// DB enables the audit log listing. It is nil with in-memory storage.
	DB *gorm.DB
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// HANDLERS
	// ======================================================
	visitHandler := handlers.NewVisitHandler(d.Service)
	availabilityHandler := handlers.NewAvailabilityHandler(d.Service)
	noteHandler := handlers.NewNoteHandler(d.Service)
	meHandler := handlers.NewMeHandler(d.Assignments)

	// ======================================================
	// API (JSON, authenticated)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(d.Config))
	{
		api.GET("/me", meHandler.GetMe)

		api.GET("/availability", availabilityHandler.Check)

		// ------------------------------
		// VISITS
		// ------------------------------
		api.POST("/visits", visitHandler.Create)
		api.GET("/visits", visitHandler.ListByDate)
		api.GET("/visits/:id", visitHandler.Get)
		api.PATCH("/visits/:id", visitHandler.Update)

		api.POST("/visits/:id/check-in", visitHandler.CheckIn)
		api.POST("/visits/:id/start", visitHandler.Start)
		api.POST("/visits/:id/complete", visitHandler.Complete)
		api.POST("/visits/:id/cancel", visitHandler.Cancel)
		api.POST("/visits/:id/reschedule", visitHandler.Reschedule)

		// ------------------------------
		// NOTES
		// ------------------------------
		api.POST("/visits/:id/note", noteHandler.Create)
		api.GET("/visits/:id/note", noteHandler.GetByVisit)
		api.GET("/notes/:id", noteHandler.Get)
		api.PATCH("/notes/:id", noteHandler.Update)
		api.POST("/notes/:id/sign", noteHandler.Sign)

		if d.DB != nil {
			api.GET("/audit-logs", handlers.NewAuditLogsHandler(d.DB).List)
		}
	}
}
