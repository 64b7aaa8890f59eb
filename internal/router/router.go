package router

import (
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/config"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/core"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/handler"
	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires the registry and
// ledger components to their routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Audit(db))

	registry := core.NewRegistry(db, cfg.App.BaseURL)
	ledger := core.NewLedger(db)

	sessionHandler := handler.NewSessionHandler(registry)
	sessions := r.Group("/sessions")
	sessions.GET("", sessionHandler.List)
	sessions.POST("", sessionHandler.Create)
	sessions.GET("/private/:code", sessionHandler.GetPrivate)
	sessions.GET("/check-management/:code", sessionHandler.CheckManagement)
	sessions.GET("/edit/:id", sessionHandler.GetForEdit)
	sessions.PATCH("/edit/:id", sessionHandler.Update)
	sessions.GET("/:id", sessionHandler.Get)
	sessions.GET("/:id/details", sessionHandler.Details)
	sessions.DELETE("/:id", sessionHandler.Delete)

	attendanceHandler := handler.NewAttendanceHandler(ledger)
	exportHandler := handler.NewExportHandler(ledger)
	attendance := r.Group("/attendance")
	attendance.GET("/check", attendanceHandler.Check)
	attendance.POST("/:id/attend", attendanceHandler.Join)
	attendance.DELETE("/:id/cancelAttendance", attendanceHandler.Cancel)
	attendance.GET("/:id/attendees", attendanceHandler.ListAttendees)
	attendance.GET("/:id/attendees/export", exportHandler.ExportRoster)
	attendance.DELETE("/:id/attendees/:attendeeId", attendanceHandler.RemoveAttendee)

	return r
}
