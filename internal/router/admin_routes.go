package router

import (
	"github.com/labstack/echo/v4"

	"github.com/haanng/pulse-survey/internal/handler"
	"github.com/haanng/pulse-survey/internal/middleware"
)

// RegisterAdmin registers the administrative endpoints under /api/admin.
// Every route requires a valid JWT carrying the admin flag.
func RegisterAdmin(e *echo.Echo, u *handler.AdminUserHandler, s *handler.AdminSurveyHandler, r *handler.AdminReportHandler, jwtSecret string) {
	g := e.Group(
		"/api/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAdmin(),
	)

	// User management.
	g.GET("/users", u.List)
	g.POST("/users", u.Create)
	g.PUT("/users/:id", u.Update)
	g.DELETE("/users/:id", u.Delete)
	g.POST("/users/:id/reset-password", u.ResetPassword)

	// Survey and question management.
	g.GET("/surveys", s.List)
	g.POST("/surveys", s.Create)
	g.PUT("/surveys/:id", s.Update)
	g.POST("/questions", s.CreateQuestion)
	g.PUT("/questions/:id", s.UpdateQuestion)
	g.DELETE("/questions/:id", s.DeleteQuestion)

	// Reporting and spreadsheet export.
	g.GET("/surveys/:id/responses", r.SurveyResponses)
	g.GET("/surveys/:id/summary", r.SurveySummary)
	g.POST("/surveys/:id/sync", r.Sync)
	g.GET("/sync-log", r.SyncLog)
}
