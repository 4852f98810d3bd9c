package router

import (
	"github.com/labstack/echo/v4"

	"github.com/haanng/pulse-survey/internal/handler"
	"github.com/haanng/pulse-survey/internal/middleware"
)

// RegisterSurvey registers the employee-facing survey and response routes
// under /api.  All routes require a valid JWT and an active account.  The
// active-survey payload is identical for every caller, so that one GET also
// goes through the response cache.
func RegisterSurvey(e *echo.Echo, s *handler.SurveyHandler, r *handler.ResponseHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireActive(),
	)

	g.GET("/surveys/active", s.Active, cache)
	g.GET("/surveys/:id/progress", s.Progress)

	g.POST("/responses/submit", r.Submit)
	g.POST("/responses/complete", r.Complete)
	g.GET("/responses/survey/:id", r.MySurveyResponses)
}
