package router

import (
	"github.com/labstack/echo/v4"

	"github.com/haanng/pulse-survey/internal/handler"
	"github.com/haanng/pulse-survey/internal/middleware"
)

// RegisterAuth registers all authentication-related routes.  Login is the
// only unauthenticated operation; the remaining endpoints require a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login)

	// Protected operations on the caller's own session and account.
	auth := e.Group("/api/auth", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/change-password", a.ChangePassword)
	auth.POST("/logout", a.Logout)
}
