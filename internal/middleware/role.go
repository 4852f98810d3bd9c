package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin returns a middleware that enforces that the authenticated
// user carries the admin flag.  It assumes JWTAuth has stored the "is_admin"
// claim in the context.  Non-admin requests are aborted with 403 Forbidden.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The claim comes out of jwt.MapClaims, so it is a bool when
			// present.  If missing or of wrong type, treat as non-admin.
			isAdmin, ok := c.Get("is_admin").(bool)
			if !ok || !isAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

// RequireActive returns a middleware that rejects deactivated accounts with
// 403 Forbidden.  Admin users pass regardless of the active flag so a
// deactivated administrator can still manage the system.
func RequireActive() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isAdmin, ok := c.Get("is_admin").(bool); ok && isAdmin {
				return next(c)
			}
			isActive, ok := c.Get("is_active").(bool)
			if !ok || !isActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account is deactivated"})
			}
			return next(c)
		}
	}
}
