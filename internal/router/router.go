// Package router wires handlers onto the Echo instance. Public routes
// carry no middleware; everything under /v1 outside /v1/auth requires
// a valid access token, and mutations on catalog data additionally
// require the ADMIN role.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/handler"
	"github.com/vkorchik/train-station-api/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register, login, refresh
// and logout are open; /v1/me requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// logout accepts either a refresh token in the body or a bearer
	// token, so it stays outside the JWT group
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}
