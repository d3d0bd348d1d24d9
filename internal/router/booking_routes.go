package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/handler"
	"github.com/vkorchik/train-station-api/internal/middleware"
)

// RegisterBooking wires order placement and listing for authenticated
// users, and the raw ticket table for administrators.
func RegisterBooking(e *echo.Echo, o *handler.OrderHandler, t *handler.TicketHandler, jwtSecret string) {
	orders := e.Group("/v1/orders")
	orders.Use(middleware.JWTAuth(jwtSecret))
	orders.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	orders.POST("", o.Create)
	orders.GET("", o.List)

	tickets := e.Group("/v1/tickets")
	tickets.Use(middleware.JWTAuth(jwtSecret))
	tickets.Use(middleware.RequireRole("ADMIN"))
	tickets.GET("", t.List)
	tickets.GET("/:id", t.Get)
	tickets.DELETE("/:id", t.Delete)
}
