package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/handler"
	"github.com/vkorchik/train-station-api/internal/middleware"
)

// CatalogHandlers bundles the handlers for the reference-data
// resources registered by RegisterCatalog.
type CatalogHandlers struct {
	TrainTypes *handler.TrainTypeHandler
	Trains     *handler.TrainHandler
	Stations   *handler.StationHandler
	Routes     *handler.RouteHandler
	Crews      *handler.CrewHandler
	Trips      *handler.TripHandler
}

// RegisterCatalog wires the catalog resources under /v1. Any
// authenticated user may read; every mutation requires ADMIN.
func RegisterCatalog(e *echo.Echo, h CatalogHandlers, jwtSecret string) {
	read := e.Group("/v1")
	read.Use(middleware.JWTAuth(jwtSecret))
	read.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))

	read.GET("/train-types", h.TrainTypes.List)
	read.GET("/train-types/:id", h.TrainTypes.Get)
	read.GET("/trains", h.Trains.List)
	read.GET("/trains/:id", h.Trains.Get)
	read.GET("/stations", h.Stations.List)
	read.GET("/stations/:id", h.Stations.Get)
	read.GET("/routes", h.Routes.List)
	read.GET("/routes/:id", h.Routes.Get)
	read.GET("/crews", h.Crews.List)
	read.GET("/crews/:id", h.Crews.Get)
	read.GET("/trips", h.Trips.List)
	read.GET("/trips/:id", h.Trips.Get)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))

	admin.POST("/train-types", h.TrainTypes.Create)
	admin.PUT("/train-types/:id", h.TrainTypes.Update)
	admin.DELETE("/train-types/:id", h.TrainTypes.Delete)

	admin.POST("/trains", h.Trains.Create)
	admin.PUT("/trains/:id", h.Trains.Update)
	admin.DELETE("/trains/:id", h.Trains.Delete)

	admin.POST("/stations", h.Stations.Create)
	admin.PUT("/stations/:id", h.Stations.Update)
	admin.DELETE("/stations/:id", h.Stations.Delete)

	admin.POST("/routes", h.Routes.Create)
	admin.PUT("/routes/:id", h.Routes.Update)
	admin.DELETE("/routes/:id", h.Routes.Delete)

	admin.POST("/crews", h.Crews.Create)
	admin.PUT("/crews/:id", h.Crews.Update)
	admin.DELETE("/crews/:id", h.Crews.Delete)

	admin.POST("/trips", h.Trips.Create)
	admin.PUT("/trips/:id", h.Trips.Update)
	admin.DELETE("/trips/:id", h.Trips.Delete)
}
