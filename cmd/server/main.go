package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/config"
	"github.com/vkorchik/train-station-api/internal/database"
	"github.com/vkorchik/train-station-api/internal/handler"
	"github.com/vkorchik/train-station-api/internal/middleware"
	"github.com/vkorchik/train-station-api/internal/queue"
	"github.com/vkorchik/train-station-api/internal/repository"
	"github.com/vkorchik/train-station-api/internal/router"
	"github.com/vkorchik/train-station-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	e := echo.New()
	e.HideBanner = true

	// Redis backs the response cache and the rate limiter. Both degrade
	// to no-ops when the server is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	users := repository.NewUserRepo(db)
	tokens := repository.NewRefreshTokenRepo(db)
	trainTypes := repository.NewTrainTypeRepo(db)
	trains := repository.NewTrainRepo(db)
	stations := repository.NewStationRepo(db)
	routes := repository.NewRouteRepo(db)
	crews := repository.NewCrewRepo(db)
	trips := repository.NewTripRepo(db)
	orders := repository.NewOrderRepo(db)
	tickets := repository.NewTicketRepo(db)

	booking := service.NewBookingService(orders, trips, tickets)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterCatalog(e, router.CatalogHandlers{
		TrainTypes: handler.NewTrainTypeHandler(trainTypes),
		Trains:     handler.NewTrainHandler(trains),
		Stations:   handler.NewStationHandler(stations),
		Routes:     handler.NewRouteHandler(routes),
		Crews:      handler.NewCrewHandler(crews),
		Trips:      handler.NewTripHandler(trips),
	}, cfg.JWTSecret)
	router.RegisterBooking(e, handler.NewOrderHandler(orders, booking), handler.NewTicketHandler(tickets), cfg.JWTSecret)

	// background consumer appends placed orders to logs/orders.log
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
