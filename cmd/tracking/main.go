package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/config"
	"github.com/unipool/unipool/internal/pkg/database"
	"github.com/unipool/unipool/internal/pkg/health"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/pkg/mqtt"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
	"github.com/unipool/unipool/internal/pkg/server"
	"github.com/unipool/unipool/services/routing/directions"
	"github.com/unipool/unipool/services/tracking/handler"
	"github.com/unipool/unipool/services/tracking/repository"
	"github.com/unipool/unipool/services/tracking/subscriber"
)

func main() {
	appName := "tracking-service"
	configs := config.InitConfig(".env")

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       "info",
		ServiceName: appName,
		Development: configs.App.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.SetGlobalLogger(zapLogger)
	defer zapLogger.Sync()

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer redisClient.Close()

	// Initialize NATS client
	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}
	defer natsClient.Close()

	// Initialize repository and routing client
	locationRepo := repository.NewLocationRepo(redisClient)
	routeClient := directions.NewClient(configs.Routing)

	// Each tracking session gets its own broker client
	manager := subscriber.NewManager(func(driverID string, pickup, destination models.GeoLocation) *subscriber.Tracker {
		transport := mqtt.NewClient(configs.MQTT)
		return subscriber.NewTracker(transport, routeClient, locationRepo,
			configs.MQTT, configs.Tracking, driverID, pickup, destination)
	})
	defer manager.StopAll()

	// Initialize handlers
	trackingHandler := handler.NewHandler(manager, locationRepo, natsClient, configs)
	if err := trackingHandler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
	}
	defer trackingHandler.Close()

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	trackingHandler.RegisterRoutes(e)
	health.NewHandler(appName,
		health.NewRedisChecker(redisClient),
		health.NewNATSChecker(natsClient),
	).RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server exited with error", logger.Err(err))
	}
}
