package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/config"
	"github.com/unipool/unipool/internal/pkg/database"
	"github.com/unipool/unipool/internal/pkg/health"
	"github.com/unipool/unipool/internal/pkg/logger"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
	"github.com/unipool/unipool/internal/pkg/server"
	"github.com/unipool/unipool/services/rides/gateway"
	"github.com/unipool/unipool/services/rides/handler"
	"github.com/unipool/unipool/services/rides/repository"
	"github.com/unipool/unipool/services/rides/usecase"
)

func main() {
	appName := "rides-service"
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

	// Initialize Postgres client
	pgClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Postgres", logger.Err(err))
	}
	defer pgClient.Close()

	// Initialize NATS client
	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}
	defer natsClient.Close()

	// Wire repository, gateway, usecase
	rideRepo := repository.NewRideRepository(configs, pgClient.DB)
	rideGW := gateway.NewRideGW(natsClient)
	rideUC := usecase.NewRideUsecase(configs, rideRepo, rideGW)

	// Initialize handlers
	ridesHandler := handler.NewHandler(rideUC, configs)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true
	ridesHandler.RegisterRoutes(e)
	health.NewHandler(appName,
		health.NewPostgresChecker(pgClient),
		health.NewNATSChecker(natsClient),
	).RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server exited with error", logger.Err(err))
	}
}
