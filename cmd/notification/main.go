package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unipool/unipool/internal/pkg/config"
	"github.com/unipool/unipool/internal/pkg/database"
	"github.com/unipool/unipool/internal/pkg/logger"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
	"github.com/unipool/unipool/services/notification/gateway"
	"github.com/unipool/unipool/services/notification/handler"
	"github.com/unipool/unipool/services/notification/repository"
	"github.com/unipool/unipool/services/notification/usecase"
)

func main() {
	appName := "notification-service"
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
	notificationRepo := repository.NewNotificationRepository(configs, pgClient.DB)
	notificationGW := gateway.NewNotificationGW(natsClient)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, notificationGW)

	// Consume ride events into pending notifications
	natsHandler := handler.NewNATSHandler(notificationUC, natsClient)
	if err := natsHandler.InitConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
	}
	defer natsHandler.Close()

	// Dispatch loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notificationUC.Run(ctx, 5*time.Second)

	zapLogger.Info("Notification service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Notification service shutting down")
}
