package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/config"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/mqtt"
	"github.com/unipool/unipool/services/tracking/publisher"
	"github.com/unipool/unipool/services/tracking/sampler"
	"github.com/unipool/unipool/services/tracking/sampler/httpsource"
)

func main() {
	driverID := flag.String("driver-id", "", "driver identifier for the location topic")
	flag.Parse()

	appName := "driver-agent"
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

	if *driverID == "" {
		zapLogger.Fatal("driver-id is required")
	}

	// Positioning source fed over the local ingest endpoint
	source := httpsource.New()

	e := echo.New()
	e.HideBanner = true
	source.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", configs.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start ingest endpoint", logger.Err(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sample and relay
	samples, err := sampler.New(source, sampler.FromConfig(configs.Tracking)).Samples(ctx)
	if err != nil {
		zapLogger.Fatal("Failed to start location sampling", logger.Err(err))
	}

	transport := mqtt.NewClient(configs.MQTT)
	pub := publisher.New(transport, configs.MQTT, *driverID)
	go pub.Run(ctx, samples)
	defer pub.Stop()

	zapLogger.Info("Driver agent started",
		logger.String("driver_id", *driverID))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	cancel()
	if err := e.Shutdown(context.Background()); err != nil {
		zapLogger.Warn("Ingest endpoint shutdown failed", logger.Err(err))
	}
	zapLogger.Info("Driver agent stopped")
}
