package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.ApiService/devserver"
	container "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Container"
	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
)

// Local development server. Serves the Lambda handlers over plain HTTP so the
// dashboard can run against them without deploying.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ctr, err := container.NewApiContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}

	logger := ctr.GetLogger()
	config := ctr.GetConfig()
	logger.Info("Starting development API server")

	if config.Database.Backend == container.BackendMemory {
		seed := tlgmodels.Device{
			DeviceID:  "00000000-0000-4000-8000-000000000001",
			Name:      "Local sensor",
			Location:  "Desk",
			CreatedAt: time.Now().UnixMilli(),
		}
		if err := ctr.GetDeviceRepository().CreateOrUpdateDevice(ctx, seed); err != nil {
			logger.FatalWithError(err, "Failed to seed memory store")
		}
	}

	if config.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := devserver.NewRouter(devserver.Routes{
		Auth:        ctr.AuthHandler().Handle,
		Devices:     ctr.DevicesHandler().Handle,
		Sensors:     ctr.SensorsHandler().Handle,
		Temperature: ctr.TemperatureHandler().Handle,
		Health:      ctr.HealthCheck,
	}, logger)

	port := config.Server.Port
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}
}
