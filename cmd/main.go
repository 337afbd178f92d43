package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"climatebridge/internal/app"
	"climatebridge/internal/logger"
	"climatebridge/internal/types"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		logger.SetLevel(logger.DebugLevel)
	}

	cfg := app.Config{
		APIBaseURL: os.Getenv("VEHICLE_API_URL"),
		APIToken:   os.Getenv("VEHICLE_API_TOKEN"),
		Climate:    types.DefaultConfig(),
	}
	if vin := os.Getenv("VEHICLE_VIN"); vin != "" {
		alias := os.Getenv("VEHICLE_ALIAS")
		if alias == "" {
			alias = vin
		}
		cfg.Vehicles = append(cfg.Vehicles, app.VehicleConfig{VIN: vin, Alias: alias})
	}

	// 创建应用实例
	app := app.NewApp(cfg)
	if err := app.Initialize(); err != nil {
		logger.Error("Init error: %v", err)
		os.Exit(1)
	}

	if err := app.Start(8080); err != nil {
		logger.Error("Start error: %v", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Stop(ctx); err != nil {
		logger.Error("Stop error: %v", err)
	}
}
