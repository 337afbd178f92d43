// internal/app/app.go

package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"climatebridge/api"
	"climatebridge/internal/climate"
	"climatebridge/internal/db"
	"climatebridge/internal/events"
	"climatebridge/internal/handlers"
	"climatebridge/internal/logger"
	"climatebridge/internal/monitor"
	"climatebridge/internal/toyota"
	"climatebridge/internal/types"
	"climatebridge/server"
)

// VehicleConfig 需要接入的车辆
type VehicleConfig struct {
	VIN   string
	Alias string
}

// Config 应用配置
type Config struct {
	APIBaseURL string
	APIToken   string
	Vehicles   []VehicleConfig
	Climate    types.Config
}

type App struct {
	cfg      Config
	eventBus *events.EventBus
	registry *climate.Registry
	client   *toyota.Client
	monitor  *monitor.Monitor
	server   *server.Server
	stopChan chan struct{}
}

func NewApp(cfg Config) *App {
	return &App{
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
}

func (a *App) Initialize() error {
	db.Init_DB()
	a.eventBus = events.NewEventBus()
	a.registry = climate.NewRegistry()

	vehicleRepo := db.NewVehicleRepository(db.DB)
	cmdLogRepo := db.NewCommandLogRepository(db.DB)

	a.client = toyota.NewClient(toyota.ClientConfig{
		BaseURL: a.cfg.APIBaseURL,
		Token:   a.cfg.APIToken,
	})

	// 登记配置中的车辆
	for _, v := range a.cfg.Vehicles {
		if err := vehicleRepo.RegisterVehicle(v.VIN, v.Alias, a.cfg.Climate.DefaultTemp); err != nil {
			return fmt.Errorf("登记车辆 %s 失败: %v", v.VIN, err)
		}
	}

	vehicles, err := vehicleRepo.GetEnabledVehicles()
	if err != nil {
		return fmt.Errorf("获取车辆列表失败: %v", err)
	}

	// 为每台车创建空调实体
	// 上一次已知设置拉取失败不致命，实体回退默认值
	for _, v := range vehicles {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		settings, err := a.client.GetClimateSettings(ctx, v.VIN)
		cancel()
		if err != nil {
			logger.Warn("拉取车辆 %s 的空调设置失败，使用默认值: %v", v.VIN, err)
			settings = nil
		}

		entity := climate.NewEntity(v.VIN, v.Alias, a.client, a.eventBus, a.cfg.Climate, settings)
		if err := a.registry.Add(entity); err != nil {
			return err
		}
		logger.Info("车辆 %s (%s) 空调实体已注册", v.Alias, v.VIN)
	}

	a.monitor = monitor.NewMonitor(a.registry, vehicleRepo, cmdLogRepo, a.eventBus, a.cfg.Climate.ScanInterval)

	return nil
}

func (a *App) Start(port int) error {
	a.monitor.Start()

	// 创建处理器
	climateHandler := handlers.NewClimateHandler(a.registry, a.cfg.Climate)
	vehicleHandler := handlers.NewVehicleHandler(
		db.NewVehicleRepository(db.DB),
		db.NewCommandLogRepository(db.DB),
	)

	// 设置路由
	router := api.SetupRouter(climateHandler, vehicleHandler)
	a.server = server.NewServer(router)

	go func() {
		if err := a.server.Start("", port); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error: %v", err)
		}
	}()

	a.eventBus.Publish(events.Event{
		Type:      events.EventSystemStartup,
		Timestamp: time.Now(),
	})

	logger.Info("Server started on port %d", port)
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	// 发送停止信号
	close(a.stopChan)

	// 停止监控器
	a.monitor.Stop()

	// 注销所有实体，取消挂起的去抖下发
	a.registry.CloseAll()

	a.eventBus.Publish(events.Event{
		Type:      events.EventSystemShutdown,
		Timestamp: time.Now(),
	})

	if err := a.server.Stop(ctx); err != nil {
		return fmt.Errorf("shutdown error: %v", err)
	}

	logger.Info("Application stopped gracefully")
	return nil
}
