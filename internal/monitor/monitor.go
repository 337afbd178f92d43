// internal/monitor/monitor.go

package monitor

import (
	"context"
	"time"

	"climatebridge/internal/climate"
	"climatebridge/internal/db"
	"climatebridge/internal/events"
	"climatebridge/internal/logger"
)

// Monitor 周期性轮询车辆空调状态
// 同时订阅实体事件，把状态变更和指令结果落库
type Monitor struct {
	registry     *climate.Registry
	vehicleRepo  db.IVehicleRepository
	cmdLogRepo   db.ICommandLogRepository
	eventBus     *events.EventBus
	pollInterval time.Duration
	stopChan     chan struct{}
	subs         []events.Subscription
}

func NewMonitor(
	registry *climate.Registry,
	vehicleRepo db.IVehicleRepository,
	cmdLogRepo db.ICommandLogRepository,
	eventBus *events.EventBus,
	interval time.Duration,
) *Monitor {
	if interval == 0 {
		interval = 120 * time.Second // 默认轮询间隔
	}

	return &Monitor{
		registry:     registry,
		vehicleRepo:  vehicleRepo,
		cmdLogRepo:   cmdLogRepo,
		eventBus:     eventBus,
		pollInterval: interval,
		stopChan:     make(chan struct{}),
	}
}

func (m *Monitor) Start() {
	m.subs = append(m.subs,
		m.eventBus.Subscribe(events.EventStateChange, m.onStateChange),
		m.eventBus.Subscribe(events.EventSettingsSent, m.onSettingsSent),
		m.eventBus.Subscribe(events.EventCommandFailed, m.onCommandFailed),
	)
	go m.run()
	logger.Info("Monitor started with interval: %v", m.pollInterval)
}

func (m *Monitor) Stop() {
	close(m.stopChan)
	for _, sub := range m.subs {
		m.eventBus.Unsubscribe(sub)
	}
	logger.Info("Monitor stopped")
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.pollAll()
		case <-m.stopChan:
			return
		}
	}
}

// pollAll 轮询所有已注册实体
// 实体自身会在空调未开启时跳过，这里不做筛选
func (m *Monitor) pollAll() {
	for _, entity := range m.registry.All() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		entity.Update(ctx)
		cancel()

		if err := m.vehicleRepo.UpdateLastPollTime(entity.VIN(), time.Now()); err != nil {
			logger.Error("记录轮询时间失败 - %s: %v", entity.VIN(), err)
		}
	}
}

// onStateChange 持久化实体发布的最新状态
func (m *Monitor) onStateChange(event events.Event) {
	data, ok := event.Data.(events.StateChangeData)
	if !ok {
		return
	}
	state := data.State
	err := m.vehicleRepo.UpdateState(state.VIN, string(state.Mode), state.TargetTemp,
		state.FrontDefrost, state.RearDefrost)
	if err != nil {
		logger.Error("持久化车辆状态失败 - %s: %v", state.VIN, err)
	}
}

// onSettingsSent 把设置下发结果写入指令日志
func (m *Monitor) onSettingsSent(event events.Event) {
	data, ok := event.Data.(events.SettingsSentData)
	if !ok {
		return
	}
	log := &db.CommandLog{
		VIN:        data.VIN,
		Kind:       "settings",
		TargetTemp: data.TargetTemp,
		SettingsOn: boolToInt(data.SettingsOn),
		Success:    boolToInt(data.Success),
		SentAt:     event.Timestamp,
	}
	if err := m.cmdLogRepo.CreateLog(log); err != nil {
		logger.Error("写入指令日志失败 - %s: %v", data.VIN, err)
	}
}

// onCommandFailed 把失败的控制指令写入指令日志
func (m *Monitor) onCommandFailed(event events.Event) {
	data, ok := event.Data.(events.CommandFailedData)
	if !ok {
		return
	}
	log := &db.CommandLog{
		VIN:       data.VIN,
		Kind:      data.Command,
		Success:   0,
		ErrorText: data.Reason,
		SentAt:    event.Timestamp,
	}
	if err := m.cmdLogRepo.CreateLog(log); err != nil {
		logger.Error("写入指令日志失败 - %s: %v", data.VIN, err)
	}
}

// 辅助函数: bool转int
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
