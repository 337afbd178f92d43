// internal/climate/entity.go
// Package climate 实现车辆空调实体
// 包括本地状态维护、设置去抖下发和与车端状态的对账
package climate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"climatebridge/internal/events"
	"climatebridge/internal/logger"
	"climatebridge/internal/metrics"
	"climatebridge/internal/toyota"
	"climatebridge/internal/types"
)

// operation 用户侧操作类型
type operation int

const (
	opSetTemperature operation = iota
	opSetPreset
	opTurnOn
	opTurnOff
)

var operationNames = map[operation]string{
	opSetTemperature: "set_temperature",
	opSetPreset:      "set_preset",
	opTurnOn:         "turn_on",
	opTurnOff:        "turn_off",
}

// rollbackOnFailure 各操作在远程失败时是否回滚乐观更新
// 只有开机会回滚：开机失败却显示空调已开启会误导用户；
// 温度/预设/关机保留乐观值，等下一次轮询对账
var rollbackOnFailure = map[operation]bool{
	opSetTemperature: false,
	opSetPreset:      false,
	opTurnOn:         true,
	opTurnOff:        false,
}

// Entity 单台车辆的空调实体
type Entity struct {
	vin   string
	alias string
	api   VehicleAPI
	bus   *events.EventBus
	cfg   types.Config

	mu            sync.Mutex
	mode          types.HVACMode
	targetTemp    float32
	currentTemp   *float32
	frontDefrost  bool
	rearDefrost   bool
	climateActive bool
	operations    []toyota.ACOperation // 车端上一次已知的完整操作列表
	lastModified  time.Time

	debouncer *Debouncer
}

// NewEntity 创建空调实体
// settings 为车端上一次已知设置，未拉取到时传 nil，使用配置默认值兜底
func NewEntity(vin, alias string, api VehicleAPI, bus *events.EventBus, cfg types.Config, settings *toyota.ClimateSettings) *Entity {
	e := &Entity{
		vin:        vin,
		alias:      alias,
		api:        api,
		bus:        bus,
		cfg:        cfg,
		mode:       types.ModeOff,
		targetTemp: cfg.DefaultTemp,
	}

	if settings != nil {
		if cfg.TempRange.Contains(settings.Temperature) {
			e.targetTemp = settings.Temperature
		}
		e.operations = settings.ACOperations

		// 从 defrost 分组恢复前后除霜开关
		for _, op := range settings.ACOperations {
			if op.CategoryName != toyota.CategoryDefrost {
				continue
			}
			for _, param := range op.Parameters {
				switch param.Name {
				case toyota.ParamFrontDefrost:
					e.frontDefrost = param.Enabled
				case toyota.ParamRearDefrost:
					e.rearDefrost = param.Enabled
				}
			}
		}
	}

	if cfg.DebounceDelay > 0 {
		e.debouncer = NewDebouncer(cfg.DebounceDelay, func() {
			e.sendSettings(context.Background())
		})
	}

	return e
}

// VIN 车辆识别码
func (e *Entity) VIN() string { return e.vin }

// Alias 车辆别名
func (e *Entity) Alias() string { return e.alias }

// State 返回当前状态快照
func (e *Entity) State() types.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Entity) stateLocked() types.State {
	var currentTemp *float32
	if e.currentTemp != nil {
		v := *e.currentTemp
		currentTemp = &v
	}
	return types.State{
		VIN:           e.vin,
		Alias:         e.alias,
		Mode:          e.mode,
		TargetTemp:    e.targetTemp,
		CurrentTemp:   currentTemp,
		FrontDefrost:  e.frontDefrost,
		RearDefrost:   e.rearDefrost,
		Preset:        types.PresetFromDefrost(e.frontDefrost, e.rearDefrost),
		ClimateActive: e.climateActive,
		LastModified:  e.lastModified,
	}
}

// SettingsOn 空调是否处于指令开启状态
func (e *Entity) SettingsOn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode == types.ModeHeatCool
}

// SetTemperature 设置目标温度
// 本地立即生效（乐观更新），随后按配置去抖/立即下发完整设置
// 超出允许范围的温度直接拒绝
func (e *Entity) SetTemperature(ctx context.Context, temp float32) error {
	if !e.cfg.TempRange.Contains(temp) {
		return fmt.Errorf("温度 %.1f°C 超出允许范围 %.1f-%.1f°C",
			temp, e.cfg.TempRange.Min, e.cfg.TempRange.Max)
	}

	e.mu.Lock()
	e.targetTemp = e.snapToStep(temp)
	e.lastModified = time.Now()
	e.mu.Unlock()

	e.writeState()
	e.requestSettingsSend(ctx)
	return nil
}

// SetPreset 设置除霜预设
// 预设名映射为前后除霜开关组合，随后走与温度相同的设置下发路径
func (e *Entity) SetPreset(ctx context.Context, preset types.Preset) error {
	front, rear, ok := preset.Defrost()
	if !ok {
		return fmt.Errorf("无效的预设模式: %s", preset)
	}

	e.mu.Lock()
	e.frontDefrost = front
	e.rearDefrost = rear
	e.lastModified = time.Now()
	e.mu.Unlock()

	e.writeState()
	e.requestSettingsSend(ctx)
	return nil
}

// SetHVACMode 设置空调运行模式
func (e *Entity) SetHVACMode(ctx context.Context, mode types.HVACMode) error {
	switch mode {
	case types.ModeHeatCool:
		e.TurnOn(ctx)
	case types.ModeOff:
		e.TurnOff(ctx)
	default:
		return fmt.Errorf("无效的运行模式: %s", mode)
	}
	return nil
}

// TurnOn 开启空调
// 乐观置为开启后立即下发完整设置，成功后再发 engine-start；
// 任一步骤失败则回滚为关闭，避免界面误报空调已开启
func (e *Entity) TurnOn(ctx context.Context) {
	e.mu.Lock()
	e.mode = types.ModeHeatCool
	e.lastModified = time.Now()
	e.mu.Unlock()
	e.writeState()

	logger.Debug("尝试开启空调 - %s", e.alias)

	// 取消待触发的去抖下发，保证接下来立即下发的是完整的当前状态
	if e.debouncer != nil {
		e.debouncer.Cancel()
	}

	ok := e.sendSettings(ctx)
	if ok {
		ok = e.sendCommand(ctx, toyota.CommandEngineStart)
		if ok {
			logger.Info("空调已开启 - %s", e.alias)
		}
	}
	e.finishOperation(opTurnOn, ok)
}

// TurnOff 关闭空调
// 关闭视为安全的终态：engine-stop 失败只记录日志，不回滚
func (e *Entity) TurnOff(ctx context.Context) {
	e.mu.Lock()
	e.mode = types.ModeOff
	e.lastModified = time.Now()
	e.mu.Unlock()
	e.writeState()

	logger.Debug("尝试关闭空调 - %s", e.alias)

	ok := e.sendCommand(ctx, toyota.CommandEngineStop)
	if ok {
		logger.Info("空调已关闭 - %s", e.alias)
	}
	e.finishOperation(opTurnOff, ok)
}

// Update 周期性轮询入口
// 空调未开启时不打扰车辆；刷新成功后拉取运行状态并对账：
// 车端在运行则同步车内温度，车端从运行转为停止则把本地模式归位为关闭
func (e *Entity) Update(ctx context.Context) {
	if !e.SettingsOn() {
		return
	}

	refreshed, err := e.api.RefreshClimateStatus(ctx, e.vin)
	if err != nil {
		logger.Error("刷新空调状态失败 - %s: %v", e.alias, err)
		metrics.Polls.WithLabelValues(e.vin, metrics.OutcomeError).Inc()
		return
	}
	if !refreshed {
		metrics.Polls.WithLabelValues(e.vin, metrics.OutcomeRejected).Inc()
		return
	}
	logger.Debug("空调状态已刷新 - %s", e.alias)

	status, err := e.api.GetClimateStatus(ctx, e.vin)
	if err != nil {
		logger.Error("拉取空调状态失败 - %s: %v", e.alias, err)
		metrics.Polls.WithLabelValues(e.vin, metrics.OutcomeError).Inc()
		return
	}

	shutdown := false
	e.mu.Lock()
	if status.Status {
		// 车端正在制冷/制热，同步车内温度
		e.climateActive = true
		e.currentTemp = status.CurrentTemperature
	} else if e.climateActive {
		// 车端从运行转为停止（如 20 分钟自动停机），本地归位为关闭
		e.mode = types.ModeOff
		e.currentTemp = nil
		e.climateActive = false
		shutdown = true
	}
	snapshot := e.stateLocked()
	e.mu.Unlock()

	e.writeState()
	metrics.Polls.WithLabelValues(e.vin, metrics.OutcomeOK).Inc()

	e.bus.Publish(events.Event{
		Type:      events.EventPollCompleted,
		VIN:       e.vin,
		Timestamp: time.Now(),
		Data: events.PollCompletedData{
			VIN:           e.vin,
			ClimateActive: snapshot.ClimateActive,
			CurrentTemp:   snapshot.CurrentTemp,
		},
	})
	if shutdown {
		logger.Info("车端已停止空调，实体归位为关闭 - %s", e.alias)
		e.bus.Publish(events.Event{
			Type:      events.EventVehicleShutdown,
			VIN:       e.vin,
			Timestamp: time.Now(),
		})
	}
}

// Close 实体注销时清理
// 必须取消待触发的去抖下发,避免实体销毁后定时器仍然触发
func (e *Entity) Close() {
	if e.debouncer != nil {
		e.debouncer.Cancel()
	}
}

// requestSettingsSend 请求下发当前设置
// 去抖模式下重新调度定时器；立即模式下仅在空调指令开启时同步下发
func (e *Entity) requestSettingsSend(ctx context.Context) {
	if e.debouncer != nil {
		if e.debouncer.RequestSend() {
			metrics.DebounceCoalesced.WithLabelValues(e.vin).Inc()
		}
		return
	}

	if !e.SettingsOn() {
		logger.Debug("空调未开启，跳过设置下发 - %s", e.alias)
		return
	}
	e.sendSettings(ctx)
}

// sendSettings 下发完整空调设置
// 失败只记录日志与事件；温度/预设的乐观更新不回滚
func (e *Entity) sendSettings(ctx context.Context) bool {
	settings := e.buildSettings()

	resp, err := e.api.UpdateClimateSettings(ctx, e.vin, settings)
	success := err == nil && !resp.Rejected()

	switch {
	case err != nil:
		logger.Error("下发空调设置失败 - %s: %v", e.alias, err)
		metrics.SettingsSends.WithLabelValues(e.vin, metrics.OutcomeError).Inc()
	case resp.Rejected():
		logger.Error("车端拒绝空调设置 - %s: %+v", e.alias, resp)
		metrics.SettingsSends.WithLabelValues(e.vin, metrics.OutcomeRejected).Inc()
	default:
		logger.Debug("空调设置已下发 - %s", e.alias)
		metrics.SettingsSends.WithLabelValues(e.vin, metrics.OutcomeOK).Inc()
	}

	e.bus.Publish(events.Event{
		Type:      events.EventSettingsSent,
		VIN:       e.vin,
		Timestamp: time.Now(),
		Data: events.SettingsSentData{
			VIN:        e.vin,
			TargetTemp: settings.Temperature,
			SettingsOn: settings.SettingsOn,
			Success:    success,
		},
	})
	return success
}

// sendCommand 发送空调控制指令
func (e *Entity) sendCommand(ctx context.Context, command string) bool {
	resp, err := e.api.SendClimateCommand(ctx, e.vin, &toyota.ClimateControlCommand{Command: command})
	if err != nil {
		logger.Error("发送空调指令失败 - %s, 指令: %s, 错误: %v", e.alias, command, err)
		metrics.ClimateCommands.WithLabelValues(e.vin, command, metrics.OutcomeError).Inc()
		e.publishCommandFailed(command, err.Error())
		return false
	}
	if resp.Rejected() {
		// 车端拒绝的可能原因：车辆不可达、车门/车窗未关、
		// 钥匙在车内、本次点火后远程空调已用满 20 分钟
		logger.Error("车端拒绝空调指令 - %s, 指令: %s, 应答: %+v", e.alias, command, resp)
		metrics.ClimateCommands.WithLabelValues(e.vin, command, metrics.OutcomeRejected).Inc()
		e.publishCommandFailed(command, "rejected by vehicle")
		return false
	}

	metrics.ClimateCommands.WithLabelValues(e.vin, command, metrics.OutcomeOK).Inc()
	return true
}

// finishOperation 按回滚策略表收尾一次用户操作
func (e *Entity) finishOperation(op operation, ok bool) {
	if ok || !rollbackOnFailure[op] {
		return
	}

	logger.Warn("操作 %s 失败，回滚为关闭 - %s", operationNames[op], e.alias)
	e.mu.Lock()
	e.mode = types.ModeOff
	e.lastModified = time.Now()
	e.mu.Unlock()
	e.writeState()
}

// buildSettings 由当前状态构造完整设置载荷
// 在车端已知操作列表的基础上替换 defrost 分组，其余分组原样带回
func (e *Entity) buildSettings() *toyota.ClimateSettings {
	e.mu.Lock()
	defer e.mu.Unlock()

	defrost := toyota.ACOperation{
		CategoryName: toyota.CategoryDefrost,
		Parameters: []toyota.ACParameter{
			{Name: toyota.ParamFrontDefrost, Enabled: e.frontDefrost},
			{Name: toyota.ParamRearDefrost, Enabled: e.rearDefrost},
		},
	}

	operations := make([]toyota.ACOperation, 0, len(e.operations)+1)
	replaced := false
	for _, op := range e.operations {
		if op.CategoryName == toyota.CategoryDefrost {
			operations = append(operations, defrost)
			replaced = true
			continue
		}
		operations = append(operations, op)
	}
	if !replaced {
		operations = append(operations, defrost)
	}

	return &toyota.ClimateSettings{
		SettingsOn:      e.mode == types.ModeHeatCool,
		Temperature:     e.targetTemp,
		TemperatureUnit: "C",
		ACOperations:    operations,
	}
}

// writeState 把当前状态发布给观察者并刷新指标
func (e *Entity) writeState() {
	state := e.State()

	if state.Mode == types.ModeHeatCool {
		metrics.ModeOn.WithLabelValues(e.vin).Set(1)
	} else {
		metrics.ModeOn.WithLabelValues(e.vin).Set(0)
	}
	metrics.TargetTemperature.WithLabelValues(e.vin).Set(float64(state.TargetTemp))
	if state.CurrentTemp != nil {
		metrics.CurrentTemperature.WithLabelValues(e.vin).Set(float64(*state.CurrentTemp))
	}

	e.bus.Publish(events.Event{
		Type:      events.EventStateChange,
		VIN:       e.vin,
		Timestamp: time.Now(),
		Data:      events.StateChangeData{State: state},
	})
}

func (e *Entity) publishCommandFailed(command, reason string) {
	e.bus.Publish(events.Event{
		Type:      events.EventCommandFailed,
		VIN:       e.vin,
		Timestamp: time.Now(),
		Data: events.CommandFailedData{
			VIN:     e.vin,
			Command: command,
			Reason:  reason,
		},
	})
}

// snapToStep 把温度对齐到配置步长
func (e *Entity) snapToStep(temp float32) float32 {
	step := e.cfg.TempStep
	if step <= 0 {
		return temp
	}
	min := e.cfg.TempRange.Min
	steps := float32(int((temp-min)/step + 0.5))
	snapped := min + steps*step
	if snapped > e.cfg.TempRange.Max {
		snapped = e.cfg.TempRange.Max
	}
	return snapped
}
