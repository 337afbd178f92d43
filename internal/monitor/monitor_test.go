package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climatebridge/internal/climate"
	"climatebridge/internal/db"
	"climatebridge/internal/events"
	"climatebridge/internal/types"
)

// recordingVehicleRepo 记录调用的车辆仓储实现
type recordingVehicleRepo struct {
	mu        sync.Mutex
	states    []db.VehicleInfo
	pollTimes []string
}

func (r *recordingVehicleRepo) GetVehicleByVIN(vin string) (*db.VehicleInfo, error) { return nil, nil }
func (r *recordingVehicleRepo) GetEnabledVehicles() ([]db.VehicleInfo, error)       { return nil, nil }
func (r *recordingVehicleRepo) GetAllVehicles() ([]db.VehicleInfo, error)           { return nil, nil }
func (r *recordingVehicleRepo) RegisterVehicle(vin, alias string, targetTemp float32) error {
	return nil
}

func (r *recordingVehicleRepo) UpdateState(vin, mode string, targetTemp float32, frontDefrost, rearDefrost bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, db.VehicleInfo{
		VIN:          vin,
		Mode:         mode,
		TargetTemp:   targetTemp,
		FrontDefrost: boolToInt(frontDefrost),
		RearDefrost:  boolToInt(rearDefrost),
	})
	return nil
}

func (r *recordingVehicleRepo) UpdateLastPollTime(vin string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pollTimes = append(r.pollTimes, vin)
	return nil
}

func (r *recordingVehicleRepo) lastState() (db.VehicleInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return db.VehicleInfo{}, false
	}
	return r.states[len(r.states)-1], true
}

// recordingCmdLogRepo 记录调用的指令日志仓储实现
type recordingCmdLogRepo struct {
	mu   sync.Mutex
	logs []db.CommandLog
}

func (r *recordingCmdLogRepo) CreateLog(log *db.CommandLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *recordingCmdLogRepo) GetLogsByVIN(vin string, limit int) ([]db.CommandLog, error) {
	return nil, nil
}

func (r *recordingCmdLogRepo) GetLogsBetween(vin string, start, end time.Time) ([]db.CommandLog, error) {
	return nil, nil
}

func (r *recordingCmdLogRepo) all() []db.CommandLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]db.CommandLog, len(r.logs))
	copy(out, r.logs)
	return out
}

// TestMonitorPersistsEvents 测试事件落库
func TestMonitorPersistsEvents(t *testing.T) {
	bus := events.NewEventBus()
	vehicleRepo := &recordingVehicleRepo{}
	cmdLogRepo := &recordingCmdLogRepo{}

	m := NewMonitor(climate.NewRegistry(), vehicleRepo, cmdLogRepo, bus, time.Hour)
	m.Start()
	defer m.Stop()

	// 测试1: 状态变更事件写入车辆表
	bus.Publish(events.Event{
		Type:      events.EventStateChange,
		VIN:       "VIN00000000000001",
		Timestamp: time.Now(),
		Data: events.StateChangeData{State: types.State{
			VIN:          "VIN00000000000001",
			Mode:         types.ModeHeatCool,
			TargetTemp:   24,
			FrontDefrost: true,
		}},
	})

	require.Eventually(t, func() bool {
		_, ok := vehicleRepo.lastState()
		return ok
	}, time.Second, 10*time.Millisecond)

	state, _ := vehicleRepo.lastState()
	assert.Equal(t, "heat_cool", state.Mode)
	assert.Equal(t, float32(24), state.TargetTemp)
	assert.Equal(t, 1, state.FrontDefrost)
	assert.Equal(t, 0, state.RearDefrost)

	// 测试2: 设置下发事件写入指令日志
	bus.Publish(events.Event{
		Type:      events.EventSettingsSent,
		VIN:       "VIN00000000000001",
		Timestamp: time.Now(),
		Data: events.SettingsSentData{
			VIN:        "VIN00000000000001",
			TargetTemp: 24,
			SettingsOn: true,
			Success:    true,
		},
	})

	require.Eventually(t, func() bool {
		return len(cmdLogRepo.all()) == 1
	}, time.Second, 10*time.Millisecond)

	log := cmdLogRepo.all()[0]
	assert.Equal(t, "settings", log.Kind)
	assert.Equal(t, float32(24), log.TargetTemp)
	assert.Equal(t, 1, log.SettingsOn)
	assert.Equal(t, 1, log.Success)

	// 测试3: 指令失败事件写入指令日志并带失败原因
	bus.Publish(events.Event{
		Type:      events.EventCommandFailed,
		VIN:       "VIN00000000000001",
		Timestamp: time.Now(),
		Data: events.CommandFailedData{
			VIN:     "VIN00000000000001",
			Command: "engine-start",
			Reason:  "rejected by vehicle",
		},
	})

	require.Eventually(t, func() bool {
		return len(cmdLogRepo.all()) == 2
	}, time.Second, 10*time.Millisecond)

	log = cmdLogRepo.all()[1]
	assert.Equal(t, "engine-start", log.Kind)
	assert.Equal(t, 0, log.Success)
	assert.Equal(t, "rejected by vehicle", log.ErrorText)
}

// TestMonitorStopUnsubscribes 测试停止后不再落库
func TestMonitorStopUnsubscribes(t *testing.T) {
	bus := events.NewEventBus()
	vehicleRepo := &recordingVehicleRepo{}
	cmdLogRepo := &recordingCmdLogRepo{}

	m := NewMonitor(climate.NewRegistry(), vehicleRepo, cmdLogRepo, bus, time.Hour)
	m.Start()
	m.Stop()

	bus.Publish(events.Event{
		Type:      events.EventSettingsSent,
		VIN:       "VIN00000000000001",
		Timestamp: time.Now(),
		Data:      events.SettingsSentData{VIN: "VIN00000000000001"},
	})

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, cmdLogRepo.all())
}
