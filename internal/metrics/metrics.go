// internal/metrics/metrics.go

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SettingsSends 设置下发次数，按结果统计
	SettingsSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climatebridge_settings_sends_total",
			Help: "Climate settings update calls by outcome",
		},
		[]string{"vin", "outcome"},
	)

	// ClimateCommands 远程控制指令次数
	ClimateCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climatebridge_climate_commands_total",
			Help: "Climate control commands by command and outcome",
		},
		[]string{"vin", "command", "outcome"},
	)

	// Polls 轮询次数
	Polls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climatebridge_polls_total",
			Help: "Periodic climate status polls by outcome",
		},
		[]string{"vin", "outcome"},
	)

	// DebounceCoalesced 被去抖合并掉的设置变更次数
	DebounceCoalesced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climatebridge_debounce_coalesced_total",
			Help: "Setting changes coalesced into a pending debounced send",
		},
		[]string{"vin"},
	)

	// ModeOn 当前指令开启状态 (1=heat_cool, 0=off)
	ModeOn = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "climatebridge_mode_on",
			Help: "Commanded HVAC mode per vehicle (1=heat_cool, 0=off)",
		},
		[]string{"vin"},
	)

	// TargetTemperature 当前目标温度
	TargetTemperature = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "climatebridge_target_temperature_celsius",
			Help: "Commanded target temperature per vehicle",
		},
		[]string{"vin"},
	)

	// CurrentTemperature 车内温度（仅空调运行时上报）
	CurrentTemperature = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "climatebridge_current_temperature_celsius",
			Help: "Reported cabin temperature per vehicle while climate is active",
		},
		[]string{"vin"},
	)
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

func init() {
	prometheus.MustRegister(
		SettingsSends,
		ClimateCommands,
		Polls,
		DebounceCoalesced,
		ModeOn,
		TargetTemperature,
		CurrentTemperature,
	)
}
