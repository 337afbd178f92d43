// internal/types/climate_types.go

package types

import "time"

// HVACMode 空调运行模式
type HVACMode string

const (
	ModeOff      HVACMode = "off"
	ModeHeatCool HVACMode = "heat_cool"
)

// Preset 除霜预设模式
// 由前/后除霜开关组合推导，不单独存储
type Preset string

const (
	PresetNone         Preset = "none"
	PresetFrontDefrost Preset = "front_defrost"
	PresetRearDefrost  Preset = "rear_defrost"
	PresetBothDefrost  Preset = "both_defrost"
)

// PresetFromDefrost 根据前后除霜开关推导预设模式
func PresetFromDefrost(front, rear bool) Preset {
	switch {
	case front && rear:
		return PresetBothDefrost
	case front:
		return PresetFrontDefrost
	case rear:
		return PresetRearDefrost
	default:
		return PresetNone
	}
}

// Defrost 返回预设模式对应的前后除霜开关
// 第二个返回值表示预设名是否有效
func (p Preset) Defrost() (front, rear, ok bool) {
	switch p {
	case PresetBothDefrost:
		return true, true, true
	case PresetFrontDefrost:
		return true, false, true
	case PresetRearDefrost:
		return false, true, true
	case PresetNone:
		return false, false, true
	}
	return false, false, false
}

// State 车辆空调状态快照
type State struct {
	VIN           string    `json:"vin"`
	Alias         string    `json:"alias"`
	Mode          HVACMode  `json:"mode"`
	TargetTemp    float32   `json:"target_temp"`
	CurrentTemp   *float32  `json:"current_temp,omitempty"` // 仅空调确认运行时有值
	FrontDefrost  bool      `json:"front_defrost"`
	RearDefrost   bool      `json:"rear_defrost"`
	Preset        Preset    `json:"preset"`
	ClimateActive bool      `json:"climate_active"`
	LastModified  time.Time `json:"last_modified"`
}

// SettingsOn 空调是否处于指令开启状态
func (s State) SettingsOn() bool {
	return s.Mode == ModeHeatCool
}

// TempRange 温度范围
type TempRange struct {
	Min float32
	Max float32
}

// Contains 判断温度是否在范围内
func (r TempRange) Contains(temp float32) bool {
	return temp >= r.Min && temp <= r.Max
}

// Config 空调实体配置
type Config struct {
	DefaultTemp   float32       // 默认目标温度
	TempRange     TempRange     // 可设置温度范围
	TempStep      float32       // 温度调节步长
	DebounceDelay time.Duration // 设置下发去抖延迟，0 表示立即下发
	ScanInterval  time.Duration // 轮询间隔
}

// DefaultConfig 返回默认配置
// 在车辆设置尚未拉取到时作为兜底
func DefaultConfig() Config {
	return Config{
		DefaultTemp:   21,
		TempRange:     TempRange{Min: 18, Max: 29},
		TempStep:      1,
		DebounceDelay: 5 * time.Second,
		ScanInterval:  120 * time.Second,
	}
}
