// internal/events/types.go

package events

import (
	"time"

	"climatebridge/internal/types"
)

// EventType 事件类型定义
type EventType int

const (
	// 系统事件 (0-9)
	EventSystemStartup EventType = iota
	EventSystemShutdown
	EventConfigChanged

	// 空调控制事件 (10-29)
	EventStateChange
	EventSettingsSent
	EventCommandFailed

	// 轮询事件 (30-49)
	EventPollCompleted
	EventVehicleShutdown
)

// Event 事件结构
type Event struct {
	Type      EventType   `json:"type"`
	VIN       string      `json:"vin"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Handler 事件处理函数类型
type Handler func(Event)

// Subscription 事件订阅信息
type Subscription struct {
	id        int
	EventType EventType
	Handler   Handler
}

// StateChangeData 状态变更事件数据
// 实体每次对外发布状态快照时携带
type StateChangeData struct {
	State types.State `json:"state"`
}

// SettingsSentData 设置下发事件数据
type SettingsSentData struct {
	VIN        string  `json:"vin"`
	TargetTemp float32 `json:"target_temp"`
	SettingsOn bool    `json:"settings_on"`
	Success    bool    `json:"success"`
}

// CommandFailedData 远程指令失败事件数据
type CommandFailedData struct {
	VIN     string `json:"vin"`
	Command string `json:"command"`
	Reason  string `json:"reason"`
}

// PollCompletedData 轮询完成事件数据
type PollCompletedData struct {
	VIN           string   `json:"vin"`
	ClimateActive bool     `json:"climate_active"`
	CurrentTemp   *float32 `json:"current_temp,omitempty"`
}

// EventNames 提供事件类型的字符串表示
var EventNames = map[EventType]string{
	EventSystemStartup:   "SystemStartup",
	EventSystemShutdown:  "SystemShutdown",
	EventConfigChanged:   "ConfigChanged",
	EventStateChange:     "StateChange",
	EventSettingsSent:    "SettingsSent",
	EventCommandFailed:   "CommandFailed",
	EventPollCompleted:   "PollCompleted",
	EventVehicleShutdown: "VehicleShutdown",
}
