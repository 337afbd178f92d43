package db

import "time"

// 车辆信息表
type VehicleInfo struct {
	VIN          string `gorm:"primaryKey;type:varchar(17)"`
	Alias        string `gorm:"type:varchar(255)"`
	Enabled      int    // 0: 停用 1: 启用
	Mode         string `gorm:"type:varchar(20)"` // off/heat_cool
	TargetTemp   float32
	FrontDefrost int // 0: 关闭 1: 开启
	RearDefrost  int
	LastPollTime time.Time `gorm:"type:datetime"`
}

// 指令日志表
// 记录每次下发到车端的设置/指令及其结果
type CommandLog struct {
	ID         int    `gorm:"primaryKey"`
	VIN        string `gorm:"type:varchar(17);index"`
	Kind       string `gorm:"type:varchar(32)"` // settings/engine-start/engine-stop
	TargetTemp float32
	SettingsOn int
	Success    int
	ErrorText  string    `gorm:"type:varchar(255)"`
	SentAt     time.Time `gorm:"type:datetime"`
}
