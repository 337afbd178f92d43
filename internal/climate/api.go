// internal/climate/api.go

package climate

import (
	"context"

	"climatebridge/internal/toyota"
)

// VehicleAPI 车联网远程空调接口
// 实体只依赖这四个操作，远程实现可替换
type VehicleAPI interface {
	// RefreshClimateStatus 请求车辆刷新空调状态，返回车端是否接受
	RefreshClimateStatus(ctx context.Context, vin string) (bool, error)
	// GetClimateStatus 拉取车辆空调运行状态
	GetClimateStatus(ctx context.Context, vin string) (*toyota.ClimateStatus, error)
	// UpdateClimateSettings 下发完整空调设置
	UpdateClimateSettings(ctx context.Context, vin string, settings *toyota.ClimateSettings) (*toyota.StatusResponse, error)
	// SendClimateCommand 发送 engine-start / engine-stop 指令
	SendClimateCommand(ctx context.Context, vin string, command *toyota.ClimateControlCommand) (*toyota.StatusResponse, error)
}
