// internal/toyota/types.go

package toyota

// ACParameter 空调操作参数（如前/后除霜开关）
type ACParameter struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// ACOperation 空调操作分组
type ACOperation struct {
	CategoryName string        `json:"categoryName"`
	Parameters   []ACParameter `json:"parameters"`
}

// 远程接口使用的参数名
const (
	CategoryDefrost   = "defrost"
	ParamFrontDefrost = "frontDefrost"
	ParamRearDefrost  = "rearDefrost"
)

// ClimateSettings 下发到车辆的完整空调设置
type ClimateSettings struct {
	SettingsOn      bool          `json:"settingsOn"`
	Temperature     float32       `json:"temperature"`
	TemperatureUnit string        `json:"temperatureUnit"`
	ACOperations    []ACOperation `json:"acOperations"`
}

// ClimateControlCommand 空调远程控制指令
type ClimateControlCommand struct {
	Command string `json:"command"`
}

const (
	CommandEngineStart = "engine-start"
	CommandEngineStop  = "engine-stop"
)

// StatusResponse 设置下发/控制指令的应答
// Status 为 0 表示车端拒绝执行
type StatusResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// Rejected 判断应答是否为车端拒绝
// 应答缺失与 status=0 等同处理
func (r *StatusResponse) Rejected() bool {
	return r == nil || r.Status == 0
}

// ClimateStatus 车辆空调运行状态
type ClimateStatus struct {
	Status             bool     `json:"status"` // 是否正在制冷/制热
	CurrentTemperature *float32 `json:"currentTemperature,omitempty"`
}

// RefreshResult 空调状态刷新结果
type RefreshResult struct {
	Success bool `json:"success"`
}
