// internal/handlers/climate_handler.go

package handlers

import (
	"fmt"
	"net/http"

	"climatebridge/internal/climate"
	"climatebridge/internal/types"

	"github.com/gin-gonic/gin"
)

// 开关机请求
type PowerRequest struct {
	VIN string `json:"vin" binding:"required"` // 车辆识别码
}

// 温度调节请求
type ChangeTempRequest struct {
	VIN               string  `json:"vin" binding:"required"`
	TargetTemperature float32 `json:"targetTemperature" binding:"required"`
}

// 预设调节请求
type ChangePresetRequest struct {
	VIN    string `json:"vin" binding:"required"`
	Preset string `json:"preset" binding:"required"` // none/front_defrost/rear_defrost/both_defrost
}

// 模式设置请求
type SetModeRequest struct {
	VIN  string `json:"vin" binding:"required"`
	Mode string `json:"mode" binding:"required"` // off/heat_cool
}

// 空调控制
type ClimateHandler struct {
	registry *climate.Registry
	cfg      types.Config
}

func NewClimateHandler(registry *climate.Registry, cfg types.Config) *ClimateHandler {
	return &ClimateHandler{
		registry: registry,
		cfg:      cfg,
	}
}

// lookup 按 VIN 查找实体，未注册时直接写应答
func (h *ClimateHandler) lookup(c *gin.Context, vin string) (*climate.Entity, bool) {
	entity, ok := h.registry.Get(vin)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("车辆 %s 未注册", vin),
		})
		return nil, false
	}
	return entity, true
}

// PowerOn 开启空调
// 乐观更新与回滚由实体内部处理，这里只上报最终状态
func (h *ClimateHandler) PowerOn(c *gin.Context) {
	var req PowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	entity, ok := h.lookup(c, req.VIN)
	if !ok {
		return
	}

	entity.TurnOn(c.Request.Context())

	state := entity.State()
	if !state.SettingsOn() {
		// 实体已回滚，说明设置下发或启动指令被车端拒绝
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "车端拒绝开启空调",
			"state": state,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "空调开启成功",
		"state":   state,
	})
}

// PowerOff 关闭空调
func (h *ClimateHandler) PowerOff(c *gin.Context) {
	var req PowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	entity, ok := h.lookup(c, req.VIN)
	if !ok {
		return
	}

	// 关闭不会回滚，直接返回成功
	entity.TurnOff(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "空调关闭成功",
		"state":   entity.State(),
	})
}

// ChangeTemperature 修改目标温度
func (h *ClimateHandler) ChangeTemperature(c *gin.Context) {
	var req ChangeTempRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	// 验证温度范围
	if !h.cfg.TempRange.Contains(req.TargetTemperature) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("目标温度范围为 %.1f-%.1f 度",
				h.cfg.TempRange.Min, h.cfg.TempRange.Max),
		})
		return
	}

	entity, ok := h.lookup(c, req.VIN)
	if !ok {
		return
	}

	if err := entity.SetTemperature(c.Request.Context(), req.TargetTemperature); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "温度设置成功",
		"state":   entity.State(),
	})
}

// ChangePreset 修改除霜预设
func (h *ClimateHandler) ChangePreset(c *gin.Context) {
	var req ChangePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	entity, ok := h.lookup(c, req.VIN)
	if !ok {
		return
	}

	if err := entity.SetPreset(c.Request.Context(), types.Preset(req.Preset)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的预设模式，只能为 none、front_defrost、rear_defrost、both_defrost",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "预设设置成功",
		"state":   entity.State(),
	})
}

// SetMode 设置运行模式
func (h *ClimateHandler) SetMode(c *gin.Context) {
	var req SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Code: 400,
			Msg:  "Invalid request",
			Err:  err.Error(),
		})
		return
	}

	// 验证
	if req.Mode != string(types.ModeOff) && req.Mode != string(types.ModeHeatCool) {
		c.JSON(http.StatusBadRequest, Response{
			Code: 400,
			Msg:  "无效的运行模式，必须是 off 或 heat_cool",
		})
		return
	}

	entity, ok := h.lookup(c, req.VIN)
	if !ok {
		return
	}

	if err := entity.SetHVACMode(c.Request.Context(), types.HVACMode(req.Mode)); err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Code: 500,
			Msg:  "设置运行模式失败",
			Err:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "设置运行模式成功",
		Data: gin.H{
			"state": entity.State(),
		},
	})
}

// GetState 查询实体当前状态
func (h *ClimateHandler) GetState(c *gin.Context) {
	vin := c.Query("vin")
	if vin == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "缺少 vin 参数",
		})
		return
	}

	entity, ok := h.lookup(c, vin)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, entity.State())
}
