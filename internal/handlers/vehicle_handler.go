// internal/handlers/vehicle_handler.go

package handlers

import (
	"net/http"
	"strconv"

	"climatebridge/internal/db"

	"github.com/gin-gonic/gin"
)

// 车辆管理
type VehicleHandler struct {
	vehicleRepo db.IVehicleRepository
	cmdLogRepo  db.ICommandLogRepository
}

func NewVehicleHandler(vehicleRepo db.IVehicleRepository, cmdLogRepo db.ICommandLogRepository) *VehicleHandler {
	return &VehicleHandler{
		vehicleRepo: vehicleRepo,
		cmdLogRepo:  cmdLogRepo,
	}
}

// ListVehicles 列出所有登记车辆
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicleRepo.GetAllVehicles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Code: 500,
			Msg:  "获取车辆列表失败",
			Err:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "ok",
		Data: vehicles,
	})
}

// GetCommandLogs 查询车辆最近的指令日志
func (h *VehicleHandler) GetCommandLogs(c *gin.Context) {
	vin := c.Query("vin")
	if vin == "" {
		c.JSON(http.StatusBadRequest, Response{
			Code: 400,
			Msg:  "缺少 vin 参数",
		})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, Response{
				Code: 400,
				Msg:  "无效的 limit 参数",
			})
			return
		}
		limit = n
	}

	logs, err := h.cmdLogRepo.GetLogsByVIN(vin, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Code: 500,
			Msg:  "获取指令日志失败",
			Err:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Msg:  "ok",
		Data: logs,
	})
}
