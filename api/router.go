// api/router.go

package api

import (
	"climatebridge/internal/handlers"
	"climatebridge/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(
	climateHandler *handlers.ClimateHandler,
	vehicleHandler *handlers.VehicleHandler,
) *gin.Engine {
	router := gin.Default()

	// 使用CORS中间件
	router.Use(middleware.Cors())

	// 空调控制面板路由组
	panel := router.Group("/panel")
	{
		// 开机
		panel.POST("/poweron", climateHandler.PowerOn)
		// 关机
		panel.POST("/poweroff", climateHandler.PowerOff)
		// 调节温度
		panel.POST("/changetemp", climateHandler.ChangeTemperature)
		// 调节除霜预设
		panel.POST("/changepreset", climateHandler.ChangePreset)
		// 设置运行模式
		panel.POST("/setmode", climateHandler.SetMode)
		// 查询状态
		panel.GET("/state", climateHandler.GetState)
	}

	admin := router.Group("/admin")
	{
		admin.GET("/vehicles", vehicleHandler.ListVehicles)
		admin.GET("/commandlogs", vehicleHandler.GetCommandLogs)
	}

	// prometheus 指标
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
