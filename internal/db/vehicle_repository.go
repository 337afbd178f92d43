package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// IVehicleRepository 车辆数据访问接口
type IVehicleRepository interface {
	GetVehicleByVIN(vin string) (*VehicleInfo, error)
	GetEnabledVehicles() ([]VehicleInfo, error)
	GetAllVehicles() ([]VehicleInfo, error)
	RegisterVehicle(vin, alias string, targetTemp float32) error
	UpdateState(vin, mode string, targetTemp float32, frontDefrost, rearDefrost bool) error
	UpdateLastPollTime(vin string, t time.Time) error
}

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// GetVehicleByVIN 通过 VIN 获取车辆信息
func (r *VehicleRepository) GetVehicleByVIN(vin string) (*VehicleInfo, error) {
	var vehicle VehicleInfo
	err := r.db.Where("vin = ?", vin).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("vehicle not found")
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetEnabledVehicles 获取所有启用的车辆
func (r *VehicleRepository) GetEnabledVehicles() ([]VehicleInfo, error) {
	var vehicles []VehicleInfo
	err := r.db.Where("enabled = ?", 1).Find(&vehicles).Error
	return vehicles, err
}

// GetAllVehicles 获取所有车辆信息
func (r *VehicleRepository) GetAllVehicles() ([]VehicleInfo, error) {
	var vehicles []VehicleInfo
	result := r.db.Find(&vehicles)
	if result.Error != nil {
		return nil, fmt.Errorf("获取车辆列表失败: %v", result.Error)
	}
	return vehicles, nil
}

// RegisterVehicle 登记车辆，已存在时更新别名并重新启用
func (r *VehicleRepository) RegisterVehicle(vin, alias string, targetTemp float32) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&VehicleInfo{}).Where("vin = ?", vin).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return tx.Model(&VehicleInfo{}).Where("vin = ?", vin).Updates(map[string]interface{}{
				"alias":   alias,
				"enabled": 1,
			}).Error
		}
		return tx.Create(&VehicleInfo{
			VIN:        vin,
			Alias:      alias,
			Enabled:    1,
			Mode:       "off",
			TargetTemp: targetTemp,
		}).Error
	})
}

// UpdateState 持久化实体最近一次对外发布的状态
func (r *VehicleRepository) UpdateState(vin, mode string, targetTemp float32, frontDefrost, rearDefrost bool) error {
	result := r.db.Model(&VehicleInfo{}).Where("vin = ?", vin).Updates(map[string]interface{}{
		"mode":          mode,
		"target_temp":   targetTemp,
		"front_defrost": boolToInt(frontDefrost),
		"rear_defrost":  boolToInt(rearDefrost),
	})
	if result.Error != nil {
		return fmt.Errorf("更新车辆状态失败: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("车辆不存在")
	}
	return nil
}

// UpdateLastPollTime 记录最近一次轮询时间
func (r *VehicleRepository) UpdateLastPollTime(vin string, t time.Time) error {
	return r.db.Model(&VehicleInfo{}).Where("vin = ?", vin).
		Update("last_poll_time", t).Error
}

// 辅助函数: bool转int
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
