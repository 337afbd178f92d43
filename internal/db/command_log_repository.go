package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ICommandLogRepository 指令日志数据访问接口
type ICommandLogRepository interface {
	CreateLog(log *CommandLog) error
	GetLogsByVIN(vin string, limit int) ([]CommandLog, error)
	GetLogsBetween(vin string, start, end time.Time) ([]CommandLog, error)
}

type CommandLogRepository struct {
	db *gorm.DB
}

func NewCommandLogRepository(db *gorm.DB) *CommandLogRepository {
	return &CommandLogRepository{db: db}
}

// CreateLog 写入一条指令日志
func (r *CommandLogRepository) CreateLog(log *CommandLog) error {
	if log.SentAt.IsZero() {
		log.SentAt = time.Now()
	}
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("创建指令日志失败: %v", err)
	}
	return nil
}

// GetLogsByVIN 获取车辆最近的指令日志
func (r *CommandLogRepository) GetLogsByVIN(vin string, limit int) ([]CommandLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []CommandLog
	err := r.db.Where("vin = ?", vin).
		Order("sent_at desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogsBetween 获取时间段内的指令日志
func (r *CommandLogRepository) GetLogsBetween(vin string, start, end time.Time) ([]CommandLog, error) {
	var logs []CommandLog
	err := r.db.Where("vin = ? AND sent_at BETWEEN ? AND ?", vin, start, end).
		Order("sent_at asc").
		Find(&logs).Error
	return logs, err
}
