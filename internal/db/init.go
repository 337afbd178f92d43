package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const DB_NAME = "climatebridge.db"

var Init bool
var SQLDB *sql.DB
var DB *gorm.DB

func Init_DB() {
	InitWithPath(DB_NAME)
}

// InitWithPath 打开指定路径的数据库并完成迁移
// 测试使用临时路径
func InitWithPath(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		Init = true
	} else {
		fmt.Println("database already exists")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic("failed to get db")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	DB = db
	SQLDB = sqlDB
	err = db.AutoMigrate(&VehicleInfo{}, &CommandLog{})
	if err != nil {
		panic("failed to migrate database")
	}
}

func GetDB() *gorm.DB {
	return DB
}
