package models

import (
	"log"
	"os"
	"path/filepath"

	"github.com/GrainArc/SurveyCAD/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var CatalogDB *gorm.DB

// InitDatabase 初始化块映射目录数据库（SQLite）
func InitDatabase() error {
	dbPath := config.CatalogDB
	if dbPath == "" {
		dbPath = filepath.Join(config.Download, "catalog.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm); err != nil {
		log.Printf("创建存储目录失败: %v", err)
		return err
	}

	var err error
	CatalogDB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("连接数据库失败: %v", err)
		return err
	}

	// 自动迁移，创建表结构
	if err := CatalogDB.AutoMigrate(&BlockMappingRecord{}); err != nil {
		log.Printf("数据库迁移失败: %v", err)
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

func GetDB() *gorm.DB {
	return CatalogDB
}
