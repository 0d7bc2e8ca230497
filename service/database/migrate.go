/*
 * @module service/database/migrate
 * @description 数据库结构迁移:建表与基础数据初始化
 * @architecture 分层架构 - 数据访问层
 * @documentReference docs/storage.md
 * @stateFlow 服务启动 -> AutoMigrate -> 初始化默认API应用
 * @rules 所有表结构变更通过gorm AutoMigrate完成
 * @dependencies gorm.io/gorm
 * @refs service/init.go, service/models/store.go
 */
package database

import (
	"fmt"
	"log/slog"

	"posmdf-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 创建或更新业务表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.ConfigurationRecord{},
		&models.AuditEvent{},
		&models.ApiApplication{},
		&models.ApiKey{},
	); err != nil {
		return fmt.Errorf("数据库结构迁移失败: %v", err)
	}
	return nil
}

// InitializeData 初始化基础数据,幂等
func InitializeData(db *gorm.DB, logger *slog.Logger) error {
	var count int64
	if err := db.Model(&models.ApiApplication{}).Count(&count).Error; err != nil {
		return fmt.Errorf("查询API应用失败: %v", err)
	}
	if count > 0 {
		return nil
	}

	app := &models.ApiApplication{
		Name:        "default",
		Description: "Default application created at first startup",
	}
	if err := db.Create(app).Error; err != nil {
		return fmt.Errorf("创建默认API应用失败: %v", err)
	}
	logger.Info("已创建默认API应用", "id", app.ID)
	return nil
}
