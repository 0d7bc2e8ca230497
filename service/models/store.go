/*
 * @module service/models/store
 * @description 持久化模型:配置文档记录、审计事件、API 应用与密钥
 * @architecture 数据模型层 - gorm 实体
 * @documentReference docs/backend_requirements.md
 * @stateFlow 控制器 -> 服务层 -> gorm -> PostgreSQL
 * @rules 配置文档整体以 JSONB 存储,外层列仅用于检索;删除为软删除
 * @dependencies gorm.io/gorm
 * @refs service/configstore, api/middleware
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConfigurationRecord 持久化的 OOP-POS-MDF 配置文档
type ConfigurationRecord struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CompanyName   string         `json:"company_name" gorm:"type:varchar(255);index"`
	FormatVersion string         `json:"format_version" gorm:"type:varchar(16);index"`
	Status        string         `json:"status" gorm:"type:varchar(16);default:'active'"`
	Encrypted     bool           `json:"encrypted" gorm:"default:false"`
	Payload       string         `json:"-" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate 创建前自动生成主键
func (c *ConfigurationRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// AuditEvent 审计事件,API 的每次变更和迁移都会记录一条
type AuditEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Action    string    `json:"action" gorm:"type:varchar(64);index"`
	UserID    string    `json:"user_id" gorm:"type:varchar(128);index"`
	Metadata  JSONB     `json:"metadata" gorm:"type:jsonb"`
}

// BeforeCreate 创建前自动生成主键
func (a *AuditEvent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

// ApiApplication 接入应用
type ApiApplication struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	ContactInfo string    `json:"contact_info" gorm:"type:varchar(255)"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate 创建前自动生成主键
func (a *ApiApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// ApiKey API 密钥,仅存 bcrypt 哈希
type ApiKey struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ApplicationID string     `json:"application_id" gorm:"type:varchar(36);index"`
	KeyHash       string     `json:"-" gorm:"type:varchar(255);not null"`
	KeyPrefix     string     `json:"key_prefix" gorm:"type:varchar(16);index"`
	Description   string     `json:"description" gorm:"type:text"`
	ExpiresAt     *time.Time `json:"expires_at"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Application *ApiApplication `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
}

// BeforeCreate 创建前自动生成主键
func (k *ApiKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	return nil
}
