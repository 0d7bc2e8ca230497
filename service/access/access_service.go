/*
 * @module service/access/access_service
 * @description 接入管理服务:API应用与API密钥的签发、校验与吊销
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/security.md
 * @stateFlow 创建应用 -> 签发密钥(明文只返回一次) -> 请求校验 -> 吊销
 * @rules 密钥只存bcrypt哈希;校验先按前缀检索再比对哈希;过期密钥视为无效
 * @dependencies gorm.io/gorm, golang.org/x/crypto/bcrypt(经utils)
 * @refs service/utils/crypto_utils.go, api/middleware/apikey_auth.go
 */
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"posmdf-service/service/models"
	"posmdf-service/service/utils"

	"gorm.io/gorm"
)

// ErrInvalidKey 密钥无效、已吊销或已过期
var ErrInvalidKey = errors.New("invalid api key")

// Service 接入管理服务
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewService 创建接入管理服务
func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CreateApplication 创建接入应用
func (s *Service) CreateApplication(ctx context.Context, app *models.ApiApplication) error {
	if app.Name == "" {
		return fmt.Errorf("应用名称为空")
	}
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("创建API应用失败: %v", err)
	}
	return nil
}

// ListApplications 列出接入应用
func (s *Service) ListApplications(ctx context.Context) ([]models.ApiApplication, error) {
	var apps []models.ApiApplication
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("查询API应用失败: %v", err)
	}
	return apps, nil
}

// IssueKey 为应用签发新密钥,返回明文密钥。明文只在此处出现一次。
func (s *Service) IssueKey(ctx context.Context, applicationID, description string, expiresAt *time.Time) (string, *models.ApiKey, error) {
	var app models.ApiApplication
	if err := s.db.WithContext(ctx).First(&app, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("应用不存在: %s", applicationID)
		}
		return "", nil, fmt.Errorf("查询API应用失败: %v", err)
	}

	plaintext, prefix := utils.GenerateAPIKey()
	hash, err := utils.HashAPIKey(plaintext)
	if err != nil {
		return "", nil, err
	}

	key := &models.ApiKey{
		ApplicationID: applicationID,
		KeyHash:       hash,
		KeyPrefix:     prefix,
		Description:   description,
		ExpiresAt:     expiresAt,
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return "", nil, fmt.Errorf("创建API密钥失败: %v", err)
	}

	s.logger.Info("API密钥已签发", "application_id", applicationID, "prefix", prefix)
	return plaintext, key, nil
}

// RevokeKey 吊销密钥
func (s *Service) RevokeKey(ctx context.Context, keyID string) error {
	result := s.db.WithContext(ctx).Model(&models.ApiKey{}).
		Where("id = ?", keyID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("吊销API密钥失败: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("密钥不存在: %s", keyID)
	}
	return nil
}

// VerifyKey 校验明文密钥,返回匹配的密钥记录
func (s *Service) VerifyKey(ctx context.Context, plaintext string) (*models.ApiKey, error) {
	if len(plaintext) < 11 {
		return nil, ErrInvalidKey
	}

	var candidates []models.ApiKey
	if err := s.db.WithContext(ctx).
		Where("key_prefix = ? AND is_active = ?", plaintext[:11], true).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("查询API密钥失败: %v", err)
	}

	now := time.Now()
	for i := range candidates {
		key := &candidates[i]
		if key.ExpiresAt != nil && key.ExpiresAt.Before(now) {
			continue
		}
		if utils.VerifyAPIKey(plaintext, key.KeyHash) {
			return key, nil
		}
	}
	return nil, ErrInvalidKey
}
