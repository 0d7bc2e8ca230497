/*
 * @module service/configstore/config_service
 * @description 配置文档存储服务:CRUD、读穿缓存、静态加密与审计记录
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/backend_requirements.md
 * @stateFlow 控制器 -> 存储服务 -> 缓存/数据库 -> 变更事件
 * @rules 缓存键 config:<id>;设置加密密钥时载荷静态加密;
 *        删除为软删除;审计写入失败不阻塞主操作,只记日志
 * @dependencies gorm.io/gorm, github.com/go-redis/redis/v8(经连接器)
 * @refs client/connectors/redis_connector.go, service/event/event_service.go
 */
package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"posmdf-service/client/connectors"
	"posmdf-service/service/metrics"
	"posmdf-service/service/models"
	"posmdf-service/service/utils"

	"gorm.io/gorm"
)

// ErrNotFound 配置不存在
var ErrNotFound = errors.New("configuration not found")

// ChangeNotifier 变更事件出口,由事件服务实现
type ChangeNotifier interface {
	PublishConfigChange(event *models.ConfigChangeEvent)
}

// Service 配置存储服务
type Service struct {
	db            *gorm.DB
	cache         *connectors.RedisConnector
	notifier      ChangeNotifier
	encryptionKey string
	logger        *slog.Logger
}

// NewService 创建配置存储服务。cache 与 notifier 可为 nil,对应能力降级。
func NewService(db *gorm.DB, cache *connectors.RedisConnector, encryptionKey string, logger *slog.Logger) *Service {
	return &Service{
		db:            db,
		cache:         cache,
		encryptionKey: encryptionKey,
		logger:        logger,
	}
}

// SetNotifier 注入变更事件出口
func (s *Service) SetNotifier(notifier ChangeNotifier) {
	s.notifier = notifier
}

// documentPeek 从文档里提取检索列需要的字段
type documentPeek struct {
	CompanyDetails struct {
		CompanyFullName string `json:"company_full_name"`
		MetaInformation struct {
			FormatVersion string `json:"format_version"`
		} `json:"meta_information"`
	} `json:"company_details"`
}

func peekDocument(document json.RawMessage) (companyName, formatVersion string, err error) {
	var peek documentPeek
	if err := json.Unmarshal(document, &peek); err != nil {
		return "", "", fmt.Errorf("文档不是合法JSON: %v", err)
	}
	return peek.CompanyDetails.CompanyFullName, peek.CompanyDetails.MetaInformation.FormatVersion, nil
}

// Create 持久化新配置文档
func (s *Service) Create(ctx context.Context, document json.RawMessage, user string) (*models.ConfigurationRecord, error) {
	companyName, formatVersion, err := peekDocument(document)
	if err != nil {
		return nil, err
	}

	record := &models.ConfigurationRecord{
		CompanyName:   companyName,
		FormatVersion: formatVersion,
		Status:        "active",
	}
	if err := s.storePayload(record, document); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("写入配置记录失败: %v", err)
	}

	s.cachePut(ctx, record.ID, document)
	s.recordAudit(ctx, "configuration_created", user, models.JSONB{
		"config_id":    record.ID,
		"company_name": companyName,
	})
	s.notifyChange(record, "created", user)

	return record, nil
}

// Get 读取配置文档,优先命中缓存
func (s *Service) Get(ctx context.Context, id string) (json.RawMessage, *models.ConfigurationRecord, error) {
	if s.cache != nil && s.cache.IsConnected() {
		if data, err := s.cache.GetConfig(ctx, id); err != nil {
			s.logger.Warn("读取配置缓存失败", "id", id, "error", err)
		} else if data != nil {
			metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
			record, err := s.fetchRecord(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			return data, record, nil
		}
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
	}

	record, err := s.fetchRecord(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	document, err := s.loadPayload(record)
	if err != nil {
		return nil, nil, err
	}

	s.cachePut(ctx, id, document)
	return document, record, nil
}

// Update 整体替换配置文档
func (s *Service) Update(ctx context.Context, id string, document json.RawMessage, user string) (*models.ConfigurationRecord, error) {
	companyName, formatVersion, err := peekDocument(document)
	if err != nil {
		return nil, err
	}

	record, err := s.fetchRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	record.CompanyName = companyName
	record.FormatVersion = formatVersion
	if err := s.storePayload(record, document); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, fmt.Errorf("更新配置记录失败: %v", err)
	}

	s.cachePut(ctx, id, document)
	s.recordAudit(ctx, "configuration_updated", user, models.JSONB{
		"config_id":    id,
		"company_name": companyName,
	})
	s.notifyChange(record, "updated", user)

	return record, nil
}

// Delete 软删除配置文档并失效缓存
func (s *Service) Delete(ctx context.Context, id, user string) error {
	record, err := s.fetchRecord(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(record).Error; err != nil {
		return fmt.Errorf("删除配置记录失败: %v", err)
	}
	if s.cache != nil && s.cache.IsConnected() {
		if err := s.cache.InvalidateConfig(ctx, id); err != nil {
			s.logger.Warn("失效配置缓存失败", "id", id, "error", err)
		}
	}

	s.recordAudit(ctx, "configuration_deleted", user, models.JSONB{
		"config_id":    id,
		"company_name": record.CompanyName,
	})
	s.notifyChange(record, "deleted", user)
	return nil
}

// List 分页列出配置记录,companyName 为可选过滤
func (s *Service) List(ctx context.Context, page, size int, companyName string) ([]models.ConfigurationRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	query := s.db.WithContext(ctx).Model(&models.ConfigurationRecord{})
	if companyName != "" {
		query = query.Where("company_name LIKE ?", "%"+companyName+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计配置记录失败: %v", err)
	}

	var records []models.ConfigurationRecord
	if err := query.Order("updated_at DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("查询配置记录失败: %v", err)
	}
	return records, total, nil
}

// ReplaceAfterMigration 迁移成功后落库新版本文档
func (s *Service) ReplaceAfterMigration(ctx context.Context, id string, document json.RawMessage, fromVersion, user string) (*models.ConfigurationRecord, error) {
	record, err := s.Update(ctx, id, document, user)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, "configuration_migrated", user, models.JSONB{
		"config_id":    id,
		"from_version": fromVersion,
		"to_version":   record.FormatVersion,
	})
	s.notifyChange(record, "migrated", user)
	return record, nil
}

func (s *Service) fetchRecord(ctx context.Context, id string) (*models.ConfigurationRecord, error) {
	var record models.ConfigurationRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询配置记录失败: %v", err)
	}
	return &record, nil
}

func (s *Service) storePayload(record *models.ConfigurationRecord, document json.RawMessage) error {
	if s.encryptionKey != "" {
		encrypted, err := utils.EncryptPayload(document, s.encryptionKey)
		if err != nil {
			return fmt.Errorf("加密配置载荷失败: %v", err)
		}
		record.Payload = encrypted
		record.Encrypted = true
		return nil
	}
	record.Payload = string(document)
	record.Encrypted = false
	return nil
}

func (s *Service) loadPayload(record *models.ConfigurationRecord) (json.RawMessage, error) {
	if record.Encrypted {
		if s.encryptionKey == "" {
			return nil, fmt.Errorf("配置 %s 已加密但未配置解密密钥", record.ID)
		}
		plain, err := utils.DecryptPayload(record.Payload, s.encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("解密配置载荷失败: %v", err)
		}
		return plain, nil
	}
	return json.RawMessage(record.Payload), nil
}

func (s *Service) cachePut(ctx context.Context, id string, document json.RawMessage) {
	if s.cache == nil || !s.cache.IsConnected() {
		return
	}
	if err := s.cache.SetConfig(ctx, id, document); err != nil {
		s.logger.Warn("写入配置缓存失败", "id", id, "error", err)
	}
}

func (s *Service) notifyChange(record *models.ConfigurationRecord, action, user string) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishConfigChange(&models.ConfigChangeEvent{
		ConfigID:      record.ID,
		Action:        action,
		CompanyName:   record.CompanyName,
		FormatVersion: record.FormatVersion,
		User:          user,
		Timestamp:     time.Now().UTC(),
	})
}

// recordAudit 写审计事件,失败不影响主流程
func (s *Service) recordAudit(ctx context.Context, action, user string, metadata models.JSONB) {
	event := &models.AuditEvent{
		Action:   action,
		UserID:   user,
		Metadata: metadata,
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		s.logger.Warn("写入审计事件失败", "action", action, "error", err)
	}
}

// AuditLog 查询审计事件,action 为可选过滤
func (s *Service) AuditLog(ctx context.Context, limit int, action string) ([]models.AuditEvent, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	query := s.db.WithContext(ctx).Model(&models.AuditEvent{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var events []models.AuditEvent
	if err := query.Order("timestamp DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("查询审计事件失败: %v", err)
	}
	return events, nil
}

// AuditStats 审计事件按动作聚合统计
func (s *Service) AuditStats(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Action string
		Count  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&models.AuditEvent{}).
		Select("action, COUNT(*) as count").
		Group("action").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("统计审计事件失败: %v", err)
	}

	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Action] = r.Count
	}
	return stats, nil
}

// PurgeAuditEvents 删除早于保留期的审计事件,返回删除数
func (s *Service) PurgeAuditEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result := s.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.AuditEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("清理审计事件失败: %v", result.Error)
	}
	return result.RowsAffected, nil
}

// PurgeDeletedConfigurations 物理删除软删超过保留期的配置记录
func (s *Service) PurgeDeletedConfigurations(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result := s.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.ConfigurationRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("清理已删除配置失败: %v", result.Error)
	}
	return result.RowsAffected, nil
}
