/*
 * @module KafkaConnector
 * @description Kafka连接器,将审计事件写入审计流主题
 * @architecture 适配器模式 - 封装第三方Kafka客户端,提供统一的接口
 * @documentReference docs/audit_stream.md
 * @stateFlow 连接建立 -> 审计事件写入 -> 连接断开
 * @rules 审计主题默认 posmdf.audit;写入失败只记录日志,不阻塞业务操作
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs service/event/event_service.go
 */
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig Kafka配置信息
type KafkaConfig struct {
	Brokers      []string      `json:"brokers"`
	AuditTopic   string        `json:"audit_topic"`
	BatchSize    int           `json:"batch_size"`
	BatchTimeout time.Duration `json:"batch_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// KafkaConnector Kafka连接器结构体
type KafkaConnector struct {
	config      *KafkaConfig
	writer      *kafka.Writer
	logger      *slog.Logger
	isConnected bool
}

// NewKafkaConnector 创建新的Kafka连接器
func NewKafkaConnector(config *KafkaConfig, logger *slog.Logger) *KafkaConnector {
	if config.AuditTopic == "" {
		config.AuditTopic = "posmdf.audit"
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = time.Second
	}

	return &KafkaConnector{
		config: config,
		logger: logger,
	}
}

// Connect 创建审计主题的写入器
func (kc *KafkaConnector) Connect() error {
	if kc.isConnected {
		return nil
	}
	if len(kc.config.Brokers) == 0 {
		return fmt.Errorf("Kafka broker列表为空")
	}

	kc.writer = &kafka.Writer{
		Addr:         kafka.TCP(kc.config.Brokers...),
		Topic:        kc.config.AuditTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    kc.config.BatchSize,
		BatchTimeout: kc.config.BatchTimeout,
		WriteTimeout: kc.config.WriteTimeout,
	}
	kc.isConnected = true
	kc.logger.Info("Kafka连接器已就绪", "topic", kc.config.AuditTopic)
	return nil
}

// Disconnect 关闭写入器
func (kc *KafkaConnector) Disconnect() error {
	if !kc.isConnected {
		return nil
	}

	err := kc.writer.Close()
	kc.writer = nil
	kc.isConnected = false
	kc.logger.Info("Kafka连接器已断开连接")
	return err
}

// IsConnected 检查连接状态
func (kc *KafkaConnector) IsConnected() bool {
	return kc.isConnected
}

// PublishAudit 将审计事件写入审计流,key 为配置ID
func (kc *KafkaConnector) PublishAudit(ctx context.Context, configID string, event interface{}) error {
	if !kc.isConnected {
		return fmt.Errorf("Kafka写入器未就绪")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化审计事件失败: %v", err)
	}

	msg := kafka.Message{
		Key:   []byte(configID),
		Value: value,
		Time:  time.Now(),
	}
	if err := kc.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("写入审计事件失败: %v", err)
	}

	kc.logger.Debug("审计事件已写入", "config_id", configID)
	return nil
}
