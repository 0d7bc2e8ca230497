/*
 * @module service/event/event_service
 * @description 事件服务:配置变更的SSE推送、MQTT设备通知与Kafka审计流
 * @architecture 分层架构 - 领域服务层,扇出发布
 * @documentReference docs/event_push.md
 * @stateFlow 存储服务发布变更 -> SSE广播 + MQTT通知 + Kafka审计;
 *            PostgreSQL NOTIFY -> pq.Listener -> SSE广播
 * @rules SSE客户端缓冲满时丢弃该条消息,不阻塞广播;
 *        MQTT/Kafka出口失败只记日志,绝不让变更操作失败
 * @dependencies github.com/lib/pq, github.com/google/uuid
 * @refs client/connectors, api/controllers/event_controller.go
 */
package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"posmdf-service/client/connectors"
	"posmdf-service/service/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// pgChannel 监听的PostgreSQL通知通道
const pgChannel = "posmdf_config_changes"

// EventService 事件服务
type EventService struct {
	mqtt     *connectors.MQTTConnector
	kafka    *connectors.KafkaConnector
	listener *pq.Listener
	logger   *slog.Logger

	mutex   sync.RWMutex
	clients map[string]chan *models.SSEEvent

	ctx    context.Context
	cancel context.CancelFunc
}

// NewEventService 创建事件服务。mqtt/kafka 可为 nil,对应出口降级为仅SSE。
func NewEventService(mqtt *connectors.MQTTConnector, kafka *connectors.KafkaConnector, logger *slog.Logger) *EventService {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventService{
		mqtt:    mqtt,
		kafka:   kafka,
		logger:  logger,
		clients: make(map[string]chan *models.SSEEvent),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// StartPostgresListener 监听数据库通知,其他实例的变更也能推送到本实例的SSE客户端
func (s *EventService) StartPostgresListener(dsn string) error {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		if err != nil {
			s.logger.Warn("PostgreSQL监听器状态变化", "event", event, "error", err)
		}
	})
	if err := listener.Listen(pgChannel); err != nil {
		return fmt.Errorf("监听通道 %s 失败: %v", pgChannel, err)
	}
	s.listener = listener

	go s.handleNotifications()
	s.logger.Info("PostgreSQL通知监听已启动", "channel", pgChannel)
	return nil
}

func (s *EventService) handleNotifications() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case notification := <-s.listener.Notify:
			if notification == nil {
				// 重连后的空通知
				continue
			}
			s.broadcast(&models.SSEEvent{
				ID:        uuid.New().String(),
				Type:      "config_change",
				Data:      notification.Extra,
				Timestamp: time.Now().UTC(),
			})
		case <-time.After(90 * time.Second):
			go func() {
				if err := s.listener.Ping(); err != nil {
					s.logger.Warn("PostgreSQL监听器心跳失败", "error", err)
				}
			}()
		}
	}
}

// Subscribe 注册SSE客户端,返回客户端ID与事件通道
func (s *EventService) Subscribe() (string, <-chan *models.SSEEvent) {
	id := uuid.New().String()
	ch := make(chan *models.SSEEvent, 16)

	s.mutex.Lock()
	s.clients[id] = ch
	s.mutex.Unlock()

	s.logger.Debug("SSE客户端已注册", "client_id", id)
	return id, ch
}

// Unsubscribe 注销SSE客户端
func (s *EventService) Unsubscribe(id string) {
	s.mutex.Lock()
	if ch, ok := s.clients[id]; ok {
		delete(s.clients, id)
		close(ch)
	}
	s.mutex.Unlock()

	s.logger.Debug("SSE客户端已注销", "client_id", id)
}

// ClientCount 当前SSE客户端数
func (s *EventService) ClientCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.clients)
}

// PublishConfigChange 发布配置变更,实现 configstore.ChangeNotifier
func (s *EventService) PublishConfigChange(event *models.ConfigChangeEvent) {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	s.broadcast(&models.SSEEvent{
		ID:        event.EventID,
		Type:      "config_change",
		Data:      event,
		Timestamp: event.Timestamp,
	})

	if s.mqtt != nil && s.mqtt.IsConnected() {
		if err := s.mqtt.NotifyConfig(event.ConfigID, event); err != nil {
			s.logger.Warn("MQTT通知失败", "config_id", event.ConfigID, "error", err)
		}
	}
	if s.kafka != nil && s.kafka.IsConnected() {
		ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
		defer cancel()
		if err := s.kafka.PublishAudit(ctx, event.ConfigID, event); err != nil {
			s.logger.Warn("Kafka审计写入失败", "config_id", event.ConfigID, "error", err)
		}
	}
}

// broadcast 向所有SSE客户端广播,慢客户端丢弃本条
func (s *EventService) broadcast(event *models.SSEEvent) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for id, ch := range s.clients {
		select {
		case ch <- event:
		default:
			s.logger.Warn("SSE客户端缓冲已满,丢弃事件", "client_id", id, "event_id", event.ID)
		}
	}
}

// Stop 停止事件服务
func (s *EventService) Stop() {
	s.cancel()
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Warn("关闭PostgreSQL监听器失败", "error", err)
		}
	}

	s.mutex.Lock()
	for id, ch := range s.clients {
		delete(s.clients, id)
		close(ch)
	}
	s.mutex.Unlock()
}
