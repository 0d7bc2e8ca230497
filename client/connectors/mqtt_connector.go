/*
 * @module MQTTConnector
 * @description MQTT连接器,向收银终端推送配置变更通知
 * @architecture 适配器模式 - 封装第三方MQTT客户端,提供统一的接口
 * @documentReference docs/device_notifications.md
 * @stateFlow 连接建立 -> 变更主题发布 -> 连接断开
 * @rules 主题格式 posmdf/config/<company>/<branch>/<device>;通知消息QoS 1,不保留
 * @dependencies github.com/eclipse/paho.mqtt.golang, encoding/json
 * @refs service/event/event_service.go
 */
package connectors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig MQTT配置信息
type MQTTConfig struct {
	Broker       string        `json:"broker"`
	ClientID     string        `json:"client_id"`
	Username     string        `json:"username"`
	Password     string        `json:"password"`
	CleanSession bool          `json:"clean_session"`
	KeepAlive    time.Duration `json:"keep_alive"`
	TopicPrefix  string        `json:"topic_prefix"`
}

// MQTTConnector MQTT连接器结构体
type MQTTConnector struct {
	config      *MQTTConfig
	client      mqtt.Client
	logger      *slog.Logger
	mutex       sync.RWMutex
	isConnected bool
}

// NewMQTTConnector 创建新的MQTT连接器
func NewMQTTConnector(config *MQTTConfig, logger *slog.Logger) *MQTTConnector {
	if config.TopicPrefix == "" {
		config.TopicPrefix = "posmdf/config"
	}

	connector := &MQTTConnector{
		config: config,
		logger: logger,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}
	opts.SetCleanSession(config.CleanSession)
	opts.SetKeepAlive(config.KeepAlive)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(connector.onConnected)
	opts.SetConnectionLostHandler(connector.onConnectionLost)

	connector.client = mqtt.NewClient(opts)
	return connector
}

// Connect 建立MQTT连接
func (mc *MQTTConnector) Connect() error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if mc.isConnected {
		return nil
	}

	if token := mc.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT连接失败: %v", token.Error())
	}

	mc.isConnected = true
	mc.logger.Info("MQTT连接器已连接", "broker", mc.config.Broker)
	return nil
}

// Disconnect 断开MQTT连接
func (mc *MQTTConnector) Disconnect() error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if !mc.isConnected {
		return nil
	}

	// 等待250ms让在途消息发送完成
	mc.client.Disconnect(250)
	mc.isConnected = false
	mc.logger.Info("MQTT连接器已断开连接")
	return nil
}

// IsConnected 检查连接状态
func (mc *MQTTConnector) IsConnected() bool {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	return mc.isConnected
}

// NotifyDevice 向单台设备的主题发布配置变更通知
func (mc *MQTTConnector) NotifyDevice(companyID, branchID, deviceID int, payload interface{}) error {
	topic := fmt.Sprintf("%s/%d/%d/%d", mc.config.TopicPrefix, companyID, branchID, deviceID)
	return mc.publish(topic, payload)
}

// NotifyConfig 向配置级主题发布变更通知,订阅端用 posmdf/config/+ 通配
func (mc *MQTTConnector) NotifyConfig(configID string, payload interface{}) error {
	return mc.publish(mc.config.TopicPrefix+"/"+configID, payload)
}

// NotifyCompany 向公司级通配主题发布配置变更通知
func (mc *MQTTConnector) NotifyCompany(companyID int, payload interface{}) error {
	topic := fmt.Sprintf("%s/%d", mc.config.TopicPrefix, companyID)
	return mc.publish(topic, payload)
}

func (mc *MQTTConnector) publish(topic string, payload interface{}) error {
	mc.mutex.RLock()
	isConnected := mc.isConnected
	mc.mutex.RUnlock()

	if !isConnected {
		return fmt.Errorf("MQTT客户端未连接")
	}

	data, err := serializePayload(payload)
	if err != nil {
		return fmt.Errorf("序列化消息载荷失败: %v", err)
	}

	token := mc.client.Publish(topic, 1, false, data)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("发布消息失败: %v", token.Error())
	}

	mc.logger.Debug("配置变更通知已发布", "topic", topic)
	return nil
}

func (mc *MQTTConnector) onConnected(client mqtt.Client) {
	mc.mutex.Lock()
	mc.isConnected = true
	mc.mutex.Unlock()
	mc.logger.Info("MQTT连接已建立")
}

func (mc *MQTTConnector) onConnectionLost(client mqtt.Client, err error) {
	mc.mutex.Lock()
	mc.isConnected = false
	mc.mutex.Unlock()
	mc.logger.Warn("MQTT连接丢失", "error", err)
}

func serializePayload(payload interface{}) ([]byte, error) {
	switch p := payload.(type) {
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	default:
		return json.Marshal(p)
	}
}
