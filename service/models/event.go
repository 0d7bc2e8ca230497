package models

import "time"

// SSEEvent 推送给前端的服务器事件
type SSEEvent struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConfigChangeEvent 配置变更事件,发布到 MQTT 设备主题与 Kafka 审计流
type ConfigChangeEvent struct {
	EventID       string    `json:"event_id"`
	ConfigID      string    `json:"config_id"`
	Action        string    `json:"action"` // created/updated/deleted/migrated
	CompanyName   string    `json:"company_name,omitempty"`
	FormatVersion string    `json:"format_version,omitempty"`
	User          string    `json:"user,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
