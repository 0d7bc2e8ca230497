/*
 * @module api/controllers/event_controller
 * @description 事件控制器:配置变更的SSE长连接推送
 * @architecture RESTful API架构
 * @documentReference docs/event_push.md
 * @stateFlow 客户端接入 -> 注册事件通道 -> 循环推送 -> 连接断开时注销
 * @rules 每30秒发送一次心跳注释行,避免中间层断开空闲连接
 * @dependencies github.com/go-chi/render
 * @refs service/event/event_service.go
 */
package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"posmdf-service/service"
)

// EventController 事件控制器
type EventController struct{}

// NewEventController 创建事件控制器
func NewEventController() *EventController {
	return &EventController{}
}

// HandleSSE 订阅配置变更事件流
// @Summary 订阅配置变更事件流
// @Description Server-Sent Events 长连接,推送配置变更事件
// @Tags 事件
// @Produce text/event-stream
// @Success 200 {string} string "事件流"
// @Router /events/stream [get]
func (c *EventController) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientID, events := service.GlobalEventService.Subscribe()
	defer service.GlobalEventService.Unsubscribe(clientID)

	fmt.Fprintf(w, ": connected client_id=%s\n\n", clientID)
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, data)
			flusher.Flush()
		}
	}
}
