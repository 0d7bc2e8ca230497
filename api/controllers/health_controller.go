/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器:存活与就绪探针
 * @architecture RESTful API架构
 * @documentReference docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 存活探针不依赖外部组件;就绪探针检查数据库与缓存连通性
 * @dependencies github.com/go-chi/render
 * @refs service/init.go
 */
package controllers

import (
	"net/http"
	"time"

	"posmdf-service/service"

	"github.com/go-chi/render"
)

// HealthController 健康检查控制器
type HealthController struct{}

// NewHealthController 创建健康检查控制器
func NewHealthController() *HealthController {
	return &HealthController{}
}

// Health 存活探针
// @Summary 存活探针
// @Description 服务进程存活检查
// @Tags 健康检查
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{
		Status: 0,
		Msg:    "ok",
		Data: map[string]interface{}{
			"service":   "posmdf-service",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// Ready 就绪探针
// @Summary 就绪探针
// @Description 检查数据库与缓存连通性
// @Tags 健康检查
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	sqlDB, err := service.DB.DB()
	if err != nil || sqlDB.PingContext(r.Context()) != nil {
		checks["database"] = "down"
		healthy = false
	} else {
		checks["database"] = "up"
	}

	if service.GlobalRedisConnector != nil && service.GlobalRedisConnector.IsConnected() {
		if err := service.GlobalRedisConnector.Ping(r.Context()); err != nil {
			checks["cache"] = "down"
		} else {
			checks["cache"] = "up"
		}
	} else {
		checks["cache"] = "disabled"
	}

	if !healthy {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, APIResponse{Status: http.StatusServiceUnavailable, Msg: "not ready", Data: checks})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "ready", Data: checks})
}
