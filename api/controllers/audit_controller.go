/*
 * @module api/controllers/audit_controller
 * @description 审计控制器:审计日志查询与聚合统计
 * @architecture RESTful API架构
 * @documentReference docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @dependencies github.com/go-chi/render
 * @refs service/configstore/config_service.go
 */
package controllers

import (
	"net/http"

	"posmdf-service/service"

	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// AuditController 审计控制器
type AuditController struct{}

// NewAuditController 创建审计控制器
func NewAuditController() *AuditController {
	return &AuditController{}
}

// GetAuditLog 查询审计日志
// @Summary 查询审计日志
// @Tags 审计
// @Produce json
// @Param limit query int false "返回条数上限"
// @Param action query string false "动作过滤"
// @Success 200 {object} APIResponse
// @Router /audit/log [get]
func (c *AuditController) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	events, err := service.GlobalConfigService.AuditLog(r.Context(), limit, r.URL.Query().Get("action"))
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "查询成功", Data: events})
}

// GetAuditStats 审计统计
// @Summary 审计事件按动作统计
// @Tags 审计
// @Produce json
// @Success 200 {object} APIResponse
// @Router /audit/stats [get]
func (c *AuditController) GetAuditStats(w http.ResponseWriter, r *http.Request) {
	stats, err := service.GlobalConfigService.AuditStats(r.Context())
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "查询成功", Data: stats})
}
