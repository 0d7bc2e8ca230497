/*
 * @module api/controllers/validation_controller
 * @description 模式校验控制器:按版本校验文档并列出可用schema
 * @architecture RESTful API架构
 * @documentReference docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 数据违规以200返回校验结果;schema缺失/编译失败以500返回
 * @dependencies github.com/go-chi/render
 * @refs service/validation/validator.go
 */
package controllers

import (
	"encoding/json"
	"net/http"

	"posmdf-service/service"
	"posmdf-service/service/metrics"

	"github.com/go-chi/render"
)

// ValidationController 模式校验控制器
type ValidationController struct{}

// NewValidationController 创建模式校验控制器
func NewValidationController() *ValidationController {
	return &ValidationController{}
}

// ValidateRequest 校验请求体
type ValidateRequest struct {
	Version       string          `json:"version"`
	Configuration json.RawMessage `json:"configuration"`
}

// Validate 校验配置文档
// @Summary 校验配置文档
// @Description 按指定版本的 JSON Schema 校验配置文档,version 缺省时取文档声明的版本
// @Tags 校验
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /validate [post]
func (c *ValidationController) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求体解析失败: " + err.Error()})
		return
	}
	if len(req.Configuration) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "configuration 字段为空"})
		return
	}

	version := req.Version
	if version == "" {
		version = documentVersion(req.Configuration)
	}
	if version == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "无法确定格式版本,请传入 version 字段"})
		return
	}

	result, err := service.GlobalValidator.Validate(req.Configuration, version)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}
	metrics.ValidationsTotal.WithLabelValues(version, metrics.ResultLabel(result.Valid)).Inc()

	render.JSON(w, r, APIResponse{Status: 0, Msg: "校验完成", Data: result})
}

// ListSchemas 列出可用schema
// @Summary 列出可用schema
// @Tags 校验
// @Produce json
// @Success 200 {object} APIResponse
// @Router /schemas [get]
func (c *ValidationController) ListSchemas(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{Status: 0, Msg: "查询成功", Data: service.GlobalValidator.Schemas()})
}
