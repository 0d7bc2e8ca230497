/*
 * @module api/controllers/access_controller
 * @description 接入管理控制器:API应用与密钥管理
 * @architecture RESTful API架构
 * @documentReference docs/security.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 密钥明文只在签发响应里出现一次
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/access/access_service.go
 */
package controllers

import (
	"net/http"
	"time"

	"posmdf-service/service"
	"posmdf-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// AccessController 接入管理控制器
type AccessController struct{}

// NewAccessController 创建接入管理控制器
func NewAccessController() *AccessController {
	return &AccessController{}
}

// CreateApplication 创建接入应用
// @Summary 创建接入应用
// @Tags 接入管理
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /access/applications [post]
func (c *AccessController) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var app models.ApiApplication
	if err := render.DecodeJSON(r.Body, &app); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求体解析失败: " + err.Error()})
		return
	}
	if err := service.GlobalAccessService.CreateApplication(r.Context(), &app); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "创建成功", Data: app})
}

// ListApplications 列出接入应用
// @Summary 列出接入应用
// @Tags 接入管理
// @Produce json
// @Success 200 {object} APIResponse
// @Router /access/applications [get]
func (c *AccessController) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := service.GlobalAccessService.ListApplications(r.Context())
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "查询成功", Data: apps})
}

// IssueKeyRequest 签发密钥请求体
type IssueKeyRequest struct {
	ApplicationID string     `json:"application_id"`
	Description   string     `json:"description"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// IssueKey 签发API密钥
// @Summary 签发API密钥
// @Description 密钥明文只在本响应里出现一次,之后无法找回
// @Tags 接入管理
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /access/keys [post]
func (c *AccessController) IssueKey(w http.ResponseWriter, r *http.Request) {
	var req IssueKeyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求体解析失败: " + err.Error()})
		return
	}

	plaintext, key, err := service.GlobalAccessService.IssueKey(r.Context(), req.ApplicationID, req.Description, req.ExpiresAt)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "签发成功", Data: map[string]interface{}{
		"api_key": plaintext,
		"key":     key,
	}})
}

// RevokeKey 吊销API密钥
// @Summary 吊销API密钥
// @Tags 接入管理
// @Produce json
// @Param id path string true "密钥ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /access/keys/{id} [delete]
func (c *AccessController) RevokeKey(w http.ResponseWriter, r *http.Request) {
	if err := service.GlobalAccessService.RevokeKey(r.Context(), chi.URLParam(r, "id")); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "吊销成功"})
}
