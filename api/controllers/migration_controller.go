/*
 * @module api/controllers/migration_controller
 * @description 迁移控制器:版本迁移执行与可用迁移路径查询
 * @architecture RESTful API架构
 * @documentReference docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 迁移失败以200返回失败结果(success=false),引擎绝不抛错到HTTP层;
 *        注册表无对应路径时返回404
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/migration/registry.go, service/configstore/config_service.go
 */
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"posmdf-service/service"
	"posmdf-service/service/configstore"
	"posmdf-service/service/metrics"
	"posmdf-service/service/migration"
	"posmdf-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// MigrationController 迁移控制器
type MigrationController struct{}

// NewMigrationController 创建迁移控制器
func NewMigrationController() *MigrationController {
	return &MigrationController{}
}

// MigrateRequest 迁移请求体
type MigrateRequest struct {
	FromVersion   string          `json:"from_version"`
	ToVersion     string          `json:"to_version"`
	Configuration json.RawMessage `json:"configuration"`
}

// Migrate 迁移配置文档
// @Summary 迁移配置文档
// @Description 把配置文档从源版本迁移到目标版本,版本缺省时取文档声明版本与当前版本
// @Tags 迁移
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /migration/migrate [post]
func (c *MigrationController) Migrate(w http.ResponseWriter, r *http.Request) {
	var req MigrateRequest
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

	fromVersion := req.FromVersion
	if fromVersion == "" {
		fromVersion = documentVersion(req.Configuration)
	}
	toVersion := req.ToVersion
	if toVersion == "" {
		toVersion = models.FormatVersionV2
	}

	result, status := runMigration(fromVersion, toVersion, req.Configuration)
	if status != 0 {
		render.Status(r, status)
		render.JSON(w, r, APIResponse{Status: status, Msg: "no migration available from " + fromVersion + " to " + toVersion})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "迁移完成", Data: result})
}

// MigrateStored 迁移已存储的配置文档并落库
// @Summary 迁移已存储的配置
// @Description 迁移成功时用新版本文档替换存储内容
// @Tags 迁移
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /configurations/{id}/migrate [post]
func (c *MigrationController) MigrateStored(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	document, record, err := service.GlobalConfigService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, configstore.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: "配置不存在"})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}

	fromVersion := record.FormatVersion
	toVersion := models.FormatVersionV2
	result, status := runMigration(fromVersion, toVersion, document)
	if status != 0 {
		render.Status(r, status)
		render.JSON(w, r, APIResponse{Status: status, Msg: "no migration available from " + fromVersion + " to " + toVersion})
		return
	}
	if !result.Success {
		render.JSON(w, r, APIResponse{Status: 0, Msg: "迁移失败,存储内容未变更", Data: result})
		return
	}

	if _, err := service.GlobalConfigService.ReplaceAfterMigration(r.Context(), id, result.Config, fromVersion, requestUser(r)); err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "迁移完成", Data: result})
}

// Available 列出可用迁移路径
// @Summary 列出可用迁移路径
// @Tags 迁移
// @Produce json
// @Success 200 {object} APIResponse
// @Router /migration/available [get]
func (c *MigrationController) Available(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{Status: 0, Msg: "查询成功", Data: service.GlobalRegistry.Available()})
}

// runMigration 查找引擎并执行迁移,打点耗时与结果。
// 返回的 status 非0表示注册表无对应路径。
func runMigration(fromVersion, toVersion string, document json.RawMessage) (*migration.Result, int) {
	engine, err := service.GlobalRegistry.Lookup(fromVersion, toVersion)
	if err != nil {
		return nil, http.StatusNotFound
	}

	start := time.Now()
	result := engine.Migrate(document)
	metrics.MigrationDuration.WithLabelValues(fromVersion, toVersion).Observe(time.Since(start).Seconds())
	metrics.MigrationsTotal.WithLabelValues(fromVersion, toVersion, metrics.ResultLabel(result.Success)).Inc()
	return result, 0
}
