/*
 * @module api/controllers/configuration_controller
 * @description 配置文档管理控制器:CRUD与分页查询
 * @architecture RESTful API架构
 * @documentReference docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 创建与更新前按文档声明的版本做模式校验,校验不通过返回400并附违规列表
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/configstore/config_service.go, service/validation/validator.go
 */
package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"posmdf-service/service"
	"posmdf-service/service/configstore"
	"posmdf-service/service/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// ConfigurationController 配置文档管理控制器
type ConfigurationController struct{}

// NewConfigurationController 创建配置文档管理控制器
func NewConfigurationController() *ConfigurationController {
	return &ConfigurationController{}
}

// documentVersion 提取文档声明的格式版本,缺失时返回空串
func documentVersion(document json.RawMessage) string {
	var peek struct {
		CompanyDetails struct {
			MetaInformation struct {
				FormatVersion string `json:"format_version"`
			} `json:"meta_information"`
		} `json:"company_details"`
	}
	if err := json.Unmarshal(document, &peek); err != nil {
		return ""
	}
	return peek.CompanyDetails.MetaInformation.FormatVersion
}

// validateDocument 按声明版本校验,返回 nil 表示通过
func validateDocument(document json.RawMessage) (interface{}, string) {
	version := documentVersion(document)
	if version == "" {
		return map[string]interface{}{"error": "missing company_details.meta_information.format_version"}, ""
	}
	result, err := service.GlobalValidator.Validate(document, version)
	if err != nil {
		return map[string]interface{}{"error": err.Error()}, version
	}
	metrics.ValidationsTotal.WithLabelValues(version, metrics.ResultLabel(result.Valid)).Inc()
	if !result.Valid {
		return result, version
	}
	return nil, version
}

// CreateConfiguration 创建配置文档
// @Summary 创建配置文档
// @Description 校验并持久化一份 OOP-POS-MDF 配置文档
// @Tags 配置管理
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /configurations [post]
func (c *ConfigurationController) CreateConfiguration(w http.ResponseWriter, r *http.Request) {
	document, err := io.ReadAll(r.Body)
	if err != nil || len(document) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求体为空或不可读"})
		return
	}

	if violations, _ := validateDocument(document); violations != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "配置文档校验失败", Data: violations})
		return
	}

	record, err := service.GlobalConfigService.Create(r.Context(), document, requestUser(r))
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "创建成功", Data: record})
}

// GetConfiguration 查询单份配置文档
// @Summary 查询配置文档
// @Tags 配置管理
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /configurations/{id} [get]
func (c *ConfigurationController) GetConfiguration(w http.ResponseWriter, r *http.Request) {
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

	render.JSON(w, r, APIResponse{Status: 0, Msg: "查询成功", Data: map[string]interface{}{
		"record":        record,
		"configuration": json.RawMessage(document),
	}})
}

// ListConfigurations 分页查询配置记录
// @Summary 分页查询配置记录
// @Tags 配置管理
// @Produce json
// @Param page query int false "页码"
// @Param size query int false "每页数量"
// @Param company query string false "公司名过滤"
// @Success 200 {object} PaginatedResponse
// @Router /configurations [get]
func (c *ConfigurationController) ListConfigurations(w http.ResponseWriter, r *http.Request) {
	page := cast.ToInt(r.URL.Query().Get("page"))
	size := cast.ToInt(r.URL.Query().Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	records, total, err := service.GlobalConfigService.List(r.Context(), page, size, r.URL.Query().Get("company"))
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}

	render.JSON(w, r, PaginatedResponse{Status: 0, Msg: "查询成功", Data: records, Total: total, Page: page, Size: size})
}

// UpdateConfiguration 整体替换配置文档
// @Summary 更新配置文档
// @Tags 配置管理
// @Accept json
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /configurations/{id} [put]
func (c *ConfigurationController) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	document, err := io.ReadAll(r.Body)
	if err != nil || len(document) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求体为空或不可读"})
		return
	}

	if violations, _ := validateDocument(document); violations != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "配置文档校验失败", Data: violations})
		return
	}

	record, err := service.GlobalConfigService.Update(r.Context(), id, document, requestUser(r))
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
	render.JSON(w, r, APIResponse{Status: 0, Msg: "更新成功", Data: record})
}

// DeleteConfiguration 删除配置文档
// @Summary 删除配置文档
// @Tags 配置管理
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /configurations/{id} [delete]
func (c *ConfigurationController) DeleteConfiguration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := service.GlobalConfigService.Delete(r.Context(), id, requestUser(r)); err != nil {
		if errors.Is(err, configstore.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: "配置不存在"})
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: err.Error()})
		return
	}
	render.JSON(w, r, APIResponse{Status: 0, Msg: "删除成功"})
}

// requestUser 取请求方标识,优先API密钥前缀
func requestUser(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); len(key) >= 11 {
		return key[:11]
	}
	if user := r.Header.Get("X-User"); user != "" {
		return user
	}
	return "anonymous"
}
