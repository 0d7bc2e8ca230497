/*
 * @module api/controllers/export_controller
 * @description 导出控制器:把 v2 配置文档转换为 Vectron/CSV/XML
 * @architecture RESTful API架构
 * @documentReference docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 只接受 v2.0.0 文档;导出产物以附件形式返回,警告放进响应头
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/export
 */
package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"posmdf-service/service/export"
	"posmdf-service/service/metrics"
	"posmdf-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ExportController 导出控制器
type ExportController struct{}

// NewExportController 创建导出控制器
func NewExportController() *ExportController {
	return &ExportController{}
}

// Convert 转换配置文档
// @Summary 转换配置文档
// @Description 把 v2.0.0 配置文档转换为目标格式,支持 vectron/csv/xml
// @Tags 导出
// @Accept json
// @Produce octet-stream
// @Param format path string true "目标格式" Enums(vectron, csv, xml)
// @Success 200 {string} string "导出产物"
// @Failure 400 {object} APIResponse
// @Router /convert/{format} [post]
func (c *ExportController) Convert(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "请求体为空或不可读"})
		return
	}

	var config models.ConfigurationV2
	if err := json.Unmarshal(body, &config); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "文档解析失败: " + err.Error()})
		return
	}
	if config.CompanyDetails == nil || config.CompanyDetails.MetaInformation == nil ||
		config.CompanyDetails.MetaInformation.FormatVersion != models.FormatVersionV2 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "导出只支持 format_version 2.0.0 的文档"})
		return
	}

	var result *export.Result
	switch format {
	case export.FormatVectron:
		result = export.ToVectron(&config)
	case export.FormatCSV:
		result, err = export.ToCSV(&config)
	case export.FormatXML:
		result, err = export.ToXML(&config)
	default:
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "不支持的导出格式: " + format})
		return
	}
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: err.Error()})
		return
	}
	metrics.ExportsTotal.WithLabelValues(format).Inc()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(result.Filename))
	w.Header().Set("X-Export-Warnings", strconv.Itoa(len(result.Warnings)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}
