/*
 * @module api/controllers/utils_controller
 * @description 工具控制器:样例配置生成
 * @architecture RESTful API架构
 * @documentReference docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @dependencies github.com/go-chi/render
 * @refs service/configstore/sample.go
 */
package controllers

import (
	"net/http"

	"posmdf-service/service/configstore"

	"github.com/go-chi/render"
)

// UtilsController 工具控制器
type UtilsController struct{}

// NewUtilsController 创建工具控制器
func NewUtilsController() *UtilsController {
	return &UtilsController{}
}

// GenerateSample 生成样例配置
// @Summary 生成样例配置
// @Description 生成一份最小可用的 v2.0.0 样例配置文档
// @Tags 工具
// @Produce json
// @Param company query string false "公司名"
// @Param language query string false "默认语言"
// @Success 200 {object} APIResponse
// @Router /utils/generate [get]
func (c *UtilsController) GenerateSample(w http.ResponseWriter, r *http.Request) {
	sample := configstore.GenerateSample(r.URL.Query().Get("company"), r.URL.Query().Get("language"))
	render.JSON(w, r, APIResponse{Status: 0, Msg: "生成成功", Data: sample})
}
