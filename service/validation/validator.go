/*
 * @module service/validation/validator
 * @description 模式校验器:按格式版本编译内嵌的 JSON Schema,对配置文档做结构校验
 * @architecture 分层架构 - 领域服务层,纯函数式校验
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 加载/编译指定版本的 schema(带缓存) -> 校验文档 -> 生成逐条违规列表
 * @rules 不同版本的 schema 结构不兼容,调用方必须指明版本;
 *        数据违规全部收集进错误列表、绝不短路;
 *        schema 本身加载/编译失败是部署缺陷,以 error 形式快速失败
 * @dependencies github.com/xeipuuv/gojsonschema, embed
 * @refs service/migration, api/controllers/validation_controller.go
 */

package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// 已知的格式版本,按发布顺序排列
var knownVersions = []string{"1.0.0", "2.0.0"}

// ValidationError 单条结构违规
type ValidationError struct {
	Path    string                 `json:"path"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Result 校验结果
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// SchemaInfo 可用 schema 的描述
type SchemaInfo struct {
	Version string `json:"version"`
	Status  string `json:"status"` // current / legacy
}

// Validator 模式校验器,编译结果按版本缓存,可并发使用
type Validator struct {
	mu       sync.RWMutex
	compiled map[string]*gojsonschema.Schema
}

// NewValidator 创建校验器
func NewValidator() *Validator {
	return &Validator{
		compiled: make(map[string]*gojsonschema.Schema),
	}
}

// Schemas 列出可用 schema,最新版本标记为 current
func (v *Validator) Schemas() []SchemaInfo {
	infos := make([]SchemaInfo, 0, len(knownVersions))
	for i, version := range knownVersions {
		status := "legacy"
		if i == len(knownVersions)-1 {
			status = "current"
		}
		infos = append(infos, SchemaInfo{Version: version, Status: status})
	}
	return infos
}

// Validate 校验文档是否符合指定版本的 schema。
// 数据违规通过 Result.Errors 返回;schema 无法加载/编译时返回 error。
func (v *Validator) Validate(document json.RawMessage, version string) (*Result, error) {
	schema, err := v.schemaFor(version)
	if err != nil {
		return nil, err
	}

	outcome, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		// 文档本身不是合法 JSON,按数据问题报告,不向上抛
		return &Result{
			Valid: false,
			Errors: []ValidationError{
				{Path: "", Message: fmt.Sprintf("document is not valid JSON: %v", err)},
			},
		}, nil
	}

	result := &Result{Valid: outcome.Valid(), Errors: []ValidationError{}}
	for _, violation := range outcome.Errors() {
		entry := ValidationError{
			Path:    violation.Field(),
			Message: violation.Description(),
		}
		if details := violation.Details(); len(details) > 0 {
			entry.Context = details
		}
		result.Errors = append(result.Errors, entry)
	}
	return result, nil
}

// ValidateStruct 便捷入口:先序列化再校验
func (v *Validator) ValidateStruct(document interface{}, version string) (*Result, error) {
	raw, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return v.Validate(raw, version)
}

// schemaFor 取得编译后的 schema,首次使用时从内嵌文件加载并缓存
func (v *Validator) schemaFor(version string) (*gojsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[version]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if schema, ok := v.compiled[version]; ok {
		return schema, nil
	}

	raw, err := schemaFS.ReadFile("schemas/v" + version + ".json")
	if err != nil {
		return nil, fmt.Errorf("schema for version %s not available: %w", version, err)
	}
	schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema for version %s: %w", version, err)
	}
	v.compiled[version] = schema
	return schema, nil
}
