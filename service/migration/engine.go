/*
 * @module service/migration/engine
 * @description 迁移引擎公共契约:结果结构、错误分类与警告收集器
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow Start -> InputValidated -> StructureRebuilt -> FeaturesAdded -> OutputValidated -> Done,任一步失败进入 Failed
 * @rules 引擎绝不向调用方抛出异常,所有失败折叠进 Result.Errors;
 *        前置条件错误与输出完整性错误必须可区分
 * @dependencies encoding/json
 * @refs service/migration/v1_to_v2.go, service/migration/registry.go
 */

package migration

import (
	"encoding/json"
	"fmt"
)

// Engine 单步迁移引擎,负责一个 (源版本, 目标版本) 对
type Engine interface {
	SourceVersion() string
	TargetVersion() string
	// Migrate 执行一次完整迁移,输入永不被修改,失败通过 Result 返回
	Migrate(document json.RawMessage) *Result
}

// Result 迁移结果,成功与失败都携带按序累积的警告
type Result struct {
	Success  bool            `json:"success"`
	Config   json.RawMessage `json:"config"`
	Warnings []string        `json:"warnings"`
	Errors   []string        `json:"errors"`
}

// PreconditionError 前置条件错误:输入缺失或版本不符,属于"坏输入"
type PreconditionError struct {
	msg string
}

func (e *PreconditionError) Error() string { return e.msg }

// 具名的前置条件错误
var (
	ErrInvalidInput          = &PreconditionError{msg: "invalid input configuration"}
	ErrMissingCompanyDetails = &PreconditionError{msg: "missing company_details in configuration"}
	ErrMissingFormatVersion  = &PreconditionError{msg: "missing format_version in meta_information"}
)

// NewVersionMismatchError 版本门禁错误,信息中给出期望与实际版本
func NewVersionMismatchError(expected, actual string) *PreconditionError {
	return &PreconditionError{msg: fmt.Sprintf("expected version %s, got %s", expected, actual)}
}

// OutputIntegrityError 输出完整性错误:引擎产出了不满足目标版本不变量的文档,
// 属于引擎自身缺陷,与前置条件错误严格区分
type OutputIntegrityError struct {
	Path string
	Msg  string
}

func (e *OutputIntegrityError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Warnings 单次迁移调用独享的警告收集器,按发生顺序累积
type Warnings struct {
	entries []string
}

// Add 追加一条警告
func (w *Warnings) Add(message string) {
	w.entries = append(w.entries, message)
}

// Addf 格式化追加一条警告
func (w *Warnings) Addf(format string, args ...interface{}) {
	w.entries = append(w.entries, fmt.Sprintf(format, args...))
}

// List 返回累积的警告,永不为 nil
func (w *Warnings) List() []string {
	if w.entries == nil {
		return []string{}
	}
	return w.entries
}

// Len 当前警告数量
func (w *Warnings) Len() int {
	return len(w.entries)
}

// failure 构造失败结果,携带至今为止的警告
func failure(warnings *Warnings, err error) *Result {
	return &Result{
		Success:  false,
		Config:   nil,
		Warnings: warnings.List(),
		Errors:   []string{err.Error()},
	}
}
