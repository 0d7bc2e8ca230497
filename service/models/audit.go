/*
 * @module service/models/audit
 * @description 审计轨迹模型,记录实体的创建、修改历史
 * @architecture 数据模型层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 迁移或外部更新时追加 change_log 条目并递增 version
 * @rules change_log 只追加、不截断、不重排;基础情形下 version 等于 change_log 长度
 * @dependencies 无
 * @refs service/migration, service/configstore
 */

package models

// AuditTrail 审计轨迹,挂在配置根、分类和商品上
type AuditTrail struct {
	CreatedAt      string           `json:"created_at"`
	CreatedBy      string           `json:"created_by"`
	LastModifiedAt string           `json:"last_modified_at"`
	LastModifiedBy string           `json:"last_modified_by"`
	Version        int              `json:"version"`
	ChangeLog      []ChangeLogEntry `json:"change_log"`
}

// ChangeLogEntry 变更日志条目
type ChangeLogEntry struct {
	Timestamp          string   `json:"timestamp"`
	User               string   `json:"user"`
	Action             string   `json:"action"`
	Description        string   `json:"description"`
	AffectedComponents []string `json:"affected_components,omitempty"`
}

// Touch 记录一次外部更新:追加日志条目并递增版本号
func (a *AuditTrail) Touch(timestamp, user, action, description string) {
	a.LastModifiedAt = timestamp
	a.LastModifiedBy = user
	a.Version++
	a.ChangeLog = append(a.ChangeLog, ChangeLogEntry{
		Timestamp:   timestamp,
		User:        user,
		Action:      action,
		Description: description,
	})
}
