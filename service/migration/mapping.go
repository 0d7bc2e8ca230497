/*
 * @module service/migration/mapping
 * @description v1 -> v2 字段重命名映射表,重命名必须是全量的:
 *              每个已知的旧字段要么映射到唯一的新字段,要么折叠进多语言对象后删除
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 输出校验阶段扫描产出文档,旧字段一旦出现即为输出完整性错误
 * @dependencies 无
 * @refs service/migration/v1_to_v2.go
 */

package migration

import "strconv"

// FieldRename 一条重命名规则
type FieldRename struct {
	Collection string // 旧字段所在的集合/对象
	OldField   string // v1 标量字段名
	NewField   string // v2 多语言字段名
}

// v1ToV2Renames v1 -> v2 的全部重命名规则,按文档结构自上而下排列
var v1ToV2Renames = []FieldRename{
	{Collection: "tax_rates_definitions", OldField: "tax_rate_name", NewField: "tax_rate_names"},
	{Collection: "main_groups_definitions", OldField: "main_group_name", NewField: "main_group_names"},
	{Collection: "payment_methods_definitions", OldField: "payment_method_name", NewField: "payment_method_names"},
	{Collection: "print_format_profiles_definitions", OldField: "profile_name", NewField: "profile_names"},
	{Collection: "customer_display_layout_profiles_definitions", OldField: "welcome_text", NewField: "welcome_texts"},
	{Collection: "branches", OldField: "branch_name", NewField: "branch_names"},
	{Collection: "point_of_sale_devices", OldField: "pos_device_name", NewField: "pos_device_names"},
	{Collection: "hardware_interfaces", OldField: "interface_name", NewField: "interface_names"},
	{Collection: "built_in_displays", OldField: "display_name", NewField: "display_names"},
	{Collection: "display_activities", OldField: "activity_name", NewField: "activity_names"},
	{Collection: "user_interface_elements", OldField: "button_text_content", NewField: "button_texts"},
	{Collection: "button_configurations", OldField: "button_text_on_display", NewField: "button_texts"},
	{Collection: "connected_peripherals", OldField: "peripheral_name", NewField: "peripheral_names"},
	{Collection: "categories_for_this_pos", OldField: "category_name_full", NewField: "category_names"},
	{Collection: "items_for_this_pos", OldField: "menu_display_name", NewField: "display_names"},
	{Collection: "items_for_this_pos", OldField: "button_display_name", NewField: "display_names"},
	{Collection: "items_for_this_pos", OldField: "receipt_print_name", NewField: "display_names"},
}

// 自由扩展袋原样透传,里面允许出现任意键(包括恰好与旧字段同名的键),扫描时跳过。
// settings 覆盖打印配置、硬件接口与外设的自由配置袋;
// 客显配置的 settings 在迁移时重建为固定结构,跳过扫描不会漏掉旧字段。
var passthroughBags = map[string]bool{
	"additional_item_attributes": true,
	"position":                   true,
	"settings":                   true,
}

// findObsoleteFields 递归扫描反序列化后的输出文档,收集仍然出现的旧字段路径
func findObsoleteFields(node interface{}, path string, found *[]string) {
	switch value := node.(type) {
	case map[string]interface{}:
		for key, child := range value {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			if isObsoleteField(key) {
				*found = append(*found, childPath)
				continue
			}
			if passthroughBags[key] {
				continue
			}
			findObsoleteFields(child, childPath, found)
		}
	case []interface{}:
		for i, child := range value {
			findObsoleteFields(child, path+"["+strconv.Itoa(i)+"]", found)
		}
	}
}

func isObsoleteField(key string) bool {
	for _, rename := range v1ToV2Renames {
		if rename.OldField == key {
			return true
		}
	}
	return false
}
