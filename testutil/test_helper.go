/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试数据库与配置文档夹具
 * @documentReference docs/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具,确保测试环境的一致性
 * @dependencies gorm, sqlite, encoding/json
 * @refs service/models
 */

package testutil

import (
	"encoding/json"
	"fmt"

	"posmdf-service/service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.ConfigurationRecord{},
		&models.AuditEvent{},
		&models.ApiApplication{},
		&models.ApiKey{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"configuration_records",
		"audit_events",
		"api_applications",
		"api_keys",
	}
	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// SampleV1Configuration 完整的 v1.0.0 测试配置文档
func SampleV1Configuration() json.RawMessage {
	return json.RawMessage(sampleV1JSON)
}

// MinimalV1Configuration 只有必填字段的 v1.0.0 配置文档
func MinimalV1Configuration() json.RawMessage {
	return json.RawMessage(`{
		"company_details": {
			"company_unique_identifier": 1,
			"company_full_name": "Minimal GmbH",
			"meta_information": {
				"format_version": "1.0.0",
				"date_generated": "2024-01-15T10:00:00Z"
			},
			"global_configurations": {},
			"branches": []
		}
	}`)
}

// MustUnmarshal 解析JSON,失败时panic,测试夹具专用
func MustUnmarshal(data json.RawMessage, target interface{}) {
	if err := json.Unmarshal(data, target); err != nil {
		panic(fmt.Sprintf("failed to unmarshal fixture: %v", err))
	}
}

const sampleV1JSON = `{
	"company_details": {
		"company_unique_identifier": 1,
		"company_full_name": "Test Restaurant GmbH",
		"meta_information": {
			"format_version": "1.0.0",
			"date_generated": "2024-01-15T10:00:00Z",
			"default_currency_symbol": "€"
		},
		"global_configurations": {
			"tax_rates_definitions": [
				{
					"tax_rate_unique_identifier": 1,
					"tax_rate_name": "Standard (19%)",
					"rate_percentage": 19.0,
					"fiscal_mapping_type": "NORMAL"
				},
				{
					"tax_rate_unique_identifier": 2,
					"tax_rate_name": "Ermäßigt (7%)",
					"rate_percentage": 7.0,
					"fiscal_mapping_type": "REDUCED"
				}
			],
			"main_groups_definitions": [
				{
					"main_group_unique_identifier": 1,
					"main_group_name": "Getränke"
				},
				{
					"main_group_unique_identifier": 2,
					"main_group_name": "Speisen"
				}
			],
			"payment_methods_definitions": [
				{
					"payment_method_unique_identifier": 1,
					"payment_method_name": "Bar",
					"payment_method_type": "CASH"
				},
				{
					"payment_method_unique_identifier": 2,
					"payment_method_name": "EC-Karte",
					"payment_method_type": "CARD"
				}
			],
			"print_format_profiles_definitions": [
				{
					"profile_unique_identifier": 1,
					"profile_name": "Standard Bon",
					"settings": {"paper_width": 80}
				}
			],
			"customer_display_layout_profiles_definitions": [
				{
					"profile_unique_identifier": 1,
					"profile_name": "Standard Display",
					"settings": {"welcome_text": "Willkommen!"}
				}
			]
		},
		"branches": [
			{
				"branch_unique_identifier": 1,
				"branch_name": "Hauptfiliale",
				"branch_address": "Musterstraße 1, 12345 Berlin",
				"point_of_sale_devices": [
					{
						"pos_device_unique_identifier": 1,
						"pos_device_name": "Hauptkasse",
						"pos_device_type": "DESKTOP",
						"pos_device_external_number": 1,
						"pos_device_settings": {
							"default_currency_identifier": "€",
							"default_linked_drink_tax_rate_unique_identifier": 1,
							"default_linked_food_tax_rate_unique_identifier": 2
						},
						"hardware_interfaces": [
							{
								"interface_unique_identifier": 1,
								"interface_name": "Bondrucker",
								"interface_type": "PRINTER"
							}
						],
						"built_in_displays": [
							{
								"display_unique_identifier": 1,
								"display_name": "Hauptdisplay",
								"display_type": "TOUCH",
								"display_activities": [
									{
										"activity_unique_identifier": 1,
										"activity_name": "Startseite",
										"user_interface_elements": [
											{
												"element_unique_identifier": 1,
												"element_type": "BUTTON_GRID",
												"button_configurations": [
													{
														"button_unique_identifier": 1,
														"button_text_on_display": "Getränke",
														"linked_action": "SHOW_CATEGORY",
														"position": {"row": 1, "col": 1}
													},
													{
														"button_unique_identifier": 2,
														"button_text_on_display": "Speisen",
														"linked_action": "SHOW_PAGE",
														"position": {"row": 1, "col": 2}
													}
												]
											}
										]
									}
								]
							}
						],
						"connected_peripherals": [
							{
								"peripheral_unique_identifier": 1,
								"peripheral_name": "Kassenschublade",
								"peripheral_type": "CASH_DRAWER"
							}
						],
						"categories_for_this_pos": [
							{
								"category_unique_identifier": 100,
								"category_name_full": "Getränke",
								"category_type": "drink",
								"parent_category_unique_identifier": null,
								"default_linked_main_group_unique_identifier": 1
							},
							{
								"category_unique_identifier": 200,
								"category_name_full": "Speisen",
								"category_type": "food",
								"parent_category_unique_identifier": null,
								"default_linked_main_group_unique_identifier": 2
							}
						],
						"items_for_this_pos": [
							{
								"item_unique_identifier": 1001,
								"menu_display_name": "Coca-Cola 0,3l",
								"button_display_name": "Cola 0,3",
								"receipt_print_name": "Coca-Cola 0,3l",
								"item_price_value": 2.50,
								"associated_category_unique_identifier": 100,
								"additional_item_attributes": {"brand": "Coca-Cola"},
								"item_flags": {
									"is_sellable": true,
									"has_negative_price": false
								}
							},
							{
								"item_unique_identifier": 1002,
								"menu_display_name": "Wiener Schnitzel",
								"button_display_name": "Schnitzel",
								"receipt_print_name": "Wiener Schnitzel mit Pommes",
								"item_price_value": 15.90,
								"associated_category_unique_identifier": 200,
								"additional_item_attributes": {},
								"item_flags": {
									"is_sellable": true,
									"has_negative_price": false
								}
							}
						]
					}
				]
			}
		]
	}
}`
