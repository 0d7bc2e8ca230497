/*
 * @module service/migration/defaults
 * @description v2 新增子树的无条件默认值:安全设置、集成、工作流、促销、性能调优
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow StructureRebuilt -> FeaturesAdded 阶段注入
 * @rules 这些子树在源版本中没有对应物,注入值由 schema 规定,与输入数据无关,
 *        同一版本对的所有迁移注入完全相同的默认值
 * @dependencies 无
 * @refs service/migration/v1_to_v2.go
 */

package migration

import "posmdf-service/service/models"

// breakingChangesV1ToV2 记录进 migration_info 的破坏性变更清单
var breakingChangesV1ToV2 = []string{
	"display_names now object instead of string",
	"added required audit_trail for items",
}

func defaultSecuritySettings() *models.SecuritySettings {
	return &models.SecuritySettings{
		Encryption: models.EncryptionSettings{
			AtRest:    true,
			InTransit: true,
			Algorithm: "AES-256",
		},
		AccessControl: models.AccessControlSettings{
			SessionTimeout:    3600,
			MaxFailedAttempts: 3,
			LockoutDuration:   900,
			Require2FA:        false,
		},
		DataPrivacy: models.DataPrivacySettings{
			GDPRCompliance:     true,
			DataRetentionDays:  2555,
			AnonymizationRules: []string{},
		},
	}
}

func defaultIntegrations() *models.Integrations {
	disabled := models.IntegrationTarget{Provider: "none", IsEnabled: false}
	return &models.Integrations{
		AccountingSystem:    disabled,
		InventoryManagement: disabled,
		LoyaltyProgram:      disabled,
	}
}

func defaultWorkflows() []models.Workflow {
	return []models.Workflow{
		{
			WorkflowID: "daily_closing",
			Name:       "Täglicher Kassenschluss",
			Trigger:    models.WorkflowTrigger{Type: "schedule", Time: "23:30"},
			Actions: []models.WorkflowAction{
				{Type: "generate_z_report"},
				{Type: "backup_data"},
				{Type: "sync_to_cloud"},
			},
			IsActive: true,
		},
	}
}

// samplePromotion 附带一条示例促销,默认不启用
func samplePromotion(names models.MultilingualText) models.Promotion {
	return models.Promotion{
		PromotionID: "sample_promotion",
		Names:       names,
		Type:        "percentage_discount",
		Conditions: models.PromotionConditions{
			MinQuantity:          1,
			ApplicableCategories: []int{},
			ApplicableItems:      []int{},
		},
		Discount: models.PromotionDiscount{
			Type:              "percentage",
			Value:             10.0,
			MaxDiscountAmount: 5.00,
		},
		Validity: models.PromotionValidity{
			StartDate:  "2024-01-01",
			EndDate:    "2024-12-31",
			DaysOfWeek: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			TimeRange:  &models.TimeRange{Start: "16:00", End: "18:00"},
		},
		IsActive: false,
	}
}

func defaultPerformanceSettings() *models.PerformanceSettings {
	return &models.PerformanceSettings{
		CacheSettings: models.CacheSettings{
			ItemsCacheTTL:       3600,
			CategoriesCacheTTL:  7200,
			PreloadPopularItems: true,
			MaxCacheSizeMB:      256,
		},
		UIOptimization: models.UIOptimization{
			LazyLoadImages:   true,
			DebounceSearchMS: 300,
			VirtualScrolling: true,
		},
	}
}

func defaultSchemaValidation() *models.SchemaValidation {
	return &models.SchemaValidation{
		RequiredFields: []string{"company_unique_identifier", "branches"},
		FieldConstraints: models.JSONB{
			"pos_device_external_number": map[string]interface{}{"type": "integer", "min": 1, "max": 9999},
			"item_price_value":           map[string]interface{}{"type": "decimal", "precision": 2, "min": 0},
			"category_unique_identifier": map[string]interface{}{"type": "integer", "min": 1},
		},
	}
}
