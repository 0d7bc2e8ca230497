/*
 * @module service/configstore/sample
 * @description 样例配置生成器:按公司名生成一份最小可用的 v2.0.0 配置文档
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 参数 -> v2 文档树 -> 控制器直接返回
 * @rules 生成的文档必须通过 v2.0.0 模式校验;名称按默认语言填充
 * @refs service/models/posmdf_v2.go, api/controllers/utils_controller.go
 */
package configstore

import (
	"time"

	"posmdf-service/service/models"
)

// GenerateSample 生成样例 v2 配置文档
func GenerateSample(companyName, language string) *models.ConfigurationV2 {
	if companyName == "" {
		companyName = "Sample Company"
	}
	if language == "" {
		language = "de"
	}
	now := time.Now().UTC().Format(time.RFC3339)

	text := func(value string) models.MultilingualText {
		return models.MultilingualText{language: value}
	}
	audit := &models.AuditTrail{
		CreatedAt:      now,
		CreatedBy:      "sample-generator",
		LastModifiedAt: now,
		LastModifiedBy: "sample-generator",
		Version:        1,
		ChangeLog: []models.ChangeLogEntry{
			{
				Timestamp:          now,
				User:               "sample-generator",
				Action:             "creation",
				Description:        "Generated sample configuration",
				AffectedComponents: []string{"all"},
			},
		},
	}

	return &models.ConfigurationV2{
		Schema: models.SchemaURIV2,
		CompanyDetails: &models.CompanyDetailsV2{
			CompanyUniqueIdentifier: 1,
			CompanyFullName:         companyName,
			MetaInformation: &models.MetaInformationV2{
				FormatVersion:         models.FormatVersionV2,
				PreviousVersions:      []string{},
				DateGenerated:         now,
				GeneratedBy:           "posmdf-service-sample-generator",
				DefaultCurrencySymbol: "€",
				DefaultLanguage:       language,
				SupportedLanguages:    []string{language},
				AuditTrail:            audit,
			},
			GlobalConfigurations: &models.GlobalConfigurationsV2{
				TaxRatesDefinitions: []models.TaxRateV2{
					{
						TaxRateUniqueIdentifier: 1,
						TaxRateNames:            text("Standard (19%)"),
						RatePercentage:          19.0,
						FiscalMappingType:       "NORMAL",
						ValidFrom:               "2024-01-01",
					},
					{
						TaxRateUniqueIdentifier: 2,
						TaxRateNames:            text("Ermäßigt (7%)"),
						RatePercentage:          7.0,
						FiscalMappingType:       "REDUCED",
						ValidFrom:               "2024-01-01",
					},
				},
				MainGroupsDefinitions: []models.MainGroupV2{
					{MainGroupUniqueIdentifier: 1, MainGroupNames: text("Getränke")},
					{MainGroupUniqueIdentifier: 2, MainGroupNames: text("Speisen")},
				},
				PaymentMethodsDefinitions: []models.PaymentMethodV2{
					{PaymentMethodUniqueIdentifier: 1, PaymentMethodNames: text("Bar"), PaymentMethodType: "CASH"},
					{PaymentMethodUniqueIdentifier: 2, PaymentMethodNames: text("EC-Karte"), PaymentMethodType: "CARD"},
				},
				PromotionsDefinitions: []models.Promotion{},
				Workflows:             []models.Workflow{},
				Integrations: &models.Integrations{
					AccountingSystem:    models.IntegrationTarget{Provider: "none", IsEnabled: false},
					InventoryManagement: models.IntegrationTarget{Provider: "none", IsEnabled: false},
					LoyaltyProgram:      models.IntegrationTarget{Provider: "none", IsEnabled: false},
				},
				SecuritySettings: &models.SecuritySettings{
					Encryption: models.EncryptionSettings{
						AtRest:    true,
						InTransit: true,
						Algorithm: "AES-256",
					},
					AccessControl: models.AccessControlSettings{
						SessionTimeout:    3600,
						MaxFailedAttempts: 3,
						LockoutDuration:   900,
					},
					DataPrivacy: models.DataPrivacySettings{
						GDPRCompliance:    true,
						DataRetentionDays: 2555,
					},
				},
			},
			Branches: []models.BranchV2{
				{
					BranchUniqueIdentifier: 1,
					BranchNames:            text("Hauptfiliale"),
					PointOfSaleDevices: []models.POSDeviceV2{
						{
							POSDeviceUniqueIdentifier: 1,
							POSDeviceNames:            text("Kasse 1"),
							POSDeviceType:             "DESKTOP",
							POSDeviceExternalNumber:   1,
							POSDeviceSettings: &models.POSDeviceSettingsV2{
								DefaultCurrencyIdentifier:                 "€",
								DefaultLinkedDrinkTaxRateUniqueIdentifier: 1,
								DefaultLinkedFoodTaxRateUniqueIdentifier:  2,
								Performance: &models.PerformanceSettings{
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
								},
							},
							CategoriesForThisPOS: []models.CategoryV2{
								{
									CategoryUniqueIdentifier:               100,
									CategoryNames:                          text("Getränke"),
									CategoryType:                           "drink",
									DefaultLinkedMainGroupUniqueIdentifier: 1,
									AuditTrail:                             audit,
								},
							},
							ItemsForThisPOS: []models.ItemV2{
								{
									ItemUniqueIdentifier: 1000,
									DisplayNames: &models.DisplayNames{
										Menu:    text("Mineralwasser"),
										Button:  text("Wasser"),
										Receipt: text("Mineralwasser 0,5l"),
									},
									ItemPriceValue:                     2.50,
									PricingSchedules:                   []models.PricingSchedule{},
									AvailabilitySchedule:               &models.AvailabilitySchedule{AlwaysAvailable: true, Schedules: []models.PricingSchedule{}},
									AssociatedCategoryUniqueIdentifier: 100,
									AdditionalItemAttributes:           models.JSONB{},
									ItemFlags:                          &models.ItemFlagsV2{IsSellable: true},
									AuditTrail:                         audit,
								},
							},
						},
					},
				},
			},
		},
	}
}
