package migration

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"posmdf-service/service/models"
	"posmdf-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *V1ToV2Engine {
	t.Helper()
	engine, err := NewV1ToV2Engine(Options{
		DefaultLanguage:    "de",
		SupportedLanguages: []string{"de", "en"},
		MigrationUser:      "migration@eckasse.com",
	})
	require.NoError(t, err)
	return engine
}

func decodeV2(t *testing.T, raw json.RawMessage) *models.ConfigurationV2 {
	t.Helper()
	var config models.ConfigurationV2
	require.NoError(t, json.Unmarshal(raw, &config))
	return &config
}

func TestNewV1ToV2Engine(t *testing.T) {
	t.Run("默认参数", func(t *testing.T) {
		engine, err := NewV1ToV2Engine(Options{})
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", engine.SourceVersion())
		assert.Equal(t, "2.0.0", engine.TargetVersion())
	})

	t.Run("非法语言标签", func(t *testing.T) {
		_, err := NewV1ToV2Engine(Options{DefaultLanguage: "not a language!"})
		assert.Error(t, err)
	})

	t.Run("支持语言必须包含默认语言", func(t *testing.T) {
		_, err := NewV1ToV2Engine(Options{
			DefaultLanguage:    "de",
			SupportedLanguages: []string{"en", "fr"},
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must include default language")
	})
}

func TestMigrateFullConfiguration(t *testing.T) {
	engine := newTestEngine(t)
	result := engine.Migrate(testutil.SampleV1Configuration())

	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)

	config := decodeV2(t, result.Config)
	meta := config.CompanyDetails.MetaInformation

	assert.Equal(t, models.SchemaURIV2, config.Schema)
	assert.Equal(t, "2.0.0", meta.FormatVersion)
	assert.Equal(t, []string{"1.0.0"}, meta.PreviousVersions)
	assert.Equal(t, "de", meta.DefaultLanguage)
	assert.Equal(t, []string{"de", "en"}, meta.SupportedLanguages)
	assert.Equal(t, "Test Restaurant GmbH", config.CompanyDetails.CompanyFullName)
	assert.Equal(t, 1, config.CompanyDetails.CompanyUniqueIdentifier)
	assert.Equal(t, "€", meta.DefaultCurrencySymbol)
	// 输入声明了生成时间,原样保留
	assert.Equal(t, "2024-01-15T10:00:00Z", meta.DateGenerated)

	require.NotNil(t, meta.MigrationInfo)
	assert.Equal(t, "1.0.0", meta.MigrationInfo.FromVersion)
	require.Len(t, meta.MigrationInfo.MigrationScripts, 1)
	assert.Equal(t, "/migrations/1.0.0-to-2.0.0", meta.MigrationInfo.MigrationScripts[0].MigrationScript)
	assert.True(t, meta.MigrationInfo.AutoMigration)

	require.NotNil(t, meta.AuditTrail)
	assert.Equal(t, "migration@eckasse.com", meta.AuditTrail.CreatedBy)
	assert.Equal(t, 1, meta.AuditTrail.Version)
	require.Len(t, meta.AuditTrail.ChangeLog, 1)
	assert.Equal(t, "config_migration", meta.AuditTrail.ChangeLog[0].Action)
}

func TestMigratePreservesCardinalityAndOrder(t *testing.T) {
	engine := newTestEngine(t)
	result := engine.Migrate(testutil.SampleV1Configuration())
	require.True(t, result.Success)

	config := decodeV2(t, result.Config)
	global := config.CompanyDetails.GlobalConfigurations

	require.Len(t, global.TaxRatesDefinitions, 2)
	assert.Equal(t, 1, global.TaxRatesDefinitions[0].TaxRateUniqueIdentifier)
	assert.Equal(t, 2, global.TaxRatesDefinitions[1].TaxRateUniqueIdentifier)
	require.Len(t, global.MainGroupsDefinitions, 2)
	require.Len(t, global.PaymentMethodsDefinitions, 2)
	require.Len(t, global.PrintFormatProfilesDefinitions, 1)
	require.Len(t, global.CustomerDisplayLayoutProfilesDefinitions, 1)

	require.Len(t, config.CompanyDetails.Branches, 1)
	branch := config.CompanyDetails.Branches[0]
	assert.Equal(t, 1, branch.BranchUniqueIdentifier)
	require.Len(t, branch.PointOfSaleDevices, 1)

	device := branch.PointOfSaleDevices[0]
	assert.Equal(t, 1, device.POSDeviceUniqueIdentifier)
	assert.Equal(t, 1, device.POSDeviceExternalNumber)
	require.Len(t, device.CategoriesForThisPOS, 2)
	assert.Equal(t, 100, device.CategoriesForThisPOS[0].CategoryUniqueIdentifier)
	assert.Equal(t, 200, device.CategoriesForThisPOS[1].CategoryUniqueIdentifier)
	require.Len(t, device.ItemsForThisPOS, 2)
	assert.Equal(t, 1001, device.ItemsForThisPOS[0].ItemUniqueIdentifier)
	assert.Equal(t, 1002, device.ItemsForThisPOS[1].ItemUniqueIdentifier)

	// 商品的分类引用原样保留,悬空与否都不纠正
	assert.Equal(t, 100, device.ItemsForThisPOS[0].AssociatedCategoryUniqueIdentifier)
	assert.Equal(t, 200, device.ItemsForThisPOS[1].AssociatedCategoryUniqueIdentifier)
}

func TestMigrateMultilingualFidelity(t *testing.T) {
	engine := newTestEngine(t)
	result := engine.Migrate(testutil.SampleV1Configuration())
	require.True(t, result.Success)

	config := decodeV2(t, result.Config)
	global := config.CompanyDetails.GlobalConfigurations

	// 文本逐字复制到所有支持语言,不做翻译
	assert.Equal(t, "Standard (19%)", global.TaxRatesDefinitions[0].TaxRateNames["de"])
	assert.Equal(t, "Standard (19%)", global.TaxRatesDefinitions[0].TaxRateNames["en"])
	assert.Equal(t, "2024-01-01", global.TaxRatesDefinitions[0].ValidFrom)

	item := config.CompanyDetails.Branches[0].PointOfSaleDevices[0].ItemsForThisPOS[0]
	require.NotNil(t, item.DisplayNames)
	assert.Equal(t, "Coca-Cola 0,3l", item.DisplayNames.Menu["de"])
	assert.Equal(t, "Coca-Cola 0,3l", item.DisplayNames.Menu["en"])
	assert.Equal(t, "Cola 0,3", item.DisplayNames.Button["de"])
	assert.Equal(t, "Coca-Cola 0,3l", item.DisplayNames.Receipt["de"])
	assert.InDelta(t, 2.50, item.ItemPriceValue, 0.001)

	// welcome_text 折叠为多语言 welcome_texts
	display := global.CustomerDisplayLayoutProfilesDefinitions[0]
	require.NotNil(t, display.Settings)
	assert.Equal(t, "Willkommen!", display.Settings.WelcomeTexts["de"])
	assert.Equal(t, "Willkommen!", display.Settings.WelcomeTexts["en"])
}

func TestMigrateAddsEnhancedFeatures(t *testing.T) {
	engine := newTestEngine(t)
	result := engine.Migrate(testutil.SampleV1Configuration())
	require.True(t, result.Success)

	config := decodeV2(t, result.Config)
	global := config.CompanyDetails.GlobalConfigurations

	require.NotNil(t, global.SecuritySettings)
	assert.Equal(t, "AES-256", global.SecuritySettings.Encryption.Algorithm)
	assert.True(t, global.SecuritySettings.DataPrivacy.GDPRCompliance)
	assert.Equal(t, 3600, global.SecuritySettings.AccessControl.SessionTimeout)

	require.NotNil(t, global.Integrations)
	assert.False(t, global.Integrations.AccountingSystem.IsEnabled)
	assert.Equal(t, "none", global.Integrations.AccountingSystem.Provider)

	require.Len(t, global.Workflows, 1)
	assert.Equal(t, "daily_closing", global.Workflows[0].WorkflowID)

	require.Len(t, global.PromotionsDefinitions, 1)
	assert.Equal(t, "sample_promotion", global.PromotionsDefinitions[0].PromotionID)
	assert.False(t, global.PromotionsDefinitions[0].IsActive)

	device := config.CompanyDetails.Branches[0].PointOfSaleDevices[0]
	require.NotNil(t, device.POSDeviceSettings)
	require.NotNil(t, device.POSDeviceSettings.Performance)
	assert.Equal(t, 3600, device.POSDeviceSettings.Performance.CacheSettings.ItemsCacheTTL)
	assert.Equal(t, 300, device.POSDeviceSettings.Performance.UIOptimization.DebounceSearchMS)

	// v1 标志位保留,v2 新增标志位默认为 false
	item := device.ItemsForThisPOS[0]
	require.NotNil(t, item.ItemFlags)
	assert.True(t, item.ItemFlags.IsSellable)
	assert.False(t, item.ItemFlags.RequiresAgeVerification)
	assert.False(t, item.ItemFlags.IsOrganic)
	require.NotNil(t, item.AuditTrail)
	assert.Equal(t, "item_migration", item.AuditTrail.ChangeLog[0].Action)
}

func TestMigrateRemovesObsoleteFields(t *testing.T) {
	engine := newTestEngine(t)
	result := engine.Migrate(testutil.SampleV1Configuration())
	require.True(t, result.Success)

	for _, obsolete := range []string{
		`"tax_rate_name"`, `"main_group_name"`, `"payment_method_name"`,
		`"branch_name"`, `"pos_device_name"`, `"category_name_full"`,
		`"menu_display_name"`, `"button_display_name"`, `"receipt_print_name"`,
		`"button_text_on_display"`, `"welcome_text"`,
	} {
		assert.NotContains(t, string(result.Config), obsolete)
	}
}

func TestMigrateKeepsCollidingKeysInSettingsBags(t *testing.T) {
	engine := newTestEngine(t)
	// settings 是自由配置袋,里面与旧字段同名的键是合法数据,原样透传
	document := json.RawMessage(`{
		"company_details": {
			"company_unique_identifier": 3,
			"company_full_name": "Settings GmbH",
			"meta_information": {"format_version": "1.0.0"},
			"global_configurations": {
				"tax_rates_definitions": [
					{"tax_rate_unique_identifier": 1, "tax_rate_name": "Standard", "rate_percentage": 19.0}
				],
				"main_groups_definitions": [
					{"main_group_unique_identifier": 1, "main_group_name": "Alles"}
				],
				"payment_methods_definitions": [
					{"payment_method_unique_identifier": 1, "payment_method_name": "Bar"}
				],
				"print_format_profiles_definitions": [
					{
						"profile_unique_identifier": 1,
						"profile_name": "Bon",
						"settings": {"paper_width": 80, "welcome_text": "Hallo"}
					}
				]
			},
			"branches": [
				{
					"branch_unique_identifier": 1,
					"branch_name": "Filiale",
					"point_of_sale_devices": [
						{
							"pos_device_unique_identifier": 1,
							"pos_device_name": "Kasse",
							"hardware_interfaces": [
								{
									"interface_unique_identifier": 1,
									"interface_name": "Drucker",
									"settings": {"display_name": "COM1"}
								}
							],
							"categories_for_this_pos": [],
							"items_for_this_pos": []
						}
					]
				}
			]
		}
	}`)

	result := engine.Migrate(document)
	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)

	config := decodeV2(t, result.Config)
	profile := config.CompanyDetails.GlobalConfigurations.PrintFormatProfilesDefinitions[0]
	assert.Equal(t, "Hallo", profile.Settings["welcome_text"])
	assert.Equal(t, float64(80), profile.Settings["paper_width"])

	iface := config.CompanyDetails.Branches[0].PointOfSaleDevices[0].HardwareInterfaces[0]
	assert.Equal(t, "COM1", iface.Settings["display_name"])
}

func TestMigrateDoesNotMutateInput(t *testing.T) {
	engine := newTestEngine(t)
	document := testutil.SampleV1Configuration()
	snapshot := make([]byte, len(document))
	copy(snapshot, document)

	_ = engine.Migrate(document)

	assert.True(t, bytes.Equal(snapshot, document))
}

func TestMigrateIsDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	first := engine.Migrate(testutil.SampleV1Configuration())
	second := engine.Migrate(testutil.SampleV1Configuration())

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, string(first.Config), string(second.Config))
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestMigrateVersionGate(t *testing.T) {
	engine := newTestEngine(t)
	document := json.RawMessage(`{
		"company_details": {
			"company_unique_identifier": 1,
			"company_full_name": "Already Migrated GmbH",
			"meta_information": {"format_version": "2.0.0"}
		}
	}`)

	result := engine.Migrate(document)
	require.False(t, result.Success)
	assert.Nil(t, result.Config)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "expected version 1.0.0, got 2.0.0", result.Errors[0])
}

func TestMigratePreconditionErrors(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name     string
		document json.RawMessage
		expected string
	}{
		{"空输入", json.RawMessage(""), "invalid input configuration"},
		{"null输入", json.RawMessage("null"), "invalid input configuration"},
		{"非法JSON", json.RawMessage("{not json"), "invalid input configuration"},
		{"缺少company_details", json.RawMessage("{}"), "missing company_details in configuration"},
		{"缺少meta_information", json.RawMessage(`{"company_details": {"company_full_name": "X"}}`), "missing format_version in meta_information"},
		{"缺少format_version", json.RawMessage(`{"company_details": {"meta_information": {}}}`), "missing format_version in meta_information"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := engine.Migrate(tc.document)
			require.False(t, result.Success)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tc.expected, result.Errors[0])
			assert.NotNil(t, result.Warnings)
		})
	}
}

func TestMigrateMinimalConfigurationWarnings(t *testing.T) {
	engine := newTestEngine(t)
	result := engine.Migrate(testutil.MinimalV1Configuration())

	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Contains(t, result.Warnings, "no tax_rates_definitions found in old configuration")
	assert.Contains(t, result.Warnings, "no main_groups_definitions found in old configuration")
	assert.Contains(t, result.Warnings, "no payment_methods_definitions found in old configuration")
}

func TestMigrateFallbacks(t *testing.T) {
	engine := newTestEngine(t)
	document := json.RawMessage(`{
		"company_details": {
			"company_unique_identifier": 7,
			"company_full_name": "Fallback GmbH",
			"meta_information": {"format_version": "1.0.0"},
			"global_configurations": {
				"tax_rates_definitions": [
					{"tax_rate_unique_identifier": 1, "tax_rate_name": null, "rate_percentage": 19.0}
				]
			},
			"branches": [
				{
					"branch_unique_identifier": 1,
					"branch_name": "Filiale",
					"point_of_sale_devices": [
						{
							"pos_device_unique_identifier": 1,
							"pos_device_name": null,
							"categories_for_this_pos": [],
							"items_for_this_pos": [
								{
									"item_unique_identifier": 10,
									"menu_display_name": "Kaffee",
									"button_display_name": "Kaffee",
									"receipt_print_name": "Kaffee",
									"item_price_value": "not a number",
									"associated_category_unique_identifier": 1
								}
							]
						}
					]
				}
			]
		}
	}`)

	result := engine.Migrate(document)
	require.True(t, result.Success, "errors: %v", result.Errors)

	config := decodeV2(t, result.Config)
	assert.Equal(t, FallbackText, config.CompanyDetails.GlobalConfigurations.TaxRatesDefinitions[0].TaxRateNames["de"])

	device := config.CompanyDetails.Branches[0].PointOfSaleDevices[0]
	assert.Equal(t, FallbackText, device.POSDeviceNames["de"])
	assert.Equal(t, FallbackText, device.POSDeviceNames["en"])
	assert.Equal(t, float64(0), device.ItemsForThisPOS[0].ItemPriceValue)

	assert.Contains(t, result.Warnings, "invalid item_price_value for item 10, using 0")
	// 两个兜底名称各产生恰好一条警告
	fallbackWarnings := 0
	for _, warning := range result.Warnings {
		if warning == `invalid text value, using fallback: "Unnamed"` {
			fallbackWarnings++
		}
	}
	assert.Equal(t, 2, fallbackWarnings)
}

func TestMigrateMissingDateGeneratedUsesRunTimestamp(t *testing.T) {
	engine := newTestEngine(t)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	document := json.RawMessage(`{
		"company_details": {
			"company_unique_identifier": 1,
			"company_full_name": "Ohne Datum GmbH",
			"meta_information": {"format_version": "1.0.0"},
			"global_configurations": {},
			"branches": []
		}
	}`)

	result := engine.Migrate(document)
	require.True(t, result.Success)

	config := decodeV2(t, result.Config)
	meta := config.CompanyDetails.MetaInformation
	assert.Equal(t, "2024-06-01T12:00:00Z", meta.DateGenerated)
	assert.Equal(t, "2024-06-01T12:00:00Z", meta.AuditTrail.CreatedAt)
}
