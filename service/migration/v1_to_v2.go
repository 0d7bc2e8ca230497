/*
 * @module service/migration/v1_to_v2
 * @description OOP-POS-MDF v1.0.0 -> v2.0.0 结构迁移引擎:
 *              单语言字段多语言化、注入审计轨迹与 v2 新增子树、双端校验
 * @architecture 分层架构 - 领域服务层,单遍同步树变换
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow Start -> InputValidated -> StructureRebuilt -> FeaturesAdded -> OutputValidated -> Done
 * @rules 输入永不被就地修改;集合元素顺序与基数逐一保留;标识符永不重编号或去重;
 *        每次调用独享警告收集器,引擎本身无共享可变状态,可并发使用
 * @dependencies github.com/spf13/cast, golang.org/x/text/language
 * @refs service/migration/engine.go, service/migration/defaults.go, service/migration/mapping.go
 */

package migration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"posmdf-service/service/models"

	"github.com/spf13/cast"
	"golang.org/x/text/language"
)

// Options 引擎构造参数
type Options struct {
	DefaultLanguage    string   // 默认语言标签,缺省 de
	SupportedLanguages []string // 支持语言集合,必须包含默认语言,缺省 [de, en]
	MigrationUser      string   // 写入生成的审计轨迹的操作者标识
}

// V1ToV2Engine v1.0.0 -> v2.0.0 迁移引擎,构造后不可变
type V1ToV2Engine struct {
	defaultLanguage    string
	supportedLanguages []string
	migrationUser      string
	now                func() time.Time
}

// NewV1ToV2Engine 创建引擎,语言标签经 BCP 47 解析校验
func NewV1ToV2Engine(opts Options) (*V1ToV2Engine, error) {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "de"
	}
	if len(opts.SupportedLanguages) == 0 {
		opts.SupportedLanguages = []string{"de", "en"}
	}
	if opts.MigrationUser == "" {
		opts.MigrationUser = "migration@eckasse.com"
	}

	if _, err := language.Parse(opts.DefaultLanguage); err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", opts.DefaultLanguage, err)
	}
	containsDefault := false
	for _, lang := range opts.SupportedLanguages {
		if _, err := language.Parse(lang); err != nil {
			return nil, fmt.Errorf("invalid supported language %q: %w", lang, err)
		}
		if lang == opts.DefaultLanguage {
			containsDefault = true
		}
	}
	if !containsDefault {
		return nil, fmt.Errorf("supported_languages must include default language %q", opts.DefaultLanguage)
	}

	return &V1ToV2Engine{
		defaultLanguage:    opts.DefaultLanguage,
		supportedLanguages: opts.SupportedLanguages,
		migrationUser:      opts.MigrationUser,
		now:                time.Now,
	}, nil
}

// SourceVersion 引擎声明的源版本
func (e *V1ToV2Engine) SourceVersion() string { return models.FormatVersionV1 }

// TargetVersion 引擎声明的目标版本
func (e *V1ToV2Engine) TargetVersion() string { return models.FormatVersionV2 }

// Migrate 执行一次迁移。内部任何错误(包括 panic)都折叠进结果,绝不外抛。
func (e *V1ToV2Engine) Migrate(document json.RawMessage) (result *Result) {
	run := &migrationRun{
		engine:    e,
		timestamp: e.now().UTC().Format(time.RFC3339),
		warnings:  &Warnings{},
	}

	defer func() {
		if r := recover(); r != nil {
			result = failure(run.warnings, fmt.Errorf("internal migration failure: %v", r))
		}
	}()

	// Start -> InputValidated
	old, err := run.validateInput(document)
	if err != nil {
		return failure(run.warnings, err)
	}

	// InputValidated -> StructureRebuilt
	newConfig := run.rebuildStructure(old)

	// StructureRebuilt -> FeaturesAdded
	run.addEnhancedFeatures(newConfig)

	// FeaturesAdded -> OutputValidated
	raw, err := json.Marshal(newConfig)
	if err != nil {
		return failure(run.warnings, fmt.Errorf("failed to encode migrated configuration: %w", err))
	}
	if err := run.validateOutput(newConfig, raw); err != nil {
		return failure(run.warnings, err)
	}

	// OutputValidated -> Done
	return &Result{
		Success:  true,
		Config:   raw,
		Warnings: run.warnings.List(),
		Errors:   []string{},
	}
}

// migrationRun 一次调用的内部状态:时间戳与警告收集器,从不跨调用共享
type migrationRun struct {
	engine    *V1ToV2Engine
	timestamp string
	warnings  *Warnings
}

// toMultilingual 本次调用语言配置下的多语言转换
func (r *migrationRun) toMultilingual(value interface{}) models.MultilingualText {
	return ToMultilingual(value, "", r.engine.defaultLanguage, r.engine.supportedLanguages, r.warnings)
}

// validateInput 前置条件按序检查,任一失败即返回具名错误
func (r *migrationRun) validateInput(document json.RawMessage) (*models.ConfigurationV1, error) {
	if len(document) == 0 || string(bytes.TrimSpace(document)) == "null" {
		return nil, ErrInvalidInput
	}

	var old models.ConfigurationV1
	if err := json.Unmarshal(document, &old); err != nil {
		return nil, ErrInvalidInput
	}
	if old.CompanyDetails == nil {
		return nil, ErrMissingCompanyDetails
	}
	meta := old.CompanyDetails.MetaInformation
	if meta == nil || meta.FormatVersion == "" {
		return nil, ErrMissingFormatVersion
	}
	if meta.FormatVersion != r.engine.SourceVersion() {
		return nil, NewVersionMismatchError(r.engine.SourceVersion(), meta.FormatVersion)
	}
	return &old, nil
}

// rebuildStructure 构建全新的 v2 文档:标识符原样拷贝、名称字段多语言化、
// 所有嵌套集合按输入顺序与数量逐一变换
func (r *migrationRun) rebuildStructure(old *models.ConfigurationV1) *models.ConfigurationV2 {
	oldCompany := old.CompanyDetails
	oldMeta := oldCompany.MetaInformation

	dateGenerated := oldMeta.DateGenerated
	if dateGenerated == "" {
		dateGenerated = r.timestamp
	}
	currency := oldMeta.DefaultCurrencySymbol
	if currency == "" {
		currency = "€"
	}

	newConfig := &models.ConfigurationV2{
		Schema: models.SchemaURIV2,
		CompanyDetails: &models.CompanyDetailsV2{
			CompanyUniqueIdentifier: oldCompany.CompanyUniqueIdentifier,
			CompanyFullName:         oldCompany.CompanyFullName,
			MetaInformation: &models.MetaInformationV2{
				FormatVersion:    models.FormatVersionV2,
				PreviousVersions: []string{models.FormatVersionV1},
				SchemaValidation: defaultSchemaValidation(),
				MigrationInfo: &models.MigrationInfo{
					FromVersion: models.FormatVersionV1,
					MigrationScripts: []models.MigrationScript{
						{
							FromVersion:     models.FormatVersionV1,
							ToVersion:       models.FormatVersionV2,
							MigrationScript: "/migrations/1.0.0-to-2.0.0",
							Description:     "Added multilingual support, audit trails, and enhanced security",
							BreakingChanges: breakingChangesV1ToV2,
						},
					},
					BackwardCompatibility: []string{"1.0.x"},
					AutoMigration:         true,
				},
				DateGenerated:         dateGenerated,
				GeneratedBy:           "eckasse-migration-tool-v2.0.0",
				DefaultCurrencySymbol: currency,
				DefaultLanguage:       r.engine.defaultLanguage,
				SupportedLanguages:    r.engine.supportedLanguages,
				AuditTrail:            r.newAuditTrail("config_migration", "Migrated from v1.0.0 to v2.0.0"),
			},
			GlobalConfigurations: &models.GlobalConfigurationsV2{},
		},
	}

	r.migrateGlobalConfigurations(oldCompany.GlobalConfigurations, newConfig.CompanyDetails.GlobalConfigurations)
	r.migrateBranches(oldCompany, newConfig.CompanyDetails)

	return newConfig
}

func (r *migrationRun) migrateGlobalConfigurations(old *models.GlobalConfigurationsV1, out *models.GlobalConfigurationsV2) {
	if old == nil {
		r.warnings.Add("no global_configurations found in old configuration")
		return
	}

	if old.TaxRatesDefinitions != nil {
		out.TaxRatesDefinitions = make([]models.TaxRateV2, 0, len(old.TaxRatesDefinitions))
		for _, tax := range old.TaxRatesDefinitions {
			out.TaxRatesDefinitions = append(out.TaxRatesDefinitions, models.TaxRateV2{
				TaxRateUniqueIdentifier: tax.TaxRateUniqueIdentifier,
				TaxRateNames:            r.toMultilingual(tax.TaxRateName),
				RatePercentage:          tax.RatePercentage,
				FiscalMappingType:       tax.FiscalMappingType,
				ValidFrom:               "2024-01-01",
				ValidUntil:              nil,
			})
		}
	} else {
		r.warnings.Add("no tax_rates_definitions found in old configuration")
	}

	if old.MainGroupsDefinitions != nil {
		out.MainGroupsDefinitions = make([]models.MainGroupV2, 0, len(old.MainGroupsDefinitions))
		for _, group := range old.MainGroupsDefinitions {
			out.MainGroupsDefinitions = append(out.MainGroupsDefinitions, models.MainGroupV2{
				MainGroupUniqueIdentifier: group.MainGroupUniqueIdentifier,
				MainGroupNames:            r.toMultilingual(group.MainGroupName),
			})
		}
	} else {
		r.warnings.Add("no main_groups_definitions found in old configuration")
	}

	if old.PaymentMethodsDefinitions != nil {
		out.PaymentMethodsDefinitions = make([]models.PaymentMethodV2, 0, len(old.PaymentMethodsDefinitions))
		for _, payment := range old.PaymentMethodsDefinitions {
			out.PaymentMethodsDefinitions = append(out.PaymentMethodsDefinitions, models.PaymentMethodV2{
				PaymentMethodUniqueIdentifier: payment.PaymentMethodUniqueIdentifier,
				PaymentMethodNames:            r.toMultilingual(payment.PaymentMethodName),
				PaymentMethodType:             payment.PaymentMethodType,
			})
		}
	} else {
		r.warnings.Add("no payment_methods_definitions found in old configuration")
	}

	if old.PrintFormatProfilesDefinitions != nil {
		out.PrintFormatProfilesDefinitions = make([]models.PrintProfileV2, 0, len(old.PrintFormatProfilesDefinitions))
		for _, profile := range old.PrintFormatProfilesDefinitions {
			out.PrintFormatProfilesDefinitions = append(out.PrintFormatProfilesDefinitions, models.PrintProfileV2{
				ProfileUniqueIdentifier: profile.ProfileUniqueIdentifier,
				ProfileNames:            r.toMultilingual(profile.ProfileName),
				Settings:                profile.Settings,
			})
		}
	}

	if old.CustomerDisplayLayoutProfilesDefinitions != nil {
		out.CustomerDisplayLayoutProfilesDefinitions = make([]models.CustomerDisplayProfileV2, 0, len(old.CustomerDisplayLayoutProfilesDefinitions))
		for _, profile := range old.CustomerDisplayLayoutProfilesDefinitions {
			newProfile := models.CustomerDisplayProfileV2{
				ProfileUniqueIdentifier: profile.ProfileUniqueIdentifier,
				ProfileNames:            r.toMultilingual(profile.ProfileName),
			}
			if profile.Settings != nil {
				newProfile.Settings = &models.CustomerDisplayProfileSettingsV2{
					IdleTimeout: profile.Settings.IdleTimeout,
					ShowPrices:  profile.Settings.ShowPrices,
				}
				// welcome_text 折叠为多语言的 welcome_texts
				if profile.Settings.WelcomeText != nil {
					newProfile.Settings.WelcomeTexts = r.toMultilingual(profile.Settings.WelcomeText)
				}
			}
			out.CustomerDisplayLayoutProfilesDefinitions = append(out.CustomerDisplayLayoutProfilesDefinitions, newProfile)
		}
	}
}

func (r *migrationRun) migrateBranches(oldCompany *models.CompanyDetailsV1, newCompany *models.CompanyDetailsV2) {
	if oldCompany.Branches == nil {
		r.warnings.Add("no branches found in old configuration")
		return
	}

	newCompany.Branches = make([]models.BranchV2, 0, len(oldCompany.Branches))
	for _, branch := range oldCompany.Branches {
		newBranch := models.BranchV2{
			BranchUniqueIdentifier: branch.BranchUniqueIdentifier,
			BranchNames:            r.toMultilingual(branch.BranchName),
			BranchAddress:          branch.BranchAddress,
			PointOfSaleDevices:     []models.POSDeviceV2{},
		}
		for _, device := range branch.PointOfSaleDevices {
			newBranch.PointOfSaleDevices = append(newBranch.PointOfSaleDevices, r.migratePOSDevice(&device))
		}
		newCompany.Branches = append(newCompany.Branches, newBranch)
	}
}

func (r *migrationRun) migratePOSDevice(old *models.POSDeviceV1) models.POSDeviceV2 {
	settings := &models.POSDeviceSettingsV2{Performance: defaultPerformanceSettings()}
	if old.POSDeviceSettings != nil {
		settings.DefaultCurrencyIdentifier = old.POSDeviceSettings.DefaultCurrencyIdentifier
		settings.DefaultLinkedDrinkTaxRateUniqueIdentifier = old.POSDeviceSettings.DefaultLinkedDrinkTaxRateUniqueIdentifier
		settings.DefaultLinkedFoodTaxRateUniqueIdentifier = old.POSDeviceSettings.DefaultLinkedFoodTaxRateUniqueIdentifier
	}

	newDevice := models.POSDeviceV2{
		POSDeviceUniqueIdentifier: old.POSDeviceUniqueIdentifier,
		POSDeviceNames:            r.toMultilingual(old.POSDeviceName),
		POSDeviceType:             old.POSDeviceType,
		POSDeviceExternalNumber:   old.POSDeviceExternalNumber,
		POSDeviceSettings:         settings,
	}

	if old.HardwareInterfaces != nil {
		newDevice.HardwareInterfaces = make([]models.HardwareInterfaceV2, 0, len(old.HardwareInterfaces))
		for _, iface := range old.HardwareInterfaces {
			newDevice.HardwareInterfaces = append(newDevice.HardwareInterfaces, models.HardwareInterfaceV2{
				InterfaceUniqueIdentifier: iface.InterfaceUniqueIdentifier,
				InterfaceNames:            r.toMultilingual(iface.InterfaceName),
				InterfaceType:             iface.InterfaceType,
				Settings:                  iface.Settings,
			})
		}
	}

	if old.BuiltInDisplays != nil {
		newDevice.BuiltInDisplays = make([]models.DisplayV2, 0, len(old.BuiltInDisplays))
		for _, display := range old.BuiltInDisplays {
			newDevice.BuiltInDisplays = append(newDevice.BuiltInDisplays, r.migrateDisplay(&display))
		}
	}

	if old.ConnectedPeripherals != nil {
		newDevice.ConnectedPeripherals = make([]models.PeripheralV2, 0, len(old.ConnectedPeripherals))
		for _, peripheral := range old.ConnectedPeripherals {
			newDevice.ConnectedPeripherals = append(newDevice.ConnectedPeripherals, models.PeripheralV2{
				PeripheralUniqueIdentifier: peripheral.PeripheralUniqueIdentifier,
				PeripheralNames:            r.toMultilingual(peripheral.PeripheralName),
				PeripheralType:             peripheral.PeripheralType,
				Settings:                   peripheral.Settings,
			})
		}
	}

	if old.CategoriesForThisPOS != nil {
		newDevice.CategoriesForThisPOS = make([]models.CategoryV2, 0, len(old.CategoriesForThisPOS))
		for _, category := range old.CategoriesForThisPOS {
			newDevice.CategoriesForThisPOS = append(newDevice.CategoriesForThisPOS, models.CategoryV2{
				CategoryUniqueIdentifier:               category.CategoryUniqueIdentifier,
				CategoryNames:                          r.toMultilingual(category.CategoryNameFull),
				CategoryType:                           category.CategoryType,
				ParentCategoryUniqueIdentifier:         category.ParentCategoryUniqueIdentifier,
				DefaultLinkedMainGroupUniqueIdentifier: category.DefaultLinkedMainGroupUniqueIdentifier,
				AuditTrail:                             r.newAuditTrail("category_migration", "Migrated from v1.0.0"),
			})
		}
	} else {
		r.warnings.Addf("no categories_for_this_pos found for pos_device %d", old.POSDeviceUniqueIdentifier)
	}

	if old.ItemsForThisPOS != nil {
		newDevice.ItemsForThisPOS = make([]models.ItemV2, 0, len(old.ItemsForThisPOS))
		for _, item := range old.ItemsForThisPOS {
			newDevice.ItemsForThisPOS = append(newDevice.ItemsForThisPOS, r.migrateItem(&item))
		}
	} else {
		r.warnings.Addf("no items_for_this_pos found for pos_device %d", old.POSDeviceUniqueIdentifier)
	}

	return newDevice
}

func (r *migrationRun) migrateDisplay(old *models.DisplayV1) models.DisplayV2 {
	newDisplay := models.DisplayV2{
		DisplayUniqueIdentifier: old.DisplayUniqueIdentifier,
		DisplayNames:            r.toMultilingual(old.DisplayName),
		DisplayType:             old.DisplayType,
	}

	if old.DisplayActivities != nil {
		newDisplay.DisplayActivities = make([]models.DisplayActivityV2, 0, len(old.DisplayActivities))
		for _, activity := range old.DisplayActivities {
			newActivity := models.DisplayActivityV2{
				ActivityUniqueIdentifier: activity.ActivityUniqueIdentifier,
				ActivityNames:            r.toMultilingual(activity.ActivityName),
			}
			if activity.UserInterfaceElements != nil {
				newActivity.UserInterfaceElements = make([]models.UIElementV2, 0, len(activity.UserInterfaceElements))
				for _, element := range activity.UserInterfaceElements {
					newElement := models.UIElementV2{
						ElementUniqueIdentifier: element.ElementUniqueIdentifier,
						ElementType:             element.ElementType,
					}
					if element.ButtonConfigurations != nil {
						newElement.ButtonConfigurations = make([]models.ButtonConfigurationV2, 0, len(element.ButtonConfigurations))
						for _, button := range element.ButtonConfigurations {
							newElement.ButtonConfigurations = append(newElement.ButtonConfigurations, models.ButtonConfigurationV2{
								ButtonUniqueIdentifier: button.ButtonUniqueIdentifier,
								ButtonTexts:            r.toMultilingual(button.ButtonTextOnDisplay),
								LinkedAction:           button.LinkedAction,
								Position:               button.Position,
							})
						}
					}
					if element.ButtonTextContent != nil {
						newElement.ButtonTexts = r.toMultilingual(element.ButtonTextContent)
					}
					newActivity.UserInterfaceElements = append(newActivity.UserInterfaceElements, newElement)
				}
			}
			newDisplay.DisplayActivities = append(newDisplay.DisplayActivities, newActivity)
		}
	}

	return newDisplay
}

func (r *migrationRun) migrateItem(old *models.ItemV1) models.ItemV2 {
	price, err := cast.ToFloat64E(old.ItemPriceValue)
	if err != nil {
		r.warnings.Addf("invalid item_price_value for item %d, using 0", old.ItemUniqueIdentifier)
		price = 0
	}

	flags := &models.ItemFlagsV2{
		RequiresAgeVerification: false,
		IsOrganic:               false,
	}
	if old.ItemFlags != nil {
		flags.IsSellable = old.ItemFlags.IsSellable
		flags.HasNegativePrice = old.ItemFlags.HasNegativePrice
	}

	attributes := old.AdditionalItemAttributes
	if attributes == nil {
		attributes = models.JSONB{}
	}

	return models.ItemV2{
		ItemUniqueIdentifier: old.ItemUniqueIdentifier,
		DisplayNames: &models.DisplayNames{
			Menu:    r.toMultilingual(old.MenuDisplayName),
			Button:  r.toMultilingual(old.ButtonDisplayName),
			Receipt: r.toMultilingual(old.ReceiptPrintName),
		},
		ItemPriceValue:                     price,
		PricingSchedules:                   []models.PricingSchedule{},
		AvailabilitySchedule:               &models.AvailabilitySchedule{AlwaysAvailable: true, Schedules: []models.PricingSchedule{}},
		AssociatedCategoryUniqueIdentifier: old.AssociatedCategoryUniqueIdentifier,
		AdditionalItemAttributes:           attributes,
		ItemFlags:                          flags,
		AuditTrail:                         r.newAuditTrail("item_migration", "Migrated from v1.0.0"),
	}
}

// addEnhancedFeatures 注入 v1 中不存在、无法由输入推导的子树,
// 对同一版本对的所有迁移注入完全相同的默认值
func (r *migrationRun) addEnhancedFeatures(config *models.ConfigurationV2) {
	global := config.CompanyDetails.GlobalConfigurations
	global.SecuritySettings = defaultSecuritySettings()
	global.Integrations = defaultIntegrations()
	global.Workflows = defaultWorkflows()
	global.PromotionsDefinitions = []models.Promotion{
		samplePromotion(r.toMultilingual("Sample Promotion")),
	}
}

// validateOutput 针对目标版本的结构不变量复查,违反即输出完整性错误
func (r *migrationRun) validateOutput(config *models.ConfigurationV2, raw []byte) error {
	if config.Schema != models.SchemaURIV2 {
		return &OutputIntegrityError{Path: "$schema", Msg: "missing or wrong schema reference in output configuration"}
	}
	if config.CompanyDetails.MetaInformation.FormatVersion != models.FormatVersionV2 {
		return &OutputIntegrityError{Path: "company_details.meta_information.format_version", Msg: "output configuration version mismatch"}
	}

	for bi, branch := range config.CompanyDetails.Branches {
		if !branch.BranchNames.IsValid() {
			return &OutputIntegrityError{
				Path: fmt.Sprintf("branches[%d]", bi),
				Msg:  "missing multilingual branch_names",
			}
		}
		for di, device := range branch.PointOfSaleDevices {
			if !device.POSDeviceNames.IsValid() {
				return &OutputIntegrityError{
					Path: fmt.Sprintf("branches[%d].point_of_sale_devices[%d]", bi, di),
					Msg:  "missing multilingual pos_device_names",
				}
			}
			for ii, item := range device.ItemsForThisPOS {
				if !item.DisplayNames.Complete() {
					return &OutputIntegrityError{
						Path: fmt.Sprintf("branches[%d].point_of_sale_devices[%d].items_for_this_pos[%d]", bi, di, ii),
						Msg:  "missing complete multilingual display_names",
					}
				}
				if item.AuditTrail == nil {
					return &OutputIntegrityError{
						Path: fmt.Sprintf("branches[%d].point_of_sale_devices[%d].items_for_this_pos[%d]", bi, di, ii),
						Msg:  "missing audit_trail",
					}
				}
			}
		}
	}

	// 重命名必须是全量的:映射表中的旧字段不允许再出现在输出里
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return &OutputIntegrityError{Msg: "output configuration is not valid JSON"}
	}
	var obsolete []string
	findObsoleteFields(decoded, "", &obsolete)
	if len(obsolete) > 0 {
		return &OutputIntegrityError{
			Path: obsolete[0],
			Msg:  "obsolete v1 field present in output",
		}
	}

	return nil
}

// newAuditTrail 生成迁移审计轨迹,version 固定从 1 开始
func (r *migrationRun) newAuditTrail(action, description string) *models.AuditTrail {
	return &models.AuditTrail{
		CreatedAt:      r.timestamp,
		CreatedBy:      r.engine.migrationUser,
		LastModifiedAt: r.timestamp,
		LastModifiedBy: r.engine.migrationUser,
		Version:        1,
		ChangeLog: []models.ChangeLogEntry{
			{
				Timestamp:          r.timestamp,
				User:               r.engine.migrationUser,
				Action:             action,
				Description:        description,
				AffectedComponents: []string{"all"},
			},
		},
	}
}
