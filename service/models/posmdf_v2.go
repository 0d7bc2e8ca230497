/*
 * @module service/models/posmdf_v2
 * @description OOP-POS-MDF v2.0.0 配置文档模型(迁移引擎的输出格式、当前版本)
 * @architecture 数据模型层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 迁移引擎构建 -> 输出校验 -> 持久化/导出
 * @rules 所有名称字段为多语言对象;配置根、分类、商品必须携带审计轨迹;
 *        $schema 与 meta_information.format_version 迁移后必须一致
 * @dependencies 无
 * @refs service/migration/v1_to_v2.go, service/validation, service/export
 */

package models

// FormatVersionV1/V2 已知的格式版本号
const (
	FormatVersionV1 = "1.0.0"
	FormatVersionV2 = "2.0.0"
)

// SchemaURIV2 v2 文档的 $schema 标识,外部工具以此识别版本
const SchemaURIV2 = "https://schemas.eckasse.com/oop-pos-mdf/v2.0.0/schema.json"

// ConfigurationV2 v2.0.0 配置文档根节点
type ConfigurationV2 struct {
	Schema         string            `json:"$schema"`
	CompanyDetails *CompanyDetailsV2 `json:"company_details"`
}

// CompanyDetailsV2 公司详情
type CompanyDetailsV2 struct {
	CompanyUniqueIdentifier int                     `json:"company_unique_identifier"`
	CompanyFullName         string                  `json:"company_full_name"`
	MetaInformation         *MetaInformationV2      `json:"meta_information"`
	GlobalConfigurations    *GlobalConfigurationsV2 `json:"global_configurations"`
	Branches                []BranchV2              `json:"branches"`
}

// MetaInformationV2 v2 元信息,增加版本历史、迁移记录与审计轨迹
type MetaInformationV2 struct {
	FormatVersion         string            `json:"format_version"`
	PreviousVersions      []string          `json:"previous_versions"`
	SchemaValidation      *SchemaValidation `json:"schema_validation,omitempty"`
	MigrationInfo         *MigrationInfo    `json:"migration_info,omitempty"`
	DateGenerated         string            `json:"date_generated,omitempty"`
	GeneratedBy           string            `json:"generated_by,omitempty"`
	DefaultCurrencySymbol string            `json:"default_currency_symbol,omitempty"`
	DefaultLanguage       string            `json:"default_language"`
	SupportedLanguages    []string          `json:"supported_languages"`
	AuditTrail            *AuditTrail       `json:"audit_trail,omitempty"`
}

// SchemaValidation 文档内嵌的字段约束说明
type SchemaValidation struct {
	RequiredFields   []string `json:"required_fields,omitempty"`
	FieldConstraints JSONB    `json:"field_constraints,omitempty"`
}

// MigrationInfo 迁移记录,任何一次迁移后都存在
type MigrationInfo struct {
	FromVersion           string            `json:"from_version"`
	MigrationScripts      []MigrationScript `json:"migration_scripts"`
	BackwardCompatibility []string          `json:"backward_compatibility,omitempty"`
	AutoMigration         bool              `json:"auto_migration"`
}

// MigrationScript 单个迁移脚本描述
type MigrationScript struct {
	FromVersion     string   `json:"from_version"`
	ToVersion       string   `json:"to_version"`
	MigrationScript string   `json:"migration_script,omitempty"`
	Description     string   `json:"description,omitempty"`
	BreakingChanges []string `json:"breaking_changes,omitempty"`
}

// GlobalConfigurationsV2 全局配置定义,v2 新增促销、工作流、集成与安全设置
type GlobalConfigurationsV2 struct {
	TaxRatesDefinitions                      []TaxRateV2                `json:"tax_rates_definitions,omitempty"`
	MainGroupsDefinitions                    []MainGroupV2              `json:"main_groups_definitions,omitempty"`
	PaymentMethodsDefinitions                []PaymentMethodV2          `json:"payment_methods_definitions,omitempty"`
	PrintFormatProfilesDefinitions           []PrintProfileV2           `json:"print_format_profiles_definitions,omitempty"`
	CustomerDisplayLayoutProfilesDefinitions []CustomerDisplayProfileV2 `json:"customer_display_layout_profiles_definitions,omitempty"`
	PromotionsDefinitions                    []Promotion                `json:"promotions_definitions"`
	Workflows                                []Workflow                 `json:"workflows"`
	Integrations                             *Integrations              `json:"integrations"`
	SecuritySettings                         *SecuritySettings          `json:"security_settings"`
}

// TaxRateV2 税率定义,名称多语言化并增加有效期
type TaxRateV2 struct {
	TaxRateUniqueIdentifier int              `json:"tax_rate_unique_identifier"`
	TaxRateNames            MultilingualText `json:"tax_rate_names"`
	RatePercentage          float64          `json:"rate_percentage"`
	FiscalMappingType       string           `json:"fiscal_mapping_type,omitempty"`
	ValidFrom               string           `json:"valid_from,omitempty"`
	ValidUntil              *string          `json:"valid_until"`
}

// MainGroupV2 主分组定义
type MainGroupV2 struct {
	MainGroupUniqueIdentifier int              `json:"main_group_unique_identifier"`
	MainGroupNames            MultilingualText `json:"main_group_names"`
}

// PaymentMethodV2 支付方式定义
type PaymentMethodV2 struct {
	PaymentMethodUniqueIdentifier int              `json:"payment_method_unique_identifier"`
	PaymentMethodNames            MultilingualText `json:"payment_method_names"`
	PaymentMethodType             string           `json:"payment_method_type,omitempty"`
}

// PrintProfileV2 打印格式配置
type PrintProfileV2 struct {
	ProfileUniqueIdentifier int              `json:"profile_unique_identifier"`
	ProfileNames            MultilingualText `json:"profile_names"`
	Settings                JSONB            `json:"settings,omitempty"`
}

// CustomerDisplayProfileV2 客显布局配置,welcome_text 折叠为 welcome_texts
type CustomerDisplayProfileV2 struct {
	ProfileUniqueIdentifier int                               `json:"profile_unique_identifier"`
	ProfileNames            MultilingualText                  `json:"profile_names"`
	Settings                *CustomerDisplayProfileSettingsV2 `json:"settings,omitempty"`
}

// CustomerDisplayProfileSettingsV2 客显配置项
type CustomerDisplayProfileSettingsV2 struct {
	WelcomeTexts MultilingualText `json:"welcome_texts,omitempty"`
	IdleTimeout  int              `json:"idle_timeout_seconds,omitempty"`
	ShowPrices   bool             `json:"show_prices,omitempty"`
}

// Promotion 促销定义
type Promotion struct {
	PromotionID string              `json:"promotion_id"`
	Names       MultilingualText    `json:"names"`
	Type        string              `json:"type"`
	Conditions  PromotionConditions `json:"conditions"`
	Discount    PromotionDiscount   `json:"discount"`
	Validity    PromotionValidity   `json:"validity"`
	IsActive    bool                `json:"is_active"`
}

// PromotionConditions 促销触发条件
type PromotionConditions struct {
	MinQuantity          int   `json:"min_quantity"`
	ApplicableCategories []int `json:"applicable_categories"`
	ApplicableItems      []int `json:"applicable_items"`
}

// PromotionDiscount 折扣定义
type PromotionDiscount struct {
	Type              string  `json:"type"`
	Value             float64 `json:"value"`
	MaxDiscountAmount float64 `json:"max_discount_amount,omitempty"`
}

// PromotionValidity 促销有效期
type PromotionValidity struct {
	StartDate  string     `json:"start_date,omitempty"`
	EndDate    string     `json:"end_date,omitempty"`
	DaysOfWeek []string   `json:"days_of_week,omitempty"`
	TimeRange  *TimeRange `json:"time_range,omitempty"`
}

// TimeRange 时间段
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Workflow 自动化工作流
type Workflow struct {
	WorkflowID string           `json:"workflow_id"`
	Name       string           `json:"name"`
	Trigger    WorkflowTrigger  `json:"trigger"`
	Actions    []WorkflowAction `json:"actions"`
	IsActive   bool             `json:"is_active"`
}

// WorkflowTrigger 工作流触发器
type WorkflowTrigger struct {
	Type string `json:"type"`
	Time string `json:"time,omitempty"`
}

// WorkflowAction 工作流动作
type WorkflowAction struct {
	Type string `json:"type"`
}

// Integrations 外部系统集成,迁移时默认全部关闭
type Integrations struct {
	AccountingSystem    IntegrationTarget `json:"accounting_system"`
	InventoryManagement IntegrationTarget `json:"inventory_management"`
	LoyaltyProgram      IntegrationTarget `json:"loyalty_program"`
}

// IntegrationTarget 单个集成目标
type IntegrationTarget struct {
	Provider  string `json:"provider"`
	IsEnabled bool   `json:"is_enabled"`
}

// SecuritySettings v2 新增的安全设置子树
type SecuritySettings struct {
	Encryption    EncryptionSettings    `json:"encryption"`
	AccessControl AccessControlSettings `json:"access_control"`
	DataPrivacy   DataPrivacySettings   `json:"data_privacy"`
}

// EncryptionSettings 加密设置
type EncryptionSettings struct {
	AtRest    bool   `json:"at_rest"`
	InTransit bool   `json:"in_transit"`
	Algorithm string `json:"algorithm"`
}

// AccessControlSettings 访问控制设置
type AccessControlSettings struct {
	SessionTimeout    int  `json:"session_timeout"`
	MaxFailedAttempts int  `json:"max_failed_attempts"`
	LockoutDuration   int  `json:"lockout_duration"`
	Require2FA        bool `json:"require_2fa"`
}

// DataPrivacySettings 数据隐私设置
type DataPrivacySettings struct {
	GDPRCompliance     bool     `json:"gdpr_compliance"`
	DataRetentionDays  int      `json:"data_retention_days"`
	AnonymizationRules []string `json:"anonymization_rules"`
}

// BranchV2 门店分支
type BranchV2 struct {
	BranchUniqueIdentifier int              `json:"branch_unique_identifier"`
	BranchNames            MultilingualText `json:"branch_names"`
	BranchAddress          string           `json:"branch_address,omitempty"`
	PointOfSaleDevices     []POSDeviceV2    `json:"point_of_sale_devices"`
}

// POSDeviceV2 收银设备
type POSDeviceV2 struct {
	POSDeviceUniqueIdentifier int                   `json:"pos_device_unique_identifier"`
	POSDeviceNames            MultilingualText      `json:"pos_device_names"`
	POSDeviceType             string                `json:"pos_device_type,omitempty"`
	POSDeviceExternalNumber   int                   `json:"pos_device_external_number,omitempty"`
	POSDeviceSettings         *POSDeviceSettingsV2  `json:"pos_device_settings,omitempty"`
	HardwareInterfaces        []HardwareInterfaceV2 `json:"hardware_interfaces,omitempty"`
	BuiltInDisplays           []DisplayV2           `json:"built_in_displays,omitempty"`
	ConnectedPeripherals      []PeripheralV2        `json:"connected_peripherals,omitempty"`
	CategoriesForThisPOS      []CategoryV2          `json:"categories_for_this_pos,omitempty"`
	ItemsForThisPOS           []ItemV2              `json:"items_for_this_pos,omitempty"`
}

// POSDeviceSettingsV2 设备设置,v2 注入性能调优子树
type POSDeviceSettingsV2 struct {
	DefaultCurrencyIdentifier                 string               `json:"default_currency_identifier,omitempty"`
	DefaultLinkedDrinkTaxRateUniqueIdentifier int                  `json:"default_linked_drink_tax_rate_unique_identifier,omitempty"`
	DefaultLinkedFoodTaxRateUniqueIdentifier  int                  `json:"default_linked_food_tax_rate_unique_identifier,omitempty"`
	Performance                               *PerformanceSettings `json:"performance"`
}

// PerformanceSettings 性能调优设置
type PerformanceSettings struct {
	CacheSettings  CacheSettings  `json:"cache_settings"`
	UIOptimization UIOptimization `json:"ui_optimization"`
}

// CacheSettings 设备端缓存设置
type CacheSettings struct {
	ItemsCacheTTL       int  `json:"items_cache_ttl"`
	CategoriesCacheTTL  int  `json:"categories_cache_ttl"`
	PreloadPopularItems bool `json:"preload_popular_items"`
	MaxCacheSizeMB      int  `json:"max_cache_size_mb"`
}

// UIOptimization 界面优化设置
type UIOptimization struct {
	LazyLoadImages   bool `json:"lazy_load_images"`
	DebounceSearchMS int  `json:"debounce_search_ms"`
	VirtualScrolling bool `json:"virtual_scrolling"`
}

// HardwareInterfaceV2 硬件接口
type HardwareInterfaceV2 struct {
	InterfaceUniqueIdentifier int              `json:"interface_unique_identifier"`
	InterfaceNames            MultilingualText `json:"interface_names"`
	InterfaceType             string           `json:"interface_type,omitempty"`
	Settings                  JSONB            `json:"settings,omitempty"`
}

// DisplayV2 内置显示屏
type DisplayV2 struct {
	DisplayUniqueIdentifier int                 `json:"display_unique_identifier"`
	DisplayNames            MultilingualText    `json:"display_names"`
	DisplayType             string              `json:"display_type,omitempty"`
	DisplayActivities       []DisplayActivityV2 `json:"display_activities,omitempty"`
}

// DisplayActivityV2 显示屏活动页
type DisplayActivityV2 struct {
	ActivityUniqueIdentifier int              `json:"activity_unique_identifier"`
	ActivityNames            MultilingualText `json:"activity_names"`
	UserInterfaceElements    []UIElementV2    `json:"user_interface_elements,omitempty"`
}

// UIElementV2 界面元素
type UIElementV2 struct {
	ElementUniqueIdentifier int                     `json:"element_unique_identifier"`
	ElementType             string                  `json:"element_type,omitempty"`
	ButtonConfigurations    []ButtonConfigurationV2 `json:"button_configurations,omitempty"`
	ButtonTexts             MultilingualText        `json:"button_texts,omitempty"`
}

// ButtonConfigurationV2 按钮配置
type ButtonConfigurationV2 struct {
	ButtonUniqueIdentifier int              `json:"button_unique_identifier"`
	ButtonTexts            MultilingualText `json:"button_texts"`
	LinkedAction           string           `json:"linked_action,omitempty"`
	Position               JSONB            `json:"position,omitempty"`
}

// PeripheralV1 外接外设(v1)
type PeripheralV1 struct {
	PeripheralUniqueIdentifier int         `json:"peripheral_unique_identifier"`
	PeripheralName             interface{} `json:"peripheral_name"`
	PeripheralType             string      `json:"peripheral_type,omitempty"`
	Settings                   JSONB       `json:"settings,omitempty"`
}

// PeripheralV2 外接外设
type PeripheralV2 struct {
	PeripheralUniqueIdentifier int              `json:"peripheral_unique_identifier"`
	PeripheralNames            MultilingualText `json:"peripheral_names"`
	PeripheralType             string           `json:"peripheral_type,omitempty"`
	Settings                   JSONB            `json:"settings,omitempty"`
}

// CategoryV2 商品分类
type CategoryV2 struct {
	CategoryUniqueIdentifier               int              `json:"category_unique_identifier"`
	CategoryNames                          MultilingualText `json:"category_names"`
	CategoryType                           string           `json:"category_type,omitempty"`
	ParentCategoryUniqueIdentifier         *int             `json:"parent_category_unique_identifier"`
	DefaultLinkedMainGroupUniqueIdentifier int              `json:"default_linked_main_group_unique_identifier,omitempty"`
	AuditTrail                             *AuditTrail      `json:"audit_trail"`
}

// ItemV2 商品
type ItemV2 struct {
	ItemUniqueIdentifier               int                   `json:"item_unique_identifier"`
	DisplayNames                       *DisplayNames         `json:"display_names"`
	ItemPriceValue                     float64               `json:"item_price_value"`
	PricingSchedules                   []PricingSchedule     `json:"pricing_schedules"`
	AvailabilitySchedule               *AvailabilitySchedule `json:"availability_schedule"`
	AssociatedCategoryUniqueIdentifier int                   `json:"associated_category_unique_identifier"`
	AdditionalItemAttributes           JSONB                 `json:"additional_item_attributes"`
	ItemFlags                          *ItemFlagsV2          `json:"item_flags"`
	AuditTrail                         *AuditTrail           `json:"audit_trail"`
}

// PricingSchedule 分时段价格覆盖
type PricingSchedule struct {
	ScheduleID string     `json:"schedule_id,omitempty"`
	Price      float64    `json:"price"`
	DaysOfWeek []string   `json:"days_of_week,omitempty"`
	TimeRange  *TimeRange `json:"time_range,omitempty"`
	ValidFrom  string     `json:"valid_from,omitempty"`
	ValidUntil string     `json:"valid_until,omitempty"`
}

// AvailabilitySchedule 可售时段
type AvailabilitySchedule struct {
	AlwaysAvailable bool              `json:"always_available"`
	Schedules       []PricingSchedule `json:"schedules"`
}

// ItemFlagsV2 v2 商品标志位,新增年龄校验与有机标志
type ItemFlagsV2 struct {
	IsSellable              bool `json:"is_sellable"`
	HasNegativePrice        bool `json:"has_negative_price"`
	RequiresAgeVerification bool `json:"requires_age_verification"`
	IsOrganic               bool `json:"is_organic"`
}
