/*
 * @module service/models/posmdf_v1
 * @description OOP-POS-MDF v1.0.0 配置文档模型(迁移引擎的输入格式)
 * @architecture 数据模型层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 解析 JSON -> 迁移引擎读取 -> 生成 v2 文档(输入永不被修改)
 * @rules 名称字段在 v1 中是单语言标量,允许为 null,统一声明为 interface{} 由转换器兜底
 * @dependencies 无
 * @refs service/migration/v1_to_v2.go
 */

package models

// ConfigurationV1 v1.0.0 配置文档根节点
type ConfigurationV1 struct {
	Schema         string            `json:"$schema,omitempty"`
	CompanyDetails *CompanyDetailsV1 `json:"company_details"`
}

// CompanyDetailsV1 公司详情,每个文档一家公司
type CompanyDetailsV1 struct {
	CompanyUniqueIdentifier int                     `json:"company_unique_identifier"`
	CompanyFullName         string                  `json:"company_full_name"`
	MetaInformation         *MetaInformationV1      `json:"meta_information"`
	GlobalConfigurations    *GlobalConfigurationsV1 `json:"global_configurations,omitempty"`
	Branches                []BranchV1              `json:"branches,omitempty"`
}

// MetaInformationV1 v1 元信息,只有版本与生成信息
type MetaInformationV1 struct {
	FormatVersion         string `json:"format_version"`
	DateGenerated         string `json:"date_generated,omitempty"`
	GeneratedBy           string `json:"generated_by,omitempty"`
	DefaultCurrencySymbol string `json:"default_currency_symbol,omitempty"`
}

// GlobalConfigurationsV1 全局配置定义集合
type GlobalConfigurationsV1 struct {
	TaxRatesDefinitions                      []TaxRateV1                `json:"tax_rates_definitions,omitempty"`
	MainGroupsDefinitions                    []MainGroupV1              `json:"main_groups_definitions,omitempty"`
	PaymentMethodsDefinitions                []PaymentMethodV1          `json:"payment_methods_definitions,omitempty"`
	PrintFormatProfilesDefinitions           []PrintProfileV1           `json:"print_format_profiles_definitions,omitempty"`
	CustomerDisplayLayoutProfilesDefinitions []CustomerDisplayProfileV1 `json:"customer_display_layout_profiles_definitions,omitempty"`
}

// TaxRateV1 税率定义
type TaxRateV1 struct {
	TaxRateUniqueIdentifier int         `json:"tax_rate_unique_identifier"`
	TaxRateName             interface{} `json:"tax_rate_name"`
	RatePercentage          float64     `json:"rate_percentage"`
	FiscalMappingType       string      `json:"fiscal_mapping_type,omitempty"`
}

// MainGroupV1 主分组定义
type MainGroupV1 struct {
	MainGroupUniqueIdentifier int         `json:"main_group_unique_identifier"`
	MainGroupName             interface{} `json:"main_group_name"`
}

// PaymentMethodV1 支付方式定义
type PaymentMethodV1 struct {
	PaymentMethodUniqueIdentifier int         `json:"payment_method_unique_identifier"`
	PaymentMethodName             interface{} `json:"payment_method_name"`
	PaymentMethodType             string      `json:"payment_method_type,omitempty"`
}

// PrintProfileV1 打印格式配置
type PrintProfileV1 struct {
	ProfileUniqueIdentifier int         `json:"profile_unique_identifier"`
	ProfileName             interface{} `json:"profile_name"`
	Settings                JSONB       `json:"settings,omitempty"`
}

// CustomerDisplayProfileV1 客显布局配置,settings 中的 welcome_text 在迁移时折叠为多语言对象
type CustomerDisplayProfileV1 struct {
	ProfileUniqueIdentifier int                              `json:"profile_unique_identifier"`
	ProfileName             interface{}                      `json:"profile_name"`
	Settings                *CustomerDisplayProfileSettingsV1 `json:"settings,omitempty"`
}

// CustomerDisplayProfileSettingsV1 客显配置项
type CustomerDisplayProfileSettingsV1 struct {
	WelcomeText interface{} `json:"welcome_text,omitempty"`
	IdleTimeout int         `json:"idle_timeout_seconds,omitempty"`
	ShowPrices  bool        `json:"show_prices,omitempty"`
}

// BranchV1 门店分支
type BranchV1 struct {
	BranchUniqueIdentifier int           `json:"branch_unique_identifier"`
	BranchName             interface{}   `json:"branch_name"`
	BranchAddress          string        `json:"branch_address,omitempty"`
	PointOfSaleDevices     []POSDeviceV1 `json:"point_of_sale_devices,omitempty"`
}

// POSDeviceV1 收银设备
type POSDeviceV1 struct {
	POSDeviceUniqueIdentifier int                   `json:"pos_device_unique_identifier"`
	POSDeviceName             interface{}           `json:"pos_device_name"`
	POSDeviceType             string                `json:"pos_device_type,omitempty"`
	POSDeviceExternalNumber   int                   `json:"pos_device_external_number,omitempty"`
	POSDeviceSettings         *POSDeviceSettingsV1  `json:"pos_device_settings,omitempty"`
	HardwareInterfaces        []HardwareInterfaceV1 `json:"hardware_interfaces,omitempty"`
	BuiltInDisplays           []DisplayV1           `json:"built_in_displays,omitempty"`
	ConnectedPeripherals      []PeripheralV1        `json:"connected_peripherals,omitempty"`
	CategoriesForThisPOS      []CategoryV1          `json:"categories_for_this_pos,omitempty"`
	ItemsForThisPOS           []ItemV1              `json:"items_for_this_pos,omitempty"`
}

// POSDeviceSettingsV1 设备级默认设置
type POSDeviceSettingsV1 struct {
	DefaultCurrencyIdentifier                 string `json:"default_currency_identifier,omitempty"`
	DefaultLinkedDrinkTaxRateUniqueIdentifier int    `json:"default_linked_drink_tax_rate_unique_identifier,omitempty"`
	DefaultLinkedFoodTaxRateUniqueIdentifier  int    `json:"default_linked_food_tax_rate_unique_identifier,omitempty"`
}

// HardwareInterfaceV1 硬件接口(串口、网口等)
type HardwareInterfaceV1 struct {
	InterfaceUniqueIdentifier int         `json:"interface_unique_identifier"`
	InterfaceName             interface{} `json:"interface_name"`
	InterfaceType             string      `json:"interface_type,omitempty"`
	Settings                  JSONB       `json:"settings,omitempty"`
}

// DisplayV1 内置显示屏
type DisplayV1 struct {
	DisplayUniqueIdentifier int                 `json:"display_unique_identifier"`
	DisplayName             interface{}         `json:"display_name"`
	DisplayType             string              `json:"display_type,omitempty"`
	DisplayActivities       []DisplayActivityV1 `json:"display_activities,omitempty"`
}

// DisplayActivityV1 显示屏上的活动页
type DisplayActivityV1 struct {
	ActivityUniqueIdentifier int            `json:"activity_unique_identifier"`
	ActivityName             interface{}    `json:"activity_name"`
	UserInterfaceElements    []UIElementV1  `json:"user_interface_elements,omitempty"`
}

// UIElementV1 界面元素,button_text_content 在迁移时折叠为 button_texts
type UIElementV1 struct {
	ElementUniqueIdentifier int                     `json:"element_unique_identifier"`
	ElementType             string                  `json:"element_type,omitempty"`
	ButtonConfigurations    []ButtonConfigurationV1 `json:"button_configurations,omitempty"`
	ButtonTextContent       interface{}             `json:"button_text_content,omitempty"`
}

// ButtonConfigurationV1 按钮配置
type ButtonConfigurationV1 struct {
	ButtonUniqueIdentifier int         `json:"button_unique_identifier"`
	ButtonTextOnDisplay    interface{} `json:"button_text_on_display"`
	LinkedAction           string      `json:"linked_action,omitempty"`
	Position               JSONB       `json:"position,omitempty"`
}

// CategoryV1 商品分类,名称还是单语言的 category_name_full
type CategoryV1 struct {
	CategoryUniqueIdentifier              int         `json:"category_unique_identifier"`
	CategoryNameFull                      interface{} `json:"category_name_full"`
	CategoryType                          string      `json:"category_type,omitempty"`
	ParentCategoryUniqueIdentifier        *int        `json:"parent_category_unique_identifier"`
	DefaultLinkedMainGroupUniqueIdentifier int        `json:"default_linked_main_group_unique_identifier,omitempty"`
}

// ItemV1 商品,三个显示名称是独立的标量字段
type ItemV1 struct {
	ItemUniqueIdentifier                 int         `json:"item_unique_identifier"`
	MenuDisplayName                      interface{} `json:"menu_display_name"`
	ButtonDisplayName                    interface{} `json:"button_display_name"`
	ReceiptPrintName                     interface{} `json:"receipt_print_name"`
	ItemPriceValue                       interface{} `json:"item_price_value"`
	AssociatedCategoryUniqueIdentifier   int         `json:"associated_category_unique_identifier"`
	AdditionalItemAttributes             JSONB       `json:"additional_item_attributes,omitempty"`
	ItemFlags                            *ItemFlagsV1 `json:"item_flags,omitempty"`
}

// ItemFlagsV1 v1 商品标志位
type ItemFlagsV1 struct {
	IsSellable       bool `json:"is_sellable"`
	HasNegativePrice bool `json:"has_negative_price"`
}
