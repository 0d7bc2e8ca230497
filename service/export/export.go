/*
 * @module service/export/export
 * @description 导出器公共部分:导出结果契约与单向只读的商品遍历
 * @architecture 分层架构 - 领域服务层,单向只读树遍历
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 已通过目标版本校验的 v2 文档 -> 逐设备遍历 -> 目标格式编码
 * @rules 商品引用的分类不存在时跳过该商品并记录警告,绝不中断导出;
 *        导出器不修改文档,也不负责校验
 * @dependencies 无
 * @refs service/export/vectron.go, service/export/csv.go, service/export/xml.go
 */

package export

import (
	"fmt"

	"posmdf-service/service/models"
)

// FormatVectron/CSV/XML 支持的导出格式
const (
	FormatVectron = "vectron"
	FormatCSV     = "csv"
	FormatXML     = "xml"
)

// Result 一次导出的产物
type Result struct {
	Data        []byte   `json:"-"`
	ContentType string   `json:"content_type"`
	Filename    string   `json:"filename"`
	Warnings    []string `json:"warnings"`
}

// itemEntry 遍历展开后的一条商品记录
type itemEntry struct {
	item     *models.ItemV2
	category *models.CategoryV2
	device   *models.POSDeviceV2
	branch   *models.BranchV2
}

// walkItems 按文档顺序展开所有商品。分类引用悬空的商品被跳过并产生一条警告,
// 这是既有导出行为,引擎侧不纠正
func walkItems(config *models.ConfigurationV2) ([]itemEntry, []string) {
	var entries []itemEntry
	var warnings []string

	if config == nil || config.CompanyDetails == nil {
		return entries, warnings
	}

	for bi := range config.CompanyDetails.Branches {
		branch := &config.CompanyDetails.Branches[bi]
		for di := range branch.PointOfSaleDevices {
			device := &branch.PointOfSaleDevices[di]

			categories := make(map[int]*models.CategoryV2, len(device.CategoriesForThisPOS))
			for ci := range device.CategoriesForThisPOS {
				category := &device.CategoriesForThisPOS[ci]
				categories[category.CategoryUniqueIdentifier] = category
			}

			for ii := range device.ItemsForThisPOS {
				item := &device.ItemsForThisPOS[ii]
				category, ok := categories[item.AssociatedCategoryUniqueIdentifier]
				if !ok {
					warnings = append(warnings, fmt.Sprintf(
						"item %d references missing category %d, skipped",
						item.ItemUniqueIdentifier, item.AssociatedCategoryUniqueIdentifier))
					continue
				}
				entries = append(entries, itemEntry{item: item, category: category, device: device, branch: branch})
			}
		}
	}

	return entries, warnings
}

// displayName 取默认语言的菜单显示名,缺失时用固定兜底文本
func displayName(item *models.ItemV2, defaultLanguage string) string {
	if item.DisplayNames != nil {
		if name := item.DisplayNames.Menu.Get(defaultLanguage); name != "" {
			return name
		}
	}
	return "Unknown Item"
}

// defaultLanguage 文档声明的默认语言,缺失时退回 de
func defaultLanguage(config *models.ConfigurationV2) string {
	if config != nil && config.CompanyDetails != nil && config.CompanyDetails.MetaInformation != nil &&
		config.CompanyDetails.MetaInformation.DefaultLanguage != "" {
		return config.CompanyDetails.MetaInformation.DefaultLanguage
	}
	return "de"
}
