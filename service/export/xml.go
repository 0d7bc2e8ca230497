/*
 * @module service/export/xml
 * @description 配置树 XML 导出,公司 -> 分支 -> 设备 -> 商品
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow v2 文档 -> 树遍历 -> XML 编码
 * @dependencies encoding/xml
 * @refs service/export/export.go
 */

package export

import (
	"encoding/xml"
	"fmt"

	"posmdf-service/service/models"
)

type xmlConfiguration struct {
	XMLName xml.Name   `xml:"pos-configuration"`
	Company xmlCompany `xml:"company"`
}

type xmlCompany struct {
	Name     string      `xml:"name,attr"`
	ID       int         `xml:"id,attr"`
	Branches []xmlBranch `xml:"branch"`
}

type xmlBranch struct {
	Name    string      `xml:"name,attr"`
	ID      int         `xml:"id,attr"`
	Devices []xmlDevice `xml:"device"`
}

type xmlDevice struct {
	Name  string    `xml:"name,attr"`
	ID    int       `xml:"id,attr"`
	Items []xmlItem `xml:"items>item"`
}

type xmlItem struct {
	ID    int     `xml:"id,attr"`
	Name  string  `xml:"name,attr"`
	Price float64 `xml:"price,attr"`
}

// ToXML 导出配置树 XML
func ToXML(config *models.ConfigurationV2) (*Result, error) {
	if config == nil || config.CompanyDetails == nil {
		return nil, fmt.Errorf("configuration has no company_details")
	}

	lang := defaultLanguage(config)
	var warnings []string

	root := xmlConfiguration{
		Company: xmlCompany{
			Name: config.CompanyDetails.CompanyFullName,
			ID:   config.CompanyDetails.CompanyUniqueIdentifier,
		},
	}

	for bi := range config.CompanyDetails.Branches {
		branch := &config.CompanyDetails.Branches[bi]
		xb := xmlBranch{
			Name: branch.BranchNames.Get(lang),
			ID:   branch.BranchUniqueIdentifier,
		}
		for di := range branch.PointOfSaleDevices {
			device := &branch.PointOfSaleDevices[di]
			xd := xmlDevice{
				Name:  device.POSDeviceNames.Get(lang),
				ID:    device.POSDeviceUniqueIdentifier,
				Items: []xmlItem{},
			}

			categories := make(map[int]bool, len(device.CategoriesForThisPOS))
			for _, category := range device.CategoriesForThisPOS {
				categories[category.CategoryUniqueIdentifier] = true
			}
			for ii := range device.ItemsForThisPOS {
				item := &device.ItemsForThisPOS[ii]
				if !categories[item.AssociatedCategoryUniqueIdentifier] {
					warnings = append(warnings, fmt.Sprintf(
						"item %d references missing category %d, skipped",
						item.ItemUniqueIdentifier, item.AssociatedCategoryUniqueIdentifier))
					continue
				}
				xd.Items = append(xd.Items, xmlItem{
					ID:    item.ItemUniqueIdentifier,
					Name:  displayName(item, lang),
					Price: item.ItemPriceValue,
				})
			}
			xb.Devices = append(xb.Devices, xd)
		}
		root.Company.Branches = append(root.Company.Branches, xb)
	}

	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode XML: %w", err)
	}

	return &Result{
		Data:        append([]byte(xml.Header), data...),
		ContentType: "application/xml",
		Filename:    "config.xml",
		Warnings:    warnings,
	}, nil
}
