/*
 * @module service/export/csv
 * @description 商品清单 CSV 导出
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow v2 文档 -> 商品遍历 -> CSV 编码
 * @dependencies encoding/csv
 * @refs service/export/export.go
 */

package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"posmdf-service/service/models"
)

// ToCSV 导出商品清单 CSV,一行一个商品
func ToCSV(config *models.ConfigurationV2) (*Result, error) {
	lang := defaultLanguage(config)
	entries, warnings := walkItems(config)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "Price", "Category", "Active"}); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		active := "No"
		if entry.item.ItemFlags != nil && entry.item.ItemFlags.IsSellable {
			active = "Yes"
		}
		record := []string{
			strconv.Itoa(entry.item.ItemUniqueIdentifier),
			displayName(entry.item, lang),
			strconv.FormatFloat(entry.item.ItemPriceValue, 'f', 2, 64),
			strconv.Itoa(entry.item.AssociatedCategoryUniqueIdentifier),
			active,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: "text/csv",
		Filename:    "items.csv",
		Warnings:    warnings,
	}, nil
}
