/*
 * @module service/export/vectron
 * @description Vectron Commander 控制文件导出,每个商品一条 PLU 记录
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/vectron_import_format.md
 * @stateFlow v2 文档 -> 商品遍历 -> 行式控制文件(CRLF 结尾)
 * @rules 首行为固定的接口头;价格两位小数;文件使用 CRLF 换行
 * @dependencies 无
 * @refs service/export/export.go
 */

package export

import (
	"fmt"
	"strings"

	"posmdf-service/service/models"
)

// vectronHeader 接口头:LineType 100,版本 1,目标收银机 1
const vectronHeader = "100,0,1,1;10,1;24,A;51,1;"

// ToVectron 导出 Vectron 控制文件
func ToVectron(config *models.ConfigurationV2) *Result {
	lang := defaultLanguage(config)
	entries, warnings := walkItems(config)

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, vectronHeader)

	for _, entry := range entries {
		name := displayName(entry.item, lang)
		lines = append(lines, fmt.Sprintf(
			"101,%d,101,TX:\"%s\";201,VA:%.2f;301,NR:%d;9001,NR:0",
			entry.item.ItemUniqueIdentifier,
			name,
			entry.item.ItemPriceValue,
			entry.item.AssociatedCategoryUniqueIdentifier,
		))
	}

	return &Result{
		Data:        []byte(strings.Join(lines, "\r\n") + "\r\n"),
		ContentType: "text/plain",
		Filename:    "vectron-import.txt",
		Warnings:    warnings,
	}
}
