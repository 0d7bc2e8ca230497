/*
 * @module service/migration/multilingual
 * @description 多语言转换器,把单语言标量折叠为语言标签映射
 * @architecture 分层架构 - 领域服务层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 标量输入 -> 兜底判定 -> 按默认语言与支持语言填充映射
 * @rules 非法标量使用确定性的兜底文本且恰好产生一条警告;
 *        非默认语言一律原文复制,本设计不做翻译;
 *        警告通过显式 sink 传入,转换器自身不持有状态
 * @dependencies 无
 * @refs service/migration/v1_to_v2.go
 */

package migration

import "posmdf-service/service/models"

// FallbackText 标量不可用时的确定性兜底文本
const FallbackText = "Unnamed"

// ToMultilingual 把单语言标量转换为多语言对象。
// value 不是可用字符串时使用 fallback(为空则使用 FallbackText)并向 warnings 记录一条警告。
// 默认语言之外的每种支持语言都填入同一文本。
func ToMultilingual(value interface{}, fallback, defaultLanguage string, supportedLanguages []string, warnings *Warnings) models.MultilingualText {
	text, ok := value.(string)
	if !ok {
		text = fallback
		if text == "" {
			text = FallbackText
		}
		if warnings != nil {
			warnings.Addf("invalid text value, using fallback: %q", text)
		}
	}

	result := models.MultilingualText{defaultLanguage: text}
	for _, lang := range supportedLanguages {
		if lang != defaultLanguage {
			result[lang] = text
		}
	}
	return result
}
