/*
 * @module service/models/multilingual
 * @description 多语言文本类型,语言标签到显示文本的映射
 * @architecture 数据模型层
 * @documentReference docs/oop_pos_mdf_format.md
 * @stateFlow 单语言字段迁移时转换为多语言对象
 * @rules 必须包含 default_language 对应的条目,键唯一,顺序无关
 * @dependencies 无
 * @refs service/migration
 */

package models

// MultilingualText 多语言文本,键为语言标签(如 de、en)
type MultilingualText map[string]string

// Has 判断是否包含指定语言的条目
func (m MultilingualText) Has(lang string) bool {
	_, ok := m[lang]
	return ok
}

// Get 获取指定语言的文本,不存在时返回空字符串
func (m MultilingualText) Get(lang string) string {
	return m[lang]
}

// IsValid 多语言对象至少要有一个条目
func (m MultilingualText) IsValid() bool {
	return len(m) > 0
}

// DisplayNames 商品的三个显示名称槽位,菜单、按钮、小票各一个多语言对象
type DisplayNames struct {
	Menu    MultilingualText `json:"menu"`
	Button  MultilingualText `json:"button"`
	Receipt MultilingualText `json:"receipt"`
}

// Complete 三个槽位是否全部非空
func (d *DisplayNames) Complete() bool {
	if d == nil {
		return false
	}
	return d.Menu.IsValid() && d.Button.IsValid() && d.Receipt.IsValid()
}
