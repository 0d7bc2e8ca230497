package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMultilingual(t *testing.T) {
	supported := []string{"de", "en", "fr"}

	t.Run("有效文本复制到所有支持语言", func(t *testing.T) {
		warnings := &Warnings{}
		result := ToMultilingual("Getränke", "", "de", supported, warnings)

		assert.Equal(t, "Getränke", result["de"])
		assert.Equal(t, "Getränke", result["en"])
		assert.Equal(t, "Getränke", result["fr"])
		assert.Len(t, result, 3)
		assert.Zero(t, warnings.Len())
	})

	t.Run("空字符串是有效值", func(t *testing.T) {
		warnings := &Warnings{}
		result := ToMultilingual("", "", "de", supported, warnings)

		assert.Equal(t, "", result["de"])
		assert.Zero(t, warnings.Len())
	})

	t.Run("nil使用兜底文本并产生一条警告", func(t *testing.T) {
		warnings := &Warnings{}
		result := ToMultilingual(nil, "", "de", supported, warnings)

		assert.Equal(t, FallbackText, result["de"])
		assert.Equal(t, FallbackText, result["en"])
		require.Equal(t, 1, warnings.Len())
		assert.Equal(t, `invalid text value, using fallback: "Unnamed"`, warnings.List()[0])
	})

	t.Run("数字使用兜底文本", func(t *testing.T) {
		warnings := &Warnings{}
		result := ToMultilingual(42.0, "", "de", supported, warnings)

		assert.Equal(t, FallbackText, result["de"])
		assert.Equal(t, 1, warnings.Len())
	})

	t.Run("自定义兜底文本优先于默认兜底", func(t *testing.T) {
		warnings := &Warnings{}
		result := ToMultilingual(nil, "Unbenannt", "de", supported, warnings)

		assert.Equal(t, "Unbenannt", result["de"])
		require.Equal(t, 1, warnings.Len())
		assert.Equal(t, `invalid text value, using fallback: "Unbenannt"`, warnings.List()[0])
	})

	t.Run("nil警告收集器不panic", func(t *testing.T) {
		result := ToMultilingual(nil, "", "de", supported, nil)
		assert.Equal(t, FallbackText, result["de"])
	})

	t.Run("默认语言不在支持集合时仍然写入", func(t *testing.T) {
		result := ToMultilingual("Text", "", "de", []string{"en"}, nil)
		assert.Equal(t, "Text", result["de"])
		assert.Equal(t, "Text", result["en"])
	})
}

func TestWarnings(t *testing.T) {
	t.Run("List永不为nil", func(t *testing.T) {
		warnings := &Warnings{}
		assert.NotNil(t, warnings.List())
		assert.Empty(t, warnings.List())
	})

	t.Run("按追加顺序累积", func(t *testing.T) {
		warnings := &Warnings{}
		warnings.Add("first")
		warnings.Addf("second %d", 2)

		assert.Equal(t, []string{"first", "second 2"}, warnings.List())
		assert.Equal(t, 2, warnings.Len())
	})
}
