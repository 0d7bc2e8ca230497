package validation

import (
	"encoding/json"
	"testing"

	"posmdf-service/service/configstore"
	"posmdf-service/service/migration"
	"posmdf-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateV1Document(t *testing.T) {
	validator := NewValidator()

	t.Run("完整v1文档通过校验", func(t *testing.T) {
		result, err := validator.Validate(testutil.SampleV1Configuration(), "1.0.0")
		require.NoError(t, err)
		assert.True(t, result.Valid, "violations: %+v", result.Errors)
		assert.Empty(t, result.Errors)
	})

	t.Run("最小v1文档通过校验", func(t *testing.T) {
		result, err := validator.Validate(testutil.MinimalV1Configuration(), "1.0.0")
		require.NoError(t, err)
		assert.True(t, result.Valid, "violations: %+v", result.Errors)
	})

	t.Run("缺少company_details不通过", func(t *testing.T) {
		result, err := validator.Validate(json.RawMessage(`{}`), "1.0.0")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
	})
}

func TestValidateV2Document(t *testing.T) {
	validator := NewValidator()

	t.Run("示例生成器的产物通过校验", func(t *testing.T) {
		sample := configstore.GenerateSample("Schema Test GmbH", "de")
		raw, err := json.Marshal(sample)
		require.NoError(t, err)

		result, err := validator.Validate(raw, "2.0.0")
		require.NoError(t, err)
		assert.True(t, result.Valid, "violations: %+v", result.Errors)
	})

	t.Run("迁移引擎的产物通过校验", func(t *testing.T) {
		engine, err := migration.NewV1ToV2Engine(migration.Options{})
		require.NoError(t, err)

		migrated := engine.Migrate(testutil.SampleV1Configuration())
		require.True(t, migrated.Success, "errors: %v", migrated.Errors)

		result, err := validator.Validate(migrated.Config, "2.0.0")
		require.NoError(t, err)
		assert.True(t, result.Valid, "violations: %+v", result.Errors)
	})

	t.Run("v1文档按v2校验不通过", func(t *testing.T) {
		result, err := validator.Validate(testutil.SampleV1Configuration(), "2.0.0")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("逐条收集违规不短路", func(t *testing.T) {
		document := json.RawMessage(`{
			"$schema": "https://schemas.eckasse.com/oop-pos-mdf/v2.0.0/schema.json",
			"company_details": {
				"company_unique_identifier": "not a number",
				"meta_information": {"format_version": "2.0.0"}
			}
		}`)
		result, err := validator.Validate(document, "2.0.0")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		// 类型错误和缺失必填字段都要报告
		assert.GreaterOrEqual(t, len(result.Errors), 2)
		for _, violation := range result.Errors {
			assert.NotEmpty(t, violation.Message)
		}
	})
}

func TestValidateMalformedDocument(t *testing.T) {
	validator := NewValidator()

	result, err := validator.Validate(json.RawMessage(`{not json`), "1.0.0")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "document is not valid JSON")
}

func TestValidateUnknownVersion(t *testing.T) {
	validator := NewValidator()

	_, err := validator.Validate(testutil.SampleV1Configuration(), "9.9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema for version 9.9.9 not available")
}

func TestValidateStruct(t *testing.T) {
	validator := NewValidator()

	sample := configstore.GenerateSample("", "")
	result, err := validator.ValidateStruct(sample, "2.0.0")
	require.NoError(t, err)
	assert.True(t, result.Valid, "violations: %+v", result.Errors)
}

func TestSchemas(t *testing.T) {
	validator := NewValidator()
	infos := validator.Schemas()

	require.Len(t, infos, 2)
	assert.Equal(t, SchemaInfo{Version: "1.0.0", Status: "legacy"}, infos[0])
	assert.Equal(t, SchemaInfo{Version: "2.0.0", Status: "current"}, infos[1])
}
