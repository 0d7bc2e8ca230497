package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"posmdf-service/service/migration"
	"posmdf-service/service/models"
	"posmdf-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// migratedConfiguration 把 v1 测试夹具迁移为 v2 文档,作为导出输入
func migratedConfiguration(t *testing.T) *models.ConfigurationV2 {
	t.Helper()
	engine, err := migration.NewV1ToV2Engine(migration.Options{})
	require.NoError(t, err)

	result := engine.Migrate(testutil.SampleV1Configuration())
	require.True(t, result.Success, "errors: %v", result.Errors)

	var config models.ConfigurationV2
	require.NoError(t, json.Unmarshal(result.Config, &config))
	return &config
}

// danglingConfiguration 一个商品引用了不存在的分类
func danglingConfiguration() *models.ConfigurationV2 {
	return &models.ConfigurationV2{
		CompanyDetails: &models.CompanyDetailsV2{
			CompanyUniqueIdentifier: 1,
			CompanyFullName:         "Dangling GmbH",
			MetaInformation:         &models.MetaInformationV2{DefaultLanguage: "de"},
			Branches: []models.BranchV2{
				{
					BranchUniqueIdentifier: 1,
					BranchNames:            models.MultilingualText{"de": "Filiale"},
					PointOfSaleDevices: []models.POSDeviceV2{
						{
							POSDeviceUniqueIdentifier: 1,
							POSDeviceNames:            models.MultilingualText{"de": "Kasse"},
							CategoriesForThisPOS: []models.CategoryV2{
								{CategoryUniqueIdentifier: 100, CategoryNames: models.MultilingualText{"de": "Getränke"}},
							},
							ItemsForThisPOS: []models.ItemV2{
								{
									ItemUniqueIdentifier:               1,
									DisplayNames:                       &models.DisplayNames{Menu: models.MultilingualText{"de": "Wasser"}},
									ItemPriceValue:                     1.50,
									AssociatedCategoryUniqueIdentifier: 100,
								},
								{
									ItemUniqueIdentifier:               2,
									DisplayNames:                       &models.DisplayNames{Menu: models.MultilingualText{"de": "Geist"}},
									ItemPriceValue:                     9.99,
									AssociatedCategoryUniqueIdentifier: 999,
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestToVectron(t *testing.T) {
	config := migratedConfiguration(t)
	result := ToVectron(config)

	assert.Equal(t, "text/plain", result.ContentType)
	assert.Equal(t, "vectron-import.txt", result.Filename)
	assert.Empty(t, result.Warnings)

	content := string(result.Data)
	assert.True(t, strings.HasSuffix(content, "\r\n"))
	lines := strings.Split(strings.TrimSuffix(content, "\r\n"), "\r\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "100,0,1,1;10,1;24,A;51,1;", lines[0])
	assert.Equal(t, `101,1001,101,TX:"Coca-Cola 0,3l";201,VA:2.50;301,NR:100;9001,NR:0`, lines[1])
	assert.Equal(t, `101,1002,101,TX:"Wiener Schnitzel";201,VA:15.90;301,NR:200;9001,NR:0`, lines[2])
}

func TestToVectronSkipsDanglingItems(t *testing.T) {
	result := ToVectron(danglingConfiguration())

	lines := strings.Split(strings.TrimSuffix(string(result.Data), "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `TX:"Wasser"`)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "item 2 references missing category 999, skipped", result.Warnings[0])
}

func TestToVectronEmptyConfiguration(t *testing.T) {
	result := ToVectron(&models.ConfigurationV2{})

	assert.Equal(t, "100,0,1,1;10,1;24,A;51,1;\r\n", string(result.Data))
	assert.Empty(t, result.Warnings)
}

func TestToCSV(t *testing.T) {
	config := migratedConfiguration(t)
	result, err := ToCSV(config)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "items.csv", result.Filename)
	assert.Empty(t, result.Warnings)

	records, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"ID", "Name", "Price", "Category", "Active"}, records[0])
	assert.Equal(t, []string{"1001", "Coca-Cola 0,3l", "2.50", "100", "Yes"}, records[1])
	assert.Equal(t, []string{"1002", "Wiener Schnitzel", "15.90", "200", "Yes"}, records[2])
}

func TestToCSVInactiveItem(t *testing.T) {
	config := danglingConfiguration()
	result, err := ToCSV(config)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)
	// 悬空商品被跳过,只剩表头和一条记录
	require.Len(t, records, 2)
	assert.Equal(t, "No", records[1][4])
	require.Len(t, result.Warnings, 1)
}

func TestToXML(t *testing.T) {
	config := migratedConfiguration(t)
	result, err := ToXML(config)
	require.NoError(t, err)

	assert.Equal(t, "application/xml", result.ContentType)
	assert.Equal(t, "config.xml", result.Filename)
	assert.Empty(t, result.Warnings)

	content := string(result.Data)
	assert.True(t, strings.HasPrefix(content, "<?xml"))
	assert.Contains(t, content, `<company name="Test Restaurant GmbH" id="1">`)
	assert.Contains(t, content, `<branch name="Hauptfiliale" id="1">`)
	assert.Contains(t, content, `<device name="Hauptkasse" id="1">`)
	assert.Contains(t, content, `<item id="1001" name="Coca-Cola 0,3l" price="2.5"></item>`)
	assert.Contains(t, content, `<item id="1002" name="Wiener Schnitzel" price="15.9"></item>`)
}

func TestToXMLSkipsDanglingItems(t *testing.T) {
	result, err := ToXML(danglingConfiguration())
	require.NoError(t, err)

	content := string(result.Data)
	assert.Contains(t, content, `name="Wasser"`)
	assert.NotContains(t, content, `name="Geist"`)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "item 2 references missing category 999, skipped", result.Warnings[0])
}

func TestToXMLRejectsEmptyConfiguration(t *testing.T) {
	_, err := ToXML(&models.ConfigurationV2{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no company_details")
}

func TestDisplayNameFallbacks(t *testing.T) {
	t.Run("缺失DisplayNames用固定兜底", func(t *testing.T) {
		item := &models.ItemV2{ItemUniqueIdentifier: 1}
		assert.Equal(t, "Unknown Item", displayName(item, "de"))
	})

	t.Run("默认语言缺失用固定兜底", func(t *testing.T) {
		item := &models.ItemV2{
			DisplayNames: &models.DisplayNames{Menu: models.MultilingualText{"en": "Water"}},
		}
		assert.Equal(t, "Unknown Item", displayName(item, "de"))
	})
}
