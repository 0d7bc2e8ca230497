package configstore

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"posmdf-service/service/models"
	"posmdf-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureNotifier 记录发出的变更事件
type captureNotifier struct {
	events []*models.ConfigChangeEvent
}

func (c *captureNotifier) PublishConfigChange(event *models.ConfigChangeEvent) {
	c.events = append(c.events, event)
}

func (c *captureNotifier) last() *models.ConfigChangeEvent {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[len(c.events)-1]
}

func newTestService(t *testing.T, encryptionKey string) (*Service, *captureNotifier, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	notifier := &captureNotifier{}
	svc := NewService(tdb.DB, nil, encryptionKey, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.SetNotifier(notifier)
	return svc, notifier, tdb
}

func TestCreateConfiguration(t *testing.T) {
	svc, notifier, _ := newTestService(t, "")
	ctx := context.Background()

	record, err := svc.Create(ctx, testutil.SampleV1Configuration(), "tester")
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Test Restaurant GmbH", record.CompanyName)
	assert.Equal(t, "1.0.0", record.FormatVersion)
	assert.Equal(t, "active", record.Status)
	assert.False(t, record.Encrypted)

	require.NotNil(t, notifier.last())
	assert.Equal(t, "created", notifier.last().Action)
	assert.Equal(t, record.ID, notifier.last().ConfigID)
	assert.Equal(t, "tester", notifier.last().User)

	events, err := svc.AuditLog(ctx, 10, "configuration_created")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "tester", events[0].UserID)
	assert.Equal(t, record.ID, events[0].Metadata["config_id"])
}

func TestCreateRejectsMalformedDocument(t *testing.T) {
	svc, _, _ := newTestService(t, "")

	_, err := svc.Create(context.Background(), json.RawMessage(`{broken`), "tester")
	require.Error(t, err)
}

func TestGetConfiguration(t *testing.T) {
	svc, _, _ := newTestService(t, "")
	ctx := context.Background()

	original := testutil.SampleV1Configuration()
	record, err := svc.Create(ctx, original, "tester")
	require.NoError(t, err)

	t.Run("读取后文档逐字节一致", func(t *testing.T) {
		document, fetched, err := svc.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, string(original), string(document))
		assert.Equal(t, record.ID, fetched.ID)
	})

	t.Run("不存在的ID返回ErrNotFound", func(t *testing.T) {
		_, _, err := svc.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateConfiguration(t *testing.T) {
	svc, notifier, _ := newTestService(t, "")
	ctx := context.Background()

	record, err := svc.Create(ctx, testutil.SampleV1Configuration(), "tester")
	require.NoError(t, err)

	updated := json.RawMessage(`{
		"company_details": {
			"company_full_name": "Umbenannt GmbH",
			"meta_information": {"format_version": "1.0.0"}
		}
	}`)
	result, err := svc.Update(ctx, record.ID, updated, "editor")
	require.NoError(t, err)

	assert.Equal(t, "Umbenannt GmbH", result.CompanyName)
	assert.Equal(t, "updated", notifier.last().Action)

	document, _, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, string(updated), string(document))
}

func TestDeleteConfiguration(t *testing.T) {
	svc, notifier, tdb := newTestService(t, "")
	ctx := context.Background()

	record, err := svc.Create(ctx, testutil.SampleV1Configuration(), "tester")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, record.ID, "tester"))
	assert.Equal(t, "deleted", notifier.last().Action)

	_, _, err = svc.Get(ctx, record.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 软删除,物理行仍在
	var count int64
	tdb.DB.Unscoped().Model(&models.ConfigurationRecord{}).Where("id = ?", record.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	t.Run("重复删除返回ErrNotFound", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, record.ID, "tester"), ErrNotFound)
	})
}

func TestListConfigurations(t *testing.T) {
	svc, _, _ := newTestService(t, "")
	ctx := context.Background()

	for _, name := range []string{"Alpha GmbH", "Beta GmbH", "Alpha Nord GmbH"} {
		document := json.RawMessage(`{
			"company_details": {
				"company_full_name": "` + name + `",
				"meta_information": {"format_version": "1.0.0"}
			}
		}`)
		_, err := svc.Create(ctx, document, "tester")
		require.NoError(t, err)
	}

	t.Run("全量分页", func(t *testing.T) {
		records, total, err := svc.List(ctx, 1, 2, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, records, 2)

		records, _, err = svc.List(ctx, 2, 2, "")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("公司名过滤", func(t *testing.T) {
		records, total, err := svc.List(ctx, 1, 20, "Alpha")
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, record := range records {
			assert.True(t, strings.Contains(record.CompanyName, "Alpha"))
		}
	})

	t.Run("非法分页参数被夹取", func(t *testing.T) {
		records, total, err := svc.List(ctx, -1, 9999, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, records, 3)
	})
}

func TestReplaceAfterMigration(t *testing.T) {
	svc, notifier, _ := newTestService(t, "")
	ctx := context.Background()

	record, err := svc.Create(ctx, testutil.SampleV1Configuration(), "tester")
	require.NoError(t, err)

	migrated := json.RawMessage(`{
		"company_details": {
			"company_full_name": "Test Restaurant GmbH",
			"meta_information": {"format_version": "2.0.0"}
		}
	}`)
	result, err := svc.ReplaceAfterMigration(ctx, record.ID, migrated, "1.0.0", "migrator")
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", result.FormatVersion)
	assert.Equal(t, "migrated", notifier.last().Action)

	events, err := svc.AuditLog(ctx, 10, "configuration_migrated")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "1.0.0", events[0].Metadata["from_version"])
	assert.Equal(t, "2.0.0", events[0].Metadata["to_version"])
}

func TestEncryptedStorage(t *testing.T) {
	svc, _, tdb := newTestService(t, "unit-test-secret")
	ctx := context.Background()

	original := testutil.SampleV1Configuration()
	record, err := svc.Create(ctx, original, "tester")
	require.NoError(t, err)
	assert.True(t, record.Encrypted)

	// 数据库里的载荷不是明文
	var stored models.ConfigurationRecord
	require.NoError(t, tdb.DB.First(&stored, "id = ?", record.ID).Error)
	assert.True(t, stored.Encrypted)
	assert.NotContains(t, stored.Payload, "Test Restaurant GmbH")

	document, _, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, string(original), string(document))

	t.Run("无密钥的服务拒绝读取加密载荷", func(t *testing.T) {
		plainSvc := NewService(tdb.DB, nil, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, _, err := plainSvc.Get(ctx, record.ID)
		require.Error(t, err)
	})
}

func TestAuditLogAndStats(t *testing.T) {
	svc, _, _ := newTestService(t, "")
	ctx := context.Background()

	record, err := svc.Create(ctx, testutil.SampleV1Configuration(), "tester")
	require.NoError(t, err)
	_, err = svc.Update(ctx, record.ID, testutil.SampleV1Configuration(), "tester")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, record.ID, "tester"))

	t.Run("按动作过滤", func(t *testing.T) {
		events, err := svc.AuditLog(ctx, 10, "configuration_deleted")
		require.NoError(t, err)
		require.Len(t, events, 1)
	})

	t.Run("聚合统计", func(t *testing.T) {
		stats, err := svc.AuditStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats["configuration_created"])
		assert.Equal(t, int64(1), stats["configuration_updated"])
		assert.Equal(t, int64(1), stats["configuration_deleted"])
	})
}

func TestPurgeAuditEvents(t *testing.T) {
	svc, _, tdb := newTestService(t, "")
	ctx := context.Background()

	old := &models.AuditEvent{Action: "stale", UserID: "tester", Timestamp: time.Now().UTC().Add(-100 * 24 * time.Hour)}
	recent := &models.AuditEvent{Action: "fresh", UserID: "tester"}
	require.NoError(t, tdb.DB.Create(old).Error)
	require.NoError(t, tdb.DB.Create(recent).Error)

	deleted, err := svc.PurgeAuditEvents(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, err := svc.AuditLog(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "fresh", events[0].Action)
}

func TestPurgeDeletedConfigurations(t *testing.T) {
	svc, _, tdb := newTestService(t, "")
	ctx := context.Background()

	record, err := svc.Create(ctx, testutil.SampleV1Configuration(), "tester")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, record.ID, "tester"))

	// 删除时间回拨到保留期之外
	stale := time.Now().UTC().Add(-40 * 24 * time.Hour)
	require.NoError(t, tdb.DB.Unscoped().Model(&models.ConfigurationRecord{}).
		Where("id = ?", record.ID).Update("deleted_at", stale).Error)

	purged, err := svc.PurgeDeletedConfigurations(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var count int64
	tdb.DB.Unscoped().Model(&models.ConfigurationRecord{}).Where("id = ?", record.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGenerateSample(t *testing.T) {
	t.Run("默认参数", func(t *testing.T) {
		sample := GenerateSample("", "")
		assert.Equal(t, "Sample Company", sample.CompanyDetails.CompanyFullName)
		assert.Equal(t, "de", sample.CompanyDetails.MetaInformation.DefaultLanguage)
		assert.Equal(t, models.FormatVersionV2, sample.CompanyDetails.MetaInformation.FormatVersion)
	})

	t.Run("自定义公司名与语言", func(t *testing.T) {
		sample := GenerateSample("Eigene GmbH", "en")
		assert.Equal(t, "Eigene GmbH", sample.CompanyDetails.CompanyFullName)
		assert.Equal(t, "en", sample.CompanyDetails.MetaInformation.DefaultLanguage)

		require.Len(t, sample.CompanyDetails.Branches, 1)
		device := sample.CompanyDetails.Branches[0].PointOfSaleDevices[0]
		require.Len(t, device.ItemsForThisPOS, 1)
		assert.True(t, device.ItemsForThisPOS[0].DisplayNames.Complete())
	})
}
