package access

import (
	"context"
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

func newTestService(t *testing.T) (*Service, *models.ApiApplication) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	svc := NewService(tdb.DB, slog.New(slog.NewTextHandler(io.Discard, nil)))
	app := &models.ApiApplication{Name: "test-app", Description: "Testanwendung"}
	require.NoError(t, svc.CreateApplication(context.Background(), app))
	return svc, app
}

func TestCreateApplication(t *testing.T) {
	svc, app := newTestService(t)
	assert.NotEmpty(t, app.ID)

	t.Run("名称为空被拒绝", func(t *testing.T) {
		err := svc.CreateApplication(context.Background(), &models.ApiApplication{})
		assert.Error(t, err)
	})

	t.Run("列出应用", func(t *testing.T) {
		apps, err := svc.ListApplications(context.Background())
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, "test-app", apps[0].Name)
	})
}

func TestIssueKey(t *testing.T) {
	svc, app := newTestService(t)
	ctx := context.Background()

	plaintext, key, err := svc.IssueKey(ctx, app.ID, "Integrationstest", nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(plaintext, "pk_"))
	assert.Len(t, plaintext, 51)
	assert.Equal(t, plaintext[:11], key.KeyPrefix)
	assert.True(t, key.IsActive)
	// 明文绝不落库
	assert.NotEqual(t, plaintext, key.KeyHash)
	assert.NotContains(t, key.KeyHash, plaintext)

	t.Run("应用不存在", func(t *testing.T) {
		_, _, err := svc.IssueKey(ctx, "missing-app", "", nil)
		assert.Error(t, err)
	})
}

func TestVerifyKey(t *testing.T) {
	svc, app := newTestService(t)
	ctx := context.Background()

	plaintext, issued, err := svc.IssueKey(ctx, app.ID, "", nil)
	require.NoError(t, err)

	t.Run("有效密钥通过", func(t *testing.T) {
		key, err := svc.VerifyKey(ctx, plaintext)
		require.NoError(t, err)
		assert.Equal(t, issued.ID, key.ID)
		assert.Equal(t, app.ID, key.ApplicationID)
	})

	t.Run("错误密钥被拒", func(t *testing.T) {
		// 同前缀但内容不同
		_, err := svc.VerifyKey(ctx, plaintext[:11]+strings.Repeat("0", 40))
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("过短的密钥被拒", func(t *testing.T) {
		_, err := svc.VerifyKey(ctx, "pk_short")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("过期密钥被拒", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		expiredPlain, _, err := svc.IssueKey(ctx, app.ID, "abgelaufen", &expired)
		require.NoError(t, err)

		_, err = svc.VerifyKey(ctx, expiredPlain)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("未过期的定期密钥通过", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		futurePlain, _, err := svc.IssueKey(ctx, app.ID, "befristet", &future)
		require.NoError(t, err)

		_, err = svc.VerifyKey(ctx, futurePlain)
		assert.NoError(t, err)
	})
}

func TestRevokeKey(t *testing.T) {
	svc, app := newTestService(t)
	ctx := context.Background()

	plaintext, key, err := svc.IssueKey(ctx, app.ID, "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeKey(ctx, key.ID))

	_, err = svc.VerifyKey(ctx, plaintext)
	assert.ErrorIs(t, err, ErrInvalidKey)

	t.Run("吊销不存在的密钥", func(t *testing.T) {
		assert.Error(t, svc.RevokeKey(ctx, "missing-key"))
	})
}
