package connectors

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisConnector() *RedisConnector {
	return NewRedisConnector(&RedisConfig{Address: "127.0.0.1:0"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedisConnectorDefaults(t *testing.T) {
	rc := newTestRedisConnector()
	assert.Equal(t, time.Hour, rc.config.DefaultTTL)
	assert.False(t, rc.IsConnected())
}

func TestRedisConnectorUnconnectedOperations(t *testing.T) {
	rc := newTestRedisConnector()
	ctx := context.Background()

	_, err := rc.GetConfig(ctx, "cfg-1")
	assert.Error(t, err)
	assert.Error(t, rc.SetConfig(ctx, "cfg-1", []byte("{}")))
	assert.Error(t, rc.InvalidateConfig(ctx, "cfg-1"))
	assert.Error(t, rc.Ping(ctx))
	_, err = rc.Incr(ctx, "ratelimit:test", time.Minute)
	assert.Error(t, err)

	// 未连接时断开是无操作
	require.NoError(t, rc.Disconnect())
}

func TestRedisConnectorConcurrentStateReads(t *testing.T) {
	rc := newTestRedisConnector()
	ctx := context.Background()

	// 连接标志被请求协程并发读取,与断开操作并发执行必须无数据竞争
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rc.IsConnected()
				rc.GetConfig(ctx, "cfg-1")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rc.Disconnect()
			}
		}()
	}
	wg.Wait()

	assert.False(t, rc.IsConnected())
}

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "config:abc", configKey("abc"))
}
