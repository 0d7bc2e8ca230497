package event

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"posmdf-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService() *EventService {
	return NewEventService(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubscribeUnsubscribe(t *testing.T) {
	svc := newTestEventService()
	defer svc.Stop()

	id1, ch1 := svc.Subscribe()
	id2, _ := svc.Subscribe()
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, svc.ClientCount())

	svc.Unsubscribe(id1)
	assert.Equal(t, 1, svc.ClientCount())

	// 注销后通道被关闭
	_, open := <-ch1
	assert.False(t, open)

	t.Run("重复注销不panic", func(t *testing.T) {
		svc.Unsubscribe(id1)
		assert.Equal(t, 1, svc.ClientCount())
	})
}

func TestPublishConfigChange(t *testing.T) {
	svc := newTestEventService()
	defer svc.Stop()

	_, ch := svc.Subscribe()

	change := &models.ConfigChangeEvent{
		ConfigID:      "cfg-1",
		Action:        "updated",
		CompanyName:   "Test GmbH",
		FormatVersion: "2.0.0",
		User:          "tester",
	}
	svc.PublishConfigChange(change)

	// EventID与时间戳在发布时补齐
	assert.NotEmpty(t, change.EventID)
	assert.False(t, change.Timestamp.IsZero())

	select {
	case event := <-ch:
		assert.Equal(t, change.EventID, event.ID)
		assert.Equal(t, "config_change", event.Type)
		received, ok := event.Data.(*models.ConfigChangeEvent)
		require.True(t, ok)
		assert.Equal(t, "cfg-1", received.ConfigID)
		assert.Equal(t, "updated", received.Action)
	case <-time.After(time.Second):
		t.Fatal("expected SSE event")
	}
}

func TestBroadcastDropsOnFullBuffer(t *testing.T) {
	svc := newTestEventService()
	defer svc.Stop()

	_, ch := svc.Subscribe()

	// 缓冲16条,多出的被丢弃而不是阻塞
	for i := 0; i < 20; i++ {
		svc.PublishConfigChange(&models.ConfigChangeEvent{ConfigID: "cfg", Action: "updated"})
	}

	assert.Len(t, ch, 16)
}

func TestStopClosesAllClients(t *testing.T) {
	svc := newTestEventService()

	_, ch1 := svc.Subscribe()
	_, ch2 := svc.Subscribe()

	svc.Stop()
	assert.Equal(t, 0, svc.ClientCount())

	_, open := <-ch1
	assert.False(t, open)
	_, open = <-ch2
	assert.False(t, open)
}
