package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDelivers(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	require.NoError(t, h.Publish(context.Background(), New("req-1", RunCompleted, map[string]int{"unique": 3})))
	e := <-ch
	assert.Equal(t, RunCompleted, e.Type)
	assert.Equal(t, "req-1", e.RequestID)

	var data map[string]int
	require.NoError(t, json.Unmarshal(e.Data, &data))
	assert.Equal(t, 3, data["unique"])
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)
	for i := 0; i < 25; i++ {
		_ = h.Publish(context.Background(), New("", RunStarted, nil))
	}
	assert.Len(t, ch, cap(ch))
}

type failing struct{ calls int }

func (f *failing) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("down")
}

func TestFanoutPublishesToAll(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)
	f := &failing{}

	err := Fanout{f, nil, h}.Publish(context.Background(), New("", RunFailed, nil))
	assert.Error(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, RunFailed, (<-ch).Type)
}

func TestEncode(t *testing.T) {
	var out map[string]any
	require.NoError(t, json.Unmarshal(New("", RunStarted, nil).Encode(), &out))
	assert.Equal(t, "run.started", out["type"])
	assert.EqualValues(t, 1, out["v"])
	assert.NotContains(t, out, "data")
}
