package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	assert.Len(t, GetTraceID(ctx), TraceIDLength*2)
	assert.NotEqual(t, GetTraceID(ctx), GetTraceID(SetTraceID(context.Background())))
}

func TestFallbackTraceID(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 42, time.UTC)
	id := fallbackTraceID(now)
	assert.Len(t, id, TraceIDLength*2)
	assert.Equal(t, id, fallbackTraceID(now))
	assert.NotEqual(t, id, fallbackTraceID(now.Add(time.Nanosecond)))
}

func TestClientID(t *testing.T) {
	t.Parallel()

	_, ok := GetClientID(context.Background())
	assert.False(t, ok)

	_, ok = GetClientID(SetClientID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := GetClientID(SetClientID(context.Background(), "inbox-ui"))
	assert.True(t, ok)
	assert.Equal(t, "inbox-ui", id)
}
