package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)
	shutdown(context.Background())

	_, span := Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}

func TestAttributes(t *testing.T) {
	assert.Equal(t, "platform", string(String("platform", "indeed").Key))
	assert.Equal(t, int64(3), Int("jobs", 3).Value.AsInt64())
}
