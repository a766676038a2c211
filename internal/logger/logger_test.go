package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	id := NewRequestID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	ctx = ContextWithRequestID(ctx, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))
	assert.NotNil(t, WithContext(ContextWithUserID(ctx, 42)))
}

func TestNewRespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info("dropped")
	log.Warn("kept", "venue_id", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, 3, entry["venue_id"])
}

func TestNewFallsBackToInfoText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "verbose", "text")

	log.Debug("hidden")
	log.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
}
