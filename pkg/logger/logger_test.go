package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := New(InfoLevel, &buf, false)

	log.WithFields(map[string]interface{}{"component": "test"}).Info("hello", map[string]interface{}{"user_id": 7})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "test", line["component"])
	assert.EqualValues(t, 7, line["user_id"])
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New(WarnLevel, &buf, false)

	log.Info("dropped", nil)
	assert.Zero(t, buf.Len())

	log.Warn("kept", nil)
	assert.NotZero(t, buf.Len())
}

func TestLogger_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(InfoLevel, &buf, false)

	ctx := WithRequestID(context.Background(), "req-1")
	log.InfoContext(ctx, "with id", nil)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestLogger_SourcePointsAtCaller(t *testing.T) {
	var buf bytes.Buffer
	log := New(DebugLevel, &buf, false)

	log.Debug("direct", nil)
	log.DebugContext(context.Background(), "with context", nil)
	log.WithContext(context.Background()).Info("derived", nil)

	dec := json.NewDecoder(&buf)
	for i := 0; i < 3; i++ {
		var line map[string]interface{}
		require.NoError(t, dec.Decode(&line))
		assert.Contains(t, line["source"], "logger/logger_test.go:", line["message"])
	}
}
