package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init("debug", "json", &buf))

	logger := GetLogger().With(String(LoggerKeyComponentName, "Test"))
	logger.Info("request created", String("request_id", "r-1"), Int("maintainers", 2), Error(errors.New("boom")))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request created", line["msg"])
	assert.Equal(t, "Test", line[LoggerKeyComponentName])
	assert.Equal(t, "r-1", line["request_id"])
	assert.Equal(t, float64(2), line["maintainers"])
	assert.Equal(t, "boom", line["error"])
}

func TestInit_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init("warn", "json", &buf))

	GetLogger().Debug("hidden")
	GetLogger().Info("hidden too")
	assert.Empty(t, buf.String())
	assert.False(t, GetLogger().IsDebugEnabled())
}

func TestInit_RejectsUnknownSettings(t *testing.T) {
	assert.Error(t, Init("loud", "json", nil))
	assert.Error(t, Init("info", "xml", nil))
}

func TestWithContext_AddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init("info", "json", &buf))

	ctx := WithCorrelationID(context.Background(), "corr-42")
	GetLogger().WithContext(ctx).Info("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "corr-42", line[LoggerKeyCorrelationID])
}

func TestCorrelationIDFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
}
