package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelWarn})

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Error("shown too")

	lines := decode(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, "ERROR", lines[1]["level"])
}

func TestLogger_WithMergesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelDebug}).With(Store("admin"))

	log.Info("committed", RecordID("5"), Err(errors.New("boom")), Err(nil))

	lines := decode(t, &buf)
	require.Len(t, lines, 1)
	fields, ok := lines[0]["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", fields["store"])
	assert.Equal(t, "5", fields["record_id"])
	assert.Nil(t, fields["error"], "later fields win")
	assert.NotContains(t, lines[0], "caller")
}

func TestLogger_AddsCaller(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Output: &buf, Level: LevelInfo, AddCaller: true}).Info("here")

	lines := decode(t, &buf)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0]["caller"], "logger_test.go:")
}

func TestNop_WritesNothing(t *testing.T) {
	log := Nop()
	assert.False(t, log.Enabled(LevelError))
	log.Error("discarded")
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf})

	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}
