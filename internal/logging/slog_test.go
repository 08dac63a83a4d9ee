package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_TextLoggerWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.With("request_id", "abc").Info(context.Background(), "registration created", "event_id", 7)

	out := buf.String()
	require.Contains(t, out, "level=INFO")
	require.Contains(t, out, `msg="registration created"`)
	require.Contains(t, out, "request_id=abc")
	require.Contains(t, out, "event_id=7")
}

func TestNew_ProductionLoggerIsJSONAndSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debug(context.Background(), "hidden")
	log.Error(context.Background(), "boom", "code", "INTERNAL_ERROR")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "ERROR", entry["level"])
	require.Equal(t, "boom", entry["msg"])
	require.Equal(t, "INTERNAL_ERROR", entry["code"])
}
