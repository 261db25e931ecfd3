package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActionIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	al := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRequestID(context.Background(), "req-42")
	al.LogAction(ctx, "create", "payment", "pay-1", nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "create", entry["action"])
	assert.Equal(t, "payment", entry["resource"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "success", entry["status"])
}

func TestLogActionFailure(t *testing.T) {
	var buf bytes.Buffer
	al := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	al.LogAction(context.Background(), "delete", "property", "p-1", errors.New("still referenced"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "failure", entry["status"])
	assert.Equal(t, "still referenced", entry["error"])
	assert.Equal(t, "", entry["request_id"])
}
