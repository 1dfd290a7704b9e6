package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/geocoder89/producthub/internal/actorctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_AddsRequestContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	ctx := actorctx.WithRequestID(context.Background(), "req-1")
	ctx = actorctx.WithPrincipal(ctx, actorctx.Principal{Username: "alice", Roles: []string{"ROLE_USER"}})

	log.InfoContext(ctx, "hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "alice", line["username"])
	assert.NotContains(t, line, "trace_id")
}

func TestLogger_DebugOnlyInDev(t *testing.T) {
	var buf bytes.Buffer

	newLogger("prod", &buf).Debug("hidden")
	assert.Zero(t, buf.Len())

	newLogger("dev", &buf).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestClassifyDBErr_Fallbacks(t *testing.T) {
	assert.Equal(t, "timeout", classifyDBErr(context.DeadlineExceeded))
	assert.Equal(t, "unknown", classifyDBErr(assert.AnError))
}
