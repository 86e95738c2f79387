package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)
	l.Debug("hidden")
	l.Info("visible", String("key", "value"))
	_ = l.Sync()

	out := buf.String()
	assert.Assert(t, !strings.Contains(out, "hidden"))
	assert.Assert(t, strings.Contains(out, `"key":"value"`))
}

func TestLoggerWithFilter(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, DebugLevel)
	l, err := base.WithFilter("info+:* debug+:ibt")
	assert.NilError(t, err)

	l.Named("ibt").Debug("ibt-debug")
	l.Named("blap").Debug("blap-debug")
	l.Named("blap").Info("blap-info")
	_ = l.Sync()

	out := buf.String()
	assert.Assert(t, strings.Contains(out, "ibt-debug"))
	assert.Assert(t, !strings.Contains(out, "blap-debug"))
	assert.Assert(t, strings.Contains(out, "blap-info"))
}

func TestGetFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel).Named("ctx")
	ctx := AddToContext(context.Background(), l)
	assert.Equal(t, GetFromContext(ctx), l)
	assert.Equal(t, GetFromContext(context.Background()), Default())
}
