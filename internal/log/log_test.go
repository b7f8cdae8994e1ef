package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureInto(t *testing.T, buf *bytes.Buffer) {
	prevLevel := Level()
	prev := Handler()
	SetHandler(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLevel(slog.LevelDebug)
	t.Cleanup(func() {
		SetHandler(prev)
		SetLevel(prevLevel)
	})
}

func TestSectionFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	captureInto(t, buf)

	DefaultLogger.With("section", "match").Debug("kept")
	DefaultLogger.With("section", "cmd").Debug("dropped")
	DefaultLogger.Debug("unsectioned", "section", "chain")

	out := buf.String()
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "unsectioned")
	assert.NotContains(t, out, "dropped")
}

func TestWarningsAlwaysPass(t *testing.T) {
	buf := &bytes.Buffer{}
	captureInto(t, buf)

	DefaultLogger.With("section", "cmd").Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	captureInto(t, buf)
	SetLevel(slog.LevelError)

	DefaultLogger.With("section", "match").Info("quiet")
	assert.Empty(t, buf.String())
}
