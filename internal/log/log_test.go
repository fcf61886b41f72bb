package log

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLog_FormatsFields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Disable)

	Info(CatGit, "blame finished", "path", "main.go", "lines", 42)

	out := buf.String()
	require.Contains(t, out, "[INFO] [git] blame finished path=main.go lines=42")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestLog_OddFieldCount(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Disable)

	Debug(CatStore, "ops applied", "lines")
	require.Contains(t, buf.String(), "lines=<missing>")
}

func TestLog_RespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelWarn)
	t.Cleanup(Disable)

	Debug(CatBlame, "hidden")
	Info(CatBlame, "hidden")
	Warn(CatBlame, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	SetMinLevel(LevelDebug)
	Debug(CatBlame, "now visible")
	require.Contains(t, buf.String(), "now visible")
}

func TestLog_SetEnabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Disable)

	SetEnabled(false)
	Error(CatConfig, "dropped")
	require.Empty(t, buf.String())
}

func TestLog_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Disable)

	ErrorErr(CatAnnotator, "refresh failed", errors.New("boom"), "buffer", "b1")
	require.Contains(t, buf.String(), "buffer=b1 error=boom")

	ErrorErr(CatAnnotator, "nil error", nil)
	require.Contains(t, buf.String(), "error=<nil>")
}

func TestLog_NoLoggerIsNoop(t *testing.T) {
	Disable()
	require.NotPanics(t, func() { Info(CatGit, "nobody listening") })
	require.Nil(t, Subscribe(context.Background()))
}

func TestLog_Subscribe(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(Disable)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ch := Subscribe(ctx)
	require.NotNil(t, ch)

	Warn(CatWatcher, "repository changed")

	select {
	case ev := <-ch:
		require.Contains(t, ev.Payload, "repository changed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for log event")
	}
}

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path, LevelInfo)
	require.NoError(t, err)
	t.Cleanup(Disable)

	Info(CatConfig, "config loaded")
	cleanup()

	require.FileExists(t, path)
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("WARN")
	require.True(t, ok)
	require.Equal(t, LevelWarn, lvl)

	_, ok = ParseLevel("loud")
	require.False(t, ok)
}

func TestEnabled(t *testing.T) {
	t.Setenv(EnvDebug, "")
	require.False(t, Enabled(false))
	require.True(t, Enabled(true))

	t.Setenv(EnvDebug, "1")
	require.True(t, Enabled(false))
}
