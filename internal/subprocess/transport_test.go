package subprocess

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maudeview/agent-go/internal/errors"
)

// writeScript writes an executable shell script to act as a fake tool server.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell-script fixtures require a Unix shell")
	}

	path := filepath.Join(t.TempDir(), "toolserver.sh")
	script := "#!/bin/sh\n" + body

	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

func receiveMessage(t *testing.T, tr *Transport) map[string]any {
	t.Helper()

	select {
	case msg, ok := <-tr.Messages():
		require.True(t, ok, "message channel closed unexpectedly")

		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")

		return nil
	}
}

func TestStart_SendReceive(t *testing.T) {
	// cat echoes stdin back to stdout, making it a line-level loopback.
	tr := New(Config{BinaryPath: "/bin/cat"})
	defer tr.Stop()

	ctx := context.Background()
	require.NoError(t, tr.Start(ctx))

	payload, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": "initialize"})
	require.NoError(t, err)
	require.NoError(t, tr.Send(ctx, payload))

	msg := receiveMessage(t, tr)
	assert.Equal(t, "initialize", msg["method"])
	assert.Equal(t, float64(1), msg["id"])
}

func TestStart_BinaryNotFound(t *testing.T) {
	tr := New(Config{BinaryPath: "/nonexistent/toolserver"})

	err := tr.Start(context.Background())
	require.Error(t, err)

	var startupErr *errors.StartupError
	require.ErrorAs(t, err, &startupErr)
	assert.Equal(t, "spawn", startupErr.Stage)

	// Stop after a failed start must be a no-op.
	tr.Stop()
}

func TestReadLoop_SkipsMalformedLines(t *testing.T) {
	path := writeScript(t, `
echo 'this is not json'
echo '{"ok":true}'
sleep 5
`)

	tr := New(Config{BinaryPath: path})
	defer tr.Stop()

	require.NoError(t, tr.Start(context.Background()))

	msg := receiveMessage(t, tr)
	assert.Equal(t, true, msg["ok"])
}

func TestEnvOverlay_MergedOntoInheritedEnvironment(t *testing.T) {
	path := writeScript(t, `
printf '{"addr":"%s","home":"%s"}\n' "$CONTROLLER_BIND_ADDR" "$HOME"
sleep 5
`)

	tr := New(Config{
		BinaryPath: path,
		Env:        map[string]string{"CONTROLLER_BIND_ADDR": "127.0.0.1:8188"},
	})
	defer tr.Stop()

	require.NoError(t, tr.Start(context.Background()))

	msg := receiveMessage(t, tr)
	assert.Equal(t, "127.0.0.1:8188", msg["addr"])
	assert.NotEmpty(t, msg["home"], "inherited environment should be preserved")
}

func TestErr_ProcessExitFailure(t *testing.T) {
	path := writeScript(t, `
echo 'bind: address already in use' >&2
exit 3
`)

	tr := New(Config{BinaryPath: path})
	require.NoError(t, tr.Start(context.Background()))

	select {
	case _, ok := <-tr.Messages():
		require.False(t, ok, "expected channel close without messages")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	var procErr *errors.ProcessError
	require.ErrorAs(t, tr.Err(), &procErr)
	assert.Equal(t, 3, procErr.ExitCode)
	assert.Contains(t, procErr.Stderr, "address already in use")
}

func TestStop_Idempotent(t *testing.T) {
	tr := New(Config{BinaryPath: "/bin/cat"})
	require.NoError(t, tr.Start(context.Background()))

	tr.Stop()
	tr.Stop() // must not panic or block
}

func TestStop_WithoutStart(t *testing.T) {
	tr := New(Config{BinaryPath: "/bin/cat"})

	tr.Stop() // never started: must be a no-op
}

func TestStop_ForceKillsStubbornProcess(t *testing.T) {
	path := writeScript(t, `
trap '' TERM
echo '{"ready":true}'
sleep 60
`)

	tr := New(Config{BinaryPath: path, StopTimeout: 100 * time.Millisecond})
	require.NoError(t, tr.Start(context.Background()))

	receiveMessage(t, tr)

	done := make(chan struct{})

	go func() {
		tr.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not force-kill the process")
	}
}

func TestSend_BeforeStart(t *testing.T) {
	tr := New(Config{BinaryPath: "/bin/cat"})

	err := tr.Send(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, errors.ErrNotStarted)
}

func TestSend_AfterStop(t *testing.T) {
	tr := New(Config{BinaryPath: "/bin/cat"})
	require.NoError(t, tr.Start(context.Background()))
	tr.Stop()

	err := tr.Send(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, errors.ErrStdinClosed)
}
