package subprocess

import (
	"bufio"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maudeview/agent-go/internal/errors"
)

const (
	// maxScanTokenSize is the maximum buffer size for reading tool-server
	// output lines.
	maxScanTokenSize = 1024 * 1024 // 1MB

	// maxStderrBufferSize caps the stderr buffer kept for exit diagnostics.
	maxStderrBufferSize = 1 * 1024 * 1024 // 1MB

	// DefaultStopTimeout is how long Stop waits after the terminate signal
	// before force-killing the process.
	DefaultStopTimeout = 5 * time.Second
)

// Transport owns one tool-server child process and the newline-delimited
// JSON channel over its stdin/stdout.
//
// Each inbound line is parsed independently; lines that are not valid JSON
// objects are logged and skipped, never fatal. Parsed objects are delivered
// on the Messages channel. The channel closes when the process's stdout
// closes; Err reports the process failure, if any, after that point.
type Transport struct {
	log         *slog.Logger
	binaryPath  string
	env         map[string]string
	stopTimeout time.Duration

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	messages chan map[string]any

	mu          sync.Mutex // guards stdin writes and lifecycle flags
	started     bool
	stopping    bool
	stdinClosed bool

	closeOnce sync.Once
	closed    chan struct{} // closed when Stop begins, unblocks channel sends

	waitDone chan struct{} // closed after cmd.Wait returns
	errMu    sync.Mutex
	fatalErr error

	stderrMu  sync.Mutex
	stderrBuf strings.Builder
}

// Config configures a tool-server transport.
type Config struct {
	// BinaryPath is the tool-server executable to spawn.
	BinaryPath string

	// Env is merged onto the inherited process environment. Keys present
	// here override inherited values.
	Env map[string]string

	// StopTimeout bounds the graceful-termination wait in Stop.
	// Zero means DefaultStopTimeout.
	StopTimeout time.Duration

	// Logger receives debug and warning messages. Nil disables logging.
	Logger *slog.Logger
}

// New creates a transport for the given tool-server binary.
// The process is not spawned until Start is called.
func New(cfg Config) *Transport {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	timeout := cfg.StopTimeout
	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}

	return &Transport{
		log:         log.With("component", "subprocess"),
		binaryPath:  cfg.BinaryPath,
		env:         cfg.Env,
		stopTimeout: timeout,
		messages:    make(chan map[string]any),
		closed:      make(chan struct{}),
		waitDone:    make(chan struct{}),
	}
}

// Start spawns the tool-server process with the caller's environment overlay
// merged onto the inherited environment, and begins reading its output.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return fmt.Errorf("transport already started")
	}

	t.log.Info("Starting tool server subprocess", "binary", t.binaryPath)

	//nolint:gosec // G204: spawning a caller-chosen tool server is the point
	cmd := exec.Command(t.binaryPath)
	cmd.Env = buildEnvironment(t.env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &errors.StartupError{Stage: "spawn", Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &errors.StartupError{Stage: "spawn", Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &errors.StartupError{Stage: "spawn", Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return &errors.StartupError{Stage: "spawn", Err: fmt.Errorf("start process: %w", err)}
	}

	t.cmd = cmd
	t.stdin = stdin
	t.stdout = stdout
	t.stderr = stderr
	t.started = true

	t.log.Info("Tool server subprocess started", "pid", cmd.Process.Pid)

	eg := &errgroup.Group{}
	eg.Go(func() error { t.drainStderr(); return nil })
	eg.Go(func() error { t.readLoop(ctx); return nil })

	go func() {
		_ = eg.Wait()
		t.finish()
	}()

	return nil
}

// Messages returns the channel of parsed wire objects. It is closed when the
// process's stdout closes; callers should then check Err.
func (t *Transport) Messages() <-chan map[string]any {
	return t.messages
}

// Err returns the process failure recorded after the output stream closed,
// or nil if the process exited cleanly or was stopped intentionally.
func (t *Transport) Err() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()

	return t.fatalErr
}

// Send writes one newline-terminated JSON message to the process stdin.
// Safe for concurrent use; the protocol layer serializes calls anyway.
func (t *Transport) Send(ctx context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.stdin == nil {
		return errors.ErrNotStarted
	}

	if t.stdinClosed {
		return errors.ErrStdinClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		withNewline := make([]byte, len(data)+1)
		copy(withNewline, data)
		withNewline[len(data)] = '\n'
		data = withNewline
	}

	if _, err := t.stdin.Write(data); err != nil {
		return &errors.TransportError{Err: fmt.Errorf("write to stdin: %w", err)}
	}

	return nil
}

// Stop attempts graceful termination: terminate signal, bounded wait, then a
// force kill. It is idempotent and safe to call when Start never succeeded
// or the process already exited. It never returns an error.
func (t *Transport) Stop() {
	t.mu.Lock()

	if !t.started || t.stopping {
		t.mu.Unlock()

		return
	}

	t.stopping = true
	t.stdinClosed = true

	if t.stdin != nil {
		_ = t.stdin.Close()
	}

	cmd := t.cmd
	t.mu.Unlock()

	t.closeOnce.Do(func() { close(t.closed) })

	if cmd == nil || cmd.Process == nil {
		return
	}

	t.log.Debug("Sending terminate signal", "pid", cmd.Process.Pid)

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		t.log.Debug("Terminate signal failed", "error", err)
	}

	select {
	case <-t.waitDone:
	case <-time.After(t.stopTimeout):
		t.log.Warn("Tool server did not exit, force killing", "pid", cmd.Process.Pid)

		if err := cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
			t.log.Debug("Kill failed", "error", err)
		}

		<-t.waitDone
	}

	t.log.Info("Tool server subprocess stopped")
}

// readLoop scans stdout line by line, parsing each line independently.
func (t *Transport) readLoop(ctx context.Context) {
	defer t.log.Debug("Read loop stopped")

	scanner := bufio.NewScanner(t.stdout)
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg map[string]any

		if err := json.Unmarshal(line, &msg); err != nil {
			// Noisy child output is tolerated: log and move on.
			t.log.Debug("Skipping non-JSON line from tool server", "line", truncate(string(line), 200))

			continue
		}

		select {
		case t.messages <- msg:
		case <-t.closed:
			return
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		t.log.Debug("Scanner error reading tool server output", "error", err)
	}
}

// drainStderr buffers stderr (capped) for exit diagnostics.
func (t *Transport) drainStderr() {
	scanner := bufio.NewScanner(t.stderr)
	for scanner.Scan() {
		line := scanner.Text()

		t.stderrMu.Lock()

		if t.stderrBuf.Len() < maxStderrBufferSize {
			if t.stderrBuf.Len() > 0 {
				t.stderrBuf.WriteString("\n")
			}

			t.stderrBuf.WriteString(line)
		}

		t.stderrMu.Unlock()

		t.log.Debug("tool server stderr", "line", line)
	}
}

// finish reaps the process after both pipe readers are done and records the
// outcome.
func (t *Transport) finish() {
	defer close(t.waitDone)
	defer close(t.messages)

	err := t.cmd.Wait()
	if err == nil {
		t.log.Info("Tool server process exited")

		return
	}

	t.mu.Lock()
	stopping := t.stopping
	t.mu.Unlock()

	if stopping {
		t.log.Debug("Tool server process terminated during shutdown")

		return
	}

	exitCode := 0

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	t.stderrMu.Lock()
	stderrOutput := t.stderrBuf.String()
	t.stderrMu.Unlock()

	t.log.Error("Tool server process exited with error", "exit_code", exitCode, "stderr", stderrOutput)

	t.errMu.Lock()
	t.fatalErr = &errors.ProcessError{ExitCode: exitCode, Stderr: stderrOutput, Err: err}
	t.errMu.Unlock()
}

// buildEnvironment merges the overlay onto the inherited environment.
// Overlay entries are appended last, so they win on duplicate keys.
func buildEnvironment(overlay map[string]string) []string {
	env := os.Environ()
	for key, value := range overlay {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
