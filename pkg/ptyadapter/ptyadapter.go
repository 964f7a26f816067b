// Package ptyadapter wraps a child process's pseudo-terminal as a duplex
// byte handle: a reader half and a writer half behind independent mutexes,
// so a slow reader never stalls a concurrent writer.
package ptyadapter

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/vibetunnel/termcore/pkg/term"
	"github.com/vibetunnel/termcore/pkg/termerror"
)

var debugEnabled = os.Getenv("TERMCORE_DEBUG") != ""

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Handle is a duplex byte channel over a child process's controlling TTY.
// The reader and writer halves are independently locked so concurrent Read
// and Write are always safe, matching the coordinator's need to drive
// writes from a command-processing path while the main loop blocks on
// reads.
type Handle struct {
	cmd *exec.Cmd
	pty *os.File

	readMu  sync.Mutex
	writeMu sync.Mutex
}

// Options configures a spawned PTY child.
type Options struct {
	Command    []string
	WorkingDir string
	Term       string
	Size       term.Size
}

// Spawn starts opts.Command under a new PTY sized to opts.Size, setting
// TERM and COLORTERM and inheriting the rest of the calling process's
// environment.
func Spawn(opts Options) (*Handle, error) {
	if len(opts.Command) == 0 {
		return nil, termerror.New(termerror.KindConfig, "command cannot be empty")
	}

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	cmd.Dir = opts.WorkingDir
	termName := opts.Term
	if termName == "" {
		termName = "xterm-256color"
	}
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("TERM=%s", termName),
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: opts.Size.Rows,
		Cols: opts.Size.Cols,
	})
	if err != nil {
		return nil, termerror.Wrap(termerror.KindPty, "failed to start pty", err)
	}

	debugLog("spawned %v (pid %d) at %dx%d", opts.Command, cmd.Process.Pid, opts.Size.Cols, opts.Size.Rows)
	return &Handle{cmd: cmd, pty: ptmx}, nil
}

// Read blocks until at least one byte is available, the child exits, or
// the PTY is closed. A 0-length, nil-error result means "no bytes now",
// not EOF. On Linux the master side reports the child closing its end as
// EIO, and io.EOF shows up on other platforms for the same event; both are
// the ordinary "child exited" signal, not a failure, so they are
// translated to (n, nil) here and callers use IsAlive to detect
// termination. Any other error is a genuine I/O failure and is surfaced so
// the coordinator's read-error path can fire.
func (h *Handle) Read(buf []byte) (int, error) {
	h.readMu.Lock()
	defer h.readMu.Unlock()

	n, err := h.pty.Read(buf)
	if err != nil {
		if err == io.EOF || errors.Is(err, syscall.EIO) {
			return n, nil
		}
		return n, termerror.Wrap(termerror.KindIO, "pty read failed", err)
	}
	return n, nil
}

// Write sends bytes to the child's stdin.
func (h *Handle) Write(data []byte) (int, error) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	n, err := h.pty.Write(data)
	if err != nil {
		return n, termerror.Wrap(termerror.KindPty, "pty write failed", err)
	}
	return n, nil
}

// Resize updates the PTY's reported window size.
func (h *Handle) Resize(sz term.Size) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if err := pty.Setsize(h.pty, &pty.Winsize{Rows: sz.Rows, Cols: sz.Cols}); err != nil {
		return termerror.Wrap(termerror.KindPty, "pty resize failed", err)
	}
	return nil
}

// IsAlive reports whether the child process is still running. An exited
// child stays a zombie that still answers a signal-0 send until it is
// reaped, so a non-blocking wait4 collects it first; only then is the
// signal-0 probe consulted.
func (h *Handle) IsAlive() bool {
	if h.cmd.Process == nil {
		return false
	}
	pid := h.cmd.Process.Pid
	var status unix.WaitStatus
	wpid, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
	if wpid == pid || err == unix.ECHILD {
		return false
	}
	return unix.Kill(pid, 0) == nil
}

// Wait blocks until the child exits and returns its exit code. Once IsAlive
// has reported the exit, the child has already been reaped and Wait
// returns -1.
func (h *Handle) Wait() int {
	err := h.cmd.Wait()
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return status.ExitStatus()
		}
	}
	return -1
}

// Close terminates the child, first gracefully (SIGTERM) and, if it has
// not exited once the caller has given up waiting, the caller should
// escalate with Kill.
func (h *Handle) Close() error {
	if h.cmd.Process != nil {
		debugLog("closing pty, signalling pid %d", h.cmd.Process.Pid)
		_ = h.cmd.Process.Signal(syscall.SIGTERM)
	}
	return h.pty.Close()
}

// Kill forcibly terminates the child.
func (h *Handle) Kill() error {
	if h.cmd.Process == nil {
		return nil
	}
	return h.cmd.Process.Kill()
}
