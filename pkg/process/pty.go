package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// ErrPtyAllocation reports that the kernel could not hand out a pty pair.
var ErrPtyAllocation = errors.New("pty allocation failed")

// PTY owns the controlling side of a pty pair and the single child process
// attached to its subordinate side.
type PTY struct {
	// MergeStderr attaches the child's stderr to the pty as well. By
	// default stderr stays connected to the wrapper's own stderr, so
	// diagnostics bypass prompt rendering. Set before Spawn.
	MergeStderr bool

	cmd      *exec.Cmd
	master   *os.File
	slave    *os.File
	resizeFn func(cols int)
	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Ensure PTY implements Channel
var _ Channel = (*PTY)(nil)

// NewPTY creates an unopened PTY.
func NewPTY() *PTY {
	return &PTY{
		stopChan: make(chan struct{}),
	}
}

// Open allocates the pty pair. It is separate from Spawn so that
// allocation failures stay distinguishable from spawn failures.
func (p *PTY) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.master != nil {
		return fmt.Errorf("pty already open")
	}
	master, slave, err := pty.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPtyAllocation, err)
	}
	p.master = master
	p.slave = slave
	return nil
}

// Spawn starts command attached to the subordinate side of the pty, in its
// own session with the pty as its controlling terminal. On success the
// parent's copy of the subordinate descriptor is closed, so reads on the
// controlling side see end-of-stream once the child exits.
func (p *PTY) Spawn(command string, args []string, env []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.master == nil {
		return fmt.Errorf("pty not open")
	}
	if p.cmd != nil {
		return fmt.Errorf("process already started")
	}

	cmd := exec.Command(command, args...)
	cmd.Env = env
	cmd.Stdin = p.slave
	cmd.Stdout = p.slave
	if p.MergeStderr {
		cmd.Stderr = p.slave
	} else {
		cmd.Stderr = os.Stderr
	}
	// Ctty is the child-side descriptor number; the subordinate sits at
	// fd 0 in the child.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %s: %w", command, err)
	}
	p.cmd = cmd

	_ = p.slave.Close()
	p.slave = nil

	// Copy terminal size
	if _, err := p.copyTerminalSize(); err != nil {
		// Log but don't fail - some environments don't have a terminal
		fmt.Fprintf(os.Stderr, "ptyline: failed to copy terminal size: %v\n", err)
	}

	// Start monitoring for terminal size changes
	p.wg.Add(1)
	go p.monitorTerminalSize()

	return nil
}

// Read returns child output from the controlling side. Once the child side
// of the pty is gone the kernel reports an I/O error; that is the normal
// end of the stream, so it surfaces as io.EOF.
func (p *PTY) Read(b []byte) (int, error) {
	master := p.masterFile()
	if master == nil {
		return 0, io.EOF
	}
	n, err := master.Read(b)
	if err != nil && err != io.EOF && IsHangup(err) {
		err = io.EOF
	}
	return n, err
}

// Write delivers input bytes to the child through the pty line discipline.
func (p *PTY) Write(b []byte) (int, error) {
	master := p.masterFile()
	if master == nil {
		return 0, os.ErrClosed
	}
	return master.Write(b)
}

// Wait waits for the child to exit and stops the resize monitor. The
// controlling descriptor stays open so remaining output can be drained;
// Close releases it.
func (p *PTY) Wait() error {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()

	if cmd == nil {
		return fmt.Errorf("process not started")
	}

	err := cmd.Wait()

	p.stopMonitor()
	p.wg.Wait()

	return err
}

// Close releases both pty descriptors. A Read blocked on the controlling
// side returns once it closes, which is how a session cancels its output
// loop.
func (p *PTY) Close() error {
	p.stopMonitor()

	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.slave != nil {
		_ = p.slave.Close()
		p.slave = nil
	}
	if p.master != nil {
		err = p.master.Close()
		p.master = nil
	}
	return err
}

// Signal sends sig to the child process.
func (p *PTY) Signal(sig os.Signal) error {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return os.ErrProcessDone
	}
	return cmd.Process.Signal(sig)
}

// ExitStatus reports how the child ended. Valid after Wait.
func (p *PTY) ExitStatus() ExitStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil {
		return ExitStatus{}
	}
	return statusFromState(p.cmd.ProcessState)
}

// SetResizeHook registers fn to run with the new column count after each
// terminal size change has been copied to the pty. Set it before Spawn.
func (p *PTY) SetResizeHook(fn func(cols int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resizeFn = fn
}

func (p *PTY) masterFile() *os.File {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.master
}

func (p *PTY) stopMonitor() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
}

// copyTerminalSize copies the real terminal's size onto the pty. The
// caller holds p.mu.
func (p *PTY) copyTerminalSize() (*pty.Winsize, error) {
	if p.master == nil {
		return nil, os.ErrClosed
	}
	size, err := pty.GetsizeFull(os.Stdin)
	if err != nil {
		return nil, err
	}
	if err := pty.Setsize(p.master, size); err != nil {
		return nil, err
	}
	return size, nil
}

// monitorTerminalSize propagates terminal size changes to the pty and
// notifies the resize hook.
func (p *PTY) monitorTerminalSize() {
	defer p.wg.Done()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			p.mu.Lock()
			size, err := p.copyTerminalSize()
			fn := p.resizeFn
			p.mu.Unlock()
			if err != nil {
				if !IsHangup(err) {
					fmt.Fprintf(os.Stderr, "ptyline: failed to resize pty: %v\n", err)
				}
				continue
			}
			if fn != nil {
				fn(int(size.Cols))
			}
		case <-p.stopChan:
			return
		}
	}
}

// IsHangup reports whether err is one of the close-and-exit errors that
// mean the other side of the pty is gone. These end a session in an
// orderly way rather than breaking it.
func IsHangup(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.EIO) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ENXIO) ||
		errors.Is(err, os.ErrClosed)
}
