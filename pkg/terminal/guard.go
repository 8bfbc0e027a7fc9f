// Package terminal manages the controlling terminal's input mode for the
// lifetime of a session.
package terminal

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/term"

	"github.com/ptyline/ptyline/pkg/interfaces"
)

// ErrNotTerminal reports that a required stream is not attached to a
// terminal. Raw mode cannot be entered and no session should start.
var ErrNotTerminal = errors.New("not a terminal")

// Guard owns the switch into raw mode and guarantees the original mode
// comes back exactly once, whichever exit path gets there first.
type Guard struct {
	mu       sync.Mutex
	fd       int
	saved    *term.State
	restored bool
}

// Check verifies that fd refers to a terminal.
func Check(fd int) error {
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	return nil
}

// AcquireRaw verifies fd is a terminal and switches it to raw mode,
// capturing the prior state for Release.
func AcquireRaw(fd int) (*Guard, error) {
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("fd %d: %w", fd, ErrNotTerminal)
	}
	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return &Guard{fd: fd, saved: saved}, nil
}

// Release restores the captured terminal state. Every cleanup path may call
// it; after the first successful restore the rest are no-ops.
func (g *Guard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.restored {
		return nil
	}
	if err := term.Restore(g.fd, g.saved); err != nil {
		return fmt.Errorf("failed to restore terminal mode: %w", err)
	}
	g.restored = true
	return nil
}

// Active reports whether the guard still holds the terminal in raw mode.
func (g *Guard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.restored
}

// Ensure Guard implements TerminalGuard
var _ interfaces.TerminalGuard = (*Guard)(nil)
