// Package session wires the terminal guard, the pty channel, and the
// screen coordinator into a single interactive run of a child command.
package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/ptyline/ptyline/pkg/config"
	"github.com/ptyline/ptyline/pkg/editor"
	"github.com/ptyline/ptyline/pkg/interfaces"
	"github.com/ptyline/ptyline/pkg/process"
	"github.com/ptyline/ptyline/pkg/screen"
	"github.com/ptyline/ptyline/pkg/terminal"
)

// Session manages one wrapped child command
type Session struct {
	config  *config.Config
	channel process.Channel
	guard   interfaces.TerminalGuard
	coord   interfaces.ScreenWriter
	editor  *editor.Buffer
	decoder *editor.Decoder
	handler interfaces.DataHandler

	mu         sync.Mutex
	status     process.ExitStatus
	sigChan    chan os.Signal
	done       chan struct{}
	outputDone chan struct{}
}

// NewSession creates a new session. The handler may be nil; when set it
// observes every chunk of child output before it reaches the screen.
func NewSession(cfg *config.Config, handler interfaces.DataHandler) *Session {
	pty := process.NewPTY()
	pty.MergeStderr = cfg.MergeStderr

	return &Session{
		config:     cfg,
		channel:    pty,
		editor:     editor.NewBuffer(),
		decoder:    editor.NewDecoder(),
		handler:    handler,
		done:       make(chan struct{}),
		outputDone: make(chan struct{}),
	}
}

// Start spawns the child command and begins the input and output loops.
// The terminal stays in its original mode until the child is running, so
// startup failures surface as ordinary errors on a cooked terminal.
func (s *Session) Start(command string, args []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stdinFd := int(os.Stdin.Fd())
	if err := terminal.Check(stdinFd); err != nil {
		return fmt.Errorf("stdin: %w", err)
	}
	if err := terminal.Check(int(os.Stdout.Fd())); err != nil {
		return fmt.Errorf("stdout: %w", err)
	}

	// Detect the color profile while the terminal is still cooked.
	out := termenv.NewOutput(os.Stdout)

	if err := s.channel.Open(); err != nil {
		return err
	}

	if err := s.channel.Spawn(command, args, os.Environ()); err != nil {
		_ = s.channel.Close()
		return err
	}

	guard, err := terminal.AcquireRaw(stdinFd)
	if err != nil {
		// The child is already running; ask it to stop before closing.
		_ = s.channel.Signal(syscall.SIGTERM)
		_ = s.channel.Close()
		return err
	}
	s.guard = guard

	cols, _, sizeErr := term.GetSize(stdinFd)
	if sizeErr != nil || cols <= 0 {
		cols = 80
	}
	renderer := screen.NewRenderer(s.config.Prompt, s.config.PromptColor, out)
	coord := screen.NewCoordinator(os.Stdout, renderer, cols)
	s.coord = coord
	s.channel.SetResizeHook(coord.SetColumns)

	go s.runLoop(s.outputLoop)
	go s.runLoop(s.inputLoop)

	s.setupSignalForwarding()

	// Show the prompt before the child produces anything.
	_ = s.coord.RedrawPrompt("", 0)

	return nil
}

// runLoop runs one session loop, putting the terminal back into its
// original mode before letting a panic escape. The loops run on their own
// goroutines, where the recover in main can never see a panic.
func (s *Session) runLoop(loop func()) {
	defer func() {
		if r := recover(); r != nil {
			if s.guard == nil || s.guard.Release() != nil {
				terminal.RestoreCooked()
			}
			panic(r)
		}
	}()
	loop()
}

// Wait blocks until the child terminates and the screen is back in its
// original state. A nonzero child exit is not an error here; it is
// reported through ExitStatus.
func (s *Session) Wait() error {
	if s.channel == nil {
		return fmt.Errorf("session not started")
	}

	// End of child output is the termination signal; the exit status
	// only becomes meaningful once the channel has been reaped.
	<-s.outputDone

	err := s.channel.Wait()
	var exitErr *exec.ExitError
	if err != nil && errors.As(err, &exitErr) {
		err = nil
	}

	s.mu.Lock()
	s.status = s.channel.ExitStatus()
	s.mu.Unlock()

	if s.guard != nil {
		if rerr := s.guard.Release(); rerr != nil {
			fmt.Fprintf(os.Stderr, "ptyline: failed to restore terminal: %v\n", rerr)
			terminal.RestoreCooked()
		}
	}
	if s.coord != nil {
		_ = s.coord.Finish()
	}

	// Signal that we're done
	close(s.done)

	s.cleanupSignals()

	_ = s.channel.Close()

	return err
}

// ExitStatus returns the exit status of the child process
func (s *Session) ExitStatus() process.ExitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Stop asks the child to terminate. Teardown still runs through Wait,
// which returns once the child is gone.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guard != nil {
		// Ensure the terminal is usable even if Wait never finishes.
		_ = s.guard.Release()
	}

	if s.channel != nil {
		// Send SIGTERM first for graceful shutdown
		if err := s.channel.Signal(syscall.SIGTERM); err != nil && err != os.ErrProcessDone {
			return s.channel.Signal(os.Kill)
		}
	}

	return nil
}
