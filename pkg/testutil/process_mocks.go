package testutil

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/ptyline/ptyline/pkg/process"
)

// MockChannel is a scriptable mock implementation of process.Channel for
// testing. Output is fed with QueueRead and terminated with Exit, which
// makes Read return io.EOF once the queued chunks are drained.
type MockChannel struct {
	mu       sync.Mutex
	opened   bool
	started  bool
	closed   bool
	command  string
	args     []string
	openErr  error
	spawnErr error
	waitErr  error
	writeErr error
	writes   bytes.Buffer
	signals  []os.Signal
	status   process.ExitStatus
	resizeFn func(cols int)

	reads     chan []byte
	pending   []byte
	exited    chan struct{}
	readsOnce sync.Once
	exitOnce  sync.Once
}

// NewMockChannel creates a new mock channel
func NewMockChannel() *MockChannel {
	return &MockChannel{
		reads:  make(chan []byte, 64),
		exited: make(chan struct{}),
	}
}

// Open implements the Channel interface
func (m *MockChannel) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.openErr != nil {
		return m.openErr
	}

	m.opened = true
	return nil
}

// Spawn implements the Channel interface
func (m *MockChannel) Spawn(command string, args []string, env []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.spawnErr != nil {
		return m.spawnErr
	}

	m.command = command
	m.args = append([]string(nil), args...)
	m.started = true
	return nil
}

// Read implements the Channel interface. It blocks until a chunk has been
// queued or the channel has been terminated with Exit or Close.
func (m *MockChannel) Read(p []byte) (int, error) {
	m.mu.Lock()
	if len(m.pending) > 0 {
		n := copy(p, m.pending)
		m.pending = m.pending[n:]
		m.mu.Unlock()
		return n, nil
	}
	m.mu.Unlock()

	chunk, ok := <-m.reads
	if !ok {
		return 0, io.EOF
	}

	m.mu.Lock()
	m.pending = append(m.pending, chunk...)
	n := copy(p, m.pending)
	m.pending = m.pending[n:]
	m.mu.Unlock()
	return n, nil
}

// Write implements the Channel interface
func (m *MockChannel) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return 0, m.writeErr
	}

	return m.writes.Write(p)
}

// Wait implements the Channel interface. It blocks until Exit or Close.
func (m *MockChannel) Wait() error {
	<-m.exited

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitErr
}

// Close implements the Channel interface
func (m *MockChannel) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.closeReads()
	m.closeExited()
	return nil
}

// Signal implements the Channel interface
func (m *MockChannel) Signal(sig os.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.signals = append(m.signals, sig)
	return nil
}

// ExitStatus implements the Channel interface
func (m *MockChannel) ExitStatus() process.ExitStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// SetResizeHook implements the Channel interface
func (m *MockChannel) SetResizeHook(fn func(cols int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resizeFn = fn
}

// QueueRead queues a chunk of child output for Read to return
func (m *MockChannel) QueueRead(data []byte) {
	c := make([]byte, len(data))
	copy(c, data)
	m.reads <- c
}

// Exit marks the child as exited with the given status. Queued chunks are
// still delivered before Read starts returning io.EOF.
func (m *MockChannel) Exit(status process.ExitStatus) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	m.closeReads()
	m.closeExited()
}

// TriggerResize invokes the registered resize hook, if any
func (m *MockChannel) TriggerResize(cols int) {
	m.mu.Lock()
	fn := m.resizeFn
	m.mu.Unlock()

	if fn != nil {
		fn(cols)
	}
}

// GetWrites returns everything written to the channel so far
func (m *MockChannel) GetWrites() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes.String()
}

// GetSignals returns a copy of all signals sent so far
func (m *MockChannel) GetSignals() []os.Signal {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]os.Signal, len(m.signals))
	copy(result, m.signals)
	return result
}

// GetCommand returns the spawned command name
func (m *MockChannel) GetCommand() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.command
}

// GetArgs returns the spawned command arguments
func (m *MockChannel) GetArgs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.args))
	copy(result, m.args)
	return result
}

// IsOpened returns whether Open was called
func (m *MockChannel) IsOpened() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// IsStarted returns whether Spawn was called
func (m *MockChannel) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// IsClosed returns whether Close was called
func (m *MockChannel) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SetOpenError sets the error to return from Open
func (m *MockChannel) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// SetSpawnError sets the error to return from Spawn
func (m *MockChannel) SetSpawnError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spawnErr = err
}

// SetWaitError sets the error to return from Wait
func (m *MockChannel) SetWaitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitErr = err
}

// SetWriteError sets the error to return from Write
func (m *MockChannel) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *MockChannel) closeReads() {
	m.readsOnce.Do(func() { close(m.reads) })
}

func (m *MockChannel) closeExited() {
	m.exitOnce.Do(func() { close(m.exited) })
}

// Ensure MockChannel implements Channel
var _ process.Channel = (*MockChannel)(nil)
