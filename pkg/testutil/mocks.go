package testutil

import (
	"sync"

	"github.com/ptyline/ptyline/pkg/interfaces"
)

// PromptDraw records a single prompt redraw request.
type PromptDraw struct {
	Text   string
	Cursor int
}

// MockScreen is a thread-safe mock implementation of interfaces.ScreenWriter for testing
type MockScreen struct {
	mu          sync.Mutex
	childWrites []string
	prompts     []PromptDraw
	cols        int
	finished    bool
	writeErr    error
}

// NewMockScreen creates a new mock screen
func NewMockScreen() *MockScreen {
	return &MockScreen{
		childWrites: []string{},
		prompts:     []PromptDraw{},
		cols:        80,
	}
}

// WriteChild implements the ScreenWriter interface
func (m *MockScreen) WriteChild(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}

	m.childWrites = append(m.childWrites, string(data))
	return nil
}

// RedrawPrompt implements the ScreenWriter interface
func (m *MockScreen) RedrawPrompt(text string, cursor int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}

	m.prompts = append(m.prompts, PromptDraw{Text: text, Cursor: cursor})
	return nil
}

// SetColumns implements the ScreenWriter interface
func (m *MockScreen) SetColumns(cols int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cols = cols
}

// Finish implements the ScreenWriter interface
func (m *MockScreen) Finish() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = true
	return nil
}

// GetChildWrites returns a copy of all child output chunks written so far
func (m *MockScreen) GetChildWrites() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.childWrites))
	copy(result, m.childWrites)
	return result
}

// GetPrompts returns a copy of all prompt redraws requested so far
func (m *MockScreen) GetPrompts() []PromptDraw {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]PromptDraw, len(m.prompts))
	copy(result, m.prompts)
	return result
}

// LastPrompt returns the most recent prompt redraw, if any
func (m *MockScreen) LastPrompt() (PromptDraw, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.prompts) == 0 {
		return PromptDraw{}, false
	}
	return m.prompts[len(m.prompts)-1], true
}

// GetColumns returns the most recently set column count
func (m *MockScreen) GetColumns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cols
}

// IsFinished returns whether Finish was called
func (m *MockScreen) IsFinished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished
}

// SetError sets the error to return on WriteChild and RedrawPrompt calls
func (m *MockScreen) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Clear resets the mock state
func (m *MockScreen) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.childWrites = []string{}
	m.prompts = []PromptDraw{}
	m.finished = false
	m.writeErr = nil
}

// Ensure MockScreen implements ScreenWriter
var _ interfaces.ScreenWriter = (*MockScreen)(nil)

// MockDataHandler is a mock implementation of interfaces.DataHandler for testing
type MockDataHandler struct {
	mu              sync.Mutex
	chunks          []string
	handleCallCount int
}

// NewMockDataHandler creates a new mock data handler
func NewMockDataHandler() *MockDataHandler {
	return &MockDataHandler{
		chunks: []string{},
	}
}

// HandleData implements the DataHandler interface
func (m *MockDataHandler) HandleData(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handleCallCount++
	m.chunks = append(m.chunks, string(data))
}

// GetChunks returns a copy of all chunks handled so far
func (m *MockDataHandler) GetChunks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.chunks))
	copy(result, m.chunks)
	return result
}

// GetAll returns all handled data concatenated
func (m *MockDataHandler) GetAll() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all string
	for _, c := range m.chunks {
		all += c
	}
	return all
}

// GetHandleCallCount returns how many times HandleData was called
func (m *MockDataHandler) GetHandleCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handleCallCount
}

// Ensure MockDataHandler implements DataHandler
var _ interfaces.DataHandler = (*MockDataHandler)(nil)

// MockGuard is a thread-safe mock implementation of interfaces.TerminalGuard for testing
type MockGuard struct {
	mu         sync.Mutex
	releases   int
	releaseErr error
}

// NewMockGuard creates a new mock guard
func NewMockGuard() *MockGuard {
	return &MockGuard{}
}

// Release implements the TerminalGuard interface
func (m *MockGuard) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releases++
	return m.releaseErr
}

// GetReleaseCount returns how many times Release was called
func (m *MockGuard) GetReleaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

// SetReleaseError sets the error to return from Release
func (m *MockGuard) SetReleaseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseErr = err
}

// Ensure MockGuard implements TerminalGuard
var _ interfaces.TerminalGuard = (*MockGuard)(nil)
