package screen

import (
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/muesli/termenv"
)

// protocolWriter records each Write call separately and flags writes that
// arrive while another is still in flight.
type protocolWriter struct {
	mu      sync.Mutex
	writes  []string
	overlap atomic.Bool
}

func (w *protocolWriter) Write(p []byte) (int, error) {
	if !w.mu.TryLock() {
		w.overlap.Store(true)
		w.mu.Lock()
	}
	w.writes = append(w.writes, string(p))
	w.mu.Unlock()
	return len(p), nil
}

func (w *protocolWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.writes)
}

func (w *protocolWriter) at(i int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes[i]
}

func newTestCoordinator(w *protocolWriter, cols int) *Coordinator {
	return NewCoordinator(w, NewRenderer("> ", "", nil), cols)
}

func TestCoordinatorInterleavesChildOutput(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 80)

	if err := c.RedrawPrompt("nc", 2); err != nil {
		t.Fatalf("RedrawPrompt() error = %v", err)
	}
	if err := c.WriteChild([]byte("ready> ")); err != nil {
		t.Fatalf("WriteChild() error = %v", err)
	}

	// First protocol paints the prompt at column 0 with the cursor after
	// the buffer text.
	if got, want := w.at(0), "\x1b[1G\x1b[K> nc\x1b[5G"; got != want {
		t.Errorf("prompt protocol = %q, want %q", got, want)
	}
	// Second protocol erases the prompt, passes the partial child line
	// through verbatim, and repaints the prompt right after it.
	if got, want := w.at(1), "\x1b[1G\x1b[Kready> \x1b[8G\x1b[K> nc\x1b[12G"; got != want {
		t.Errorf("passthrough protocol = %q, want %q", got, want)
	}
}

func TestCoordinatorRedrawIdempotent(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 80)

	if err := c.RedrawPrompt("abc", 1); err != nil {
		t.Fatalf("RedrawPrompt() error = %v", err)
	}
	if err := c.RedrawPrompt("abc", 1); err != nil {
		t.Fatalf("RedrawPrompt() error = %v", err)
	}

	if w.at(0) != w.at(1) {
		t.Errorf("identical redraws produced different bytes: %q then %q", w.at(0), w.at(1))
	}
}

func TestCoordinatorPromptFollowsOutput(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 80)

	if err := c.WriteChild([]byte("one\n")); err != nil {
		t.Fatalf("WriteChild() error = %v", err)
	}
	// Nothing was on screen yet, so the chunk leads the protocol.
	if !strings.HasPrefix(w.at(0), "one\n") {
		t.Errorf("first protocol = %q, want verbatim chunk first", w.at(0))
	}
	if !strings.HasSuffix(w.at(0), "\x1b[1G\x1b[K> \x1b[3G") {
		t.Errorf("first protocol = %q, want prompt at column 0", w.at(0))
	}

	if err := c.WriteChild([]byte("two")); err != nil {
		t.Fatalf("WriteChild() error = %v", err)
	}
	// The partial line moves the prompt to column 3.
	if !strings.HasSuffix(w.at(1), "\x1b[4G\x1b[K> \x1b[6G") {
		t.Errorf("second protocol = %q, want prompt after partial line", w.at(1))
	}
}

func TestCoordinatorWrapsLongChildLine(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 10)

	if err := c.WriteChild([]byte("abcdefghijkl")); err != nil {
		t.Fatalf("WriteChild() error = %v", err)
	}

	// Twelve cells on a ten-column terminal wrap onto a second row, so the
	// prompt goes after the two cells there, not pinned at the right edge.
	if !strings.HasSuffix(w.at(0), "\x1b[3G\x1b[K> \x1b[5G") {
		t.Errorf("protocol = %q, want prompt after the wrapped tail", w.at(0))
	}
}

func TestCoordinatorTruncatesToWidth(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 10)

	if err := c.RedrawPrompt("abcdefghij", 10); err != nil {
		t.Fatalf("RedrawPrompt() error = %v", err)
	}

	got := w.at(0)
	if !strings.Contains(got, "defghij") {
		t.Errorf("protocol = %q, want visible tail %q", got, "defghij")
	}
	if strings.Contains(got, "abc") {
		t.Errorf("protocol = %q, truncated head still present", got)
	}
	if !strings.HasSuffix(got, "\x1b[10G") {
		t.Errorf("protocol = %q, want cursor inside the terminal width", got)
	}
}

func TestCoordinatorCursorStaysVisible(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 10)

	// Cursor far left of the tail window slides the window back.
	if err := c.RedrawPrompt("abcdefghij", 1); err != nil {
		t.Fatalf("RedrawPrompt() error = %v", err)
	}

	got := w.at(0)
	if !strings.Contains(got, "bcdefgh") {
		t.Errorf("protocol = %q, want window starting at cursor", got)
	}
	if !strings.HasSuffix(got, "\x1b[3G") {
		t.Errorf("protocol = %q, want cursor at its clamped column", got)
	}
}

func TestCoordinatorSetColumnsRepaints(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 80)

	if err := c.RedrawPrompt("helloworld", 10); err != nil {
		t.Fatalf("RedrawPrompt() error = %v", err)
	}
	c.SetColumns(8)

	got := w.at(1)
	if !strings.Contains(got, "world") || strings.Contains(got, "hello") {
		t.Errorf("repaint after resize = %q, want truncated tail only", got)
	}
}

func TestCoordinatorFinish(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 80)

	if err := c.RedrawPrompt("", 0); err != nil {
		t.Fatalf("RedrawPrompt() error = %v", err)
	}
	if err := c.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	if got, want := w.at(1), "\x1b[1G\x1b[K\x1b[?25h\x1b[0m\r\n"; got != want {
		t.Errorf("finish protocol = %q, want %q", got, want)
	}

	// Finish is one-shot and later redraws are swallowed.
	n := w.count()
	if err := c.Finish(); err != nil {
		t.Errorf("second Finish() error = %v", err)
	}
	if err := c.RedrawPrompt("late", 4); err != nil {
		t.Errorf("RedrawPrompt() after Finish error = %v", err)
	}
	if w.count() != n {
		t.Errorf("writes after Finish: %d, want %d", w.count(), n)
	}

	// Child bytes still pass through verbatim, without prompt decoration.
	if err := c.WriteChild([]byte("tail")); err != nil {
		t.Errorf("WriteChild() after Finish error = %v", err)
	}
	if got := w.at(w.count() - 1); got != "tail" {
		t.Errorf("passthrough after Finish = %q, want %q", got, "tail")
	}
}

func TestCoordinatorStyledPrefix(t *testing.T) {
	out := termenv.NewOutput(io.Discard, termenv.WithProfile(termenv.ANSI))
	r := NewRenderer("> ", "6", out)

	if got := r.PrefixWidth(); got != 2 {
		t.Errorf("PrefixWidth() = %d, want 2 regardless of styling", got)
	}

	w := &protocolWriter{}
	c := NewCoordinator(w, r, 80)
	if err := c.RedrawPrompt("x", 1); err != nil {
		t.Fatalf("RedrawPrompt() error = %v", err)
	}
	if !strings.Contains(w.at(0), "\x1b[36m") {
		t.Errorf("protocol = %q, want ANSI cyan prefix", w.at(0))
	}
}

// TestCoordinatorWriteAtomicity hammers the coordinator from both
// directions and checks every protocol reached the writer as exactly one
// uninterrupted write.
func TestCoordinatorWriteAtomicity(t *testing.T) {
	w := &protocolWriter{}
	c := newTestCoordinator(w, 80)

	const iterations = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = c.WriteChild([]byte("chunk\n"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = c.RedrawPrompt("buffer", 3)
		}
	}()
	wg.Wait()

	if w.overlap.Load() {
		t.Error("concurrent writes overlapped")
	}
	if got := w.count(); got != 2*iterations {
		t.Errorf("write count = %d, want %d", got, 2*iterations)
	}
}
