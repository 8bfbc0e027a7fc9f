package screen

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/ptyline/ptyline/pkg/interfaces"
)

// Coordinator owns the real terminal. Every byte that reaches it goes
// through here under one mutex, so child output passthrough and prompt
// redraws can never interleave mid-protocol. The lock is held only while a
// protocol's bytes are assembled and written, never while anything blocks
// waiting for input or child data.
type Coordinator struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *Renderer
	track    tracker

	cols    int
	text    string // last rendered buffer contents
	cursor  int    // last rendered cursor offset
	visible bool   // prompt currently on screen
	done    bool   // Finish has run
}

// NewCoordinator returns a coordinator rendering to out, assuming the given
// terminal width. A width of zero disables truncation.
func NewCoordinator(out io.Writer, renderer *Renderer, cols int) *Coordinator {
	c := &Coordinator{
		out:      out,
		renderer: renderer,
		cols:     cols,
	}
	c.track.setWidth(cols)
	return c
}

// WriteChild relays one chunk of child output: erase the prompt, write the
// chunk verbatim, then repaint the prompt after the child's new end of
// output. The whole protocol is assembled into a single write so it hits
// the terminal as one unit.
func (c *Coordinator) WriteChild(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		// Rendering is over; pass the bytes along untouched.
		if _, err := c.out.Write(data); err != nil {
			return fmt.Errorf("failed to write child output: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	if c.visible {
		c.renderer.erase(&buf, c.track.column())
	}
	buf.Write(data)
	c.track.advance(data)
	c.renderer.draw(&buf, c.track.column(), c.cols, c.text, c.cursor)
	c.visible = true

	if _, err := c.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write child output: %w", err)
	}
	return nil
}

// RedrawPrompt repaints the prompt line with new buffer contents and cursor
// position. Painting the same contents twice leaves the screen unchanged.
func (c *Coordinator) RedrawPrompt(text string, cursor int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return nil
	}
	c.text = text
	c.cursor = cursor

	var buf bytes.Buffer
	c.renderer.draw(&buf, c.track.column(), c.cols, c.text, c.cursor)
	c.visible = true

	if _, err := c.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to redraw prompt: %w", err)
	}
	return nil
}

// SetColumns records a new terminal width and repaints the prompt to fit.
func (c *Coordinator) SetColumns(cols int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cols = cols
	c.track.setWidth(cols)
	if !c.visible || c.done {
		return
	}
	var buf bytes.Buffer
	c.renderer.draw(&buf, c.track.column(), c.cols, c.text, c.cursor)

	// Best effort - a failed repaint corrects itself on the next protocol.
	_, _ = c.out.Write(buf.Bytes())
}

// Finish erases the prompt and parks the cursor on a fresh line with its
// attributes reset. Only the first call writes anything; rendering is
// disabled from then on.
func (c *Coordinator) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return nil
	}
	c.done = true

	var buf bytes.Buffer
	if c.visible {
		c.renderer.erase(&buf, c.track.column())
		c.visible = false
	}
	buf.WriteString("\033[?25h\033[0m\r\n")
	if _, err := c.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to finish screen output: %w", err)
	}
	return nil
}

// Ensure Coordinator implements ScreenWriter
var _ interfaces.ScreenWriter = (*Coordinator)(nil)
