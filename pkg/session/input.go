package session

import (
	"fmt"
	"os"

	"github.com/ptyline/ptyline/pkg/editor"
	"github.com/ptyline/ptyline/pkg/process"
)

// Control bytes written to the channel so the pty line discipline can do
// its usual interrupt and end-of-file handling.
const (
	etx = 0x03 // Ctrl-C
	eot = 0x04 // Ctrl-D
)

// inputLoop reads raw bytes from stdin, decodes them into key events,
// and applies them to the line buffer. It runs until the session ends,
// the user signals end of input, or stdin is closed.
func (s *Session) inputLoop() {
	buf := make([]byte, 256)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			for _, ev := range s.decoder.Feed(buf[:n]) {
				if s.handleKey(ev) {
					return
				}
			}
		}
		if err != nil {
			return
		}

		select {
		case <-s.done:
			return
		default:
		}
	}
}

// handleKey applies a single key event. It returns true when the input
// loop should stop.
func (s *Session) handleKey(ev editor.Event) bool {
	switch ev.Kind {
	case editor.KeyRune:
		if s.editor.Insert(ev.Rune) {
			s.redraw()
		}

	case editor.KeyBackspace:
		if s.editor.Backspace() {
			s.redraw()
		}

	case editor.KeyLeft:
		if s.editor.Left() {
			s.redraw()
		}

	case editor.KeyRight:
		if s.editor.Right() {
			s.redraw()
		}

	case editor.KeyEnter:
		line := s.editor.Submit()
		if !s.send([]byte(line + "\n")) {
			return true
		}
		s.redraw()

	case editor.KeyInterrupt:
		if !s.config.ForwardInterrupt {
			_ = s.Stop()
			return true
		}
		if s.editor.Discard() {
			s.redraw()
		}
		if !s.send([]byte{etx}) {
			return true
		}

	case editor.KeyEOF:
		if s.editor.Len() == 0 {
			// VEOF on an empty line reads as end of file in the child.
			s.send([]byte{eot})
			return true
		}
		// VEOF after pending bytes flushes them to the child without a
		// newline, the way a cooked terminal treats Ctrl-D mid-line.
		line := s.editor.Submit()
		if !s.send(append([]byte(line), eot)) {
			return true
		}
		s.redraw()
	}

	return false
}

// send writes bytes to the child, reporting false once the channel is gone
func (s *Session) send(p []byte) bool {
	if _, err := s.channel.Write(p); err != nil {
		if !process.IsHangup(err) {
			fmt.Fprintf(os.Stderr, "ptyline: failed to write to child: %v\n", err)
		}
		return false
	}
	return true
}

func (s *Session) redraw() {
	if err := s.coord.RedrawPrompt(s.editor.String(), s.editor.Cursor()); err != nil {
		if os.Getenv("PTYLINE_DEBUG") == "true" {
			fmt.Fprintf(os.Stderr, "ptyline: failed to redraw prompt: %v\n", err)
		}
	}
}
