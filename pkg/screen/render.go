package screen

import (
	"bytes"
	"fmt"

	"github.com/muesli/termenv"
)

// Renderer formats the prompt line into terminal byte sequences. It holds
// no lock and writes nothing itself; the Coordinator decides when rendered
// bytes reach the terminal.
type Renderer struct {
	styled string // prefix with color applied, ready to emit
	width  int    // visible prefix width in cells
}

// NewRenderer builds a renderer for the given prompt prefix. color is a
// termenv color string (an ANSI color number or #rrggbb hex); the empty
// string leaves the prefix unstyled. The output's detected profile decides
// what the styling degrades to on dumber terminals.
func NewRenderer(prefix, color string, out *termenv.Output) *Renderer {
	styled := prefix
	if color != "" && out != nil {
		styled = out.String(prefix).Foreground(out.Color(color)).String()
	}
	return &Renderer{
		styled: styled,
		width:  len([]rune(prefix)),
	}
}

// PrefixWidth returns the number of cells the prompt prefix occupies.
func (r *Renderer) PrefixWidth() int {
	return r.width
}

// draw appends the repaint sequence for the prompt line to buf:
//
//	\033[<n>G - move to the prompt's start column
//	\033[K    - clear from there to end of line
//	prefix and the visible window of the buffer text
//	\033[<n>G - park the cursor at its column
//
// When the line outgrows the terminal the window slides so the cursor stays
// visible, and one cell is left spare at the right edge so the terminal
// never autowraps under us.
func (r *Renderer) draw(buf *bytes.Buffer, startCol, cols int, text string, cursor int) {
	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	start, end := 0, len(runes)
	if cols > 0 {
		avail := cols - startCol - r.width - 1
		if avail < 0 {
			avail = 0
		}
		if end > avail {
			start = end - avail
			if cursor < start {
				start = cursor
				end = start + avail
			}
		}
	}

	fmt.Fprintf(buf, "\033[%dG\033[K", startCol+1)
	buf.WriteString(r.styled)
	buf.WriteString(string(runes[start:end]))
	fmt.Fprintf(buf, "\033[%dG", startCol+r.width+(cursor-start)+1)
}

// erase appends the sequence that removes the prompt from the line, leaving
// the cursor at the prompt's start column.
func (r *Renderer) erase(buf *bytes.Buffer, startCol int) {
	fmt.Fprintf(buf, "\033[%dG\033[K", startCol+1)
}
