package screen

const (
	trackGround = iota
	trackEscape
	trackCSI
	trackOSC
	trackOSCEscape
)

// Sequences longer than these bounds are assumed corrupt; tracking bails
// back to ground so a malformed sequence cannot swallow all output.
const (
	maxCSILen = 64
	maxOSCLen = 4096
)

// tracker maintains a streaming model of the column the child's next output
// byte would land in. It understands just enough of the terminal protocol
// to keep the count honest: carriage returns and newlines reset it,
// backspace backs up, tabs advance to the next stop, and ANSI escape
// sequences pass through without moving it. With a width set, printing in
// the last column wraps the count to a fresh row the way an autowrapping
// terminal does. Sequences split across chunks are carried as state
// between calls.
//
// Cursor-positioning sequences from the child are not interpreted; keeping
// a full screen model is out of scope.
type tracker struct {
	col   int
	width int // terminal columns; zero disables wrapping
	state int
	n     int // bytes consumed in the current sequence
}

func (t *tracker) column() int {
	return t.col
}

// setWidth records the terminal width the column model wraps at. Shrinking
// below the current column clamps it to the last cell.
func (t *tracker) setWidth(w int) {
	t.width = w
	if w > 0 && t.col >= w {
		t.col = w - 1
	}
}

// advance feeds a chunk of child output through the column model.
func (t *tracker) advance(data []byte) {
	for _, b := range data {
		t.next(b)
	}
}

func (t *tracker) next(b byte) {
	switch t.state {
	case trackEscape:
		switch {
		case b == '[':
			t.state = trackCSI
			t.n = 0
		case b == ']':
			t.state = trackOSC
			t.n = 0
		case b < 0x20:
			// A control in the middle of a sequence still takes effect.
			t.state = trackGround
			t.ground(b)
		case b <= 0x2f:
			// Intermediate byte, as in a charset designator ESC ( B;
			// the final byte is still to come.
		default:
			// Final byte; the sequence is complete.
			t.state = trackGround
		}
	case trackCSI:
		if b < 0x20 {
			// A control in the middle of a sequence still takes
			// effect; the sequence is abandoned.
			t.state = trackGround
			t.ground(b)
			return
		}
		t.n++
		if (b >= 0x40 && b <= 0x7e) || t.n > maxCSILen {
			t.state = trackGround
		}
	case trackOSC:
		t.n++
		switch {
		case b == 0x07:
			t.state = trackGround
		case b == 0x1b:
			t.state = trackOSCEscape
		case t.n > maxOSCLen:
			t.state = trackGround
		}
	case trackOSCEscape:
		if b == '\\' {
			t.state = trackGround
		} else {
			t.state = trackOSC
		}
	default:
		t.ground(b)
	}
}

func (t *tracker) ground(b byte) {
	switch {
	case b == '\r', b == '\n':
		t.col = 0
	case b == '\b':
		if t.col > 0 {
			t.col--
		}
	case b == '\t':
		t.col = (t.col/8 + 1) * 8
		if t.width > 0 && t.col >= t.width {
			// Tabs stop at the right margin rather than wrapping.
			t.col = t.width - 1
		}
	case b == 0x1b:
		t.state = trackEscape
	case b < 0x20 || b == 0x7f:
		// Other control bytes do not move the cursor.
	case b&0xc0 == 0x80:
		// UTF-8 continuation; the lead byte already counted.
	default:
		t.col++
		if t.width > 0 && t.col >= t.width {
			t.col = 0
		}
	}
}
