package editor

import "unicode/utf8"

// EventKind classifies a decoded key event.
type EventKind int

const (
	// KeyRune is a printable character to insert at the cursor.
	KeyRune EventKind = iota
	// KeyEnter submits the current buffer.
	KeyEnter
	// KeyBackspace deletes the rune before the cursor.
	KeyBackspace
	// KeyLeft moves the cursor one position left.
	KeyLeft
	// KeyRight moves the cursor one position right.
	KeyRight
	// KeyInterrupt is Ctrl-C.
	KeyInterrupt
	// KeyEOF is Ctrl-D.
	KeyEOF
)

// Event is a single decoded key event. Rune is set only for KeyRune.
type Event struct {
	Kind EventKind
	Rune rune
}

const (
	stateGround  = iota
	stateEscape  // ESC seen, discriminator pending
	stateCSI     // inside an ESC [ sequence
	stateSS3     // inside an ESC O sequence
	stateDiscard // draining an overlong sequence to its final byte
)

// maxSequence bounds a pending escape sequence so binary garbage on stdin
// cannot wedge the decoder in an escape state.
const maxSequence = 32

// Decoder turns raw terminal bytes into key events. Escape sequences and
// multi-byte characters routinely arrive split across reads, so the decoder
// carries partial state between Feed calls instead of assuming each read is
// self-contained. An incomplete sequence produces no events until its
// remaining bytes show up.
type Decoder struct {
	state   int
	seq     []byte // pending escape sequence body
	partial []byte // pending UTF-8 continuation bytes
}

// NewDecoder returns a decoder in the ground state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed decodes the next chunk of input and returns the completed events, in
// order. Trailing bytes of an unfinished sequence are retained for the next
// call.
func (d *Decoder) Feed(p []byte) []Event {
	var events []Event
	for _, b := range p {
		events = d.next(events, b)
	}
	return events
}

func (d *Decoder) next(events []Event, b byte) []Event {
	// A C0 control always takes effect, even if it arrives in the middle
	// of an escape sequence or a multi-byte rune; the unfinished sequence
	// is abandoned. A fresh ESC likewise restarts escape decoding.
	if b < 0x20 && b != 0x1b && d.state != stateGround {
		d.reset()
	}
	if b == 0x1b && d.state != stateGround {
		d.reset()
		d.state = stateEscape
		return events
	}
	if len(d.partial) > 0 && b < utf8.RuneSelf {
		d.partial = d.partial[:0]
	}

	switch d.state {
	case stateEscape:
		return d.escape(events, b)
	case stateCSI:
		return d.csi(events, b)
	case stateSS3:
		return d.ss3(events, b)
	case stateDiscard:
		return d.discard(events, b)
	}
	return d.ground(events, b)
}

func (d *Decoder) ground(events []Event, b byte) []Event {
	switch {
	case b == 0x03:
		return append(events, Event{Kind: KeyInterrupt})
	case b == 0x04:
		return append(events, Event{Kind: KeyEOF})
	case b == '\r' || b == '\n':
		return append(events, Event{Kind: KeyEnter})
	case b == 0x7f || b == 0x08:
		return append(events, Event{Kind: KeyBackspace})
	case b == 0x1b:
		d.state = stateEscape
		return events
	case b < 0x20:
		// Unbound control key; swallowed rather than inserted.
		return events
	case b >= utf8.RuneSelf:
		return d.multibyte(events, b)
	}
	return append(events, Event{Kind: KeyRune, Rune: rune(b)})
}

func (d *Decoder) multibyte(events []Event, b byte) []Event {
	d.partial = append(d.partial, b)
	for len(d.partial) > 0 && utf8.FullRune(d.partial) {
		r, size := utf8.DecodeRune(d.partial)
		d.partial = append(d.partial[:0], d.partial[size:]...)
		if r != utf8.RuneError {
			events = append(events, Event{Kind: KeyRune, Rune: r})
		}
	}
	if len(d.partial) >= utf8.UTFMax {
		d.partial = d.partial[:0]
	}
	return events
}

func (d *Decoder) escape(events []Event, b byte) []Event {
	switch b {
	case '[':
		d.state = stateCSI
		d.seq = d.seq[:0]
	case 'O':
		d.state = stateSS3
	default:
		// Alt-modified key or a sequence we do not recognize.
		d.reset()
	}
	return events
}

func (d *Decoder) csi(events []Event, b byte) []Event {
	switch {
	case b >= 0x40 && b <= 0x7e:
		// Final byte.
		final := b
		d.reset()
		switch final {
		case 'C':
			return append(events, Event{Kind: KeyRight})
		case 'D':
			return append(events, Event{Kind: KeyLeft})
		}
		return events
	case b >= 0x20 && b <= 0x3f:
		// Parameter and intermediate bytes.
		d.seq = append(d.seq, b)
		if len(d.seq) > maxSequence {
			// Too long to be a key. Drain the rest of the sequence so
			// its bytes are not typed into the buffer as text.
			d.reset()
			d.state = stateDiscard
		}
		return events
	}
	d.reset()
	return events
}

// discard swallows the remainder of an overlong sequence. The preamble in
// next still lets a control byte or a fresh ESC cut the drain short.
func (d *Decoder) discard(events []Event, b byte) []Event {
	if b >= 0x40 && b <= 0x7e {
		d.reset()
	}
	return events
}

func (d *Decoder) ss3(events []Event, b byte) []Event {
	d.reset()
	switch b {
	case 'C':
		return append(events, Event{Kind: KeyRight})
	case 'D':
		return append(events, Event{Kind: KeyLeft})
	}
	return events
}

func (d *Decoder) reset() {
	d.state = stateGround
	d.seq = d.seq[:0]
}
