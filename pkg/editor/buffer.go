// Package editor implements the single-line edit buffer and the key event
// decoder that feeds it.
package editor

// Line is a point-in-time snapshot of the edit buffer, handed to the screen
// layer as a redraw instruction. Cursor is a rune offset into Text.
type Line struct {
	Text   string
	Cursor int
}

// Buffer is a single-line edit buffer with a cursor. It holds the text the
// user is composing before it is submitted to the child process. Positions
// are rune offsets, so multi-byte characters edit as single units.
//
// Buffer is not safe for concurrent use; only the input loop mutates it.
type Buffer struct {
	runes  []rune
	cursor int
}

// NewBuffer returns an empty buffer with the cursor at position zero.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Insert places r at the cursor and advances the cursor past it.
func (b *Buffer) Insert(r rune) bool {
	b.runes = append(b.runes, 0)
	copy(b.runes[b.cursor+1:], b.runes[b.cursor:])
	b.runes[b.cursor] = r
	b.cursor++
	return true
}

// Backspace removes the rune before the cursor and reports whether the
// buffer changed. At the start of the buffer it is a no-op.
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
	return true
}

// Left moves the cursor one rune toward the start of the buffer.
func (b *Buffer) Left() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

// Right moves the cursor one rune toward the end of the buffer.
func (b *Buffer) Right() bool {
	if b.cursor >= len(b.runes) {
		return false
	}
	b.cursor++
	return true
}

// Discard drops the buffer contents without submitting them, as after an
// interrupt.
func (b *Buffer) Discard() bool {
	if len(b.runes) == 0 {
		return false
	}
	b.runes = b.runes[:0]
	b.cursor = 0
	return true
}

// Submit returns the completed line and resets the buffer to empty. The
// caller delivers the line to the child.
func (b *Buffer) Submit() string {
	line := string(b.runes)
	b.runes = b.runes[:0]
	b.cursor = 0
	return line
}

// Len returns the buffer length in runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Cursor returns the cursor position as a rune offset.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// String returns the buffer contents.
func (b *Buffer) String() string {
	return string(b.runes)
}

// Line returns a redraw snapshot of the current contents and cursor.
func (b *Buffer) Line() Line {
	return Line{Text: string(b.runes), Cursor: b.cursor}
}
