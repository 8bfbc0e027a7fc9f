package editor

import (
	"math/rand"
	"testing"
)

func typeString(b *Buffer, s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

func TestBufferInsertAppends(t *testing.T) {
	b := NewBuffer()
	typeString(b, "hel")
	b.Insert('l')
	b.Insert('o')

	if got := b.String(); got != "hello" {
		t.Errorf("String() = %q, want %q", got, "hello")
	}
	if got := b.Cursor(); got != 5 {
		t.Errorf("Cursor() = %d, want 5", got)
	}
}

func TestBufferInsertAtCursor(t *testing.T) {
	b := NewBuffer()
	typeString(b, "hllo")
	b.Left()
	b.Left()
	b.Left()
	b.Insert('e')

	if got := b.String(); got != "hello" {
		t.Errorf("String() = %q, want %q", got, "hello")
	}
	if got := b.Cursor(); got != 2 {
		t.Errorf("Cursor() = %d, want 2", got)
	}
}

func TestBufferBackspace(t *testing.T) {
	b := NewBuffer()
	typeString(b, "hello")
	b.Backspace()
	b.Backspace()

	if got := b.String(); got != "hel" {
		t.Errorf("String() = %q, want %q", got, "hel")
	}
	if got := b.Cursor(); got != 3 {
		t.Errorf("Cursor() = %d, want 3", got)
	}
}

func TestBufferBackspaceMidLine(t *testing.T) {
	b := NewBuffer()
	typeString(b, "hexllo")
	b.Left()
	b.Left()
	b.Left()
	if !b.Backspace() {
		t.Fatal("Backspace() = false, want true")
	}

	if got := b.String(); got != "hello" {
		t.Errorf("String() = %q, want %q", got, "hello")
	}
	if got := b.Cursor(); got != 2 {
		t.Errorf("Cursor() = %d, want 2", got)
	}
}

func TestBufferBoundaryOps(t *testing.T) {
	b := NewBuffer()

	if b.Backspace() {
		t.Error("Backspace() on empty buffer = true, want false")
	}
	if b.Left() {
		t.Error("Left() on empty buffer = true, want false")
	}
	if b.Right() {
		t.Error("Right() on empty buffer = true, want false")
	}
	if b.Discard() {
		t.Error("Discard() on empty buffer = true, want false")
	}

	typeString(b, "ab")
	if b.Right() {
		t.Error("Right() at end of buffer = true, want false")
	}
	b.Left()
	b.Left()
	if b.Left() {
		t.Error("Left() at start of buffer = true, want false")
	}
	if b.Backspace() {
		t.Error("Backspace() at start of buffer = true, want false")
	}
	if got := b.String(); got != "ab" {
		t.Errorf("boundary ops changed contents: %q", got)
	}
}

func TestBufferSubmit(t *testing.T) {
	b := NewBuffer()
	typeString(b, "status")

	if got := b.Submit(); got != "status" {
		t.Errorf("Submit() = %q, want %q", got, "status")
	}
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Errorf("after Submit: len=%d cursor=%d, want 0, 0", b.Len(), b.Cursor())
	}

	// Submitting again from empty yields an empty line.
	if got := b.Submit(); got != "" {
		t.Errorf("Submit() on empty buffer = %q, want %q", got, "")
	}
}

func TestBufferDiscard(t *testing.T) {
	b := NewBuffer()
	typeString(b, "oops")
	if !b.Discard() {
		t.Fatal("Discard() = false, want true")
	}
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Errorf("after Discard: len=%d cursor=%d, want 0, 0", b.Len(), b.Cursor())
	}
}

func TestBufferUnicode(t *testing.T) {
	b := NewBuffer()
	b.Insert('é')
	b.Insert('世')
	b.Insert('x')

	if got := b.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	b.Left()
	b.Backspace()
	if got := b.String(); got != "éx" {
		t.Errorf("String() = %q, want %q", got, "éx")
	}
	if got := b.Cursor(); got != 1 {
		t.Errorf("Cursor() = %d, want 1", got)
	}
}

func TestBufferLineSnapshot(t *testing.T) {
	b := NewBuffer()
	typeString(b, "abc")
	b.Left()

	line := b.Line()
	if line.Text != "abc" || line.Cursor != 2 {
		t.Errorf("Line() = %+v, want {Text: abc, Cursor: 2}", line)
	}

	// The snapshot is detached from later edits.
	b.Insert('z')
	if line.Text != "abc" {
		t.Errorf("snapshot changed after edit: %q", line.Text)
	}
}

// TestBufferCursorInvariant drives the buffer through a long pseudo-random
// operation sequence and checks the cursor stays within bounds after every
// step.
func TestBufferCursorInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := NewBuffer()

	for i := 0; i < 10000; i++ {
		switch rng.Intn(7) {
		case 0, 1:
			b.Insert(rune('a' + rng.Intn(26)))
		case 2:
			b.Backspace()
		case 3:
			b.Left()
		case 4:
			b.Right()
		case 5:
			if rng.Intn(20) == 0 {
				b.Submit()
			}
		case 6:
			if rng.Intn(50) == 0 {
				b.Discard()
			}
		}
		if b.Cursor() < 0 || b.Cursor() > b.Len() {
			t.Fatalf("step %d: cursor %d out of bounds for length %d", i, b.Cursor(), b.Len())
		}
	}
}
