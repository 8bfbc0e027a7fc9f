package screen

import "testing"

func TestTrackerColumns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain text", "hello", 5},
		{"newline resets", "hello\n", 0},
		{"crlf resets", "line\r\n", 0},
		{"carriage return rewinds", "abc\rde", 2},
		{"backspace backs up", "ab\b", 1},
		{"backspace stops at zero", "\b\b", 0},
		{"tab to next stop", "a\tb", 9},
		{"tab from stop", "\t", 8},
		{"sgr sequence ignored", "\x1b[31mred\x1b[0m", 3},
		{"cursor motion not modeled", "\x1b[10Cab", 2},
		{"osc bel terminated", "\x1b]0;title\x07ab", 2},
		{"osc st terminated", "\x1b]0;title\x1b\\ab", 2},
		{"two byte utf8", "é", 1},
		{"three byte utf8", "世", 1},
		{"bel ignored", "a\x07b", 2},
		{"control inside csi aborts", "\x1b[3\rx", 1},
		{"charset designator ignored", "\x1b(Bab", 2},
		{"line drawing designator ignored", "\x1b)0x", 1},
		{"keypad mode ignored", "\x1b=ab", 2},
		{"control inside escape aborts", "\x1b(\nx", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr tracker
			tr.advance([]byte(tt.input))
			if got := tr.column(); got != tt.want {
				t.Errorf("column() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrackerSplitSequences(t *testing.T) {
	var tr tracker
	tr.advance([]byte("ab\x1b[3"))
	tr.advance([]byte("1mc"))
	if got := tr.column(); got != 3 {
		t.Errorf("column() after split CSI = %d, want 3", got)
	}

	tr = tracker{}
	tr.advance([]byte("\x1b]0;ti"))
	tr.advance([]byte("tle\x07x"))
	if got := tr.column(); got != 1 {
		t.Errorf("column() after split OSC = %d, want 1", got)
	}

	tr = tracker{}
	tr.advance([]byte("\x1b("))
	tr.advance([]byte("Bok"))
	if got := tr.column(); got != 2 {
		t.Errorf("column() after split designator = %d, want 2", got)
	}
}

func TestTrackerWrapsAtWidth(t *testing.T) {
	tests := []struct {
		name  string
		width int
		input string
		want  int
	}{
		{"long line wraps", 10, "abcdefghijklm", 3},
		{"exact width lands on a fresh row", 10, "abcdefghij", 0},
		{"tab stops at the margin", 10, "abcdefgh\t", 9},
		{"zero width never wraps", 0, "abcdefghijklm", 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr tracker
			tr.setWidth(tt.width)
			tr.advance([]byte(tt.input))
			if got := tr.column(); got != tt.want {
				t.Errorf("column() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrackerResizeClampsColumn(t *testing.T) {
	var tr tracker
	tr.setWidth(40)
	tr.advance([]byte("abcdefghijklmnop"))

	tr.setWidth(10)
	if got := tr.column(); got != 9 {
		t.Errorf("column() after shrink = %d, want 9", got)
	}
}

func TestTrackerLongSequenceBails(t *testing.T) {
	junk := make([]byte, maxCSILen+10)
	for i := range junk {
		junk[i] = '1'
	}

	var tr tracker
	tr.advance([]byte("\x1b["))
	tr.advance(junk)
	tr.advance([]byte("ab"))

	// Bytes past the cap fall back to ground and count as text.
	want := len(junk) - (maxCSILen + 1) + 2
	if got := tr.column(); got != want {
		t.Errorf("column() = %d, want %d", got, want)
	}
}
