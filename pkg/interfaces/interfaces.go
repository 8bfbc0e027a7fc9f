// Package interfaces defines the core interfaces used throughout the application.
package interfaces

// DataHandler observes raw child output as it passes through the session.
type DataHandler interface {
	HandleData(data []byte)
}

// TerminalGuard restores the terminal's original input mode. Any cleanup
// path may call Release; after the first successful restore the rest are
// no-ops.
type TerminalGuard interface {
	Release() error
}

// ScreenWriter serializes everything painted on the real terminal: child
// output passthrough and prompt redraws. Implementations must make each
// operation atomic with respect to the others.
type ScreenWriter interface {
	// WriteChild relays a chunk of child output, keeping the prompt
	// rendered after it.
	WriteChild(data []byte) error
	// RedrawPrompt repaints the prompt line with the given buffer
	// contents and cursor offset.
	RedrawPrompt(text string, cursor int) error
	// SetColumns updates the terminal width used for rendering.
	SetColumns(cols int)
	// Finish ends prompt rendering and parks the cursor on a fresh line.
	Finish() error
}
