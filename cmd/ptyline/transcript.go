package main

import (
	"os"
	"sync"

	"github.com/ptyline/ptyline/pkg/interfaces"
)

// transcriptWriter appends child output to a file for later review. It
// receives the raw pty byte stream, escape sequences included.
type transcriptWriter struct {
	mu   sync.Mutex
	file *os.File
}

func newTranscriptWriter(path string) (*transcriptWriter, error) {
	// #nosec G304 - the transcript path is user configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}
	return &transcriptWriter{file: f}, nil
}

// HandleData implements the DataHandler interface
func (t *transcriptWriter) HandleData(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.file.Write(data)
}

// Close closes the transcript file
func (t *transcriptWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}

// Ensure transcriptWriter implements DataHandler
var _ interfaces.DataHandler = (*transcriptWriter)(nil)
