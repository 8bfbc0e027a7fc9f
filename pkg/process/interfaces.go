package process

import "os"

// Channel is the pty transport between a session and its child process.
// io.EOF from Read is the normal end of a session, not a failure.
type Channel interface {
	Open() error
	Spawn(command string, args []string, env []string) error
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Wait() error
	Close() error
	Signal(sig os.Signal) error
	ExitStatus() ExitStatus
	SetResizeHook(fn func(cols int))
}
