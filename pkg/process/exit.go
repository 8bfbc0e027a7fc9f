package process

import (
	"os"
	"syscall"
)

// ExitStatus describes how the child ended. It is only meaningful after
// Wait has reaped the process.
type ExitStatus struct {
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

// ExitCode returns the code the wrapper should exit with: the child's own
// exit code, or the conventional 128+signal when the child was killed by a
// signal.
func (e ExitStatus) ExitCode() int {
	if e.Signaled {
		return 128 + int(e.Signal)
	}
	return e.Code
}

func statusFromState(state *os.ProcessState) ExitStatus {
	if state == nil {
		return ExitStatus{}
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{Signaled: true, Signal: ws.Signal()}
	}
	return ExitStatus{Code: state.ExitCode()}
}
