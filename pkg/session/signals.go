package session

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalForwarding sets up signal forwarding to the child process.
// SIGWINCH is absent from the list: the channel's own resize monitor
// propagates window size changes through the pty.
func (s *Session) setupSignalForwarding() {
	s.sigChan = make(chan os.Signal, 1)
	signal.Notify(s.sigChan,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT,
		syscall.SIGUSR1,
		syscall.SIGUSR2,
	)

	go s.forwardSignals()
}

// forwardSignals forwards signals to the child process
func (s *Session) forwardSignals() {
	for {
		select {
		case sig := <-s.sigChan:
			if s.channel != nil {
				if err := s.channel.Signal(sig); err != nil {
					// Process might have already exited, but log it
					if err != os.ErrProcessDone {
						fmt.Fprintf(os.Stderr, "ptyline: signal forward error: %v\n", err)
					}
				}
			}
		case <-s.done:
			return
		}
	}
}

// cleanupSignals stops signal forwarding
func (s *Session) cleanupSignals() {
	if s.sigChan != nil {
		signal.Stop(s.sigChan)
		close(s.sigChan)
	}
}
