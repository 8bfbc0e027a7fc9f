package session

import (
	"fmt"
	"io"
	"os"

	"github.com/ptyline/ptyline/pkg/process"
)

// outputLoop copies child output to the screen until the channel reports
// end of file, which is how a pty session ends. The handler, when set,
// observes each chunk before it reaches the screen.
func (s *Session) outputLoop() {
	defer close(s.outputDone)

	buf := make([]byte, 4096)
	for {
		n, err := s.channel.Read(buf)
		if n > 0 {
			if s.handler != nil {
				s.handler.HandleData(buf[:n])
			}
			if werr := s.coord.WriteChild(buf[:n]); werr != nil {
				if process.IsHangup(werr) {
					// Our own stdout is gone. Ask the child to stop and
					// let Wait finish the teardown.
					_ = s.Stop()
					return
				}
				fmt.Fprintf(os.Stderr, "ptyline: failed to write output: %v\n", werr)
			}
		}
		if err != nil {
			if err != io.EOF && !process.IsHangup(err) {
				fmt.Fprintf(os.Stderr, "ptyline: output error: %v\n", err)
			}
			return
		}
	}
}
