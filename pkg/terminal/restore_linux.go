//go:build linux

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

// RestoreCooked re-enables cooked mode on the controlling terminal without a
// saved state, for panic paths where the guard is unreachable. Best effort;
// errors are ignored. Opening /dev/tty works even when stdin has been
// redirected.
func RestoreCooked() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer func() { _ = tty.Close() }()

	fd := int(tty.Fd())
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return
	}
	termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Iflag |= unix.ICRNL
	_ = unix.IoctlSetTermios(fd, unix.TCSETS, termios)
}
