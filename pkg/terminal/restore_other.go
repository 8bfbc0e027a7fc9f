//go:build !linux && !darwin

package terminal

// RestoreCooked is a no-op on platforms without termios support.
func RestoreCooked() {}
