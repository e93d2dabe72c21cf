//go:build !windows

// Package ansi prepares the console for ANSI escape sequences.
package ansi

// EnableANSI is a no-op; ANSI sequences work on non-Windows terminals.
func EnableANSI() {
}
