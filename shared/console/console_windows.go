//go:build windows

// Package console inspects the attached terminal.
package console

import (
	"os"

	"golang.org/x/sys/windows"
)

// IsBlueBackground reports whether the console background is blue.
func IsBlueBackground() bool {
	handle := windows.Handle(os.Stdout.Fd())

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(handle, &info); err != nil {
		return false
	}

	const backgroundBlue = 0x0010

	return info.Attributes&backgroundBlue != 0
}
