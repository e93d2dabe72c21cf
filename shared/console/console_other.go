//go:build !windows

// Package console inspects the attached terminal.
package console

import (
	"os"
	"strings"
)

// IsBlueBackground reports whether COLORFGBG names a blue background.
func IsBlueBackground() bool {
	raw := os.Getenv("COLORFGBG")
	if raw == "" {
		return false
	}

	parts := strings.Split(raw, ";")
	bg := strings.TrimSpace(parts[len(parts)-1])

	// ANSI 16-color backgrounds: 4 (blue) and 12 (bright blue).
	return bg == "4" || bg == "12"
}
