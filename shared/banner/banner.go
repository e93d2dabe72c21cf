// Package banner prints the startup title.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thirukguru/designer-wrapper/shared/ansi"
	"github.com/thirukguru/designer-wrapper/shared/console"
	"golang.org/x/term"
)

type bannerColor int

const (
	bannerCortexGrey bannerColor = iota
	bannerTractBlue
	bannerFAMagenta
	bannerFAGreen
	bannerFARed
	bannerMCINTeal
)

var bannerTitleColors = []string{
	"\x1b[38;2;190;190;190m",
	"\x1b[38;2;38;120;230m",
	"\x1b[38;2;214;40;200m",
	"\x1b[38;2;40;200;90m",
	"\x1b[38;2;226;46;46m",
	"\x1b[38;2;0;150;150m",
}

var bannerTitleColorNames = []string{
	"CortexGrey",
	"TractBlue",
	"FAMagenta",
	"FAGreen",
	"FARed",
	"MCINTeal",
}

const (
	bannerTitleColorDefault        = bannerMCINTeal
	bannerTitleColorBlueBackground = bannerCortexGrey
	bannerTitleColorEnv            = "DESIGNER_WRAPPER_BANNER_COLOR"
	defaultWidth                   = 80
)

var titleLines = []string{
	"██████╗ ███████╗███████╗██╗ ██████╗ ███╗   ██╗███████╗██████╗ ",
	"██╔══██╗██╔════╝██╔════╝██║██╔════╝ ████╗  ██║██╔════╝██╔══██╗",
	"██║  ██║█████╗  ███████╗██║██║  ███╗██╔██╗ ██║█████╗  ██████╔╝",
	"██║  ██║██╔══╝  ╚════██║██║██║   ██║██║╚██╗██║██╔══╝  ██╔══██╗",
	"██████╔╝███████╗███████║██║╚██████╔╝██║ ╚████║███████╗██║  ██║",
	"╚═════╝ ╚══════╝╚══════╝╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚══════╝╚═╝  ╚═╝",
	"          mrconvert · tmi · dtiQC pipeline wrapper           ",
}

func printCenteredLines(w io.Writer, lines []string, width int) {
	for _, line := range lines {
		pad := 0
		if n := len([]rune(line)); width > n {
			pad = (width - n) / 2
		}
		if pad > 0 {
			fmt.Fprint(w, strings.Repeat(" ", pad))
		}
		fmt.Fprintln(w, line)
	}
}

func bannerTitleColor() bannerColor {
	if color, ok := bannerTitleColorFromEnv(); ok {
		return color
	}

	if console.IsBlueBackground() {
		return bannerTitleColorBlueBackground
	}

	return bannerTitleColorDefault
}

func bannerTitleColorFromEnv() (bannerColor, bool) {
	raw := strings.TrimSpace(os.Getenv(bannerTitleColorEnv))
	if raw == "" {
		return 0, false
	}

	for idx, color := range bannerTitleColors {
		if strings.EqualFold(raw, bannerTitleColorNames[idx]) || raw == color {
			return bannerColor(idx), true
		}
	}

	return 0, false
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// DrawBannerTitle prints the application title banner to w.
func DrawBannerTitle(w io.Writer) {
	ansi.EnableANSI()

	fmt.Fprint(w, bannerTitleColors[bannerTitleColor()])
	printCenteredLines(w, titleLines, terminalWidth())
	fmt.Fprint(w, "\x1b[0m")
}
