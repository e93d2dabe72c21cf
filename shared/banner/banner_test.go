package banner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBannerTitleColorFromEnv(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   bannerColor
		wantOK bool
	}{
		{name: "unset", value: ""},
		{name: "by name", value: "tractblue", want: bannerTractBlue, wantOK: true},
		{name: "by escape", value: bannerTitleColors[bannerFARed], want: bannerFARed, wantOK: true},
		{name: "unknown", value: "Plaid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(bannerTitleColorEnv, tt.value)
			got, ok := bannerTitleColorFromEnv()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaletteNamesMatchColors(t *testing.T) {
	assert.Len(t, bannerTitleColorNames, len(bannerTitleColors))
}

func TestPrintCenteredLines(t *testing.T) {
	var buf bytes.Buffer
	printCenteredLines(&buf, []string{"abcd", "ab"}, 10)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{"   abcd", "    ab"}, lines)
}

func TestDrawBannerTitleResetsColor(t *testing.T) {
	t.Setenv(bannerTitleColorEnv, "FAGreen")
	var buf bytes.Buffer

	DrawBannerTitle(&buf)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, bannerTitleColors[bannerFAGreen]))
	assert.True(t, strings.HasSuffix(out, "\x1b[0m"))
}
