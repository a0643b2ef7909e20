package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"

	ClearScreen    = "\033[2J"
	ClearLine      = "\033[2K"
	MoveCursorHome = "\033[H"
	HideCursor     = "\033[?25l"
	ShowCursor     = "\033[?25h"
)

// GetDisplayWidth returns the terminal cell width of text
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// HexToANSI converts "#rrggbb" into a 24-bit foreground escape. Malformed
// colors yield an empty string so callers print uncolored text.
func HexToANSI(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return ""
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", (v>>16)&0xff, (v>>8)&0xff, v&0xff)
}

// Colorize wraps text in a hex color when one is given
func Colorize(text, hex string) string {
	code := HexToANSI(hex)
	if code == "" {
		return text
	}
	return code + text + ColorReset
}

// CreateProgressBar draws "[████░░░░]" filling percentage of width cells
func CreateProgressBar(percentage float64, width int) string {
	if width < 2 {
		width = 2
	}
	inner := width - 2
	filled := int(percentage / 100 * float64(inner))
	if filled > inner {
		filled = inner
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", inner-filled) + "]"
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return ColorBold + ColorMagenta + title + ColorReset
}

// FormatDataTitle formats data section titles (Green + Bold)
func FormatDataTitle(title string) string {
	return ColorBold + ColorGreen + title + ColorReset
}

func FormatSectionSeparator(width int) string {
	return ColorCyan + strings.Repeat("─", width) + ColorReset
}
