package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-focus-calendar/internal/util"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
	minWidth      = 40
)

// Sizer fits rendered text into a terminal of Width x Height cells
type Sizer struct {
	Width  int
	Height int
}

func NewSizer(width, height int) *Sizer {
	return &Sizer{Width: width, Height: height}
}

// DetectSizer measures the terminal behind stdout, falling back to 80x24
func DetectSizer() *Sizer {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		width, height = DefaultWidth, DefaultHeight
	}
	util.LogDebug("terminal size", util.Int("width", width), util.Int("height", height))
	return NewSizer(width, height)
}

// PadString pads s with spaces to a display width
func (s *Sizer) PadString(text string, width int, leftAlign bool) string {
	if leftAlign {
		return runewidth.FillRight(text, width)
	}
	return runewidth.FillLeft(text, width)
}

// Truncate shortens text to at most width cells, marking the cut with "…"
func (s *Sizer) Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}

// Fit clips a rendered frame to the terminal: long lines are truncated and
// lines past the last row are dropped, keeping the final footer line.
func (s *Sizer) Fit(frame string) string {
	lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")
	if s.Height > 1 && len(lines) > s.Height {
		footer := lines[len(lines)-1]
		lines = append(lines[:s.Height-1], footer)
	}
	for i, line := range lines {
		// ANSI colour codes have no width but runewidth counts them
		if !strings.Contains(line, "\033[") && runewidth.StringWidth(line) > s.Width {
			lines[i] = s.Truncate(line, s.Width)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
