package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-focus-calendar/internal/presentation/layout"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

const (
	enterAltScreen = "\033[?1049h"
	exitAltScreen  = "\033[?1049l"
	clearToEnd     = "\033[J"
)

// Frame is one full screen of the live view
type Frame struct {
	Title    string
	Subtitle string
	Body     string
	Status   string
	Help     bool
	Loading  bool
}

// TerminalDisplay draws frames on the terminal's alternate screen. Frames
// are drawn over the previous one instead of clearing first, which avoids
// flicker.
type TerminalDisplay struct {
	out               io.Writer
	sizer             *layout.Sizer
	inAlternateScreen bool
	lastFrame         string
}

func NewTerminalDisplay(out io.Writer, sizer *layout.Sizer) *TerminalDisplay {
	if sizer == nil {
		sizer = layout.NewSizer(layout.DefaultWidth, layout.DefaultHeight)
	}
	return &TerminalDisplay{out: out, sizer: sizer}
}

func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, enterAltScreen+util.ClearScreen+util.MoveCursorHome+util.HideCursor)
	td.inAlternateScreen = true
	td.lastFrame = ""
}

func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+exitAltScreen)
	td.inAlternateScreen = false
}

// Resize replaces the sizer after the terminal changed size
func (td *TerminalDisplay) Resize(sizer *layout.Sizer) {
	td.sizer = sizer
	td.lastFrame = ""
}

// Render draws f. Identical consecutive frames are skipped.
func (td *TerminalDisplay) Render(f Frame) {
	var content string
	switch {
	case f.Help:
		content = td.helpScreen()
	case f.Loading:
		content = td.loadingScreen(f.Status)
	default:
		content = td.compose(f)
	}
	content = td.sizer.Fit(content)
	if content == td.lastFrame {
		return
	}
	td.lastFrame = content

	var b strings.Builder
	b.WriteString(util.MoveCursorHome)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		b.WriteString(util.ClearLine + line + "\n")
	}
	b.WriteString(clearToEnd)
	fmt.Fprint(td.out, b.String())
}

func (td *TerminalDisplay) compose(f Frame) string {
	width := td.sizer.Width
	var b strings.Builder

	b.WriteString(util.FormatHeaderTitle(f.Title) + "\n")
	if f.Subtitle != "" {
		b.WriteString(util.ColorDim + f.Subtitle + util.ColorReset + "\n")
	}
	b.WriteString(util.FormatSectionSeparator(width) + "\n")
	b.WriteString(strings.TrimRight(f.Body, "\n") + "\n")
	b.WriteString(util.FormatSectionSeparator(width) + "\n")

	footer := "n/→ next  p/← prev  t today  s subject  a all  r refresh  h help  q quit"
	if f.Status != "" {
		footer = f.Status + "  |  " + footer
	}
	b.WriteString(footer + "\n")
	return b.String()
}

func (td *TerminalDisplay) helpScreen() string {
	var b strings.Builder
	b.WriteString(util.FormatHeaderTitle("Focus Calendar - Help") + "\n")
	b.WriteString(strings.Repeat("═", min(td.sizer.Width, 60)) + "\n\n")
	b.WriteString("Keyboard Shortcuts:\n\n")
	for _, line := range []string{
		"  n / →        Next week",
		"  p / ←        Previous week",
		"  t            Back to the current week",
		"  s            Cycle subject filter",
		"  a            Show all subjects",
		"  r            Reload session files",
		"  h            Toggle this help",
		"  q/Esc/Ctrl+C Quit",
	} {
		b.WriteString(line + "\n")
	}
	b.WriteString("\nGrid: one row per day, one column pair per hour.\n")
	b.WriteString("◆ marks now, R marks the weekly rank reset.\n\n")
	b.WriteString("Press 'h' to return...\n")
	return b.String()
}

func (td *TerminalDisplay) loadingScreen(message string) string {
	if message == "" {
		message = "Loading sessions..."
	}
	boxWidth := 50
	padding := strings.Repeat(" ", max(0, (td.sizer.Width-boxWidth)/2))
	inner := boxWidth - 2

	center := func(s string) string {
		w := util.GetDisplayWidth(s)
		left := max(0, (inner-w)/2)
		right := max(0, inner-w-left)
		return padding + "║" + strings.Repeat(" ", left) + s + strings.Repeat(" ", right) + "║\n"
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", max(0, td.sizer.Height/2-4)))
	b.WriteString(padding + "╔" + strings.Repeat("═", inner) + "╗\n")
	b.WriteString(center("Focus Calendar"))
	b.WriteString(padding + "╠" + strings.Repeat("═", inner) + "╣\n")
	b.WriteString(center(message))
	b.WriteString(center("Press 'q' to quit"))
	b.WriteString(padding + "╚" + strings.Repeat("═", inner) + "╝\n")
	return b.String()
}
