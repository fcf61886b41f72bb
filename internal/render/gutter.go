// Package render draws blame gutters next to buffer text for terminal output.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/gutterblame/internal/annotator"
	"github.com/zjrosen/gutterblame/internal/color"
	"github.com/zjrosen/gutterblame/internal/log"
)

const (
	DefaultSeparator = " │ "
	tabWidth         = 4
)

// Renderer writes annotated lines. The zero value is not usable; call New.
type Renderer struct {
	lg *lipgloss.Renderer

	// Separator is drawn between the gutter and the line text.
	Separator string
	// LineNumbers prefixes each line with its 1-based number.
	LineNumbers bool
	// MaxCols clips line text to this many display columns. Zero disables
	// clipping.
	MaxCols int

	muted lipgloss.Style
}

// New creates a renderer whose color profile and background detection
// follow w.
func New(w io.Writer) *Renderer {
	return NewWithRenderer(lipgloss.NewRenderer(w))
}

// NewWithRenderer uses an existing lipgloss renderer, which lets callers and
// tests pin the color profile.
func NewWithRenderer(lg *lipgloss.Renderer) *Renderer {
	return &Renderer{
		lg:        lg,
		Separator: DefaultSeparator,
		muted: lg.NewStyle().Foreground(lipgloss.AdaptiveColor{
			Light: "#8A8A8A",
			Dark:  "#5C5C5C",
		}),
	}
}

// Gutter returns the gutter cell for line, padded to width display columns.
// Uncommitted lines render as blank space. Colors are applied only when
// colorize is set.
func (r *Renderer) Gutter(line annotator.Line, width int, colorize bool) string {
	if width <= 0 {
		return ""
	}
	title := line.Record.Title
	cell := title + strings.Repeat(" ", max(width-uniseg.StringWidth(title), 0))
	if !colorize || line.Color.IsTransparent() {
		return cell
	}
	return r.lg.NewStyle().Foreground(line.Color.Adaptive()).Render(cell)
}

// Render writes every line of source with its gutter. Source lines beyond
// the view, or view lines beyond source, render with what is available so a
// stale view never hides text.
func (r *Renderer) Render(w io.Writer, view *annotator.View, source []string) error {
	bw := bufio.NewWriter(w)

	n := len(source)
	if view != nil {
		n = max(n, len(view.Lines))
	}
	numWidth := len(fmt.Sprint(n))
	colorize := view != nil && view.Distinguishable
	width := 0
	if !view.Empty() {
		width = view.Width
	}

	for i := 0; i < n; i++ {
		if width > 0 {
			var line annotator.Line
			if i < len(view.Lines) {
				line = view.Lines[i]
			} else {
				line.Color = color.Transparent
			}
			bw.WriteString(r.Gutter(line, width, colorize))
			bw.WriteString(r.muted.Render(r.Separator))
		}
		if r.LineNumbers {
			bw.WriteString(r.muted.Render(fmt.Sprintf("%*d ", numWidth, i+1)))
		}
		if i < len(source) {
			bw.WriteString(r.clip(expandTabs(source[i])))
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		log.ErrorErr(log.CatRender, "writing gutter output", err)
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}

// clip cuts s at MaxCols display columns on a grapheme boundary.
func (r *Renderer) clip(s string) string {
	if r.MaxCols <= 0 || uniseg.StringWidth(s) <= r.MaxCols {
		return s
	}

	var b strings.Builder
	col := 0
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		w := uniseg.StringWidth(cluster)
		if col+w > r.MaxCols {
			break
		}
		b.WriteString(cluster)
		col += w
		s = rest
		state = newState
	}
	return b.String()
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, c := range s {
		if c == '\t' {
			pad := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(c)
		col++
	}
	return b.String()
}

// SplitLines splits text the way the annotator counts lines: a trailing
// newline yields a final empty line. CRLF endings are accepted.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
