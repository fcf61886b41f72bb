package render

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gutterblame/internal/annotator"
	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/color"
)

func plainRenderer() *Renderer {
	lg := lipgloss.NewRenderer(io.Discard)
	lg.SetColorProfile(termenv.Ascii)
	return NewWithRenderer(lg)
}

func trueColorRenderer() *Renderer {
	lg := lipgloss.NewRenderer(io.Discard)
	lg.SetColorProfile(termenv.TrueColor)
	lg.SetHasDarkBackground(true)
	return NewWithRenderer(lg)
}

func line(title, id string) annotator.Line {
	committed := id != blame.UncommittedID
	l := annotator.Line{Record: blame.Record{CommitID: id, Committed: committed, Title: title}}
	if committed {
		l.Color = color.Pair{Light: "#aa3355", Dark: "#ff6699"}
	}
	return l
}

func sampleView() *annotator.View {
	return &annotator.View{
		Lines: []annotator.Line{
			line("2023/11/14 Alice", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			line("", blame.UncommittedID),
			line("2023/11/14 Bob", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		},
		Width:           16,
		Distinguishable: true,
	}
}

func TestGutter_PadsToWidth(t *testing.T) {
	r := plainRenderer()

	require.Equal(t, "2023/11/14 Bob  ", r.Gutter(line("2023/11/14 Bob", "b"), 16, true))
	require.Equal(t, strings.Repeat(" ", 16), r.Gutter(line("", blame.UncommittedID), 16, true))
	require.Empty(t, r.Gutter(line("x", "b"), 0, true))
}

func TestGutter_PadsWideTitlesByDisplayWidth(t *testing.T) {
	r := plainRenderer()

	got := r.Gutter(line("2023/11/14 \u674e\u5c0f", "b"), 16, false)
	require.Equal(t, "2023/11/14 \u674e\u5c0f ", got, "two wide runes fill four columns")
}

func TestGutter_Colors(t *testing.T) {
	r := trueColorRenderer()

	colored := r.Gutter(line("2023/11/14 Bob", "b"), 14, true)
	require.Contains(t, colored, "\x1b[")
	require.Contains(t, colored, "2023/11/14 Bob")

	plain := r.Gutter(line("2023/11/14 Bob", "b"), 14, false)
	require.Equal(t, "2023/11/14 Bob", plain)
}

func TestRender_Plain(t *testing.T) {
	r := plainRenderer()
	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf, sampleView(), []string{"package main", "", "func main() {}"}))
	require.Equal(t,
		"2023/11/14 Alice │ package main\n"+
			"                 │ \n"+
			"2023/11/14 Bob   │ func main() {}\n",
		buf.String())
}

func TestRender_ColoredMatchesPlainText(t *testing.T) {
	source := []string{"package main", "", "func main() {}"}

	var plain, colored bytes.Buffer
	require.NoError(t, plainRenderer().Render(&plain, sampleView(), source))
	require.NoError(t, trueColorRenderer().Render(&colored, sampleView(), source))

	require.Contains(t, colored.String(), "\x1b[38;2;255;102;153m", "dark background picks the dark color")
	require.Equal(t, plain.String(), ansi.Strip(colored.String()))
}

func TestRender_SingleCommitIsNotColored(t *testing.T) {
	r := trueColorRenderer()
	view := sampleView()
	view.Distinguishable = false
	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf, view, []string{"a", "b", "c"}))
	require.NotContains(t, buf.String(), "\x1b[38;2;255;102;153m")
	require.True(t, strings.HasPrefix(buf.String(), "2023/11/14 Alice"), "gutter cell is written without styling")
}

func TestRender_LineNumbersAndClipping(t *testing.T) {
	r := plainRenderer()
	r.LineNumbers = true
	r.MaxCols = 8
	r.Separator = " "
	var buf bytes.Buffer

	view := sampleView()
	view.Width = 3
	view.Lines[0].Record.Title = "abc"
	view.Lines[2].Record.Title = "xyz"

	require.NoError(t, r.Render(&buf, view, []string{"\tindented line", "b", "c"}))
	require.Equal(t, "abc 1     inde\n    2 b\nxyz 3 c\n", buf.String())
}

func TestRender_EmptyViewPrintsSourceOnly(t *testing.T) {
	r := plainRenderer()
	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf, &annotator.View{Lines: make([]annotator.Line, 2)}, []string{"a", "b"}))
	require.Equal(t, "a\nb\n", buf.String())

	buf.Reset()
	require.NoError(t, r.Render(&buf, nil, []string{"a"}))
	require.Equal(t, "a\n", buf.String())
}

func TestRender_ViewLongerThanSource(t *testing.T) {
	r := plainRenderer()
	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf, sampleView(), []string{"only"}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "2023/11/14 Bob   │ ", lines[2])
}

func TestClip_GraphemeBoundary(t *testing.T) {
	r := plainRenderer()
	r.MaxCols = 3

	require.Equal(t, "ab", r.clip("ab\u674e"), "a wide rune that would overflow is dropped")
	require.Equal(t, "e\u0301fg", r.clip("e\u0301fgh"), "combining marks stay with their base")
}

func TestSplitLines(t *testing.T) {
	require.Equal(t, []string{"a", "b", ""}, SplitLines("a\r\nb\n"))
	require.Equal(t, []string{""}, SplitLines(""))
}
