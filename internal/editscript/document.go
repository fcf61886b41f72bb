package editscript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/gutterblame/internal/annotation"
)

// ErrPosition is returned when an edit addresses text outside the document.
var ErrPosition = errors.New("position outside document")

// Document is the buffer text a script edits. Character offsets count
// runes within a line.
type Document struct {
	lines []string
}

// NewDocument splits text on "\n". A trailing newline yields a final empty
// line, matching the buffer line count the annotator uses.
func NewDocument(text string) *Document {
	return &Document{lines: strings.Split(text, "\n")}
}

// Text joins the lines back together.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// Lines returns the current lines.
func (d *Document) Lines() []string {
	return d.lines
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Apply applies edits in order, each against the text left by the previous.
// A failing edit leaves the document as the earlier edits left it.
func (d *Document) Apply(edits ...annotation.Edit) error {
	for i, e := range edits {
		if err := d.apply(e); err != nil {
			return fmt.Errorf("edit %d: %w", i, err)
		}
	}
	return nil
}

func (d *Document) apply(e annotation.Edit) error {
	if err := validateEdit(e); err != nil {
		return err
	}
	if e.EndLine >= len(d.lines) {
		return fmt.Errorf("%w: line %d of %d", ErrPosition, e.EndLine, len(d.lines))
	}

	start := []rune(d.lines[e.StartLine])
	end := []rune(d.lines[e.EndLine])
	if e.StartChar > len(start) {
		return fmt.Errorf("%w: line %d char %d", ErrPosition, e.StartLine, e.StartChar)
	}
	if e.EndChar > len(end) {
		return fmt.Errorf("%w: line %d char %d", ErrPosition, e.EndLine, e.EndChar)
	}

	joined := string(start[:e.StartChar]) + e.Text + string(end[e.EndChar:])
	replacement := strings.Split(joined, "\n")

	lines := make([]string, 0, len(d.lines)-(e.EndLine-e.StartLine)+len(replacement)-1)
	lines = append(lines, d.lines[:e.StartLine]...)
	lines = append(lines, replacement...)
	lines = append(lines, d.lines[e.EndLine+1:]...)
	d.lines = lines
	return nil
}
