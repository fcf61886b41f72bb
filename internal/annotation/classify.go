// Package annotation keeps per-line blame records aligned with a live buffer
// as it is edited.
//
// The store is positional: a record's identity is its index. Edits are
// classified into line operations which are then spliced into the record
// slice so that its length always equals the buffer's line count.
package annotation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIndexOutOfRange reports an edit or operation that references a line
// outside the store. It indicates a broken integration, not bad user input.
var ErrIndexOutOfRange = errors.New("line index out of range")

// Edit describes one text replacement reported by the host: the range from
// (StartLine, StartChar) to (EndLine, EndChar) is replaced by Text. Lines and
// characters are 0-based.
type Edit struct {
	StartLine int    `yaml:"start_line" json:"startLine"`
	StartChar int    `yaml:"start_char" json:"startChar"`
	EndLine   int    `yaml:"end_line" json:"endLine"`
	EndChar   int    `yaml:"end_char" json:"endChar"`
	Text      string `yaml:"text" json:"text"`
}

// Ops are the line operations derived from one Edit.
//
// Deleted and Modified use pre-edit line numbers. Added holds insertion
// points in the slice as it is progressively mutated, applied low to high.
type Ops struct {
	Added    []int
	Deleted  []int
	Modified []int
}

// Empty reports whether the ops contain nothing to apply.
func (o Ops) Empty() bool {
	return len(o.Added) == 0 && len(o.Deleted) == 0 && len(o.Modified) == 0
}

// Classify converts an edit into line operations against a store holding
// lineCount records.
func Classify(e Edit, lineCount int) (Ops, error) {
	if e.StartLine < 0 || e.EndLine < e.StartLine || e.EndLine >= lineCount {
		return Ops{}, fmt.Errorf("%w: edit lines %d..%d, store has %d",
			ErrIndexOutOfRange, e.StartLine, e.EndLine, lineCount)
	}

	if e.Text == "" {
		return classifyDeletion(e), nil
	}
	if e.StartLine == e.EndLine && e.StartChar == e.EndChar && isNewline(e.Text) {
		if e.StartChar > 0 {
			return Ops{Added: []int{e.StartLine + 1}}, nil
		}
		return Ops{Added: []int{e.StartLine}}, nil
	}
	return classifyReplace(e), nil
}

// classifyDeletion handles edits with no replacement text.
func classifyDeletion(e Edit) Ops {
	boundaries := e.EndLine - e.StartLine

	switch {
	case boundaries == 0:
		if e.StartChar == e.EndChar {
			return Ops{}
		}
		return Ops{Modified: []int{e.StartLine}}

	case boundaries == 1:
		// A join: the next line's remainder is pulled onto StartLine.
		ops := Ops{Deleted: []int{e.StartLine + 1}}
		if e.EndChar > 0 {
			ops.Modified = []int{e.StartLine}
		}
		return ops

	case e.StartChar == 0:
		// StartLine through EndLine-1 are fully enclosed; EndLine's
		// remainder slides up into StartLine's slot.
		ops := Ops{Deleted: lineRange(e.StartLine, e.EndLine-1)}
		if e.EndChar > 0 {
			ops.Modified = []int{e.EndLine}
		}
		return ops

	default:
		// The range starts mid-line, so StartLine survives and absorbs the
		// remainder of EndLine.
		ops := Ops{Deleted: lineRange(e.StartLine+1, e.EndLine)}
		if e.EndChar > 0 {
			ops.Modified = []int{e.StartLine}
		}
		return ops
	}
}

// classifyReplace handles insertions and replacements.
func classifyReplace(e Edit) Ops {
	crossLines := e.EndLine - e.StartLine + 1
	textLines := countLines(e.Text)
	diff := textLines - crossLines

	switch {
	case diff > 0:
		added := make([]int, 0, diff)
		for i := 1; i <= diff; i++ {
			added = append(added, e.EndLine+i)
		}
		return Ops{
			Modified: lineRange(e.StartLine, e.EndLine),
			Added:    added,
		}
	case diff < 0:
		return Ops{
			Modified: lineRange(e.StartLine, e.EndLine+diff),
			Deleted:  lineRange(e.EndLine+diff+1, e.EndLine),
		}
	default:
		return Ops{Modified: lineRange(e.StartLine, e.EndLine)}
	}
}

// isNewline reports whether text is a single line terminator, ignoring
// whitespace the host inserted after it (auto-indent).
func isNewline(text string) bool {
	trimmed := strings.TrimRight(text, " \t")
	return trimmed == "\n" || trimmed == "\r\n"
}

// countLines returns how many lines text occupies once inserted.
func countLines(text string) int {
	return strings.Count(text, "\n") + 1
}

// lineRange returns [from, to] inclusive, or nil when empty.
func lineRange(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
