// Package textdiff derives buffer edit events from two versions of a text,
// for hosts that only see whole-file saves.
package textdiff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/gutterblame/internal/annotation"
)

// position is a 0-based line and rune offset.
type position struct {
	line, char int
}

// advance returns p moved past text.
func (p position) advance(text string) position {
	n := strings.Count(text, "\n")
	if n == 0 {
		p.char += utf8.RuneCountInString(text)
		return p
	}
	p.line += n
	p.char = utf8.RuneCountInString(text[strings.LastIndexByte(text, '\n')+1:])
	return p
}

// Edits returns edits that turn before into after when applied in order,
// each against the text the previous one left. A deletion followed by an
// insertion at the same spot becomes one replacement, so rewritten lines are
// reported as modified rather than removed and re-added.
func Edits(before, after string) []annotation.Edit {
	if before == after {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)

	var edits []annotation.Edit
	var pos position
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos = pos.advance(d.Text)

		case diffmatchpatch.DiffDelete:
			end := pos.advance(d.Text)
			e := annotation.Edit{StartLine: pos.line, StartChar: pos.char, EndLine: end.line, EndChar: end.char}
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				i++
				e.Text = diffs[i].Text
				pos = pos.advance(e.Text)
			}
			edits = append(edits, e)

		case diffmatchpatch.DiffInsert:
			edits = append(edits, annotation.Edit{
				StartLine: pos.line, StartChar: pos.char,
				EndLine: pos.line, EndChar: pos.char,
				Text: d.Text,
			})
			pos = pos.advance(d.Text)
		}
	}
	return edits
}
