package annotator

import (
	"github.com/zjrosen/gutterblame/internal/annotation"
	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/color"
)

// Line is one gutter row.
type Line struct {
	Record blame.Record
	Color  color.Pair
}

// View is a renderable snapshot of a buffer's annotations.
type View struct {
	ID    annotation.BufferID
	Path  string
	Lines []Line

	// Width is the gutter column width in display columns. Zero means
	// there is nothing to show.
	Width int

	// Distinguishable is false when fewer than two commits are present, in
	// which case colors carry no information.
	Distinguishable bool

	// Pending is true while a blame for the buffer is running.
	Pending bool
}

// Empty reports whether the view has no annotated lines.
func (v *View) Empty() bool {
	return v == nil || v.Width <= 0
}

// Records returns the records of every line in order.
func (v *View) Records() []blame.Record {
	if v == nil {
		return nil
	}
	out := make([]blame.Record, len(v.Lines))
	for i, l := range v.Lines {
		out[i] = l.Record
	}
	return out
}
