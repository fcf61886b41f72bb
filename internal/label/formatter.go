package label

import (
	"time"

	"github.com/zjrosen/gutterblame/internal/blame"
)

const (
	// DefaultMaxWidth caps the gutter column, in display columns.
	DefaultMaxWidth = 25
	// DefaultDateLayout renders dates as YYYY/MM/DD.
	DefaultDateLayout = "2006/01/02"
)

type entry struct {
	title string
	width int
}

// Formatter computes gutter titles. It remembers the title and width of
// every commit it has measured, so recomputing after an edit only measures
// commits it has not seen.
type Formatter struct {
	MaxWidth   int
	DateLayout string
	Location   *time.Location

	cache map[string]entry
}

// NewFormatter returns a formatter with the given column cap. A cap <= 0
// selects DefaultMaxWidth.
func NewFormatter(maxWidth int) *Formatter {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return &Formatter{
		MaxWidth:   maxWidth,
		DateLayout: DefaultDateLayout,
		Location:   time.Local,
		cache:      make(map[string]entry),
	}
}

// Reset forgets all memoized titles.
func (f *Formatter) Reset() {
	f.cache = make(map[string]entry)
}

// Title returns the untruncated title for a record, or "" when uncommitted.
func (f *Formatter) Title(r blame.Record) string {
	if !r.Committed {
		return ""
	}
	return f.lookup(r).title
}

func (f *Formatter) lookup(r blame.Record) entry {
	if f.cache == nil {
		f.cache = make(map[string]entry)
	}
	if e, ok := f.cache[r.CommitID]; ok {
		return e
	}

	layout := f.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}

	title := time.Unix(r.Timestamp, 0).In(loc).Format(layout) + " " + r.Author
	e := entry{title: title, width: DisplayWidth(title)}
	f.cache[r.CommitID] = e
	return e
}

// Compute sets Title on every record in place and returns the gutter column
// width. Uncommitted records get an empty title. When the widest title
// exceeds MaxWidth the column is capped and every longer title is truncated.
//
// A result <= 0 means there is nothing to render.
func (f *Formatter) Compute(records []blame.Record) int {
	maxWidth := f.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	widest := 0
	seen := make(map[string]struct{})
	for _, r := range records {
		if !r.Committed {
			continue
		}
		if _, ok := seen[r.CommitID]; ok {
			continue
		}
		seen[r.CommitID] = struct{}{}
		widest = max(widest, f.lookup(r).width)
	}

	capped := widest > maxWidth
	for i := range records {
		if !records[i].Committed {
			records[i].Title = ""
			continue
		}
		e := f.lookup(records[i])
		if capped && e.width > maxWidth {
			records[i].Title = Truncate(e.title, maxWidth)
		} else {
			records[i].Title = e.title
		}
	}

	return min(widest, maxWidth)
}
