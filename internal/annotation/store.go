package annotation

import (
	"fmt"
	"slices"
	"sort"

	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/log"
)

// Store owns the positional record sequence for one buffer.
//
// Store is not safe for concurrent use; callers serialize edits and
// refreshes for the same buffer.
type Store struct {
	records []blame.Record
	dirty   bool
}

// NewStore creates a store holding exactly lineCount records built from the
// parsed blame output.
func NewStore(records []blame.Record, lineCount int) *Store {
	s := &Store{}
	s.Initialize(records, lineCount)
	return s
}

// Initialize replaces the sequence with records padded (or trimmed) to
// lineCount. Lines the blame output does not cover, such as a new trailing
// line, become uncommitted sentinels.
func (s *Store) Initialize(records []blame.Record, lineCount int) {
	s.records = blame.Pad(records, lineCount)
	s.dirty = false
}

// Replace unconditionally swaps in a freshly fetched baseline. Incremental
// edits made against the previous sequence are discarded.
func (s *Store) Replace(records []blame.Record, lineCount int) {
	s.Initialize(records, lineCount)
	log.Debug(log.CatStore, "store replaced", "lines", lineCount)
}

// Len returns the number of records, which equals the buffer line count.
func (s *Store) Len() int {
	return len(s.records)
}

// At returns the record at index i.
func (s *Store) At(i int) (blame.Record, bool) {
	if i < 0 || i >= len(s.records) {
		return blame.Record{}, false
	}
	return s.records[i], true
}

// Records returns a copy of the sequence.
func (s *Store) Records() []blame.Record {
	return slices.Clone(s.records)
}

// Dirty reports whether a committed line has been edited since the last
// Initialize or MarkClean.
func (s *Store) Dirty() bool {
	return s.dirty
}

// MarkClean clears the dirty flag.
func (s *Store) MarkClean() {
	s.dirty = false
}

// SetTitles copies titles into the stored records. Callers compute titles on
// a copy from Records and write them back here.
func (s *Store) SetTitles(records []blame.Record) {
	n := min(len(records), len(s.records))
	for i := 0; i < n; i++ {
		s.records[i].Title = records[i].Title
	}
}

// ApplyEdit classifies and applies each edit in order. Every edit is
// classified against the length left by the previous one.
func (s *Store) ApplyEdit(edits ...Edit) (bool, error) {
	changed := false
	for i, e := range edits {
		ops, err := Classify(e, len(s.records))
		if err != nil {
			return changed, fmt.Errorf("edit %d: %w", i, err)
		}
		c, err := s.Apply(ops)
		if err != nil {
			return changed, fmt.Errorf("edit %d: %w", i, err)
		}
		changed = changed || c
	}
	return changed, nil
}

// Apply applies the operations of a single edit in fixed order: modified
// lines lose their attribution, deleted lines are removed from the highest
// index down, and added lines are inserted from the lowest index up.
//
// It reports whether the sequence changed. Out-of-range indices leave the
// store untouched and return ErrIndexOutOfRange.
func (s *Store) Apply(ops Ops) (bool, error) {
	deleted := uniqueSorted(ops.Deleted)
	added := slices.Clone(ops.Added)
	sort.Ints(added)

	if err := s.validate(ops.Modified, deleted, added); err != nil {
		return false, err
	}

	changed := false

	for _, i := range ops.Modified {
		if s.records[i].Committed {
			s.records[i] = blame.NewUncommitted(i + 1)
			s.dirty = true
			changed = true
		}
	}

	for k := len(deleted) - 1; k >= 0; k-- {
		i := deleted[k]
		s.records = slices.Delete(s.records, i, i+1)
		changed = true
	}

	for _, i := range added {
		s.records = slices.Insert(s.records, i, blame.NewUncommitted(i+1))
		changed = true
	}

	if changed {
		log.Debug(log.CatStore, "ops applied",
			"modified", len(ops.Modified), "deleted", len(deleted), "added", len(added), "lines", len(s.records))
	}
	return changed, nil
}

// validate checks every index against the length the store will have when
// that operation runs.
func (s *Store) validate(modified, deleted, added []int) error {
	n := len(s.records)
	for _, i := range modified {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: modified line %d, store has %d", ErrIndexOutOfRange, i, n)
		}
	}
	for _, i := range deleted {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: deleted line %d, store has %d", ErrIndexOutOfRange, i, n)
		}
	}
	n -= len(deleted)
	for _, i := range added {
		if i < 0 || i > n {
			return fmt.Errorf("%w: added line %d, store has %d", ErrIndexOutOfRange, i, n)
		}
		n++
	}
	return nil
}

func uniqueSorted(in []int) []int {
	out := slices.Clone(in)
	sort.Ints(out)
	return slices.Compact(out)
}
