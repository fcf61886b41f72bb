// Package blame turns raw `git blame` output into ordered per-line
// attribution records.
package blame

import "strings"

// UncommittedID is the commit id git reports for lines that are not yet
// committed (working tree or buffer edits).
const UncommittedID = "0000000000000000000000000000000000000000"

// Format selects which blame invocation produced the raw text.
type Format int

const (
	// FormatPorcelain is `git blame --line-porcelain`: one header block per line.
	FormatPorcelain Format = iota
	// FormatIncremental is `git blame --incremental`: run-length blocks with
	// metadata emitted only on a commit's first appearance.
	FormatIncremental
)

// String returns the config name of the format.
func (f Format) String() string {
	switch f {
	case FormatPorcelain:
		return "porcelain"
	case FormatIncremental:
		return "incremental"
	default:
		return "unknown"
	}
}

// ParseFormat maps a config value to a Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "porcelain", "line-porcelain":
		return FormatPorcelain, true
	case "incremental":
		return FormatIncremental, true
	default:
		return FormatPorcelain, false
	}
}

// Record is the attribution of a single buffer line.
type Record struct {
	LineNumber int    // 1-based final line number when the record was created
	CommitID   string // UncommittedID for lines without history
	Author     string
	AuthorMail string
	Summary    string
	Timestamp  int64 // author time, seconds since epoch; 0 when uncommitted
	Committed  bool
	Title      string // render label, derived by the label package
}

// NewUncommitted returns the sentinel record for a line with no history.
func NewUncommitted(line int) Record {
	return Record{
		LineNumber: line,
		CommitID:   UncommittedID,
	}
}

// IsUncommittedID reports whether id is the all-zero sentinel. Abbreviated
// ids (`git blame -s` and friends) are accepted as long as every digit is 0.
func IsUncommittedID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] != '0' {
			return false
		}
	}
	return true
}

// ShortID returns the first 8 characters of the commit id.
func (r Record) ShortID() string {
	if len(r.CommitID) > 8 {
		return r.CommitID[:8]
	}
	return r.CommitID
}

// Pad returns a dense slice of exactly lineCount records. Records are placed
// by their LineNumber; positions nobody claims get uncommitted sentinels, and
// records beyond lineCount are dropped.
func Pad(records []Record, lineCount int) []Record {
	if lineCount <= 0 {
		return []Record{}
	}

	out := make([]Record, lineCount)
	filled := make([]bool, lineCount)
	for _, r := range records {
		idx := r.LineNumber - 1
		if idx < 0 || idx >= lineCount || filled[idx] {
			continue
		}
		out[idx] = r
		filled[idx] = true
	}
	for i := range out {
		if !filled[i] {
			out[i] = NewUncommitted(i + 1)
		}
	}
	return out
}
