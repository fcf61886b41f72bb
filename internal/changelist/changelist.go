// Package changelist parses NUL-delimited `git show --name-status -z`
// output into file change records.
package changelist

import (
	"path/filepath"
	"strings"
)

// Status is the kind of change applied to a file.
type Status int

const (
	Added Status = iota
	Modified
	Deleted
	Renamed
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Code returns the single-letter git status code.
func (s Status) Code() string {
	switch s {
	case Added:
		return "A"
	case Modified:
		return "M"
	case Deleted:
		return "D"
	case Renamed:
		return "R"
	default:
		return "?"
	}
}

// Change is one file entry of a commit's change list.
type Change struct {
	Status        Status
	Path          string
	OriginalPath  string // equals Path unless renamed
	RenamedToPath string // set only when renamed
}

// statusFromCode matches on the first character only, so rename codes with
// a similarity score (R100, R087) are recognized.
func statusFromCode(code string) (Status, bool) {
	if code == "" {
		return 0, false
	}
	switch code[0] {
	case 'A':
		return Added, true
	case 'M':
		return Modified, true
	case 'D':
		return Deleted, true
	case 'R':
		return Renamed, true
	default:
		return 0, false
	}
}

// Parse reads `status NUL path NUL [renamedTo NUL] ...` tokens. Relative
// paths are resolved against root.
//
// Parsing stops at the first unrecognized status or missing path token and
// returns what was collected so far.
func Parse(raw string, root string) []Change {
	tokens := strings.Split(raw, "\x00")
	changes := make([]Change, 0, len(tokens)/2)

	next := func(i *int) (string, bool) {
		if *i >= len(tokens) {
			return "", false
		}
		tok := tokens[*i]
		*i++
		return tok, tok != ""
	}

	for i := 0; i < len(tokens); {
		code, ok := next(&i)
		if !ok {
			break
		}
		// `git show` may leave a newline before the first status token.
		status, ok := statusFromCode(strings.TrimLeft(code, "\n"))
		if !ok {
			break
		}

		path, ok := next(&i)
		if !ok {
			break
		}
		c := Change{
			Status:       status,
			Path:         resolve(root, path),
			OriginalPath: resolve(root, path),
		}

		if status == Renamed {
			to, ok := next(&i)
			if !ok {
				break
			}
			c.RenamedToPath = resolve(root, to)
		}

		changes = append(changes, c)
	}

	return changes
}

func resolve(root, path string) string {
	if root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
