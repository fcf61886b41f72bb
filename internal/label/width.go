// Package label builds the fixed-width gutter titles shown next to each
// annotated line.
package label

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks a truncated title.
const Ellipsis = "…"

type runeRange struct {
	lo, hi rune
}

// Ranges whose width is pinned regardless of locale. Anything outside them
// falls back to go-runewidth with East Asian ambiguous characters treated as
// narrow.
var (
	wideRanges = []runeRange{
		{0x2E80, 0x9FFF},   // CJK radicals through unified ideographs
		{0xAC00, 0xD7A3},   // Hangul syllables
		{0xF900, 0xFAFF},   // CJK compatibility ideographs
		{0xFE30, 0xFE4F},   // CJK compatibility forms
		{0xFF00, 0xFFEF},   // halfwidth and fullwidth forms
		{0x1F300, 0x1F64F}, // misc symbols and pictographs, emoticons
		{0x1F680, 0x1F6FF}, // transport and map
		{0x1F900, 0x1F9FF}, // supplemental symbols and pictographs
	}
	combiningRanges = []runeRange{
		{0x0300, 0x036F},
		{0x1AB0, 0x1AFF},
		{0x1DC0, 0x1DFF},
		{0x20D0, 0x20FF},
		{0xFE20, 0xFE2F},
	}
)

var narrow = &runewidth.Condition{EastAsianWidth: false}

func inRanges(r rune, ranges []runeRange) bool {
	for _, rr := range ranges {
		if r >= rr.lo && r <= rr.hi {
			return true
		}
	}
	return false
}

// RuneWidth returns the number of display columns r occupies.
func RuneWidth(r rune) int {
	switch {
	case inRanges(r, combiningRanges):
		return 0
	case inRanges(r, wideRanges):
		return 2
	}
	if w := narrow.RuneWidth(r); w > 0 {
		return w
	}
	// Control and other zero-width runes outside the combining blocks still
	// take a column in the gutter.
	if r < 0x20 || r == 0x7F {
		return 1
	}
	return 0
}

// DisplayWidth returns the display width of s.
func DisplayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// Truncate shortens s to fit limit columns. Runes are taken greedily while
// the running width stays within limit-1, then Ellipsis is appended. Strings
// that already fit are returned unchanged.
func Truncate(s string, limit int) string {
	if DisplayWidth(s) <= limit {
		return s
	}
	if limit <= 0 {
		return ""
	}

	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := RuneWidth(r)
		if w+rw > limit-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	b.WriteString(Ellipsis)
	return b.String()
}
