// Package color assigns each commit a stable gutter color.
package color

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/zjrosen/gutterblame/internal/blame"
)

// goldenAngle is 360 / φ², the hue step that keeps successive hashes far
// apart on the color wheel.
const goldenAngle = 137.50776405003785

// Mode selects how a hash becomes a hue.
type Mode int

const (
	// ModeGolden spreads hues by golden-angle stepping.
	ModeGolden Mode = iota
	// ModePlain uses hash % 360.
	ModePlain
)

// ParseMode maps a config value to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "golden":
		return ModeGolden, true
	case "plain":
		return ModePlain, true
	default:
		return ModeGolden, false
	}
}

// String returns the config name of the mode.
func (m Mode) String() string {
	if m == ModePlain {
		return "plain"
	}
	return "golden"
}

// Pair holds colors for light and dark backgrounds as #rrggbb. The zero
// Pair is transparent.
type Pair struct {
	Light string
	Dark  string
}

// Transparent is the pair renderers use when colors are suppressed.
var Transparent = Pair{}

// IsTransparent reports whether the pair paints nothing.
func (p Pair) IsTransparent() bool {
	return p.Light == "" && p.Dark == ""
}

// Adaptive converts the pair to a lipgloss color.
func (p Pair) Adaptive() lipgloss.TerminalColor {
	if p.IsTransparent() {
		return lipgloss.NoColor{}
	}
	return lipgloss.AdaptiveColor{Light: p.Light, Dark: p.Dark}
}

// Hash is the 32-bit string hash hash = c + ((hash << 5) - hash).
func Hash(id string) int32 {
	var h int32
	for _, c := range id {
		h = int32(c) + ((h << 5) - h)
	}
	return h
}

// Hue maps a commit id to a hue in [0, 360).
func Hue(id string, mode Mode) float64 {
	h := math.Abs(float64(Hash(id)))
	if mode == ModePlain {
		return math.Mod(h, 360)
	}
	return math.Mod(h*goldenAngle, 360)
}

// Assigner derives and memoizes colors per commit id.
type Assigner struct {
	Mode Mode

	// Saturation is used for fresh commits.
	Saturation float64
	// HalfLifeDays halves the distance to Floor every that many days of
	// commit age. Zero disables decay.
	HalfLifeDays float64
	// Floor is the saturation old commits decay toward.
	Floor float64

	LightLightness float64
	DarkLightness  float64

	Now func() time.Time

	memo map[string]Pair
}

// NewAssigner returns an assigner with default saturation and lightness and
// no age decay.
func NewAssigner(mode Mode) *Assigner {
	return &Assigner{
		Mode:           mode,
		Saturation:     0.65,
		Floor:          0.15,
		LightLightness: 0.45,
		DarkLightness:  0.65,
		Now:            time.Now,
		memo:           make(map[string]Pair),
	}
}

// ColorFor returns the colors for a commit. The first call for an id fixes
// its colors for the lifetime of the assigner.
func (a *Assigner) ColorFor(id string, timestamp int64) Pair {
	if a.memo == nil {
		a.memo = make(map[string]Pair)
	}
	if p, ok := a.memo[id]; ok {
		return p
	}

	hue := Hue(id, a.Mode)
	sat := a.saturation(timestamp)
	p := Pair{
		Light: colorful.Hsl(hue, sat, a.LightLightness).Clamped().Hex(),
		Dark:  colorful.Hsl(hue, sat, a.DarkLightness).Clamped().Hex(),
	}
	a.memo[id] = p
	return p
}

// ColorForRecord returns Transparent for uncommitted records.
func (a *Assigner) ColorForRecord(r blame.Record) Pair {
	if !r.Committed {
		return Transparent
	}
	return a.ColorFor(r.CommitID, r.Timestamp)
}

func (a *Assigner) saturation(timestamp int64) float64 {
	if a.HalfLifeDays <= 0 || timestamp <= 0 {
		return a.Saturation
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	ageDays := now().Sub(time.Unix(timestamp, 0)).Hours() / 24
	if ageDays <= 0 {
		return a.Saturation
	}

	decay := math.Exp(-math.Ln2 * ageDays / a.HalfLifeDays)
	return a.Floor + (a.Saturation-a.Floor)*decay
}

// Distinguishable reports whether colors carry information for the given
// records: at least two distinct committed ids must be present.
func Distinguishable(records []blame.Record) bool {
	first := ""
	for _, r := range records {
		if !r.Committed {
			continue
		}
		if first == "" {
			first = r.CommitID
			continue
		}
		if r.CommitID != first {
			return true
		}
	}
	return false
}
