package annotator

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/color"
	"github.com/zjrosen/gutterblame/internal/config"
	"github.com/zjrosen/gutterblame/internal/label"
)

// Options configures an Annotator.
type Options struct {
	Format blame.Format

	MaxWidth   int
	DateLayout string
	Location   *time.Location

	ColorMode         color.Mode
	Saturation        float64
	DecayHalfLifeDays float64
	SaturationFloor   float64

	CacheTTL     time.Duration
	DisableCache bool

	// Tracer may be nil.
	Tracer trace.Tracer
}

// DefaultOptions returns porcelain parsing, a 25 column cap, and golden
// angle colors.
func DefaultOptions() Options {
	return Options{
		Format:          blame.FormatPorcelain,
		MaxWidth:        label.DefaultMaxWidth,
		DateLayout:      label.DefaultDateLayout,
		Location:        time.Local,
		ColorMode:       color.ModeGolden,
		Saturation:      0.65,
		SaturationFloor: 0.15,
		CacheTTL:        30 * time.Minute,
	}
}

// OptionsFromConfig maps a validated config onto Options.
func OptionsFromConfig(cfg config.Config, tracer trace.Tracer) (Options, error) {
	loc, err := cfg.Label.Location()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Format:            cfg.BlameFormat(),
		MaxWidth:          cfg.Label.MaxWidth,
		DateLayout:        cfg.Label.DateLayout,
		Location:          loc,
		ColorMode:         cfg.ColorMode(),
		Saturation:        cfg.Color.Saturation,
		DecayHalfLifeDays: cfg.Color.DecayHalfLifeDays,
		SaturationFloor:   cfg.Color.SaturationFloor,
		CacheTTL:          cfg.Cache.TTL,
		DisableCache:      cfg.Cache.Disabled,
		Tracer:            tracer,
	}, nil
}
