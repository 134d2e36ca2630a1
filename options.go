package img2ascii

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Default sizing of the character canvas.
const (
	DefaultGamma          = 2.2
	DarkGamma             = 1.6
	DefaultFixedExponent  = 1.8
	DefaultVarianceK      = 2.0
	DefaultLandscapeWidth = 400
	DefaultPortraitHeight = 200
	DefaultCharAspect     = 0.7
)

// Sizing controls the canvas the source image is resampled onto.
type Sizing struct {
	// LandscapeWidth is the column count used when the source is wider
	// than tall.
	LandscapeWidth int
	// PortraitHeight is the row count used otherwise.
	PortraitHeight int
	// CharAspect compensates for glyphs being taller than wide.
	CharAspect float64
}

// DefaultSizing returns the 400 column / 200 row, 0.7 aspect canvas.
func DefaultSizing() Sizing {
	return Sizing{
		LandscapeWidth: DefaultLandscapeWidth,
		PortraitHeight: DefaultPortraitHeight,
		CharAspect:     DefaultCharAspect,
	}
}

// TargetSize computes the canvas for a srcW x srcH image. The long axis is
// fixed by orientation and the other is derived from the source aspect and
// the character aspect correction; both are at least 1.
func (s Sizing) TargetSize(srcW, srcH int) (width, height int, err error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, fmt.Errorf("%w: source image is %dx%d",
			ErrInvalidInput, srcW, srcH)
	}
	if srcW > srcH {
		width = s.LandscapeWidth
		height = int(math.Floor(
			float64(width) / float64(srcW) * float64(srcH) * s.CharAspect))
	} else {
		height = s.PortraitHeight
		width = int(math.Floor(
			float64(height) / (float64(srcH) * s.CharAspect) * float64(srcW)))
	}
	return max(width, 1), max(height, 1), nil
}

// Config is the complete set of conversion parameters.
type Config struct {
	Gamma         float64
	Transfer      TransferMode
	Normalization NormalizationPolicy
	// StdDevBound is k in mean ± k·stdDev for adaptive normalization.
	StdDevBound  float64
	Contrast     ContrastMode
	DarknessBias bool
	Invert       bool
	Ramp         Ramp
	Spacer       string
	Sizing       Sizing
	// Workers > 1 splits the per-pixel passes across goroutines.
	Workers int
}

// DefaultConfig is the adaptive preset with the default ramp and sizing.
func DefaultConfig() Config {
	return PresetAdaptive()
}

func baseConfig() Config {
	return Config{
		Gamma:         DefaultGamma,
		Transfer:      TransferPiecewise,
		Normalization: NormalizeMinMax,
		StdDevBound:   DefaultStdDevBound,
		Contrast:      FixedExponent(DefaultFixedExponent),
		Ramp:          DefaultRamp(),
		Spacer:        DefaultSpacer,
		Sizing:        DefaultSizing(),
		Workers:       1,
	}
}

// PresetAdaptive is the final revision of the converter: sRGB transfer at
// gamma 2.2, mean ± 2σ normalization and a variance-scaled curve.
func PresetAdaptive() Config {
	c := baseConfig()
	c.Normalization = NormalizeAdaptive
	c.Contrast = VarianceScaled(DefaultVarianceK)
	return c
}

// PresetMinMax stretches the raw range and applies a fixed 1.8 curve.
func PresetMinMax() Config {
	return baseConfig()
}

// PresetDark lowers gamma to 1.6 and shifts every glyph index toward the
// dark end of the ramp.
func PresetDark() Config {
	c := baseConfig()
	c.Gamma = DarkGamma
	c.DarknessBias = true
	return c
}

// PresetDirect uses the plain power transfer without the linear toe.
func PresetDirect() Config {
	c := baseConfig()
	c.Transfer = TransferDirect
	return c
}

var presets = map[string]func() Config{
	"adaptive": PresetAdaptive,
	"minmax":   PresetMinMax,
	"dark":     PresetDark,
	"direct":   PresetDirect,
}

// PresetByName returns a named preset.
func PresetByName(name string) (Config, error) {
	fn, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q (options are %s)",
			ErrInvalidInput, name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames lists the presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate rejects configurations that cannot produce output.
func (c Config) Validate() error {
	switch {
	case !(c.Gamma > 0) || math.IsInf(c.Gamma, 0):
		return fmt.Errorf("%w: gamma must be positive, got %g",
			ErrInvalidInput, c.Gamma)
	case len(c.Ramp) == 0:
		return fmt.Errorf("%w: glyph ramp is empty", ErrInvalidInput)
	case c.StdDevBound < 0 || math.IsNaN(c.StdDevBound):
		return fmt.Errorf("%w: stddev bound must be non-negative, got %g",
			ErrInvalidInput, c.StdDevBound)
	case c.Contrast.Kind == ContrastFixed && !(c.Contrast.Value > 0):
		return fmt.Errorf("%w: contrast exponent must be positive, got %g",
			ErrInvalidInput, c.Contrast.Value)
	case c.Contrast.Kind == ContrastVariance && (c.Contrast.Value < 0 ||
		math.IsNaN(c.Contrast.Value)):
		return fmt.Errorf("%w: variance contrast factor must be "+
			"non-negative, got %g", ErrInvalidInput, c.Contrast.Value)
	case c.Sizing.LandscapeWidth <= 0 || c.Sizing.PortraitHeight <= 0:
		return fmt.Errorf("%w: target size must be positive, got %dx%d",
			ErrInvalidInput, c.Sizing.LandscapeWidth, c.Sizing.PortraitHeight)
	case !(c.Sizing.CharAspect > 0):
		return fmt.Errorf("%w: character aspect must be positive, got %g",
			ErrInvalidInput, c.Sizing.CharAspect)
	}
	return nil
}

// Option is a functional option for configuring a Converter.
type Option func(*Config)

// WithConfig replaces the whole configuration, typically with a preset.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithGamma sets the transfer gamma.
func WithGamma(gamma float64) Option {
	return func(c *Config) {
		c.Gamma = gamma
	}
}

// WithTransfer selects the piecewise or direct transfer curve.
func WithTransfer(mode TransferMode) Option {
	return func(c *Config) {
		c.Transfer = mode
	}
}

// WithNormalization selects the range mapping policy.
func WithNormalization(policy NormalizationPolicy) Option {
	return func(c *Config) {
		c.Normalization = policy
	}
}

// WithStdDevBound sets k for adaptive normalization.
func WithStdDevBound(k float64) Option {
	return func(c *Config) {
		c.StdDevBound = k
	}
}

// WithContrast sets the contrast curve.
func WithContrast(mode ContrastMode) Option {
	return func(c *Config) {
		c.Contrast = mode
	}
}

// WithDarknessBias enables the fixed glyph index shift.
func WithDarknessBias(enabled bool) Option {
	return func(c *Config) {
		c.DarknessBias = enabled
	}
}

// WithInvert flips the mapping for dark glyphs on a light background.
func WithInvert(invert bool) Option {
	return func(c *Config) {
		c.Invert = invert
	}
}

// WithRamp sets the glyph ramp, darkest first.
func WithRamp(ramp Ramp) Option {
	return func(c *Config) {
		c.Ramp = ramp
	}
}

// WithSpacer sets the string written after every glyph.
func WithSpacer(spacer string) Option {
	return func(c *Config) {
		c.Spacer = spacer
	}
}

// WithSizing sets the canvas sizing.
func WithSizing(s Sizing) Option {
	return func(c *Config) {
		c.Sizing = s
	}
}

// WithWorkers sets the number of goroutines for the per-pixel passes.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}
