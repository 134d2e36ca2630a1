package img2ascii

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizationPolicy chooses how the luminance range is stretched to [0,1].
type NormalizationPolicy int

const (
	// NormalizeAdaptive maps [mean-k*std, mean+k*std] (clipped to the
	// observed range) onto [0,1] and saturates everything outside it, so a
	// handful of extreme pixels cannot flatten the rest of the image.
	NormalizeAdaptive NormalizationPolicy = iota

	// NormalizeMinMax maps [min, max] linearly onto [0,1].
	NormalizeMinMax
)

// DefaultStdDevBound is the k in mean ± k·stdDev for NormalizeAdaptive.
const DefaultStdDevBound = 2.0

func (p NormalizationPolicy) String() string {
	switch p {
	case NormalizeAdaptive:
		return "adaptive"
	case NormalizeMinMax:
		return "minmax"
	default:
		return fmt.Sprintf("NormalizationPolicy(%d)", int(p))
	}
}

// ParseNormalization parses "adaptive" or "minmax".
func ParseNormalization(s string) (NormalizationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adaptive", "stddev", "statistical":
		return NormalizeAdaptive, nil
	case "minmax", "min-max", "range":
		return NormalizeMinMax, nil
	}
	return 0, fmt.Errorf("%w: unknown normalization %q "+
		"(options are adaptive, minmax)", ErrInvalidInput, s)
}

// ContrastKind distinguishes the two contrast curve formulas.
type ContrastKind int

const (
	// ContrastFixed uses a constant exponent.
	ContrastFixed ContrastKind = iota
	// ContrastVariance uses 1 + k·stdDev as the exponent.
	ContrastVariance
)

// ContrastMode is the power curve applied after range mapping.
type ContrastMode struct {
	Kind  ContrastKind
	Value float64
}

// FixedExponent returns a contrast curve n^e. Exponents above 1 pull the
// midtones down.
func FixedExponent(e float64) ContrastMode {
	return ContrastMode{Kind: ContrastFixed, Value: e}
}

// VarianceScaled returns a contrast curve whose exponent is 1 + k·stdDev,
// so the curve steepens for high-contrast sources.
func VarianceScaled(k float64) ContrastMode {
	return ContrastMode{Kind: ContrastVariance, Value: k}
}

// Exponent resolves the curve's exponent for an image.
func (c ContrastMode) Exponent(s LuminanceStats) float64 {
	if c.Kind == ContrastVariance {
		return 1 + c.Value*s.StdDev
	}
	return c.Value
}

func (c ContrastMode) String() string {
	v := strconv.FormatFloat(c.Value, 'g', -1, 64)
	if c.Kind == ContrastVariance {
		return "variance:" + v
	}
	return "fixed:" + v
}

// ParseContrast parses "fixed:<exponent>" or "variance:<k>". A bare number
// is taken as a fixed exponent.
func ParseContrast(s string) (ContrastMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	kind, value, found := strings.Cut(s, ":")
	if !found {
		kind, value = "fixed", s
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ContrastMode{}, fmt.Errorf("%w: bad contrast value %q",
			ErrInvalidInput, s)
	}
	switch kind {
	case "fixed", "exp", "exponent":
		return FixedExponent(v), nil
	case "variance", "stddev":
		return VarianceScaled(v), nil
	}
	return ContrastMode{}, fmt.Errorf("%w: unknown contrast mode %q "+
		"(options are fixed:<e>, variance:<k>)", ErrInvalidInput, kind)
}

// Normalizer maps luminance to [0,1] for one image: range mapping by
// policy, then the contrast curve.
type Normalizer struct {
	Policy      NormalizationPolicy
	StdDevBound float64
	Contrast    ContrastMode
	Stats       LuminanceStats

	lower, upper float64
	exponent     float64
	degenerate   bool
}

// NewNormalizer binds a policy and contrast curve to an image's stats.
func NewNormalizer(
	policy NormalizationPolicy,
	k float64,
	contrast ContrastMode,
	stats LuminanceStats,
) *Normalizer {
	n := &Normalizer{
		Policy:      policy,
		StdDevBound: k,
		Contrast:    contrast,
		Stats:       stats,
		exponent:    contrast.Exponent(stats),
	}
	if policy == NormalizeAdaptive {
		n.lower, n.upper = stats.Bounds(k)
	} else {
		n.lower, n.upper = stats.Min, stats.Max
	}
	// A uniform image has no contrast to stretch; fall back to the absolute
	// luminance so it keeps its tone. A zero-width adaptive window over a
	// varied image instead thresholds at the mean in Range.
	n.degenerate = !(stats.Max > stats.Min)
	return n
}

// Degenerate reports whether every pixel of the image has one luminance.
func (n *Normalizer) Degenerate() bool {
	return n.degenerate
}

// Bounds returns the luminance interval mapped onto [0,1].
func (n *Normalizer) Bounds() (lower, upper float64) {
	return n.lower, n.upper
}

// Range maps one luminance into [0,1] without the contrast curve.
func (n *Normalizer) Range(l float64) float64 {
	switch {
	case n.degenerate:
		return clamp01(l)
	case l <= n.lower:
		return 0
	case l >= n.upper:
		return 1
	}
	return clamp01((l - n.lower) / (n.upper - n.lower))
}

// Normalize maps one luminance into [0,1] including the contrast curve.
func (n *Normalizer) Normalize(l float64) float64 {
	return clamp01(math.Pow(n.Range(l), n.exponent))
}

// NormalizeAll maps every value of lum into a fresh slice.
func (n *Normalizer) NormalizeAll(lum []float64, width, workers int) []float64 {
	out := make([]float64, len(lum))
	if width <= 0 {
		width = len(lum)
	}
	rows := 0
	if width > 0 {
		rows = len(lum) / width
	}
	forEachBand(rows, workers, func(y0, y1 int) {
		for i := y0 * width; i < y1*width; i++ {
			out[i] = n.Normalize(lum[i])
		}
	})
	return out
}

// clamp01 clamps v to [0,1]; NaN becomes 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
