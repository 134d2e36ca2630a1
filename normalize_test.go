package img2ascii

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	s := ComputeStats([]float64{0, 0.5, 1, 0.5})
	if s.Min != 0 || s.Max != 1 {
		t.Errorf("Expected range [0,1], got [%v,%v]", s.Min, s.Max)
	}
	if !approxEqual(s.Mean, 0.5) {
		t.Errorf("Expected mean 0.5, got %v", s.Mean)
	}
	// Population variance: (0.25 + 0 + 0.25 + 0) / 4
	if !approxEqual(s.StdDev, math.Sqrt(0.125)) {
		t.Errorf("Expected stddev %v, got %v", math.Sqrt(0.125), s.StdDev)
	}
	if !approxEqual(s.Range(), 1) {
		t.Errorf("Expected range 1, got %v", s.Range())
	}

	if empty := ComputeStats(nil); empty != (LuminanceStats{}) {
		t.Errorf("Expected zero stats for empty input, got %v", empty)
	}
}

func TestStatsBoundsClamp(t *testing.T) {
	t.Parallel()

	s := LuminanceStats{Min: 0.4, Max: 0.6, Mean: 0.5, StdDev: 0.3}
	lower, upper := s.Bounds(2)
	if lower != 0.4 || upper != 0.6 {
		t.Errorf("Expected bounds clamped to [0.4,0.6], got [%v,%v]", lower, upper)
	}

	s = LuminanceStats{Min: 0, Max: 1, Mean: 0.5, StdDev: 0.1}
	lower, upper = s.Bounds(2)
	if !approxEqual(lower, 0.3) || !approxEqual(upper, 0.7) {
		t.Errorf("Expected bounds [0.3,0.7], got [%v,%v]", lower, upper)
	}
}

func TestNormalizerMinMax(t *testing.T) {
	t.Parallel()

	stats := ComputeStats([]float64{0.2, 0.4, 0.6})
	n := NewNormalizer(NormalizeMinMax, DefaultStdDevBound, FixedExponent(1), stats)
	if got := n.Normalize(0.4); !approxEqual(got, 0.5) {
		t.Errorf("Expected 0.5, got %v", got)
	}
	if got := n.Normalize(0.2); got != 0 {
		t.Errorf("Expected min to map to 0, got %v", got)
	}
	if got := n.Normalize(0.6); got != 1 {
		t.Errorf("Expected max to map to 1, got %v", got)
	}

	n = NewNormalizer(NormalizeMinMax, DefaultStdDevBound, FixedExponent(2), stats)
	if got := n.Normalize(0.4); !approxEqual(got, 0.25) {
		t.Errorf("Expected 0.25 with exponent 2, got %v", got)
	}
}

func TestNormalizerAdaptiveClamps(t *testing.T) {
	t.Parallel()

	stats := LuminanceStats{Min: 0, Max: 1, Mean: 0.5, StdDev: 0.1}
	n := NewNormalizer(NormalizeAdaptive, 2, FixedExponent(1), stats)
	cases := []struct{ in, want float64 }{
		{0, 0},
		{0.2, 0},
		{0.3, 0},
		{0.5, 0.5},
		{0.6, 0.75},
		{0.7, 1},
		{1, 1},
	}
	for _, c := range cases {
		if got := n.Normalize(c.in); !approxEqual(got, c.want) {
			t.Errorf("Normalize(%v): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestNormalizerDegenerateRange(t *testing.T) {
	t.Parallel()

	stats := ComputeStats([]float64{0.3, 0.3, 0.3})
	for _, policy := range []NormalizationPolicy{NormalizeMinMax, NormalizeAdaptive} {
		n := NewNormalizer(policy, 2, FixedExponent(1.8), stats)
		if !n.Degenerate() {
			t.Fatalf("%s: expected degenerate range", policy)
		}
		got := n.Normalize(0.3)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("%s: expected finite output, got %v", policy, got)
		}
		if want := math.Pow(0.3, 1.8); !approxEqual(got, want) {
			t.Errorf("%s: expected absolute luminance %v, got %v", policy, want, got)
		}
	}

	black := NewNormalizer(NormalizeMinMax, 2, FixedExponent(1.8), LuminanceStats{})
	if got := black.Normalize(0); got != 0 {
		t.Errorf("Expected uniform black to normalize to 0, got %v", got)
	}
	white := NewNormalizer(NormalizeMinMax, 2, FixedExponent(1.8),
		LuminanceStats{Min: 1, Max: 1, Mean: 1})
	if got := white.Normalize(1); got != 1 {
		t.Errorf("Expected uniform white to normalize to 1, got %v", got)
	}
}

func TestNormalizerAdaptiveZeroBound(t *testing.T) {
	t.Parallel()

	var lum []float64
	for _, v := range []uint8{20, 128, 240} {
		lum = append(lum, Luminance(v, v, v, DefaultGamma, TransferPiecewise))
	}
	n := NewNormalizer(NormalizeAdaptive, 0, FixedExponent(1), ComputeStats(lum))
	if n.Degenerate() {
		t.Fatal("Expected a varied image not to be degenerate with k=0")
	}
	// k=0 collapses the window onto the mean, so the image thresholds there
	want := []float64{0, 0, 1}
	for i, l := range lum {
		if got := n.Normalize(l); got != want[i] {
			t.Errorf("Normalize(%v): expected %v, got %v", l, want[i], got)
		}
	}
}

func TestNormalizeClampsOutOfRange(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(NormalizeMinMax, 2, FixedExponent(1),
		LuminanceStats{Min: 0.25, Max: 0.75})
	for _, v := range []float64{-5, 0, 0.1, 2, math.NaN(), math.Inf(1)} {
		got := n.Normalize(v)
		if !(got >= 0 && got <= 1) {
			t.Errorf("Normalize(%v) = %v, expected a value in [0,1]", v, got)
		}
	}
}

func TestVarianceScaledExponent(t *testing.T) {
	t.Parallel()

	c := VarianceScaled(2)
	if got := c.Exponent(LuminanceStats{StdDev: 0.25}); !approxEqual(got, 1.5) {
		t.Errorf("Expected exponent 1.5, got %v", got)
	}
	if got := FixedExponent(1.8).Exponent(LuminanceStats{StdDev: 0.25}); got != 1.8 {
		t.Errorf("Expected fixed exponent 1.8, got %v", got)
	}
}

func TestParseContrast(t *testing.T) {
	t.Parallel()

	cases := map[string]ContrastMode{
		"fixed:1.8":  FixedExponent(1.8),
		"variance:2": VarianceScaled(2),
		"1.5":        FixedExponent(1.5),
		"STDDEV:3":   VarianceScaled(3),
	}
	for s, want := range cases {
		got, err := ParseContrast(s)
		if err != nil {
			t.Errorf("ParseContrast(%q) failed: %v", s, err)
			continue
		}
		if got != want {
			t.Errorf("ParseContrast(%q): expected %v, got %v", s, want, got)
		}
		if again, err := ParseContrast(got.String()); err != nil || again != got {
			t.Errorf("%v did not survive String/Parse: %v, %v", got, again, err)
		}
	}

	for _, s := range []string{"fixed:-1", "variance:nan", "bogus:1", "fixed:abc", ""} {
		if _, err := ParseContrast(s); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseContrast(%q): expected ErrInvalidInput, got %v", s, err)
		}
	}
}

func TestParseNormalization(t *testing.T) {
	t.Parallel()

	if p, err := ParseNormalization("MinMax"); err != nil || p != NormalizeMinMax {
		t.Errorf("Expected minmax, got %v, %v", p, err)
	}
	if p, err := ParseNormalization("adaptive"); err != nil || p != NormalizeAdaptive {
		t.Errorf("Expected adaptive, got %v, %v", p, err)
	}
	if _, err := ParseNormalization("histogram"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeAllParallel(t *testing.T) {
	t.Parallel()

	lum := make([]float64, 12*9)
	for i := range lum {
		lum[i] = float64(i%17) / 16
	}
	n := NewNormalizer(NormalizeAdaptive, 1, VarianceScaled(2), ComputeStats(lum))
	seq := n.NormalizeAll(lum, 12, 1)
	par := n.NormalizeAll(lum, 12, 4)
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("Index %d differs: %v vs %v", i, seq[i], par[i])
		}
		if seq[i] != n.Normalize(lum[i]) {
			t.Fatalf("Index %d: NormalizeAll disagrees with Normalize", i)
		}
	}
}
