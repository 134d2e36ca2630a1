package img2ascii

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LuminanceStats summarizes a luminance array. StdDev is the population
// standard deviation.
type LuminanceStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// ComputeStats scans values once for its range and moments. An empty slice
// yields the zero value.
func ComputeStats(values []float64) LuminanceStats {
	if len(values) == 0 {
		return LuminanceStats{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return LuminanceStats{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
	}
}

// Range returns Max - Min.
func (s LuminanceStats) Range() float64 {
	return s.Max - s.Min
}

// Bounds returns the adaptive normalization interval
// [max(mean-k*std, min), min(mean+k*std, max)].
func (s LuminanceStats) Bounds(k float64) (lower, upper float64) {
	lower = max(s.Mean-k*s.StdDev, s.Min)
	upper = min(s.Mean+k*s.StdDev, s.Max)
	return lower, upper
}

func (s LuminanceStats) String() string {
	return fmt.Sprintf("min=%.4f max=%.4f mean=%.4f stddev=%.4f",
		s.Min, s.Max, s.Mean, s.StdDev)
}
