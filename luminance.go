package img2ascii

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// Relative luminance weights (BT.709 primaries).
const (
	redWeight   = 0.2126
	greenWeight = 0.7152
	blueWeight  = 0.0722

	// piecewiseThreshold is the WCAG 2.0 sRGB linear-segment cutoff.
	piecewiseThreshold = 0.03928
	piecewiseLinear    = 12.92
	piecewiseOffset    = 0.055
	piecewiseScale     = 1.055
)

// TransferMode selects how a gamma-encoded channel is linearized.
type TransferMode int

const (
	// TransferPiecewise is the sRGB-style curve: a linear segment below
	// 0.03928 and ((v+0.055)/1.055)^gamma above it.
	TransferPiecewise TransferMode = iota

	// TransferDirect raises the channel straight to gamma. It skips the
	// linear toe, so deep shadows come out slightly darker.
	TransferDirect
)

// String returns the flag name of the mode.
func (m TransferMode) String() string {
	switch m {
	case TransferPiecewise:
		return "piecewise"
	case TransferDirect:
		return "direct"
	default:
		return fmt.Sprintf("TransferMode(%d)", int(m))
	}
}

// ParseTransferMode parses "piecewise" or "direct".
func ParseTransferMode(s string) (TransferMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "piecewise", "srgb":
		return TransferPiecewise, nil
	case "direct", "simple", "power":
		return TransferDirect, nil
	}
	return 0, fmt.Errorf("%w: unknown transfer mode %q "+
		"(options are piecewise, direct)", ErrInvalidInput, s)
}

// linearize applies the transfer curve to a channel in [0,1].
func linearize(v, gamma float64, mode TransferMode) float64 {
	if mode == TransferDirect {
		return math.Pow(v, gamma)
	}
	if v <= piecewiseThreshold {
		return v / piecewiseLinear
	}
	return math.Pow((v+piecewiseOffset)/piecewiseScale, gamma)
}

// Luminance returns the perceptual brightness of an 8-bit RGB triplet.
// For gamma > 0 the result lies in [0,1] up to rounding.
func Luminance(r, g, b uint8, gamma float64, mode TransferMode) float64 {
	return redWeight*linearize(float64(r)/255, gamma, mode) +
		greenWeight*linearize(float64(g)/255, gamma, mode) +
		blueWeight*linearize(float64(b)/255, gamma, mode)
}

// LuminanceTable caches the transfer curve for every byte value so that
// extraction costs three lookups per pixel instead of three math.Pow calls.
type LuminanceTable struct {
	Gamma float64
	Mode  TransferMode
	lut   [256]float64
}

// NewLuminanceTable precomputes the transfer curve for gamma and mode.
func NewLuminanceTable(gamma float64, mode TransferMode) *LuminanceTable {
	t := &LuminanceTable{Gamma: gamma, Mode: mode}
	for i := range t.lut {
		t.lut[i] = linearize(float64(i)/255, gamma, mode)
	}
	return t
}

// At returns the luminance of one pixel. It matches Luminance exactly.
func (t *LuminanceTable) At(r, g, b uint8) float64 {
	return redWeight*t.lut[r] + greenWeight*t.lut[g] + blueWeight*t.lut[b]
}

// Extract computes the row-major luminance array of buf. With workers > 1
// the rows are split into contiguous bands processed concurrently; every
// value is written exactly once, so the result does not depend on workers.
func (t *LuminanceTable) Extract(buf PixelBuffer, workers int) ([]float64, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	lum := make([]float64, buf.Width*buf.Height)
	forEachBand(buf.Height, workers, func(y0, y1 int) {
		pix := buf.Pix[y0*buf.Width*4 : y1*buf.Width*4]
		out := lum[y0*buf.Width : y1*buf.Width]
		for i := range out {
			out[i] = t.At(pix[i*4], pix[i*4+1], pix[i*4+2])
		}
	})
	return lum, nil
}

// forEachBand calls fn over [0,rows) split into at most workers bands.
func forEachBand(rows, workers int, fn func(y0, y1 int)) {
	if workers <= 1 || rows < 2 {
		fn(0, rows)
		return
	}
	if workers > rows {
		workers = rows
	}
	band := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < rows; y0 += band {
		y1 := min(y0+band, rows)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
