// Package img2ascii converts raster images into monospace ASCII art.
//
// The conversion core is a pure function from a PixelBuffer to text:
//
//  1. every pixel is reduced to a perceptual luminance (gamma transfer and
//     BT.709 weights),
//  2. the luminance array is normalized to [0,1] from its statistics
//     (min/max or mean ± k·stdDev) and passed through a contrast curve,
//  3. each normalized value selects a glyph from a dark-to-light ramp, and
//     the glyphs are joined into newline terminated rows.
//
// A Converter holds a validated Config and can be shared between
// goroutines. Pipeline wraps it with decoding and resizing for image files.
package img2ascii

import (
	"image"

	"github.com/wbrown/img2ascii/imageutil"
)

// Converter turns pixel buffers into glyph grids. Its state is read-only
// after construction.
type Converter struct {
	cfg   Config
	table *LuminanceTable
}

// Conversion holds every intermediate of one conversion. All slices are
// row-major and freshly allocated.
type Conversion struct {
	Luminance  []float64
	Stats      LuminanceStats
	Normalizer *Normalizer
	Normalized []float64
	Grid       *Grid
}

// NewConverter creates a Converter from DefaultConfig modified by opts.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Ramps are slices; keep our own copy so callers can't mutate it.
	cfg.Ramp = append(Ramp(nil), cfg.Ramp...)
	return &Converter{
		cfg:   cfg,
		table: NewLuminanceTable(cfg.Gamma, cfg.Transfer),
	}, nil
}

// Config returns a copy of the converter's configuration.
func (c *Converter) Config() Config {
	cfg := c.cfg
	cfg.Ramp = append(Ramp(nil), c.cfg.Ramp...)
	return cfg
}

// Luminance returns the row-major luminance array of buf.
func (c *Converter) Luminance(buf PixelBuffer) ([]float64, error) {
	return c.table.Extract(buf, c.cfg.Workers)
}

// Analyze returns the luminance statistics that would drive normalization.
func (c *Converter) Analyze(buf PixelBuffer) (LuminanceStats, error) {
	lum, err := c.Luminance(buf)
	if err != nil {
		return LuminanceStats{}, err
	}
	return ComputeStats(lum), nil
}

// Process runs the full core pipeline and keeps every intermediate.
func (c *Converter) Process(buf PixelBuffer) (*Conversion, error) {
	lum, err := c.Luminance(buf)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(lum)
	norm := NewNormalizer(c.cfg.Normalization, c.cfg.StdDevBound,
		c.cfg.Contrast, stats)
	normalized := norm.NormalizeAll(lum, buf.Width, c.cfg.Workers)

	grid := &Grid{
		Width:  buf.Width,
		Height: buf.Height,
		Cells:  make([]int, len(normalized)),
		Ramp:   c.cfg.Ramp,
		Colors: make([]imageutil.RGB, len(normalized)),
	}
	n := len(c.cfg.Ramp)
	forEachBand(buf.Height, c.cfg.Workers, func(y0, y1 int) {
		for i := y0 * buf.Width; i < y1*buf.Width; i++ {
			grid.Cells[i] = GlyphIndex(normalized[i], n,
				c.cfg.DarknessBias, c.cfg.Invert)
			grid.Colors[i] = imageutil.RGB{
				R: buf.Pix[i*4], G: buf.Pix[i*4+1], B: buf.Pix[i*4+2],
			}
		}
	})

	return &Conversion{
		Luminance:  lum,
		Stats:      stats,
		Normalizer: norm,
		Normalized: normalized,
		Grid:       grid,
	}, nil
}

// ConvertGrid maps buf onto the glyph ramp.
func (c *Converter) ConvertGrid(buf PixelBuffer) (*Grid, error) {
	conv, err := c.Process(buf)
	if err != nil {
		return nil, err
	}
	return conv.Grid, nil
}

// Convert renders buf as plain text: Height lines of Width glyph+spacer
// pairs, each terminated by a newline.
func (c *Converter) Convert(buf PixelBuffer) (string, error) {
	grid, err := c.ConvertGrid(buf)
	if err != nil {
		return "", err
	}
	return grid.Text(c.cfg.Spacer), nil
}

// ConvertImage converts img at its native size, one glyph per pixel. Use
// a Pipeline to resample onto the character canvas first.
func (c *Converter) ConvertImage(img image.Image) (string, error) {
	return c.Convert(PixelBufferFromImage(img))
}
