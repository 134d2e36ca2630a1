package img2ascii

import (
	"fmt"
	"image"
	"strings"
	"unicode/utf8"

	"github.com/wbrown/img2ascii/imageutil"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// PNGOptions configures RenderPNG and RenderGridPNG.
type PNGOptions struct {
	// Face draws the glyphs; nil selects DefaultFace.
	Face font.Face
	// Foreground and Background default to light gray on black, the
	// display the ramp orientation is designed for.
	Foreground imageutil.RGB
	Background imageutil.RGB
	// Invert swaps foreground and background.
	Invert bool
	// Padding is the margin in pixels around the text.
	Padding int
}

// DefaultPNGOptions returns light-on-dark rendering with the bitmap face.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Face:       DefaultFace(),
		Foreground: imageutil.RGB{R: 230, G: 230, B: 230},
		Background: imageutil.RGB{R: 0, G: 0, B: 0},
		Padding:    4,
	}
}

// textCanvas places monospace cells on an image. Every rune occupies one
// advance of the face's 'M' glyph, so proportional fonts still line up.
type textCanvas struct {
	img        *imageutil.RGBAImage
	face       font.Face
	cellWidth  int
	lineHeight int
	ascent     int
	pad        int
}

func newTextCanvas(cols, rows int, opts PNGOptions, bg imageutil.RGB) (*textCanvas, error) {
	face := opts.Face
	if face == nil {
		face = DefaultFace()
	}
	advance, ok := face.GlyphAdvance('M')
	if !ok || advance <= 0 {
		return nil, fmt.Errorf("%w: font face has no advance for 'M'",
			ErrInvalidInput)
	}
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight <= 0 {
		lineHeight = (metrics.Ascent + metrics.Descent).Ceil()
	}
	c := &textCanvas{
		face:       face,
		cellWidth:  advance.Ceil(),
		lineHeight: lineHeight,
		ascent:     metrics.Ascent.Ceil(),
		pad:        max(opts.Padding, 0),
	}
	width := cols*c.cellWidth + 2*c.pad
	height := rows*c.lineHeight + 2*c.pad
	c.img = imageutil.NewRGBAImage(max(width, 1), max(height, 1))
	c.img.Fill(bg)
	return c, nil
}

// draw renders r into cell (col, row). Spaces are skipped.
func (c *textCanvas) draw(col, row int, r rune, fg imageutil.RGB) {
	if r == ' ' {
		return
	}
	d := &font.Drawer{
		Dst:  c.img.RGBA,
		Src:  image.NewUniform(fg.ToColor()),
		Face: c.face,
		Dot: fixed.P(c.pad+col*c.cellWidth,
			c.pad+row*c.lineHeight+c.ascent),
	}
	d.DrawString(string(r))
}

func (opts PNGOptions) colors() (fg, bg imageutil.RGB) {
	if opts.Invert {
		return opts.Background, opts.Foreground
	}
	return opts.Foreground, opts.Background
}

// RenderPNG rasterizes ASCII art text as it would appear in a monospace
// terminal or <pre> block.
func RenderPNG(text string, opts PNGOptions) (*imageutil.RGBAImage, error) {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	cols := 0
	for _, line := range lines {
		cols = max(cols, utf8.RuneCountInString(line))
	}

	fg, bg := opts.colors()
	canvas, err := newTextCanvas(cols, len(lines), opts, bg)
	if err != nil {
		return nil, err
	}
	for row, line := range lines {
		col := 0
		for _, r := range line {
			canvas.draw(col, row, r, fg)
			col++
		}
	}
	return canvas.img, nil
}

// RenderGridPNG draws a grid with every glyph in the color of its source
// pixel. Grids without colors fall back to the foreground color.
func RenderGridPNG(g *Grid, spacer string, opts PNGOptions) (*imageutil.RGBAImage, error) {
	stride := 1 + utf8.RuneCountInString(spacer)
	fg, bg := opts.colors()
	canvas, err := newTextCanvas(g.Width*stride, g.Height, opts, bg)
	if err != nil {
		return nil, err
	}
	colored := len(g.Colors) == len(g.Cells)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := fg
			if colored {
				c = g.Colors[y*g.Width+x]
			}
			canvas.draw(x*stride, y, g.At(x, y), c)
		}
	}
	return canvas.img, nil
}

// SavePNG renders text with RenderPNG and writes it to path.
func SavePNG(text, path string, opts PNGOptions) error {
	img, err := RenderPNG(text, opts)
	if err != nil {
		return err
	}
	return imageutil.SaveImage(img.RGBA, path)
}
