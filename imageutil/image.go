// Package imageutil provides the pure Go image handling around the ASCII
// converter: decoding, resampling onto the character canvas, and optional
// pre-filters.
package imageutil

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
// Images created by this package always have their origin at (0, 0) and a
// tight stride.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an RGBAImage anchored at
// the origin. Transparent regions come out black, as on a cleared canvas.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(rgba.RGBA, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// Flatten composites img over an opaque background color.
func Flatten(img image.Image, bg RGB) *RGBAImage {
	bounds := img.Bounds()
	out := NewRGBAImage(bounds.Dx(), bounds.Dy())
	draw.Draw(out.RGBA, out.Bounds(), image.NewUniform(bg.ToColor()),
		image.Point{}, draw.Src)
	draw.Draw(out.RGBA, out.Bounds(), img, bounds.Min, draw.Over)
	return out
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	draw.Draw(clone.RGBA, clone.Bounds(), img.RGBA, img.Bounds().Min, draw.Src)
	return clone
}

// Fill paints the whole image with c.
func (img *RGBAImage) Fill(c RGB) {
	draw.Draw(img.RGBA, img.Bounds(), image.NewUniform(c.ToColor()),
		image.Point{}, draw.Src)
}
