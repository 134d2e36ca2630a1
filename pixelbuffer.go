package img2ascii

import (
	"errors"
	"fmt"
	"image"

	"github.com/wbrown/img2ascii/imageutil"
)

// ErrInvalidInput is returned when a pixel buffer, ramp or configuration
// cannot be converted. Errors returned by this package wrap it, so callers
// should test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// PixelBuffer is a width x height grid of RGBA pixels stored row-major
// with four bytes per pixel. The alpha channel is carried but never read.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed (black) buffer.
func NewPixelBuffer(width, height int) PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// PixelBufferFromRGBA wraps an RGBAImage without copying when its stride is
// tight, and repacks it otherwise.
func PixelBufferFromRGBA(img *imageutil.RGBAImage) PixelBuffer {
	w, h := img.Width(), img.Height()
	if img.Stride == w*4 && len(img.Pix) == w*h*4 {
		return PixelBuffer{Width: w, Height: h, Pix: img.Pix}
	}
	buf := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(buf.Pix[y*w*4:], src)
	}
	return buf
}

// PixelBufferFromImage rasterizes any image.Image into a PixelBuffer.
func PixelBufferFromImage(img image.Image) PixelBuffer {
	if rgba, ok := img.(*image.RGBA); ok {
		return PixelBufferFromRGBA(&imageutil.RGBAImage{RGBA: rgba})
	}
	return PixelBufferFromRGBA(imageutil.RGBAImageFromImage(img))
}

// Validate reports whether the buffer's dimensions agree with its byte
// length.
func (p PixelBuffer) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: pixel buffer is %dx%d", ErrInvalidInput,
			p.Width, p.Height)
	}
	// Compare by division so huge dimensions cannot overflow into a match.
	rowBytes := len(p.Pix) / p.Height
	if len(p.Pix)%p.Height != 0 || rowBytes%4 != 0 || rowBytes/4 != p.Width {
		return fmt.Errorf("%w: pixel buffer %dx%d does not match its %d bytes",
			ErrInvalidInput, p.Width, p.Height, len(p.Pix))
	}
	return nil
}

// RGBAt returns the color channels of the pixel at (x, y).
func (p PixelBuffer) RGBAt(x, y int) (r, g, b uint8) {
	i := (y*p.Width + x) * 4
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

// SetRGB sets the pixel at (x, y) to an opaque color.
func (p PixelBuffer) SetRGB(x, y int, r, g, b uint8) {
	i := (y*p.Width + x) * 4
	p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3] = r, g, b, 255
}
