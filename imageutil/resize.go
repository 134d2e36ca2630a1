package imageutil

import (
	"fmt"
	"image"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationCatmullRom uses Catmull-Rom for high-quality downscaling.
	InterpolationCatmullRom Interpolation = iota

	// InterpolationLinear uses bilinear interpolation, closest to what a
	// browser canvas does when drawing a scaled image.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest

	// InterpolationLanczos uses a Lanczos-3 kernel. Sharpest; slowest.
	InterpolationLanczos
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationCatmullRom:
		return "catmullrom"
	case InterpolationLinear:
		return "bilinear"
	case InterpolationNearest:
		return "nearest"
	case InterpolationLanczos:
		return "lanczos"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation parses an interpolation name.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "catmullrom", "area", "cubic":
		return InterpolationCatmullRom, nil
	case "bilinear", "linear":
		return InterpolationLinear, nil
	case "nearest", "nn":
		return InterpolationNearest, nil
	case "lanczos", "lanczos3":
		return InterpolationLanczos, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q "+
		"(options are catmullrom, bilinear, nearest, lanczos)", s)
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	if interp == InterpolationLanczos {
		scaled := resize.Resize(uint(width), uint(height), img.RGBA,
			resize.Lanczos3)
		return RGBAImageFromImage(scaled)
	}

	dst := NewRGBAImage(width, height)
	dstRect := image.Rect(0, 0, width, height)

	var scaler draw.Scaler
	switch interp {
	case InterpolationLinear:
		scaler = draw.BiLinear
	case InterpolationNearest:
		scaler = draw.NearestNeighbor
	default:
		scaler = draw.CatmullRom
	}

	scaler.Scale(dst.RGBA, dstRect, img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}
