package imageutil

import (
	"github.com/disintegration/gift"
)

// Default unsharp mask parameters for Sharpen.
const (
	sharpenSigma     = 1.0
	sharpenThreshold = 0.0
)

// FilterOptions configures the optional pre-filters applied after the
// image has been resampled onto the character canvas. Zero values disable
// the corresponding filter.
type FilterOptions struct {
	// Blur is the Gaussian sigma in pixels.
	Blur float32
	// Sharpen is the unsharp mask amount; 0.5 to 1.5 is a useful range.
	Sharpen float32
	// Contrast adjusts contrast in percent, -100 to 100.
	Contrast float32
}

// Empty reports whether no filter is enabled.
func (o FilterOptions) Empty() bool {
	return o.Blur <= 0 && o.Sharpen <= 0 && o.Contrast == 0
}

// Filters returns the gift filter chain for o, in application order.
func (o FilterOptions) Filters() []gift.Filter {
	var filters []gift.Filter
	if o.Blur > 0 {
		filters = append(filters, gift.GaussianBlur(o.Blur))
	}
	if o.Sharpen > 0 {
		filters = append(filters,
			gift.UnsharpMask(sharpenSigma, o.Sharpen, sharpenThreshold))
	}
	if o.Contrast != 0 {
		filters = append(filters, gift.Contrast(o.Contrast))
	}
	return filters
}

// Apply runs the filter chain. With no filters enabled img is returned
// unchanged.
func Apply(img *RGBAImage, o FilterOptions) *RGBAImage {
	filters := o.Filters()
	if len(filters) == 0 {
		return img
	}
	g := gift.New(filters...)
	dst := NewRGBAImage(g.Bounds(img.Bounds()).Dx(), g.Bounds(img.Bounds()).Dy())
	g.Draw(dst.RGBA, img.RGBA)
	return dst
}

// Sharpen applies a mild unsharp mask.
func Sharpen(img *RGBAImage) *RGBAImage {
	return Apply(img, FilterOptions{Sharpen: 0.5})
}
