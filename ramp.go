package img2ascii

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed rampdata/*.ramp
var rampFS embed.FS

// DefaultRampString is the glyph ramp of the original converter, densest
// glyph first.
const DefaultRampString = "$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`. "

// DefaultSpacer follows every glyph to widen the cell toward square.
const DefaultSpacer = " "

// biasFraction of the ramp length is added to every index when the darkness
// bias is enabled.
const biasFraction = 0.1

// Ramp is an ordered glyph sequence, index 0 darkest. Glyphs are runes, so
// multi-byte ramps such as shade blocks index correctly.
type Ramp []rune

// DefaultRamp returns a fresh copy of the default ramp.
func DefaultRamp() Ramp {
	return Ramp(DefaultRampString)
}

// NewRamp builds a ramp from s. An empty ramp is rejected.
func NewRamp(s string) (Ramp, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: glyph ramp is empty", ErrInvalidInput)
	}
	return Ramp(s), nil
}

// LoadRamp resolves a named embedded ramp (standard, simple, blocks) and
// falls back to reading name as a file. A single trailing newline in the
// file is dropped; everything else, including trailing spaces, is kept.
func LoadRamp(name string) (Ramp, error) {
	data, vfsErr := rampFS.ReadFile("rampdata/" + name + ".ramp")
	if vfsErr != nil {
		var fsErr error
		data, fsErr = os.ReadFile(name)
		if fsErr != nil {
			return nil, fmt.Errorf("failed to load ramp %q: %w", name, fsErr)
		}
	}
	s := strings.TrimSuffix(string(data), "\n")
	s = strings.TrimSuffix(s, "\r")
	return NewRamp(s)
}

// RampNames lists the embedded ramps.
func RampNames() []string {
	entries, err := rampFS.ReadDir("rampdata")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".ramp"))
	}
	sort.Strings(names)
	return names
}

// Len returns the number of glyphs.
func (r Ramp) Len() int {
	return len(r)
}

// Reverse returns the ramp ordered lightest-first.
func (r Ramp) Reverse() Ramp {
	out := make(Ramp, len(r))
	for i, g := range r {
		out[len(r)-1-i] = g
	}
	return out
}

func (r Ramp) String() string {
	return string(r)
}

// BiasOffset is the fixed index shift of the darkness bias for a ramp of
// length n.
func BiasOffset(n int) int {
	return int(float64(n) * biasFraction)
}

// GlyphIndex quantizes a normalized brightness to a ramp index in
// [0, n-1]. Bright values select low (dense) indices, which reads as
// bright on a dark background. With invert the mapping flips for dark on
// light display. The bias shifts toward whichever end displays darker. n
// must be positive.
func GlyphIndex(v float64, n int, bias, invert bool) int {
	v = clamp01(v)
	if !invert {
		v = 1 - v
	}
	idx := int(v * float64(n-1))
	if bias {
		if invert {
			idx -= BiasOffset(n)
		} else {
			idx += BiasOffset(n)
		}
	}
	return min(max(idx, 0), n-1)
}

// Glyph maps a normalized brightness to a glyph.
func (r Ramp) Glyph(v float64, bias, invert bool) rune {
	return r[GlyphIndex(v, len(r), bias, invert)]
}
