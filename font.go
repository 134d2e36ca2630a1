package img2ascii

import (
	"fmt"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// DefaultFontSize is the point size used for TrueType faces.
const DefaultFontSize = 12.0

// DefaultFace returns the built-in 7x13 bitmap face.
func DefaultFace() font.Face {
	return basicfont.Face7x13
}

// LoadFontFace loads a TrueType font from path as a face of the given point
// size at 72 DPI. An empty path returns DefaultFace. Callers own the
// returned face and should Close it.
func LoadFontFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return DefaultFace(), nil
	}
	ttf, err := loadFont(path)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// loadFont loads a TrueType font from file
func loadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	f, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	return f, nil
}
