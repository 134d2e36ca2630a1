package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestRGBAImageClone(t *testing.T) {
	img := NewRGBAImage(10, 10)
	img.SetRGB(5, 5, RGB{R: 255, G: 0, B: 0})

	clone := img.Clone()
	if clone.GetRGB(5, 5) != img.GetRGB(5, 5) {
		t.Error("Clone should have same pixel values")
	}

	// Modify clone, original should be unchanged
	clone.SetRGB(5, 5, RGB{R: 0, G: 255, B: 0})
	if img.GetRGB(5, 5).G != 0 {
		t.Error("Modifying clone should not affect original")
	}
}

func TestRGBAImageFromImageRebasesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 14, 22))
	src.Set(10, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	src.Set(13, 21, color.NRGBA{R: 4, G: 5, B: 6, A: 255})

	img := RGBAImageFromImage(src)
	if img.Bounds().Min != (image.Point{}) {
		t.Fatalf("Expected origin at 0,0, got %v", img.Bounds().Min)
	}
	if img.Width() != 4 || img.Height() != 2 {
		t.Fatalf("Expected 4x2, got %dx%d", img.Width(), img.Height())
	}
	if got := img.GetRGB(0, 0); got != (RGB{1, 2, 3}) {
		t.Errorf("Expected {1 2 3} at 0,0, got %v", got)
	}
	if got := img.GetRGB(3, 1); got != (RGB{4, 5, 6}) {
		t.Errorf("Expected {4 5 6} at 3,1, got %v", got)
	}
}

func TestFlatten(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})
	src.Set(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	img := Flatten(src, RGB{R: 255, G: 255, B: 255})
	if got := img.GetRGB(0, 0); got != (RGB{255, 255, 255}) {
		t.Errorf("Transparent pixel should show background, got %v", got)
	}
	if got := img.GetRGB(1, 0); got != (RGB{10, 20, 30}) {
		t.Errorf("Opaque pixel should be unchanged, got %v", got)
	}

	// Without flattening a transparent pixel reads as black
	plain := RGBAImageFromImage(src)
	if got := plain.GetRGB(0, 0); got != (RGB{}) {
		t.Errorf("Transparent pixel should be black, got %v", got)
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 100)

	for _, interp := range []Interpolation{
		InterpolationCatmullRom, InterpolationLinear,
		InterpolationNearest, InterpolationLanczos,
	} {
		resized := Resize(img, 40, 25, interp)
		if resized.Width() != 40 || resized.Height() != 25 {
			t.Errorf("%v: expected 40x25, got %dx%d",
				interp, resized.Width(), resized.Height())
		}
	}

	// Upscale
	resized := Resize(img, 200, 200, InterpolationLinear)
	if resized.Width() != 200 || resized.Height() != 200 {
		t.Errorf("Expected 200x200, got %dx%d", resized.Width(), resized.Height())
	}
}

func TestResizeKeepsSolidColor(t *testing.T) {
	c := RGB{R: 90, G: 120, B: 200}
	img := CreateSolidImage(64, 48, c)
	for _, interp := range []Interpolation{
		InterpolationCatmullRom, InterpolationLinear,
		InterpolationNearest, InterpolationLanczos,
	} {
		resized := Resize(img, 13, 7, interp)
		got := resized.GetRGB(6, 3)
		// Allow one step of fixed-point rounding
		if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 {
			t.Errorf("%v: expected %v, got %v", interp, c, got)
		}
	}
}

func TestParseInterpolation(t *testing.T) {
	for _, interp := range []Interpolation{
		InterpolationCatmullRom, InterpolationLinear,
		InterpolationNearest, InterpolationLanczos,
	} {
		got, err := ParseInterpolation(interp.String())
		if err != nil {
			t.Fatalf("ParseInterpolation(%q): %v", interp.String(), err)
		}
		if got != interp {
			t.Errorf("Expected %v, got %v", interp, got)
		}
	}
	if _, err := ParseInterpolation("bogus"); err == nil {
		t.Error("Expected error for unknown interpolation")
	}
}

func TestApplyFilters(t *testing.T) {
	img := CreateCheckerboardImage(32, 32, 4)

	same := Apply(img, FilterOptions{})
	if same != img {
		t.Error("Empty filter options should return the input image")
	}

	blurred := Apply(img, FilterOptions{Blur: 2})
	if blurred.Width() != 32 || blurred.Height() != 32 {
		t.Fatalf("Blur should keep dimensions, got %dx%d",
			blurred.Width(), blurred.Height())
	}
	// A strong blur pulls the squares toward gray
	if CalculateMSE(img, blurred) == 0 {
		t.Error("Blur should change a checkerboard")
	}
	v := blurred.GetRGB(4, 4).R
	if v == 0 || v == 255 {
		t.Errorf("Blurred edge pixel should be gray, got %d", v)
	}

	sharpened := Sharpen(CreateGradientImage(32, 32))
	if sharpened.Width() != 32 || sharpened.Height() != 32 {
		t.Error("Sharpened image should have same dimensions")
	}
}

func TestFilterOptionsEmpty(t *testing.T) {
	if !(FilterOptions{}).Empty() {
		t.Error("Zero options should be empty")
	}
	if (FilterOptions{Contrast: -10}).Empty() {
		t.Error("Negative contrast is still a filter")
	}
	if n := len((FilterOptions{Blur: 1, Sharpen: 1, Contrast: 5}).Filters()); n != 3 {
		t.Errorf("Expected 3 filters, got %d", n)
	}
}

func TestDecode(t *testing.T) {
	img := CreateColorBarsImage(16, 8)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.RGBA); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	cfg, format, err := DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "png" || cfg.Width != 16 || cfg.Height != 8 {
		t.Errorf("Expected png 16x8, got %s %dx%d", format, cfg.Width, cfg.Height)
	}

	decoded, format, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected png, got %s", format)
	}
	if mse := CalculateMSE(img, decoded); mse != 0 {
		t.Errorf("PNG should be lossless, MSE=%f", mse)
	}

	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Expected error decoding garbage")
	}
}

func TestLoadSaveImage(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()

	// Create test image
	img := CreateColorBarsImage(64, 64)

	// Save to PNG
	pngPath := filepath.Join(tmpDir, "test.png")
	err := SaveImage(img.RGBA, pngPath)
	if err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	// Load back
	loaded, err := LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}

	// PNG should be lossless
	mse := CalculateMSE(img, loaded)
	if mse > 0.01 {
		t.Errorf("PNG should be lossless, MSE=%f", mse)
	}

	if _, err := LoadImage(filepath.Join(tmpDir, "missing.png")); err == nil {
		t.Error("Expected error loading a missing file")
	}
}

func TestCalculateMSE(t *testing.T) {
	img1 := NewRGBAImage(10, 10)
	img2 := NewRGBAImage(10, 10)

	// Same images should have MSE of 0
	mse := CalculateMSE(img1, img2)
	if mse != 0 {
		t.Errorf("Identical images should have MSE=0, got %f", mse)
	}

	img1.Fill(RGB{R: 0, G: 0, B: 0})
	img2.Fill(RGB{R: 10, G: 10, B: 10})
	mse = CalculateMSE(img1, img2)
	expected := 100.0 // 10^2 = 100
	if mse != expected {
		t.Errorf("Expected MSE=%f, got %f", expected, mse)
	}
}

// TestSaveTestImages saves test images to testdata directory for visual inspection.
// Run with: SAVE_TEST_IMAGES=1 go test -run TestSaveTestImages -v
func TestSaveTestImages(t *testing.T) {
	if os.Getenv("SAVE_TEST_IMAGES") != "1" {
		t.Skip("Set SAVE_TEST_IMAGES=1 to generate test images")
	}

	testdataDir := "../testdata"
	os.MkdirAll(testdataDir, 0755)

	SaveImage(CreateGradientImage(256, 256).RGBA, filepath.Join(testdataDir, "gradient.png"))
	SaveImage(CreateVerticalGradientImage(256, 256).RGBA, filepath.Join(testdataDir, "vgradient.png"))
	SaveImage(CreateCheckerboardImage(256, 256, 32).RGBA, filepath.Join(testdataDir, "checkerboard.png"))
	SaveImage(CreateColorBarsImage(256, 256).RGBA, filepath.Join(testdataDir, "colorbars.png"))
	SaveImage(CreateSpotImage(256, 128, 96, 255).RGBA, filepath.Join(testdataDir, "spot.png"))

	t.Log("Test images saved to testdata/")
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
