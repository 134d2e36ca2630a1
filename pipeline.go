package img2ascii

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wbrown/img2ascii/imageutil"
)

// Pipeline sequences the stages around the pure conversion:
// decode, size, resample, pre-filter, pixel extraction, convert. Each stage
// starts only after the previous one has finished.
type Pipeline struct {
	Converter     *Converter
	Interpolation imageutil.Interpolation
	Filters       imageutil.FilterOptions
	// Background, when set, is composited under transparent pixels.
	// Otherwise transparency reads as black.
	Background *imageutil.RGB
}

// PipelineOption is a functional option for configuring a Pipeline.
type PipelineOption func(*Pipeline)

// NewPipeline wraps conv. The default resampler is Catmull-Rom.
func NewPipeline(conv *Converter, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		Converter:     conv,
		Interpolation: imageutil.InterpolationCatmullRom,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithInterpolation sets the resampling method.
func WithInterpolation(interp imageutil.Interpolation) PipelineOption {
	return func(p *Pipeline) {
		p.Interpolation = interp
	}
}

// WithFilters sets the pre-filters applied after resampling.
func WithFilters(f imageutil.FilterOptions) PipelineOption {
	return func(p *Pipeline) {
		p.Filters = f
	}
}

// WithBackground composites transparent regions over c.
func WithBackground(c imageutil.RGB) PipelineOption {
	return func(p *Pipeline) {
		p.Background = &c
	}
}

// StageTimings records the wall time of each pipeline stage.
type StageTimings struct {
	Decode  time.Duration
	Resize  time.Duration
	Convert time.Duration
}

// Total returns the sum of all stages.
func (t StageTimings) Total() time.Duration {
	return t.Decode + t.Resize + t.Convert
}

// Result is the outcome of one pipeline run.
type Result struct {
	Text         string
	Grid         *Grid
	Stats        LuminanceStats
	Format       string
	SourceWidth  int
	SourceHeight int
	Width        int
	Height       int
	Timings      StageTimings
}

// AsyncResult is delivered by Start.
type AsyncResult struct {
	Result *Result
	Err    error
}

type decoded struct {
	img    *imageutil.RGBAImage
	format string
	err    error
}

// Run decodes r and converts it. The decode runs on its own goroutine so
// that a cancelled ctx returns promptly; later stages check ctx before
// they start.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (*Result, error) {
	if p.Converter == nil {
		return nil, fmt.Errorf("%w: pipeline has no converter", ErrInvalidInput)
	}
	start := time.Now()
	// Buffered so the decoder never blocks if we stop listening
	done := make(chan decoded, 1)
	go func() {
		done <- p.decode(r)
	}()

	var d decoded
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case d = <-done:
	}
	if d.err != nil {
		return nil, d.err
	}
	res := &Result{
		Format:       d.format,
		SourceWidth:  d.img.Width(),
		SourceHeight: d.img.Height(),
	}
	res.Timings.Decode = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	canvas, err := p.Prepare(d.img)
	if err != nil {
		return nil, err
	}
	res.Width, res.Height = canvas.Width(), canvas.Height()
	res.Timings.Resize = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	conv, err := p.Converter.Process(PixelBufferFromRGBA(canvas))
	if err != nil {
		return nil, err
	}
	res.Grid = conv.Grid
	res.Stats = conv.Stats
	res.Text = conv.Grid.Text(p.Converter.cfg.Spacer)
	res.Timings.Convert = time.Since(start)
	return res, nil
}

// Start runs the pipeline in the background and delivers exactly one
// AsyncResult on the returned channel.
func (p *Pipeline) Start(ctx context.Context, r io.Reader) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	go func() {
		res, err := p.Run(ctx, r)
		out <- AsyncResult{Result: res, Err: err}
		close(out)
	}()
	return out
}

// RunFile opens path and runs the pipeline on it.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return p.Run(ctx, f)
}

// Prepare resamples img onto the character canvas and applies the
// pre-filters.
func (p *Pipeline) Prepare(img *imageutil.RGBAImage) (*imageutil.RGBAImage, error) {
	w, h, err := p.Converter.cfg.Sizing.TargetSize(img.Width(), img.Height())
	if err != nil {
		return nil, err
	}
	resized := imageutil.Resize(img, w, h, p.Interpolation)
	return imageutil.Apply(resized, p.Filters), nil
}

func (p *Pipeline) decode(r io.Reader) decoded {
	img, format, err := imageutil.DecodeImage(r)
	if err != nil {
		return decoded{err: err}
	}
	if p.Background != nil {
		return decoded{img: imageutil.Flatten(img, *p.Background), format: format}
	}
	return decoded{img: imageutil.RGBAImageFromImage(img), format: format}
}
