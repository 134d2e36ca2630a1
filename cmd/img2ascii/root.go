package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"golang.org/x/term"
)

// options holds the raw flag values. Conversion flags only override the
// preset when they were set explicitly.
type options struct {
	preset    string
	gamma     float64
	transfer  string
	normalize string
	sigma     float64
	contrast  string
	bias      bool
	invert    bool
	ramp      string
	spacer    string
	width     int
	height    int
	aspect    float64
	fit       bool
	interp    string
	blur      float32
	sharpen   float32
	boost     float32
	matte     string
	format    string
	font      string
	fontSize  float64
	color     bool
	output    string
	workers   int
	verbose   bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "img2ascii [flags] <image>",
		Short: "Convert an image into ASCII art",
		Long: "Convert an image into ASCII art by mapping perceptual " +
			"luminance onto a dark-to-light glyph ramp.\n\n" +
			"Presets: " + strings.Join(img2ascii.PresetNames(), ", ") + "\n" +
			"Ramps: " + strings.Join(img2ascii.RampNames(), ", ") +
			" or a path to a file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.preset, "preset", "adaptive",
		"Named configuration: "+strings.Join(img2ascii.PresetNames(), ", "))
	f.Float64Var(&opts.gamma, "gamma", img2ascii.DefaultGamma,
		"Gamma of the luminance transfer")
	f.StringVar(&opts.transfer, "transfer", "piecewise",
		"Transfer function: piecewise or direct")
	f.StringVar(&opts.normalize, "normalize", "adaptive",
		"Normalization policy: adaptive or minmax")
	f.Float64Var(&opts.sigma, "sigma", img2ascii.DefaultStdDevBound,
		"Standard deviations around the mean kept by adaptive normalization")
	f.StringVar(&opts.contrast, "contrast", "variance:2",
		"Contrast curve: fixed:<exponent> or variance:<k>")
	f.BoolVar(&opts.bias, "bias", false,
		"Shift glyph indices toward the dark end of the ramp")
	f.BoolVar(&opts.invert, "invert", false,
		"Map dark pixels to dense glyphs, for light backgrounds")
	f.StringVar(&opts.ramp, "ramp", "standard",
		"Glyph ramp name or path, densest glyph first")
	f.StringVar(&opts.spacer, "spacer", img2ascii.DefaultSpacer,
		"String written after every glyph")
	f.IntVar(&opts.width, "width", img2ascii.DefaultLandscapeWidth,
		"Columns for landscape images")
	f.IntVar(&opts.height, "height", img2ascii.DefaultPortraitHeight,
		"Rows for portrait and square images")
	f.Float64Var(&opts.aspect, "aspect", img2ascii.DefaultCharAspect,
		"Character width to height correction")
	f.BoolVar(&opts.fit, "fit", false,
		"Size the output to the terminal")
	f.StringVar(&opts.interp, "interp", "catmullrom",
		"Resampling: catmullrom, bilinear, nearest or lanczos")
	f.Float32Var(&opts.blur, "blur", 0,
		"Gaussian blur sigma applied after resampling")
	f.Float32Var(&opts.sharpen, "sharpen", 0,
		"Unsharp mask amount applied after resampling")
	f.Float32Var(&opts.boost, "pre-contrast", 0,
		"Contrast adjustment in percent applied before conversion")
	f.StringVar(&opts.matte, "matte", "",
		"Composite transparent pixels over this color (#rrggbb)")
	f.StringVar(&opts.format, "format", "",
		"Output format: text, ansi, html or png (default from -o extension)")
	f.StringVar(&opts.font, "font", "",
		"TrueType font for png output (default built-in 7x13)")
	f.Float64Var(&opts.fontSize, "fontsize", img2ascii.DefaultFontSize,
		"Point size of the TrueType font")
	f.BoolVar(&opts.color, "color", false,
		"Draw png glyphs in the colors of their source pixels")
	f.StringVarP(&opts.output, "output", "o", "",
		"Output file (default stdout)")
	f.IntVar(&opts.workers, "workers", 1,
		"Goroutines used for the per-pixel passes")
	f.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Print statistics and timings to stderr")
	return cmd
}

func run(cmd *cobra.Command, opts *options, input string) error {
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}
	conv, err := img2ascii.NewConverter(img2ascii.WithConfig(cfg))
	if err != nil {
		return err
	}
	popts, err := pipelineOptions(opts)
	if err != nil {
		return err
	}
	format, err := outputFormat(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := img2ascii.NewPipeline(conv, popts...).RunFile(ctx, input)
	if err != nil {
		return err
	}
	if opts.verbose {
		printSummary(cmd.ErrOrStderr(), cfg, res)
	}
	return writeOutput(cmd, opts, format, input, cfg, res)
}

func buildConfig(cmd *cobra.Command, opts *options) (img2ascii.Config, error) {
	cfg, err := img2ascii.PresetByName(opts.preset)
	if err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed

	if changed("gamma") {
		cfg.Gamma = opts.gamma
	}
	if changed("transfer") {
		if cfg.Transfer, err = img2ascii.ParseTransferMode(opts.transfer); err != nil {
			return cfg, err
		}
	}
	if changed("normalize") {
		if cfg.Normalization, err = img2ascii.ParseNormalization(opts.normalize); err != nil {
			return cfg, err
		}
	}
	if changed("sigma") {
		cfg.StdDevBound = opts.sigma
	}
	if changed("contrast") {
		if cfg.Contrast, err = img2ascii.ParseContrast(opts.contrast); err != nil {
			return cfg, err
		}
	}
	if changed("bias") {
		cfg.DarknessBias = opts.bias
	}
	cfg.Invert = opts.invert
	if changed("ramp") {
		if cfg.Ramp, err = img2ascii.LoadRamp(opts.ramp); err != nil {
			return cfg, err
		}
	}
	cfg.Spacer = opts.spacer
	cfg.Sizing.LandscapeWidth = opts.width
	cfg.Sizing.PortraitHeight = opts.height
	cfg.Sizing.CharAspect = opts.aspect
	cfg.Workers = opts.workers

	if opts.fit {
		if err := fitTerminal(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

// fitTerminal sizes the canvas to the terminal on stdout, leaving one row
// for the prompt.
func fitTerminal(cfg *img2ascii.Config) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("--fit requires stdout to be a terminal")
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}
	stride := 1 + len([]rune(cfg.Spacer))
	cfg.Sizing.LandscapeWidth = max(cols/stride, 1)
	cfg.Sizing.PortraitHeight = max(rows-1, 1)
	return nil
}

func pipelineOptions(opts *options) ([]img2ascii.PipelineOption, error) {
	interp, err := imageutil.ParseInterpolation(opts.interp)
	if err != nil {
		return nil, err
	}
	popts := []img2ascii.PipelineOption{
		img2ascii.WithInterpolation(interp),
		img2ascii.WithFilters(imageutil.FilterOptions{
			Blur:     opts.blur,
			Sharpen:  opts.sharpen,
			Contrast: opts.boost,
		}),
	}
	if opts.matte != "" {
		c, err := parseHexColor(opts.matte)
		if err != nil {
			return nil, err
		}
		popts = append(popts, img2ascii.WithBackground(c))
	}
	return popts, nil
}

func parseHexColor(s string) (imageutil.RGB, error) {
	var c imageutil.RGB
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return c, fmt.Errorf("invalid color %q, expected #rrggbb", s)
	}
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

func outputFormat(opts *options) (string, error) {
	format := strings.ToLower(opts.format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.output)) {
		case ".png":
			format = "png"
		case ".html", ".htm":
			format = "html"
		case ".ans":
			format = "ansi"
		default:
			format = "text"
		}
	}
	switch format {
	case "text", "ansi", "html":
	case "png":
		if opts.output == "" {
			return "", fmt.Errorf("png output requires --output")
		}
	default:
		return "", fmt.Errorf("unknown format %q "+
			"(options are text, ansi, html, png)", opts.format)
	}
	return format, nil
}

func writeOutput(cmd *cobra.Command, opts *options, format, input string,
	cfg img2ascii.Config, res *img2ascii.Result) error {
	if format == "png" {
		return writePNG(cmd, opts, cfg, res)
	}
	if opts.output == "" {
		return writeArt(cmd.OutOrStdout(), format, input, cfg, opts, res)
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	err = writeArt(f, format, input, cfg, opts, res)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write output: %w", cerr)
	}
	return err
}

func writeArt(w io.Writer, format, input string, cfg img2ascii.Config,
	opts *options, res *img2ascii.Result) error {
	var err error
	switch format {
	case "ansi":
		_, err = io.WriteString(w, res.Grid.ANSI(cfg.Spacer))
	case "html":
		err = img2ascii.RenderHTML(w, res.Text, img2ascii.HTMLOptions{
			Title:  filepath.Base(input),
			Invert: opts.invert,
		})
	default:
		_, err = io.WriteString(w, res.Text)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writePNG(cmd *cobra.Command, opts *options, cfg img2ascii.Config,
	res *img2ascii.Result) error {
	face, err := img2ascii.LoadFontFace(opts.font, opts.fontSize)
	if err != nil {
		return err
	}
	defer face.Close()
	popts := img2ascii.DefaultPNGOptions()
	popts.Face = face
	popts.Invert = opts.invert
	var img *imageutil.RGBAImage
	if opts.color {
		img, err = img2ascii.RenderGridPNG(res.Grid, cfg.Spacer, popts)
	} else {
		img, err = img2ascii.RenderPNG(res.Text, popts)
	}
	if err != nil {
		return err
	}
	if err := imageutil.SaveImage(img.RGBA, opts.output); err != nil {
		return err
	}
	if opts.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "PNG output written to %s\n",
			opts.output)
	}
	return nil
}

func printSummary(w io.Writer, cfg img2ascii.Config, res *img2ascii.Result) {
	fmt.Fprintf(w,
		"source: %dx%d %s\n"+
			"canvas: %dx%d\n"+
			"transfer: %s gamma %.2f\n"+
			"normalize: %s, contrast %s\n"+
			"luminance: %s\n",
		res.SourceWidth, res.SourceHeight, res.Format,
		res.Width, res.Height,
		cfg.Transfer, cfg.Gamma,
		cfg.Normalization, cfg.Contrast,
		res.Stats)
	fmt.Fprintf(w, "decode: %v, resize: %v, convert: %v, total: %v\n",
		res.Timings.Decode, res.Timings.Resize, res.Timings.Convert,
		res.Timings.Total())
}
