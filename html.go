package img2ascii

import (
	"fmt"
	"html/template"
	"io"
)

// HTMLOptions configures RenderHTML.
type HTMLOptions struct {
	Title string
	// Invert shows dark glyphs on a light page instead of light on dark.
	Invert bool
	// FontSize is a CSS length for the <pre> block.
	FontSize string
}

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; background: #000; color: #e6e6e6; }
body.inverted { background: #fff; color: #000; }
pre { margin: 1em; font-family: monospace; font-size: {{.FontSize}}; line-height: 1; }
</style>
</head>
<body{{if .Invert}} class="inverted"{{end}}>
<pre id="asciiArt">{{.Art}}</pre>
</body>
</html>
`))

// RenderHTML writes a standalone page showing art in a <pre> block.
func RenderHTML(w io.Writer, art string, opts HTMLOptions) error {
	if opts.Title == "" {
		opts.Title = "ASCII art"
	}
	if opts.FontSize == "" {
		opts.FontSize = "6px"
	}
	data := struct {
		Title    string
		Invert   bool
		FontSize template.CSS
		Art      string
	}{
		Title:    opts.Title,
		Invert:   opts.Invert,
		FontSize: template.CSS(opts.FontSize),
		Art:      art,
	}
	if err := htmlPage.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}
