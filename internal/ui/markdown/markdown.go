// Package markdown renders critique replies for the terminal.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/wordwrap"
)

// Renderer wraps a glamour renderer for one width and style.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New returns a renderer wrapping at width. style is "dark", "light" or
// "auto"; anything else falls back to dark.
func New(width int, style string) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "auto":
		opts = append(opts, glamour.WithAutoStyle())
	case styles.LightStyle:
		opts = append(opts, glamour.WithStandardStyle(styles.LightStyle))
	default:
		style = styles.DarkStyle
		opts = append(opts, glamour.WithStandardStyle(styles.DarkStyle))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the glamour style in use.
func (r *Renderer) Style() string {
	return r.style
}

// Render formats markdown. When glamour fails the text is word wrapped
// as is.
func (r *Renderer) Render(markdown string) string {
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return Plain(markdown, r.width)
	}
	return strings.Trim(out, "\n")
}

// Plain word wraps text at width without styling.
func Plain(text string, width int) string {
	return wordwrap.String(text, width)
}
