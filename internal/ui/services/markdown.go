package services

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for a terminal of the given width.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer renders with glamour, rebuilding the term renderer when
// the width changes.
type GlamourRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewGlamourRenderer uses the dark style, which does not probe the
// terminal background.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{style: "dark"}
}

// Render implements MarkdownRenderer.
func (g *GlamourRenderer) Render(content string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	if g.renderer == nil || g.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(g.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		g.renderer = r
		g.width = width
	}
	return g.renderer.Render(content)
}

// RenderMarkdown renders content and trims the blank padding glamour adds.
func RenderMarkdown(content string, width int, renderer MarkdownRenderer) (string, error) {
	if renderer == nil {
		return content, nil
	}
	out, err := renderer.Render(content, width)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
