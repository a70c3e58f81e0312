package tui

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the column help text is wrapped at.
const DefaultWordWrap = 72

// NewRenderer returns a function that renders markdown using glamour.
// It falls back to the raw markdown when no renderer can be built.
func NewRenderer(opts ...glamour.TermRendererOption) func(string) (string, error) {
	base := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(DefaultWordWrap),
	}
	r, err := glamour.NewTermRenderer(append(base, opts...)...)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
