package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/scriptura/internal/cache"
	"github.com/Paintersrp/scriptura/internal/metadata"
)

const cardCacheSize = 64

// Renderer draws metadata cards through glamour and remembers recent
// output, since the TUI redraws the same card on every frame.
type Renderer struct {
	theme  string
	width  int
	apiURL string
	tr     *glamour.TermRenderer
	cards  *cache.LRUCache[string, string]
}

func NewRenderer(theme string, width int, apiURL string) (*Renderer, error) {
	if theme == "" {
		theme = "dracula"
	}
	if width <= 0 {
		width = 100
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{
		theme:  theme,
		width:  width,
		apiURL: apiURL,
		tr:     tr,
		cards:  cache.NewLRUCache[string, string](cardCacheSize),
	}, nil
}

func (r *Renderer) Width() int { return r.width }

// Resize rebuilds the renderer for a new wrap width. Cached cards are
// dropped because they were wrapped for the old width.
func (r *Renderer) Resize(width int) error {
	if width <= 0 || width == r.width {
		return nil
	}
	next, err := NewRenderer(r.theme, width, r.apiURL)
	if err != nil {
		return err
	}
	*r = *next
	return nil
}

// Card renders the metadata card for v.
func (r *Renderer) Card(v metadata.View) (string, error) {
	md := Card(v, r.apiURL)
	if out, ok := r.cards.Get(md); ok {
		return out, nil
	}
	out, err := r.Markdown(md)
	if err != nil {
		return "", err
	}
	r.cards.Put(md, out)
	return out, nil
}

func (r *Renderer) Markdown(md string) (string, error) {
	out, err := r.tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
