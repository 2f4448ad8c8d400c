package fzf

import (
	"errors"
	"fmt"
	"io"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/metadata"
	"github.com/Paintersrp/scriptura/internal/render"
)

// ErrNoSelection is returned when the operator aborts the finder.
var ErrNoSelection = errors.New("no work selected")

// FindFunc matches fuzzyfinder.Find so tests can stand in for the
// terminal.
type FindFunc func(slice any, itemFunc func(i int) string, opts ...fuzzyfinder.Option) (int, error)

// WorkFinder lets the operator pick a work from an admin listing, with
// the metadata card as preview.
type WorkFinder struct {
	Header   string
	works    []catalog.AdminWork
	renderer *render.Renderer
	find     FindFunc
}

func NewWorkFinder(works []catalog.AdminWork, renderer *render.Renderer, header string) *WorkFinder {
	return &WorkFinder{
		Header:   header,
		works:    works,
		renderer: renderer,
		find:     fuzzyfinder.Find,
	}
}

// Line is the text the finder matches against for a work.
func Line(w catalog.AdminWork) string {
	return fmt.Sprintf("%d %s [%s] (%s)", w.ID, render.Title(w.WorkRef), w.Status.Label(), w.Status)
}

// Run opens the finder, seeded with query when it is not empty.
func (f *WorkFinder) Run(query string) (catalog.AdminWork, error) {
	if len(f.works) == 0 {
		return catalog.AdminWork{}, fmt.Errorf("no works to choose from")
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := f.find(f.works, func(i int) string {
		return Line(f.works[i])
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return catalog.AdminWork{}, ErrNoSelection
		}
		return catalog.AdminWork{}, fmt.Errorf("selecting work: %w", err)
	}
	if idx < 0 || idx >= len(f.works) {
		return catalog.AdminWork{}, ErrNoSelection
	}
	return f.works[idx], nil
}

func (f *WorkFinder) renderPreview(i, w, h int) string {
	if i == -1 || i >= len(f.works) {
		return ""
	}
	v := metadata.Resolve(metadata.WorkSource{Work: f.works[i].WorkRef})
	if f.renderer == nil {
		return render.Card(v, "")
	}
	out, err := f.renderer.Card(v)
	if err != nil {
		return "Error rendering markdown"
	}
	return out
}

// HandleError prints the finder outcome the way the CLI reports it.
func HandleError(w io.Writer, err error) {
	if errors.Is(err, ErrNoSelection) {
		fmt.Fprintln(w, "No work selected")
	} else {
		fmt.Fprintln(w, "Error selecting work:", err)
	}
}
