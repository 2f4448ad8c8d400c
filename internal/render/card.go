// Package render turns search state into text: the markdown metadata card
// drawn with glamour, and the plain line output used by one-shot searches.
package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/metadata"
)

// Placeholder stands in for absent metadata fields.
const Placeholder = "N/A"

var strict = bluemonday.StrictPolicy()

// Sanitize strips any markup from text coming back from the corpus and
// collapses runs of whitespace.
func Sanitize(s string) string {
	clean := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

func orPlaceholder(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return Placeholder
	}
	return Sanitize(*s)
}

func yearOf(w catalog.WorkRef) string {
	if w.AnoLancamento == nil {
		return Placeholder
	}
	return strconv.Itoa(*w.AnoLancamento)
}

// DownloadURL joins the backend base URL with a work's download path.
// Empty when the work has none.
func DownloadURL(apiURL string, w catalog.WorkRef) string {
	if w.URLDownload == nil || *w.URLDownload == "" {
		return ""
	}
	return strings.TrimRight(apiURL, "/") + *w.URLDownload
}

// Card builds the markdown for a selected work.
func Card(v metadata.View, apiURL string) string {
	w := v.Work
	var b strings.Builder

	title := Sanitize(w.Titulo)
	if title == "" {
		title = Placeholder
	}
	author := Sanitize(w.Autor)
	if author == "" {
		author = Placeholder
	}

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- **Work:** %s\n", title)
	fmt.Fprintf(&b, "- **Author:** %s\n", author)
	fmt.Fprintf(&b, "- **Year:** %s\n", yearOf(w))
	fmt.Fprintf(&b, "- **Genre:** %s\n", orPlaceholder(w.Genero))
	fmt.Fprintf(&b, "- **Movement:** %s\n", orPlaceholder(w.MovimentoLiterario))

	if link := DownloadURL(apiURL, w); link != "" {
		fmt.Fprintf(&b, "\n**Download:** %s\n", link)
	}

	if v.HasExcerpts() {
		b.WriteString("\n## Relevant excerpts\n")
		for _, ex := range v.Excerpts {
			fmt.Fprintf(&b, "\n> %s\n", Sanitize(ex))
		}
	}

	return b.String()
}
