package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Paintersrp/scriptura/internal/aggregate"
	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/view"
)

// NoResults is shown for a search that matched nothing.
const NoResults = "No results found."

// Title formats a group heading as "title - author".
func Title(w catalog.WorkRef) string {
	title := Sanitize(w.Titulo)
	if title == "" {
		title = Placeholder
	}
	if author := Sanitize(w.Autor); author != "" {
		return title + " - " + author
	}
	return title
}

// WriteGroups prints groups the way each mode displays them: literal
// groups carry their excerpts, thematic groups only the title.
func WriteGroups(w io.Writer, mode catalog.Mode, groups []aggregate.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, NoResults)
		return
	}
	for i, g := range groups {
		fmt.Fprintf(w, "%d. %s\n", i+1, Title(g.Work))
		if mode != catalog.Literal {
			continue
		}
		for _, ex := range g.Excerpts {
			fmt.Fprintf(w, "   > %s\n", Sanitize(ex))
		}
		if more := g.Total - len(g.Excerpts); more > 0 {
			fmt.Fprintf(w, "   (+%d more)\n", more)
		}
	}
}

// TextSink returns a view.Sink that writes each state to w as plain
// lines. It backs the one-shot search command.
func TextSink(w io.Writer, apiURL string) view.Sink {
	return func(s view.State) {
		switch st := s.(type) {
		case view.Searching:
			fmt.Fprintf(w, "Searching (%s): %s\n", st.Mode, st.Query)
		case view.Results:
			WriteGroups(w, st.Mode, st.Groups)
		case view.ResultsWithMetadata:
			fmt.Fprintln(w, strings.TrimRight(Card(st.Selected, apiURL), "\n"))
		case view.Error:
			fmt.Fprintf(w, "Error: %s\n", st.Message)
		}
	}
}
