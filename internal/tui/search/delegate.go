package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/Paintersrp/scriptura/internal/aggregate"
	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/render"
)

type groupItem struct {
	group aggregate.Group
}

func (i groupItem) Title() string       { return render.Title(i.group.Work) }
func (i groupItem) FilterValue() string { return i.group.Work.Titulo + " " + i.group.Work.Autor }

// groupDelegate draws a group title and, for literal results, its
// excerpts underneath.
type groupDelegate struct {
	mode   catalog.Mode
	height int
}

func newGroupDelegate(mode catalog.Mode, groups []aggregate.Group) groupDelegate {
	height := 1
	if mode == catalog.Literal {
		for _, g := range groups {
			height = max(height, 1+len(g.Excerpts))
		}
	}
	return groupDelegate{mode: mode, height: height}
}

func (d groupDelegate) Height() int                             { return d.height }
func (d groupDelegate) Spacing() int                            { return 1 }
func (d groupDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d groupDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	gi, ok := item.(groupItem)
	if !ok {
		return
	}

	width := m.Width() - 6
	if width < 10 {
		width = 10
	}

	title := truncate.StringWithTail(gi.Title(), uint(width), "…")
	if more := gi.group.Total - len(gi.group.Excerpts); more > 0 {
		title = fmt.Sprintf("%s (+%d)", title, more)
	}
	if index == m.Index() {
		title = selectedItemStyle.Render("> " + title)
	} else {
		title = titleItemStyle.Render(title)
	}

	lines := []string{title}
	if d.mode == catalog.Literal {
		for _, ex := range gi.group.Excerpts {
			line := truncate.StringWithTail(render.Sanitize(ex), uint(width-4), "…")
			lines = append(lines, excerptStyle.Render(line))
		}
	}
	fmt.Fprint(w, strings.Join(lines, "\n"))
}

func toListItems(groups []aggregate.Group) []list.Item {
	items := make([]list.Item, 0, len(groups))
	for _, g := range groups {
		items = append(items, groupItem{group: g})
	}
	return items
}
