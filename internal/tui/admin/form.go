package admin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/scriptura/internal/catalog"
)

const (
	fieldTitle = iota
	fieldAuthor
	fieldStatus
	fieldCount
)

// editForm edits the title, author and status of one work.
type editForm struct {
	id     int
	inputs []textinput.Model
	status catalog.Status
	focus  int
}

func newEditForm(w catalog.AdminWork) editForm {
	f := editForm{
		id:     w.ID,
		inputs: make([]textinput.Model, 2),
		status: w.Status,
	}
	if f.status == "" {
		f.status = catalog.StatusInReview
	}

	for i := range f.inputs {
		t := textinput.New()
		t.Cursor.Style = cursorStyle
		t.CharLimit = 200
		switch i {
		case fieldTitle:
			t.Placeholder = "Title"
			t.SetValue(w.Titulo)
			t.Focus()
			t.PromptStyle = focusedStyle
			t.TextStyle = focusedStyle
		case fieldAuthor:
			t.Placeholder = "Author"
			t.SetValue(w.Autor)
		}
		f.inputs[i] = t
	}
	return f
}

func (f *editForm) nextField() tea.Cmd {
	f.focus = (f.focus + 1) % fieldCount
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			f.inputs[i].PromptStyle = focusedStyle
			f.inputs[i].TextStyle = focusedStyle
			continue
		}
		f.inputs[i].Blur()
		f.inputs[i].PromptStyle = blurredStyle
		f.inputs[i].TextStyle = blurredStyle
	}
	return cmd
}

func (f *editForm) update(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// value builds the update body; title and author must not be blank.
func (f editForm) value() (catalog.AdminUpdate, error) {
	u := catalog.AdminUpdate{
		Titulo: strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Autor:  strings.TrimSpace(f.inputs[fieldAuthor].Value()),
		Status: f.status,
	}
	if u.Titulo == "" || u.Autor == "" {
		return u, fmt.Errorf("title and author are required")
	}
	return u, nil
}

func (f editForm) view() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Editing work #%d\n\n", f.id)
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	status := fmt.Sprintf("Status: < %s (%s) >", f.status.Label(), f.status)
	if f.focus == fieldStatus {
		status = focusedStyle.Render(status)
	} else {
		status = blurredStyle.Render(status)
	}
	b.WriteString(status)
	return b.String()
}
