package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/scriptura/internal/admin"
	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/render"
	"github.com/Paintersrp/scriptura/internal/state"
)

type screen int

const (
	screenLocked screen = iota
	screenList
	screenEdit
	screenConfirmDelete
)

type worksLoadedMsg struct {
	works []catalog.AdminWork
	err   error
}

type mutationDoneMsg struct {
	op  string
	id  int
	err error
}

type Model struct {
	backend client.Catalog
	gate    *admin.Gate
	keys    keyMap
	screen  screen
	secret  textinput.Model
	table   table.Model
	// works is the most recent listing. Edits and deletes look their
	// target up here.
	works   []catalog.AdminWork
	form    editForm
	pending catalog.AdminWork
	loading bool
	status  string
	failed  bool
	width   int
	height  int
}

func NewModel(s *state.State) (*Model, error) {
	if s == nil || s.Client == nil {
		return nil, fmt.Errorf("admin model requires a connected state")
	}
	return newModel(s.Client, s.Gate), nil
}

func newModel(backend client.Catalog, gate *admin.Gate) *Model {
	secret := textinput.New()
	secret.Placeholder = "Admin secret"
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'
	secret.CharLimit = 128
	secret.Cursor.Style = cursorStyle
	secret.Focus()

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithStyles(tableStyles()),
	)

	m := &Model{
		backend: backend,
		gate:    gate,
		keys:    newKeyMap(),
		secret:  secret,
		table:   t,
	}
	if !gate.Configured() {
		m.setError(gate.Check(""))
	}
	return m
}

func columns(width int) []table.Column {
	rest := width - 6 - 6 - 10 - 12
	if rest < 20 {
		rest = 20
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Title", Width: rest * 6 / 10},
		{Title: "Author", Width: rest * 4 / 10},
		{Title: "Year", Width: 6},
		{Title: "Status", Width: 10},
	}
}

func toRows(works []catalog.AdminWork) []table.Row {
	rows := make([]table.Row, 0, len(works))
	for _, w := range works {
		year := render.Placeholder
		if w.AnoLancamento != nil {
			year = strconv.Itoa(*w.AnoLancamento)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(w.ID),
			render.Sanitize(w.Titulo),
			render.Sanitize(w.Autor),
			year,
			w.Status.Label(),
		})
	}
	return rows
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.failed = true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width - 8))
		m.table.SetHeight(max(msg.Height-10, 3))
		return m, nil

	case worksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.works = msg.works
		m.table.SetRows(toRows(msg.works))
		if m.table.Cursor() >= len(msg.works) {
			m.table.SetCursor(max(len(msg.works)-1, 0))
		}
		if len(msg.works) == 0 {
			m.setStatus("No works catalogued.")
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%s work #%d", msg.op, msg.id))
		return m, m.load()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		switch m.screen {
		case screenLocked:
			return m.updateLocked(msg)
		case screenList:
			return m.updateList(msg)
		case screenEdit:
			return m.updateEdit(msg)
		case screenConfirmDelete:
			return m.updateConfirm(msg)
		}
	}

	return m, nil
}

func (m *Model) updateLocked(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		err := m.gate.Check(m.secret.Value())
		m.secret.SetValue("")
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.secret.Blur()
		m.screen = screenList
		m.setStatus("")
		return m, m.load()
	}

	var cmd tea.Cmd
	m.secret, cmd = m.secret.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		return m, m.load()
	case key.Matches(msg, m.keys.edit):
		w, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.form = newEditForm(w)
		m.screen = screenEdit
		m.setStatus("")
		return m, textinput.Blink
	case key.Matches(msg, m.keys.remove):
		w, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pending = w
		m.screen = screenConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.screen = screenList
		m.setStatus("edit cancelled")
		return m, nil
	case key.Matches(msg, m.keys.save):
		update, err := m.form.value()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.screen = screenList
		return m, m.update(m.form.id, update)
	case key.Matches(msg, m.keys.next):
		return m, m.form.nextField()
	case m.form.focus == fieldStatus && key.Matches(msg, m.keys.toggle):
		m.form.status = m.form.status.Next()
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		m.screen = screenList
		return m, m.delete(m.pending.ID)
	case key.Matches(msg, m.keys.cancel):
		m.screen = screenList
		m.setStatus("delete cancelled")
	}
	return m, nil
}

// selected resolves the highlighted row against the listing snapshot.
func (m *Model) selected() (catalog.AdminWork, bool) {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return catalog.AdminWork{}, false
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return catalog.AdminWork{}, false
	}
	return catalog.FindWork(m.works, id)
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	backend := m.backend
	return func() tea.Msg {
		works, err := backend.ListWorks(context.Background())
		return worksLoadedMsg{works: works, err: err}
	}
}

// update sends an edit for id. Ids missing from the snapshot are ignored.
func (m *Model) update(id int, u catalog.AdminUpdate) tea.Cmd {
	if _, ok := catalog.FindWork(m.works, id); !ok {
		return nil
	}
	backend := m.backend
	return func() tea.Msg {
		err := backend.UpdateWork(context.Background(), id, u)
		return mutationDoneMsg{op: "updated", id: id, err: err}
	}
}

func (m *Model) delete(id int) tea.Cmd {
	if _, ok := catalog.FindWork(m.works, id); !ok {
		return nil
	}
	backend := m.backend
	return func() tea.Msg {
		err := backend.DeleteWork(context.Background(), id)
		return mutationDoneMsg{op: "deleted", id: id, err: err}
	}
}

func (m *Model) View() string {
	sections := []string{headerStyle.Render("Scriptura admin")}

	switch m.screen {
	case screenLocked:
		if m.gate.Configured() {
			sections = append(sections, m.secret.View())
		}
	case screenList:
		if m.loading && len(m.works) == 0 {
			sections = append(sections, "Loading…")
		} else {
			sections = append(sections, tableBorder.Render(m.table.View()))
		}
		sections = append(sections, blurredStyle.Render("↵/e edit • x delete • r reload • q quit"))
	case screenEdit:
		sections = append(sections, m.form.view(), blurredStyle.Render("tab next • space toggle status • ↵ save • esc cancel"))
	case screenConfirmDelete:
		sections = append(sections, fmt.Sprintf("Delete %q by %s? (y/n)",
			render.Sanitize(m.pending.Titulo), render.Sanitize(m.pending.Autor)))
	}

	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}

	return appStyle.Render(strings.Join(sections, "\n\n"))
}

// Run starts the admin panel on the terminal.
func Run(s *state.State) error {
	m, err := NewModel(s)
	if err != nil {
		return err
	}
	if !m.gate.Configured() {
		return m.gate.Check("")
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
