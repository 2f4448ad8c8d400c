package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/metadata"
	"github.com/Paintersrp/scriptura/internal/render"
	"github.com/Paintersrp/scriptura/internal/state"
	"github.com/Paintersrp/scriptura/internal/view"
)

// Backend is what the search screen needs from the API client.
type Backend interface {
	client.Searcher
	Download(ctx context.Context, urlPath, dir string) (string, error)
}

type focus int

const (
	focusInput focus = iota
	focusResults
)

type searchDoneMsg struct {
	token   uint64
	matches []catalog.Match
	err     error
}

type downloadDoneMsg struct {
	path string
	err  error
}

type Model struct {
	backend     Backend
	machine     *view.Machine
	renderer    *render.Renderer
	logger      *zap.Logger
	input       textinput.Model
	spinner     spinner.Model
	list        list.Model
	help        help.Model
	keys        keyMap
	mode        catalog.Mode
	focus       focus
	current     view.State
	status      string
	downloadDir string
	copy        func(string) error
	width       int
	height      int
}

func NewModel(s *state.State) (*Model, error) {
	if s == nil || s.Client == nil || s.Config == nil {
		return nil, fmt.Errorf("search model requires a connected state")
	}

	renderer, err := render.NewRenderer(s.Config.Theme, 80, s.Config.APIURL)
	if err != nil {
		return nil, err
	}

	return newModel(s.Client, renderer, s.Config.DownloadDir, s.Logger), nil
}

func newModel(backend Backend, renderer *render.Renderer, downloadDir string, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Type at least 5 characters and press enter"
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyle

	lm := list.New(nil, newGroupDelegate(catalog.Literal, nil), 0, 0)
	lm.Title = "Results"
	lm.SetShowHelp(false)
	lm.SetFilteringEnabled(false)
	lm.DisableQuitKeybindings()

	m := &Model{
		backend:     backend,
		renderer:    renderer,
		logger:      logger,
		input:       ti,
		spinner:     sp,
		list:        lm,
		help:        help.New(),
		keys:        newKeyMap(),
		mode:        catalog.Literal,
		current:     view.Idle{},
		downloadDir: downloadDir,
		copy:        clipboard.WriteAll,
	}
	m.machine = view.NewMachine(
		view.WithLogger(logger.Named("view")),
		view.WithSink(m.render),
	)
	return m
}

// render is the machine's sink. It runs once per transition.
func (m *Model) render(s view.State) {
	m.current = s

	switch st := s.(type) {
	case view.Searching:
		m.status = ""
	case view.Results:
		m.setGroups(st)
		if len(st.Groups) > 0 {
			m.focusResults()
		}
	case view.Error:
		m.list.SetItems(nil)
	}
	m.resize()
}

func (m *Model) setGroups(res view.Results) {
	m.list.SetDelegate(newGroupDelegate(res.Mode, res.Groups))
	m.list.SetItems(toListItems(res.Groups))
	m.list.Select(0)
}

func (m *Model) focusResults() {
	m.focus = focusResults
	m.input.Blur()
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case searchDoneMsg:
		m.machine.Complete(msg.token, msg.matches, msg.err)
		return m, nil

	case downloadDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("download failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("saved %s", msg.path)
		}
		return m, nil

	case spinner.TickMsg:
		if _, ok := m.current.(view.Searching); !ok {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.toggleMode) {
			m.toggleMode()
			return m, nil
		}
		if key.Matches(msg, m.keys.toggleFocus) {
			if m.focus == focusInput {
				m.focusResults()
				return m, nil
			}
			return m, m.focusInput()
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateResults(msg)
	}

	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.back):
		if m.input.Value() == "" {
			return m, tea.Quit
		}
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		m.openSelected()
		return m, nil
	case key.Matches(msg, m.keys.copy):
		m.copyExcerpts()
		return m, nil
	case key.Matches(msg, m.keys.download):
		return m, m.download()
	case key.Matches(msg, m.keys.back):
		return m, m.focusInput()
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) toggleMode() {
	if m.mode == catalog.Literal {
		m.mode = catalog.Thematic
	} else {
		m.mode = catalog.Literal
	}
	m.status = fmt.Sprintf("next search: %s", m.mode)
}

// submit starts a search for the typed query. Short queries never reach
// the backend; the validation message is shown inline instead.
func (m *Model) submit() tea.Cmd {
	ticket, err := m.machine.Submit(m.mode, m.input.Value())
	if err != nil {
		var ve *view.ValidationError
		if errors.As(err, &ve) {
			m.status = ve.Error()
			return nil
		}
		m.status = err.Error()
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.searchCmd(ticket))
}

func (m *Model) searchCmd(t view.Ticket) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		matches, err := backend.Search(context.Background(), t.Mode, t.Query)
		return searchDoneMsg{token: t.Token, matches: matches, err: err}
	}
}

func (m *Model) openSelected() {
	item, ok := m.list.SelectedItem().(groupItem)
	if !ok {
		return
	}
	m.machine.Select(item.group.Work.Key())
}

// selectedView is the metadata currently open, if any.
func (m *Model) selectedView() (metadata.View, bool) {
	st, ok := m.current.(view.ResultsWithMetadata)
	if !ok {
		return metadata.View{}, false
	}
	return st.Selected, true
}

func (m *Model) copyExcerpts() {
	var excerpts []string
	if v, ok := m.selectedView(); ok && v.HasExcerpts() {
		excerpts = v.Excerpts
	} else if item, ok := m.list.SelectedItem().(groupItem); ok {
		excerpts = item.group.Excerpts
	}
	if len(excerpts) == 0 {
		m.status = "nothing to copy"
		return
	}

	clean := make([]string, 0, len(excerpts))
	for _, ex := range excerpts {
		clean = append(clean, render.Sanitize(ex))
	}
	if err := m.copy(strings.Join(clean, "\n\n")); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("copied %d excerpt(s)", len(clean))
}

func (m *Model) download() tea.Cmd {
	v, ok := m.selectedView()
	if !ok {
		m.status = "open a work before downloading"
		return nil
	}
	if v.Work.URLDownload == nil || *v.Work.URLDownload == "" {
		m.status = "this work has no download link"
		return nil
	}

	backend, urlPath, dir := m.backend, *v.Work.URLDownload, m.downloadDir
	m.status = fmt.Sprintf("downloading %s…", render.Sanitize(v.Work.Titulo))
	return func() tea.Msg {
		path, err := backend.Download(context.Background(), urlPath, dir)
		return downloadDoneMsg{path: path, err: err}
	}
}

func (m *Model) resize() {
	if m.width <= 0 {
		return
	}
	listWidth := m.width - 4
	if _, ok := m.current.(view.ResultsWithMetadata); ok {
		listWidth = m.width / 2
	}
	m.list.SetSize(listWidth, max(m.height-8, 3))
	m.input.Width = max(m.width-12, 10)
	if m.renderer != nil {
		if err := m.renderer.Resize(max(m.width-listWidth-6, 20)); err != nil {
			m.logger.Warn("resizing renderer", zap.Error(err))
		}
	}
}

func (m *Model) View() string {
	header := lipgloss.JoinHorizontal(
		lipgloss.Center,
		headerStyle.Render("Scriptura"),
		modeStyle.Render(m.mode.String()),
	)
	input := inputStyle.Render(m.input.View())

	var body string
	switch st := m.current.(type) {
	case view.Idle:
		body = statusStyle.Render("Search by excerpt (literal) or by theme (thematic).")
	case view.Searching:
		body = fmt.Sprintf("%s Searching %q…", m.spinner.View(), st.Query)
	case view.Results:
		if len(st.Groups) == 0 {
			body = render.NoResults
		} else {
			body = m.list.View()
		}
	case view.ResultsWithMetadata:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), cardStyle.Render(m.cardView(st.Selected)))
	case view.Error:
		body = errorStyle.Render("Error: " + st.Message)
	}

	sections := []string{header, input, body}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return appStyle.Render(strings.Join(sections, "\n\n"))
}

func (m *Model) cardView(v metadata.View) string {
	if m.renderer == nil {
		return render.Card(v, "")
	}
	out, err := m.renderer.Card(v)
	if err != nil {
		m.logger.Warn("rendering card", zap.Error(err))
		return render.Card(v, "")
	}
	return out
}

// Run starts the search screen on the terminal.
func Run(s *state.State) error {
	m, err := NewModel(s)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
