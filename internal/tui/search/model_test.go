package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/view"
)

type fakeBackend struct {
	mu        sync.Mutex
	queries   []string
	results   map[string][]catalog.Match
	err       error
	downloads []string
}

func (f *fakeBackend) Search(_ context.Context, mode catalog.Mode, query string) ([]catalog.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, mode.String()+":"+query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeBackend) Download(_ context.Context, urlPath, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, urlPath)
	return dir + "/7.pdf", nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func urlOf(s string) *string { return &s }

func sampleMatches() []catalog.Match {
	dom := catalog.WorkRef{ID: 7, Titulo: "Dom Casmurro", Autor: "Machado de Assis", URLDownload: urlOf("/download/7.pdf")}
	ira := catalog.WorkRef{ID: 3, Titulo: "Iracema", Autor: "José de Alencar"}
	return []catalog.Match{
		{Work: dom, Excerpt: "olhos de ressaca"},
		{Work: ira, Excerpt: "virgem dos lábios de mel"},
		{Work: dom, Excerpt: "cigana oblíqua e dissimulada"},
	}
}

func newTestModel(backend *fakeBackend) *Model {
	m := newModel(backend, nil, "/tmp/books", nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// searchDone runs the commands returned by a submit and returns the
// search completion among them.
func searchDone(t *testing.T, cmd tea.Cmd) searchDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]
		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	}
	for _, msg := range msgs {
		if done, ok := msg.(searchDoneMsg); ok {
			return done
		}
	}
	t.Fatalf("no search completion in %v", msgs)
	return searchDoneMsg{}
}

func typeQuery(m *Model, q string) tea.Cmd {
	m.input.SetValue(q)
	_, cmd := m.Update(enter)
	return cmd
}

func TestShortQueryNeverReachesBackend(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)

	cmd := typeQuery(m, "abc")
	assert.Nil(t, cmd)
	assert.Equal(t, 0, backend.calls())
	assert.Equal(t, view.Idle{}, m.current)
	assert.Contains(t, m.status, "at least 5 characters")
	assert.Contains(t, m.View(), "at least 5 characters")
}

func TestSubmitSearchesAndShowsGroups(t *testing.T) {
	backend := &fakeBackend{results: map[string][]catalog.Match{"olhos de ressaca": sampleMatches()}}
	m := newTestModel(backend)

	done := searchDone(t, typeQuery(m, "olhos de ressaca"))
	assert.IsType(t, view.Searching{}, m.current)
	assert.Contains(t, m.View(), "Searching")

	m.Update(done)
	res, ok := m.current.(view.Results)
	require.True(t, ok)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, []string{"literal:olhos de ressaca"}, backend.queries)

	assert.Equal(t, focusResults, m.focus)
	out := m.View()
	assert.Contains(t, out, "Dom Casmurro - Machado de Assis")
	assert.Contains(t, out, "cigana oblíqua e dissimulada")
	assert.Len(t, m.list.Items(), 2)
}

func TestEmptyResultsShowNoResults(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.Update(searchDone(t, typeQuery(m, "nada por aqui")))

	assert.Contains(t, m.View(), "No results found.")
	assert.Equal(t, focusInput, m.focus)
}

func TestSearchErrorIsShownAndRecoverable(t *testing.T) {
	backend := &fakeBackend{err: &client.SearchError{Message: "timeout", Status: 504}}
	m := newTestModel(backend)

	m.Update(searchDone(t, typeQuery(m, "some query")))
	assert.Equal(t, view.Error{Message: "timeout"}, m.current)
	assert.Contains(t, m.View(), "Error: timeout")

	backend.err = nil
	backend.results = map[string][]catalog.Match{"other query": sampleMatches()}
	m.Update(searchDone(t, typeQuery(m, "other query")))
	assert.IsType(t, view.Results{}, m.current)
}

func TestStaleCompletionIsDiscarded(t *testing.T) {
	backend := &fakeBackend{results: map[string][]catalog.Match{
		"first query":  sampleMatches()[:1],
		"second query": sampleMatches()[1:2],
	}}
	m := newTestModel(backend)

	first := searchDone(t, typeQuery(m, "first query"))
	require.Equal(t, focusInput, m.focus)
	second := searchDone(t, typeQuery(m, "second query"))

	m.Update(second)
	m.Update(first)

	res, ok := m.current.(view.Results)
	require.True(t, ok)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "Iracema", res.Groups[0].Work.Titulo)
	assert.Equal(t, "second query", res.Query)
}

func TestModeToggleSearchesThematicAndOpensGroup(t *testing.T) {
	backend := &fakeBackend{results: map[string][]catalog.Match{"saudade do mar": sampleMatches()}}
	m := newTestModel(backend)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, catalog.Thematic, m.mode)

	m.Update(searchDone(t, typeQuery(m, "saudade do mar")))
	assert.Equal(t, []string{"thematic:saudade do mar"}, backend.queries)
	assert.NotContains(t, m.View(), "olhos de ressaca")

	m.Update(enter)
	st, ok := m.current.(view.ResultsWithMetadata)
	require.True(t, ok)
	assert.Equal(t, 7, st.Selected.Work.ID)
	assert.Equal(t, []string{"olhos de ressaca", "cigana oblíqua e dissimulada"}, st.Selected.Excerpts)

	out := m.View()
	assert.Contains(t, out, "Relevant excerpts")
	assert.Contains(t, out, "**Year:** N/A")
}

func TestCopyExcerpts(t *testing.T) {
	backend := &fakeBackend{results: map[string][]catalog.Match{"olhos de ressaca": sampleMatches()}}
	m := newTestModel(backend)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m.Update(searchDone(t, typeQuery(m, "olhos de ressaca")))
	m.Update(runes("y"))

	assert.Equal(t, "olhos de ressaca\n\ncigana oblíqua e dissimulada", copied)
	assert.Equal(t, "copied 2 excerpt(s)", m.status)

	m.copy = func(string) error { return errors.New("no clipboard") }
	m.Update(runes("y"))
	assert.Contains(t, m.status, "copy failed")
}

func TestDownloadRequiresOpenWork(t *testing.T) {
	backend := &fakeBackend{results: map[string][]catalog.Match{"olhos de ressaca": sampleMatches()}}
	m := newTestModel(backend)
	m.Update(searchDone(t, typeQuery(m, "olhos de ressaca")))

	_, cmd := m.Update(runes("d"))
	assert.Nil(t, cmd)
	assert.Equal(t, "open a work before downloading", m.status)

	m.Update(enter)
	require.IsType(t, view.ResultsWithMetadata{}, m.current)

	_, cmd = m.Update(runes("d"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, []string{"/download/7.pdf"}, backend.downloads)
	assert.Equal(t, "saved /tmp/books/7.pdf", m.status)
}

func TestDownloadWithoutLink(t *testing.T) {
	backend := &fakeBackend{results: map[string][]catalog.Match{"virgem dos lábios": sampleMatches()[1:2]}}
	m := newTestModel(backend)
	m.Update(searchDone(t, typeQuery(m, "virgem dos lábios")))
	m.Update(enter)

	_, cmd := m.Update(runes("d"))
	assert.Nil(t, cmd)
	assert.Equal(t, "this work has no download link", m.status)
	assert.Empty(t, backend.downloads)
}

func TestTypingInInputDoesNotTriggerShortcuts(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.Update(runes("y"))
	m.Update(runes("d"))
	m.Update(runes("q"))

	assert.Equal(t, "ydq", m.input.Value())
	assert.Empty(t, m.status)
}

func TestTabSwitchesFocus(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.Update(tab)
	assert.Equal(t, focusResults, m.focus)
	m.Update(tab)
	assert.Equal(t, focusInput, m.focus)
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m.Update(tab)
	_, cmd = m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewMentionsMode(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	assert.True(t, strings.Contains(m.View(), "literal"))
}
