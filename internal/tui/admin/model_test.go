package admin

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/scriptura/internal/admin"
	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/client"
)

type fakeCatalog struct {
	mu      sync.Mutex
	works   []catalog.AdminWork
	lists   int
	updates map[int]catalog.AdminUpdate
	deletes []int
	failOn  string
}

func (f *fakeCatalog) ListWorks(context.Context) ([]catalog.AdminWork, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return append([]catalog.AdminWork(nil), f.works...), nil
}

func (f *fakeCatalog) UpdateWork(_ context.Context, id int, u catalog.AdminUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "update" {
		return &client.APIError{Op: "update work", Status: 404, Message: "Livro não encontrado"}
	}
	if f.updates == nil {
		f.updates = map[int]catalog.AdminUpdate{}
	}
	f.updates[id] = u
	for i := range f.works {
		if f.works[i].ID == id {
			f.works[i].Titulo, f.works[i].Autor, f.works[i].Status = u.Titulo, u.Autor, u.Status
		}
	}
	return nil
}

func (f *fakeCatalog) DeleteWork(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	kept := f.works[:0]
	for _, w := range f.works {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	f.works = kept
	return nil
}

func seeded() *fakeCatalog {
	return &fakeCatalog{works: []catalog.AdminWork{
		{WorkRef: catalog.WorkRef{ID: 1, Titulo: "Iracema", Autor: "José de Alencar"}, Status: catalog.StatusProcessed},
		{WorkRef: catalog.WorkRef{ID: 2, Titulo: "O Cortiço", Autor: "Aluísio Azevedo"}, Status: catalog.StatusInReview},
	}}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds msg to the model and keeps running returned commands
// until the model settles.
func drive(m *Model, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		_, cmd := m.Update(next)
		if cmd == nil {
			continue
		}
		switch out := cmd().(type) {
		case worksLoadedMsg, mutationDoneMsg:
			queue = append(queue, out)
		}
	}
}

func unlocked(t *testing.T, backend *fakeCatalog) *Model {
	t.Helper()
	m := newModel(backend, admin.NewGate("s3cret"))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	drive(m, runes("s3cret"))
	drive(m, enter)
	require.Equal(t, screenList, m.screen)
	return m
}

func TestWrongSecretStaysLocked(t *testing.T) {
	backend := seeded()
	m := newModel(backend, admin.NewGate("s3cret"))

	drive(m, runes("guess"))
	drive(m, enter)

	assert.Equal(t, screenLocked, m.screen)
	assert.True(t, m.failed)
	assert.Contains(t, m.View(), "access denied")
	assert.Empty(t, m.secret.Value())
	assert.Zero(t, backend.lists)
}

func TestUnsetSecretDenies(t *testing.T) {
	m := newModel(seeded(), admin.NewGate(""))
	assert.Contains(t, m.View(), "no admin secret configured")

	drive(m, enter)
	assert.Equal(t, screenLocked, m.screen)
}

func TestSecretIsMasked(t *testing.T) {
	m := newModel(seeded(), admin.NewGate("s3cret"))
	drive(m, runes("s3cret"))
	assert.NotContains(t, m.View(), "s3cret")
}

func TestUnlockLoadsListing(t *testing.T) {
	backend := seeded()
	m := unlocked(t, backend)

	assert.Equal(t, 1, backend.lists)
	require.Len(t, m.works, 2)
	out := m.View()
	assert.Contains(t, out, "Iracema")
	assert.Contains(t, out, "Approved")
	assert.Contains(t, out, "Review")
}

func TestEditUpdatesAndReloads(t *testing.T) {
	backend := seeded()
	m := unlocked(t, backend)

	drive(m, down)
	drive(m, enter)
	require.Equal(t, screenEdit, m.screen)
	assert.Equal(t, 2, m.form.id)

	drive(m, runes(" (1890)"))
	// Focus changes return a blocking cursor blink command; skip it.
	m.Update(tab)
	m.Update(tab)
	drive(m, runes(" "))
	drive(m, enter)

	assert.Equal(t, screenList, m.screen)
	assert.Equal(t, catalog.AdminUpdate{
		Titulo: "O Cortiço (1890)",
		Autor:  "Aluísio Azevedo",
		Status: catalog.StatusProcessed,
	}, backend.updates[2])
	assert.Equal(t, 2, backend.lists)
	assert.Equal(t, "updated work #2", m.status)

	w, ok := catalog.FindWork(m.works, 2)
	require.True(t, ok)
	assert.Equal(t, catalog.StatusProcessed, w.Status)
}

func TestEditRejectsBlankTitle(t *testing.T) {
	backend := seeded()
	m := unlocked(t, backend)

	drive(m, enter)
	m.form.inputs[fieldTitle].SetValue("  ")
	drive(m, enter)

	assert.Equal(t, screenEdit, m.screen)
	assert.True(t, m.failed)
	assert.Empty(t, backend.updates)
}

func TestEditCancel(t *testing.T) {
	backend := seeded()
	m := unlocked(t, backend)

	drive(m, runes("e"))
	drive(m, esc)
	assert.Equal(t, screenList, m.screen)
	assert.Empty(t, backend.updates)
}

func TestEditFailureKeepsSnapshot(t *testing.T) {
	backend := seeded()
	backend.failOn = "update"
	m := unlocked(t, backend)

	drive(m, enter)
	drive(m, enter)

	assert.True(t, m.failed)
	assert.Equal(t, "update work: Livro não encontrado", m.status)
	assert.Equal(t, 1, backend.lists)
}

func TestUpdateOutsideSnapshotIsNoop(t *testing.T) {
	m := unlocked(t, seeded())
	assert.Nil(t, m.update(99, catalog.AdminUpdate{Titulo: "x", Autor: "y"}))
	assert.Nil(t, m.delete(99))
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	backend := seeded()
	m := unlocked(t, backend)

	drive(m, runes("x"))
	require.Equal(t, screenConfirmDelete, m.screen)
	assert.Contains(t, m.View(), `Delete "Iracema" by José de Alencar?`)

	drive(m, runes("n"))
	assert.Equal(t, screenList, m.screen)
	assert.Empty(t, backend.deletes)

	drive(m, runes("x"))
	drive(m, runes("y"))
	assert.Equal(t, []int{1}, backend.deletes)
	assert.Equal(t, 2, backend.lists)
	require.Len(t, m.works, 1)
	assert.Equal(t, 2, m.works[0].ID)
}

func TestListErrorIsShown(t *testing.T) {
	m := newModel(seeded(), admin.NewGate("s3cret"))
	m.Update(worksLoadedMsg{err: errors.New("list works: boom")})
	assert.True(t, m.failed)
	assert.Contains(t, m.View(), "list works: boom")
}
