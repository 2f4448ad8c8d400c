package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Paintersrp/scriptura/internal/aggregate"
	"github.com/Paintersrp/scriptura/internal/catalog"
)

func TestResolveGroupKeepsExcerpts(t *testing.T) {
	w := catalog.WorkRef{ID: 4, Titulo: "Memórias Póstumas", Autor: "Machado de Assis"}
	view := Resolve(GroupSource{Group: aggregate.Group{Work: w, Excerpts: []string{"x", "y"}}})

	assert.Equal(t, w, view.Work)
	assert.Equal(t, []string{"x", "y"}, view.Excerpts)
	assert.Equal(t, FromGroup, view.Origin)
	assert.True(t, view.HasExcerpts())
}

func TestResolveGroupWithNoExcerptsStillHasList(t *testing.T) {
	view := Resolve(GroupSource{Group: aggregate.Group{Work: catalog.WorkRef{ID: 1}}})

	assert.NotNil(t, view.Excerpts)
	assert.Empty(t, view.Excerpts)
	assert.True(t, view.HasExcerpts())
}

func TestResolveBareWorkHasNoExcerpts(t *testing.T) {
	w := catalog.WorkRef{ID: 2, Titulo: "O Cortiço", Autor: "Aluísio Azevedo"}
	view := Resolve(WorkSource{Work: w})

	assert.Equal(t, w, view.Work)
	assert.Nil(t, view.Excerpts)
	assert.False(t, view.HasExcerpts())
}

func TestResolvePassesAbsentFieldsThrough(t *testing.T) {
	view := Resolve(WorkSource{Work: catalog.WorkRef{ID: 3, Titulo: "Iracema"}})

	assert.Nil(t, view.Work.AnoLancamento)
	assert.Nil(t, view.Work.Genero)
	assert.Nil(t, view.Work.URLDownload)
}

func TestResolveDoesNotAliasGroupExcerpts(t *testing.T) {
	g := aggregate.Group{Work: catalog.WorkRef{ID: 1}, Excerpts: []string{"a"}}
	view := Resolve(GroupSource{Group: g})
	view.Excerpts[0] = "changed"

	assert.Equal(t, "a", g.Excerpts[0])
}

func TestForMode(t *testing.T) {
	g := aggregate.Group{Work: catalog.WorkRef{ID: 9}, Excerpts: []string{"e"}}

	assert.IsType(t, GroupSource{}, ForMode(catalog.Thematic, g))
	assert.IsType(t, WorkSource{}, ForMode(catalog.Literal, g))
}
