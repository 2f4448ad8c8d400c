package aggregate

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/scriptura/internal/catalog"
)

func work(id int) catalog.WorkRef {
	return catalog.WorkRef{ID: id, Titulo: "Work " + strconv.Itoa(id), Autor: "Author"}
}

func match(id int, excerpt string) catalog.Match {
	return catalog.Match{Work: work(id), Excerpt: excerpt, Kind: catalog.Thematic}
}

func TestAggregateEmpty(t *testing.T) {
	groups := Aggregate(nil)
	require.NotNil(t, groups)
	assert.Empty(t, groups)

	assert.Empty(t, Aggregate([]catalog.Match{}))
}

func TestAggregateCapsExcerptsPerGroup(t *testing.T) {
	var matches []catalog.Match
	for i := 1; i <= 7; i++ {
		matches = append(matches, match(1, strconv.Itoa(i)))
	}
	matches = append(matches, match(2, "b1"), match(2, "b2"))

	groups := Aggregate(matches)
	require.Len(t, groups, 2)

	assert.Equal(t, 1, groups[0].Work.ID)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, groups[0].Excerpts)
	assert.Equal(t, 7, groups[0].Total)

	assert.Equal(t, 2, groups[1].Work.ID)
	assert.Equal(t, []string{"b1", "b2"}, groups[1].Excerpts)
	assert.Equal(t, 2, groups[1].Total)
}

func TestAggregateKeepsFirstSeenOrder(t *testing.T) {
	matches := []catalog.Match{
		match(3, "a"),
		match(1, "b"),
		match(3, "c"),
		match(2, "d"),
		match(1, "e"),
	}

	groups := Aggregate(matches)
	require.Len(t, groups, 3)

	ids := []int{groups[0].Work.ID, groups[1].Work.ID, groups[2].Work.ID}
	assert.Equal(t, []int{3, 1, 2}, ids)
	assert.Equal(t, []string{"a", "c"}, groups[0].Excerpts)
	assert.Equal(t, []string{"b", "e"}, groups[1].Excerpts)
}

func TestAggregateOrderFollowsFirstAppearanceForAllPermutations(t *testing.T) {
	base := []catalog.Match{match(1, "x"), match(2, "y"), match(1, "z"), match(3, "w")}

	for _, perm := range permutations(len(base)) {
		input := make([]catalog.Match, len(base))
		for i, p := range perm {
			input[i] = base[p]
		}

		var want []int
		seen := map[int]bool{}
		for _, m := range input {
			if !seen[m.Work.ID] {
				seen[m.Work.ID] = true
				want = append(want, m.Work.ID)
			}
		}

		groups := Aggregate(input)
		got := make([]int, 0, len(groups))
		for _, g := range groups {
			got = append(got, g.Work.ID)
			assert.LessOrEqual(t, len(g.Excerpts), MaxExcerpts)
		}
		assert.Equal(t, want, got, "permutation %v", perm)
	}
}

func TestAggregateDoesNotDeduplicateExcerpts(t *testing.T) {
	matches := []catalog.Match{
		match(1, "same"), match(1, "same"), match(1, "same"),
		match(1, "same"), match(1, "same"), match(1, "other"),
	}

	groups := Aggregate(matches)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"same", "same", "same", "same", "same"}, groups[0].Excerpts)
}

func TestAggregateIsPure(t *testing.T) {
	matches := []catalog.Match{match(1, "a"), match(2, "b"), match(1, "c")}
	first := Aggregate(matches)
	second := Aggregate(matches)
	assert.Equal(t, first, second)

	first[0].Excerpts[0] = "mutated"
	assert.Equal(t, "a", Aggregate(matches)[0].Excerpts[0])
}

func TestAggregateGroupsWorksWithoutID(t *testing.T) {
	a := catalog.WorkRef{Titulo: "Dom Casmurro", Autor: "Machado de Assis"}
	b := catalog.WorkRef{Titulo: "Iracema", Autor: "José de Alencar"}
	matches := []catalog.Match{
		{Work: a, Excerpt: "one"},
		{Work: b, Excerpt: "two"},
		{Work: a, Excerpt: "three"},
	}

	groups := Aggregate(matches)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"one", "three"}, groups[0].Excerpts)
}

func TestFind(t *testing.T) {
	groups := Aggregate([]catalog.Match{match(1, "a"), match(2, "b")})

	g, ok := Find(groups, work(2).Key())
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, g.Excerpts)

	_, ok = Find(groups, work(9).Key())
	assert.False(t, ok)
}

func permutations(n int) [][]int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var out [][]int
	var walk func(k int)
	walk = func(k int) {
		if k == n {
			out = append(out, append([]int(nil), idx...))
			return
		}
		for i := k; i < n; i++ {
			idx[k], idx[i] = idx[i], idx[k]
			walk(k + 1)
			idx[k], idx[i] = idx[i], idx[k]
		}
	}
	walk(0)
	return out
}
