package aggregate

import "github.com/Paintersrp/scriptura/internal/catalog"

// MaxExcerpts bounds the excerpts exposed per group.
const MaxExcerpts = 5

// Group collects every match of a single work.
type Group struct {
	Work     catalog.WorkRef
	Excerpts []string
	// Total counts the matches seen for the work before truncation.
	Total int
}

// Aggregate groups matches by work in order of first appearance. Each
// group exposes at most MaxExcerpts excerpts, the first ones encountered.
// Identical excerpts are kept as distinct entries.
func Aggregate(matches []catalog.Match) []Group {
	if len(matches) == 0 {
		return []Group{}
	}

	byKey := make(map[string]*Group)
	order := make([]string, 0, len(matches))

	for _, m := range matches {
		key := m.Work.Key()
		g, ok := byKey[key]
		if !ok {
			g = &Group{Work: m.Work, Excerpts: []string{}}
			byKey[key] = g
			order = append(order, key)
		}
		g.Excerpts = append(g.Excerpts, m.Excerpt)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		n := min(len(g.Excerpts), MaxExcerpts)
		groups = append(groups, Group{
			Work:     g.Work,
			Excerpts: append([]string(nil), g.Excerpts[:n]...),
			Total:    len(g.Excerpts),
		})
	}
	return groups
}

// Find returns the group whose work has the given key.
func Find(groups []Group, key string) (Group, bool) {
	for _, g := range groups {
		if g.Work.Key() == key {
			return g, true
		}
	}
	return Group{}, false
}
