package metadata

import (
	"github.com/Paintersrp/scriptura/internal/aggregate"
	"github.com/Paintersrp/scriptura/internal/catalog"
)

// Origin records which kind of source a View was resolved from.
type Origin int

const (
	FromWork Origin = iota
	FromGroup
)

// Source is either a result group or a bare work reference.
type Source interface {
	source()
}

// GroupSource resolves to the work plus the group's excerpts.
type GroupSource struct {
	Group aggregate.Group
}

// WorkSource resolves to the work alone.
type WorkSource struct {
	Work catalog.WorkRef
}

func (GroupSource) source() {}
func (WorkSource) source()  {}

// View is the metadata record shown for a selected work. Excerpts is nil
// unless Origin is FromGroup.
type View struct {
	Work     catalog.WorkRef
	Excerpts []string
	Origin   Origin
}

// HasExcerpts reports whether the view carries an excerpt list.
func (v View) HasExcerpts() bool {
	return v.Origin == FromGroup
}

// Resolve builds the View for a source. Group excerpts are passed through
// as they are; the cap was applied during aggregation.
func Resolve(src Source) View {
	switch s := src.(type) {
	case GroupSource:
		excerpts := append([]string{}, s.Group.Excerpts...)
		return View{Work: s.Group.Work, Excerpts: excerpts, Origin: FromGroup}
	case WorkSource:
		return View{Work: s.Work, Origin: FromWork}
	}
	return View{}
}

// ForMode picks the source shape used when a group title is selected:
// thematic results open the whole group, literal results the bare work.
func ForMode(mode catalog.Mode, g aggregate.Group) Source {
	if mode == catalog.Thematic {
		return GroupSource{Group: g}
	}
	return WorkSource{Work: g.Work}
}
