// Package view implements the search panel's view-state machine. A
// Machine owns the current State and replaces it wholesale on every
// transition, notifying its sinks exactly once per change.
package view

import (
	"errors"

	"github.com/Paintersrp/scriptura/internal/aggregate"
	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/metadata"
)

// State is one of Idle, Searching, Results, ResultsWithMetadata or Error.
type State interface {
	Name() string
	state()
}

type Idle struct{}

type Searching struct {
	Mode  catalog.Mode
	Query string
	Token uint64
}

type Results struct {
	Mode   catalog.Mode
	Query  string
	Groups []aggregate.Group
}

type ResultsWithMetadata struct {
	Mode     catalog.Mode
	Query    string
	Groups   []aggregate.Group
	Selected metadata.View
}

type Error struct {
	Message string
}

func (Idle) Name() string                { return "idle" }
func (Searching) Name() string           { return "searching" }
func (Results) Name() string             { return "results" }
func (ResultsWithMetadata) Name() string { return "results+metadata" }
func (Error) Name() string               { return "error" }

func (Idle) state()                {}
func (Searching) state()           {}
func (Results) state()             {}
func (ResultsWithMetadata) state() {}
func (Error) state()               {}

// Groups returns the groups carried by s, if any.
func Groups(s State) []aggregate.Group {
	switch st := s.(type) {
	case Results:
		return st.Groups
	case ResultsWithMetadata:
		return st.Groups
	}
	return nil
}

// Event is an input to Transition.
type Event interface {
	event()
}

type QuerySubmitted struct {
	Mode  catalog.Mode
	Query string
	Token uint64
}

type SearchSucceeded struct {
	Token   uint64
	Matches []catalog.Match
}

type SearchFailed struct {
	Token uint64
	Err   error
}

// GroupSelected names a group by its work key.
type GroupSelected struct {
	Key string
}

func (QuerySubmitted) event()  {}
func (SearchSucceeded) event() {}
func (SearchFailed) event()    {}
func (GroupSelected) event()   {}

// ErrStale marks a completion for a search that is no longer current.
var ErrStale = errors.New("stale search completion")

// ErrResolutionMiss marks a selection that matches no current group.
var ErrResolutionMiss = errors.New("selection not found in current results")

// ErrNotApplicable marks an event the current state does not accept.
var ErrNotApplicable = errors.New("event not applicable in current state")

// Transition computes the state following e. It returns a non-nil error,
// and s unchanged, when e is ignored.
func Transition(s State, e Event) (State, error) {
	switch ev := e.(type) {
	case QuerySubmitted:
		return Searching{Mode: ev.Mode, Query: ev.Query, Token: ev.Token}, nil

	case SearchSucceeded:
		cur, ok := s.(Searching)
		if !ok || cur.Token != ev.Token {
			return s, ErrStale
		}
		return Results{Mode: cur.Mode, Query: cur.Query, Groups: aggregate.Aggregate(ev.Matches)}, nil

	case SearchFailed:
		cur, ok := s.(Searching)
		if !ok || cur.Token != ev.Token {
			return s, ErrStale
		}
		return Error{Message: errorMessage(ev.Err)}, nil

	case GroupSelected:
		var (
			mode   catalog.Mode
			query  string
			groups []aggregate.Group
		)
		switch cur := s.(type) {
		case Results:
			mode, query, groups = cur.Mode, cur.Query, cur.Groups
		case ResultsWithMetadata:
			mode, query, groups = cur.Mode, cur.Query, cur.Groups
		default:
			return s, ErrNotApplicable
		}
		g, ok := aggregate.Find(groups, ev.Key)
		if !ok {
			return s, ErrResolutionMiss
		}
		return ResultsWithMetadata{
			Mode:     mode,
			Query:    query,
			Groups:   groups,
			Selected: metadata.Resolve(metadata.ForMode(mode, g)),
		}, nil
	}
	return s, ErrNotApplicable
}

func errorMessage(err error) string {
	if err == nil {
		return client.GenericErrorMessage
	}
	var se *client.SearchError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
