package view

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/Paintersrp/scriptura/internal/catalog"
)

// MinQueryLength is the shortest query, in characters, either search accepts.
const MinQueryLength = 5

// ValidationError rejects a query before any request is issued.
type ValidationError struct {
	Mode  catalog.Mode
	Query string
	Min   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("the %s search needs at least %d characters", e.Mode, e.Min)
}

// Validate normalizes query and checks its length.
func Validate(mode catalog.Mode, query string) (string, error) {
	q := norm.NFC.String(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return "", &ValidationError{Mode: mode, Query: query, Min: MinQueryLength}
	}
	return q, nil
}

// Ticket identifies a search the caller must run and report back.
type Ticket struct {
	Token uint64
	Mode  catalog.Mode
	Query string
}

// Sink receives every state the machine enters.
type Sink func(State)

// Machine drives the view state. It is meant to be used from a single
// goroutine, such as a bubbletea Update loop.
type Machine struct {
	state  State
	token  uint64
	sinks  []Sink
	logger *zap.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for transition traces.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSink subscribes s at construction time.
func WithSink(s Sink) Option {
	return func(m *Machine) {
		m.Subscribe(s)
	}
}

func NewMachine(opts ...Option) *Machine {
	m := &Machine{state: Idle{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Subscribe registers a sink for subsequent transitions.
func (m *Machine) Subscribe(s Sink) {
	if s != nil {
		m.sinks = append(m.sinks, s)
	}
}

// Submit validates query and, when it is acceptable, moves to Searching
// under a fresh token. Any search still in flight becomes stale. A
// *ValidationError leaves the state untouched.
func (m *Machine) Submit(mode catalog.Mode, query string) (Ticket, error) {
	q, err := Validate(mode, query)
	if err != nil {
		return Ticket{}, err
	}
	m.token++
	t := Ticket{Token: m.token, Mode: mode, Query: q}
	m.apply(QuerySubmitted{Mode: mode, Query: q, Token: t.Token})
	return t, nil
}

// Complete reports the outcome of the search identified by token. It
// returns false when the outcome was discarded as stale.
func (m *Machine) Complete(token uint64, matches []catalog.Match, err error) bool {
	var ev Event = SearchSucceeded{Token: token, Matches: matches}
	if err != nil {
		ev = SearchFailed{Token: token, Err: err}
	}
	if token != m.token {
		m.logger.Debug("discarding stale search", zap.Uint64("token", token), zap.Uint64("latest", m.token))
		return false
	}
	return m.apply(ev)
}

// Select opens the metadata of the group keyed by key. Selections that
// match nothing are ignored.
func (m *Machine) Select(key string) bool {
	return m.apply(GroupSelected{Key: key})
}

// LatestToken is the token of the most recently submitted search.
func (m *Machine) LatestToken() uint64 {
	return m.token
}

func (m *Machine) apply(ev Event) bool {
	next, err := Transition(m.state, ev)
	if err != nil {
		if errors.Is(err, ErrStale) || errors.Is(err, ErrResolutionMiss) {
			m.logger.Debug("event ignored", zap.String("state", m.state.Name()), zap.Error(err))
		}
		return false
	}
	m.logger.Debug("view transition",
		zap.String("from", m.state.Name()),
		zap.String("to", next.Name()),
		zap.Uint64("token", m.token),
	)
	m.state = next
	for _, s := range m.sinks {
		s(next)
	}
	return true
}
