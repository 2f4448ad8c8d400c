// Package catalog holds the shapes the Scriptura backend returns for
// catalogued works and the matches found inside them.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// WorkRef is a catalogued work as reported by the backend. Optional fields
// are nil when the backend omits them.
type WorkRef struct {
	ID                 int     `json:"id"                            yaml:"id"`
	Titulo             string  `json:"titulo"                        yaml:"titulo"`
	Autor              string  `json:"autor"                         yaml:"autor"`
	AnoLancamento      *int    `json:"ano_lancamento,omitempty"      yaml:"ano_lancamento,omitempty"`
	Genero             *string `json:"genero,omitempty"              yaml:"genero,omitempty"`
	MovimentoLiterario *string `json:"movimento_literario,omitempty" yaml:"movimento_literario,omitempty"`
	URLDownload        *string `json:"url_download,omitempty"        yaml:"url_download,omitempty"`
}

// Key identifies the work within a result set. Works without a backend id
// (the literal endpoint may strip it) fall back to title and author.
func (w WorkRef) Key() string {
	if w.ID > 0 {
		return "id:" + strconv.Itoa(w.ID)
	}
	return fmt.Sprintf("work:%s\x00%s", w.Titulo, w.Autor)
}

// Mode selects which search endpoint is queried.
type Mode int

const (
	Literal Mode = iota
	Thematic
)

func (m Mode) String() string {
	switch m {
	case Literal:
		return "literal"
	case Thematic:
		return "thematic"
	default:
		return "unknown"
	}
}

// ParseMode maps a user supplied mode name onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "literal", "trecho", "l":
		return Literal, nil
	case "thematic", "tema", "contexto", "t":
		return Thematic, nil
	}
	return Literal, fmt.Errorf("unknown search mode %q (want literal or thematic)", s)
}

// Match is one excerpt found by a search, tied to the work it came from.
type Match struct {
	Work    WorkRef
	Excerpt string
	Kind    Mode
}

// Status is the review state of a work in the admin listing.
type Status string

const (
	StatusProcessed Status = "PROCESSADO"
	StatusInReview  Status = "EM_REVISAO"
)

var Statuses = []Status{StatusProcessed, StatusInReview}

// Label is the operator-facing name of the status.
func (s Status) Label() string {
	if s == StatusProcessed {
		return "Approved"
	}
	return "Review"
}

// AdminWork is a row of the admin listing.
type AdminWork struct {
	WorkRef `yaml:",inline"`
	Status  Status `json:"status" yaml:"status"`
}

// AdminUpdate is the body accepted by the admin update endpoint.
type AdminUpdate struct {
	Titulo string `json:"titulo"`
	Autor  string `json:"autor"`
	Status Status `json:"status"`
}

// Next cycles to the other status.
func (s Status) Next() Status {
	if s == StatusProcessed {
		return StatusInReview
	}
	return StatusProcessed
}

// ParseStatus accepts a backend value or an operator label.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "processado", "approved":
		return StatusProcessed, nil
	case "em_revisao", "review":
		return StatusInReview, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// FindWork looks id up in a listing snapshot.
func FindWork(works []AdminWork, id int) (AdminWork, bool) {
	for _, w := range works {
		if w.ID == id {
			return w, true
		}
	}
	return AdminWork{}, false
}
