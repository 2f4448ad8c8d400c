package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Paintersrp/scriptura/internal/catalog"
)

const (
	LiteralPath  = "/encontrar-por-trecho"
	ThematicPath = "/recomendar-por-tema"
)

// Searcher runs one search against the backend.
type Searcher interface {
	Search(ctx context.Context, mode catalog.Mode, query string) ([]catalog.Match, error)
}

// SearchPath is the endpoint bound to mode.
func SearchPath(mode catalog.Mode) string {
	if mode == catalog.Thematic {
		return ThematicPath
	}
	return LiteralPath
}

type searchRequest struct {
	Texto string `json:"texto"`
}

// searchHit covers both endpoints; only one text field is set per mode.
type searchHit struct {
	Obra                 catalog.WorkRef `json:"obra"`
	TextoEncontrado      string          `json:"texto_encontrado"`
	TextoChunkEncontrado string          `json:"texto_chunk_encontrado"`
}

// Search issues exactly one request for query and returns its matches in
// backend order. Failures are always a *SearchError.
func (c *Client) Search(ctx context.Context, mode catalog.Mode, query string) ([]catalog.Match, error) {
	payload, err := json.Marshal(searchRequest{Texto: query})
	if err != nil {
		return nil, &SearchError{Message: fmt.Sprintf("encoding query: %v", err), Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, SearchPath(mode), bytes.NewReader(payload))
	if err != nil {
		return nil, &SearchError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, &SearchError{Message: NetworkErrorMessage, Err: err}
	}
	if !isSuccess(status) {
		return nil, &SearchError{Message: failureMessage(status, body), Status: status}
	}

	var hits []searchHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, &SearchError{
			Message: fmt.Sprintf("parsing %s search response: %v", mode, err),
			Status:  status,
			Err:     err,
		}
	}

	matches := make([]catalog.Match, 0, len(hits))
	for _, h := range hits {
		excerpt := h.TextoEncontrado
		if mode == catalog.Thematic {
			excerpt = h.TextoChunkEncontrado
		}
		matches = append(matches, catalog.Match{Work: h.Obra, Excerpt: excerpt, Kind: mode})
	}
	return matches, nil
}
