package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// NetworkErrorMessage is reported when no response was received.
	NetworkErrorMessage = "network error"
	// GenericErrorMessage is reported when nothing better is known.
	GenericErrorMessage = "unknown error"
)

// ErrNetwork wraps transport failures.
var ErrNetwork = errors.New(NetworkErrorMessage)

// SearchError is the failure outcome of a search call. Message is what
// the user sees.
type SearchError struct {
	Message string
	Status  int
	Err     error
}

func (e *SearchError) Error() string { return e.Message }

func (e *SearchError) Unwrap() error { return e.Err }

// APIError is returned by the admin and upload calls for non-2xx replies.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Msg string `json:"msg"`
}

// detailMessage extracts the backend's detail text. A string detail is
// returned verbatim; a list of validation entries is joined.
func detailMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var list []validationDetail
	if err := json.Unmarshal(eb.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, d := range list {
			if d.Msg != "" {
				msgs = append(msgs, d.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func statusMessage(status int) string {
	return fmt.Sprintf("HTTP error: %d", status)
}

// failureMessage is the detail text when present, else the status text.
func failureMessage(status int, body []byte) string {
	if msg := detailMessage(body); msg != "" {
		return msg
	}
	return statusMessage(status)
}
