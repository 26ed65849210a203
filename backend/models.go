package backend

import (
	"fmt"
	"net/http"
)

// QueryRequest is the JSON body sent to the query endpoint.
type QueryRequest struct {
	Prompt string `json:"prompt"`
}

// QueryResponse is the JSON body expected back. Response is nil when the
// field is absent or null.
type QueryResponse struct {
	Response *string `json:"response"`
}

// Text returns the response field, or "" when it was missing.
func (r *QueryResponse) Text() string {
	if r == nil || r.Response == nil {
		return ""
	}
	return *r.Response
}

// NetworkError wraps a failure to reach the endpoint or read its reply.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("bad status: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// ParseError reports a reply body that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }
