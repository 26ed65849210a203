package submitter

import (
	"context"

	"github.com/google/uuid"

	"promptui/backend"
)

// Input is a control holding the prompt text.
type Input interface {
	Value() string
}

// Output is a control whose displayed text receives the response.
type Output interface {
	SetText(string)
}

// Querier sends a prompt to the query endpoint.
type Querier interface {
	Query(ctx context.Context, prompt string) (*backend.QueryResponse, error)
}

// Kind classifies a failed submission.
type Kind int

const (
	KindNone Kind = iota
	KindNetwork
	KindStatus
	KindParse
	KindSuperseded
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	case KindSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Result is the outcome of one submission. Err is nil on success, in which
// case Text is what was written to the output.
type Result struct {
	ID   uuid.UUID
	Text string
	Kind Kind
	Err  error
}

func (r Result) OK() bool {
	return r.Err == nil
}
