package submitter

import (
	"context"
	"errors"
	"sync"
	"time"

	"promptui/backend"
	"promptui/manager"
	"promptui/metrics"
)

// ErrSuperseded is returned for a submission whose result was discarded
// because a newer one was started.
var ErrSuperseded = errors.New("superseded by a newer submission")

// PromptSubmitter runs prompt submissions against the query endpoint.
type PromptSubmitter struct {
	backend   Querier
	inflight  *manager.InFlightManager
	supersede bool

	// writeMu orders the currency check and the output write.
	writeMu sync.Mutex
}

// NewPromptSubmitter creates a submitter. With supersede set, starting a
// submission cancels earlier ones and their results are never displayed.
// Otherwise concurrent submissions are independent and the last to resolve
// is displayed.
func NewPromptSubmitter(b Querier, m *manager.InFlightManager, supersede bool) *PromptSubmitter {
	return &PromptSubmitter{
		backend:   b,
		inflight:  m,
		supersede: supersede,
	}
}

// Submit reads the prompt from in, sends it, and on success writes the
// reply's response field to out. On failure out is not touched.
// Supersession is scoped to out, so out must be comparable (a pointer).
func (s *PromptSubmitter) Submit(ctx context.Context, in Input, out Output) Result {
	prompt := in.Value()
	ticket := s.inflight.Begin(ctx, out, s.supersede)
	start := time.Now()
	log.Debugf("Submission %s: sending prompt (%d bytes)", ticket.ID, len(prompt))

	resp, err := s.backend.Query(ticket.Ctx, prompt)

	res := s.settle(ticket, resp, err, out)
	s.inflight.Finish(ticket, res.Kind == KindSuperseded)
	metrics.ObserveSubmission(res.Kind.String(), time.Since(start))

	if res.OK() {
		log.Debugf("Submission %s: displayed response (%d bytes)", ticket.ID, len(res.Text))
	} else if res.Kind == KindSuperseded {
		log.Debugf("Submission %s: discarded, %v", ticket.ID, res.Err)
	} else {
		log.Warnf("Submission %s failed: %v", ticket.ID, res.Err)
	}
	return res
}

func (s *PromptSubmitter) settle(ticket *manager.Ticket, resp *backend.QueryResponse, err error, out Output) Result {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.supersede && !s.inflight.IsCurrent(ticket) {
		return Result{ID: ticket.ID, Kind: KindSuperseded, Err: ErrSuperseded}
	}
	if err != nil {
		return Result{ID: ticket.ID, Kind: classify(err), Err: err}
	}

	if resp.Response == nil {
		log.Debugf("Submission %s: reply has no response field", ticket.ID)
	}
	text := resp.Text()
	out.SetText(text)
	return Result{ID: ticket.ID, Text: text}
}

func classify(err error) Kind {
	var statusErr *backend.StatusError
	var parseErr *backend.ParseError
	switch {
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &parseErr):
		return KindParse
	default:
		return KindNetwork
	}
}
