package manager

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ticket identifies one in-flight submission.
type Ticket struct {
	ID     uuid.UUID
	Ctx    context.Context
	key    any
	cancel context.CancelFunc
	seq    uint64
}

// Metrics holds the submission counters logged by the monitor.
type Metrics struct {
	InFlight    int
	Completed   int
	Superseded  int
	LastLogTime time.Time
	changed     bool
	mu          sync.Mutex
}

// InFlightManager hands out tickets for submissions and tracks, per key,
// which one is the most recent.
type InFlightManager struct {
	mu      sync.Mutex
	seq     uint64
	current map[any]*Ticket
	active  map[uuid.UUID]*Ticket
	metrics *Metrics
	closed  chan struct{}
	stop    sync.Once

	// OnChange, if set, is called with the in-flight count after every change.
	OnChange func(inFlight int)
}

// NewInFlightManager starts a manager and its metrics monitor.
func NewInFlightManager() *InFlightManager {
	m := &InFlightManager{
		current: make(map[any]*Ticket),
		active:  make(map[uuid.UUID]*Ticket),
		metrics: &Metrics{},
		closed:  make(chan struct{}),
	}
	go m.monitorMetrics()
	return m
}

// Begin registers a new submission for key derived from ctx. key must be
// comparable; submissions writing to the same place share a key. When
// supersede is true, earlier in-flight tickets with the same key are
// canceled.
func (m *InFlightManager) Begin(ctx context.Context, key any, supersede bool) *Ticket {
	tctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.seq++
	t := &Ticket{
		ID:     uuid.New(),
		Ctx:    tctx,
		key:    key,
		cancel: cancel,
		seq:    m.seq,
	}
	var stale []*Ticket
	if supersede {
		for _, other := range m.active {
			if other.key == key {
				stale = append(stale, other)
			}
		}
	}
	m.active[t.ID] = t
	m.current[key] = t
	inFlight := len(m.active)
	m.mu.Unlock()

	for _, other := range stale {
		log.Debugf("Submission %s superseded by %s", other.ID, t.ID)
		other.cancel()
	}

	m.metrics.incrementInFlight()
	m.notify(inFlight)
	return t
}

// IsCurrent reports whether t is the most recently begun submission for
// its key.
func (m *InFlightManager) IsCurrent(t *Ticket) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.current[t.key]
	return ok && cur.seq == t.seq
}

// Finish releases t. superseded records that its result was discarded.
func (m *InFlightManager) Finish(t *Ticket, superseded bool) {
	m.mu.Lock()
	if _, ok := m.active[t.ID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.active, t.ID)
	if cur, ok := m.current[t.key]; ok && cur == t {
		delete(m.current, t.key)
	}
	inFlight := len(m.active)
	m.mu.Unlock()

	t.cancel()
	m.metrics.decrementInFlight(superseded)
	m.notify(inFlight)
}

// InFlight returns the number of unfinished tickets.
func (m *InFlightManager) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Snapshot returns the current counters.
func (m *InFlightManager) Snapshot() (inFlight, completed, superseded int) {
	m.metrics.mu.Lock()
	defer m.metrics.mu.Unlock()
	return m.metrics.InFlight, m.metrics.Completed, m.metrics.Superseded
}

// Shutdown stops the monitor and cancels every outstanding ticket.
func (m *InFlightManager) Shutdown() {
	m.stop.Do(func() {
		close(m.closed)
	})
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.active {
		t.cancel()
	}
}

func (m *InFlightManager) notify(inFlight int) {
	if m.OnChange != nil {
		m.OnChange(inFlight)
	}
}

// monitorMetrics logs counter changes at most once per second.
func (m *InFlightManager) monitorMetrics() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.closed:
			return
		case <-ticker.C:
		}

		m.metrics.mu.Lock()
		now := time.Now()
		if m.metrics.changed && now.Sub(m.metrics.LastLogTime) >= time.Second {
			log.Infof("In flight: %d | Completed: %d | Superseded: %d",
				m.metrics.InFlight, m.metrics.Completed, m.metrics.Superseded)
			m.metrics.LastLogTime = now
			m.metrics.changed = false
		}
		m.metrics.mu.Unlock()
	}
}

func (s *Metrics) incrementInFlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InFlight++
	s.changed = true
}

func (s *Metrics) decrementInFlight(superseded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InFlight > 0 {
		s.InFlight--
	}
	if superseded {
		s.Superseded++
	} else {
		s.Completed++
	}
	s.changed = true
}
