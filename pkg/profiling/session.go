// Package profiling records timed Start/Finish events tagged with
// named dimensions and correlates them into a hierarchical execution
// model with self-time accounting.
package profiling

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session owns all recording state: the event buffer, the id counter,
// the enable flags and the measured recording overhead. The zero state
// is disabled; instrumentation may call Start/Finish unconditionally.
//
// A session is safe for concurrent use, but events are correlated in
// append order, so interleaving Start/Finish pairs from multiple
// goroutines into one session will fail nesting validation at Stop.
// Use one session per goroutine for concurrent instrumentation.
type Session struct {
	mu sync.Mutex

	profiling bool
	logging   bool

	nextID   EventID
	events   []Event
	overhead time.Duration
	begin    time.Time

	now func() time.Time
	log *zap.Logger
}

type Option func(*Session)

// WithLogger sets the logger used by logging mode to emit events as
// they happen, for long-running or non-terminating computations.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithClock overrides the session clock. Tests use this to produce
// deterministic timings.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		now: time.Now,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) enabled() bool {
	return s.profiling || s.logging
}

// Start records a Start event and returns its id. While the session is
// disabled it returns 0 without evaluating dims.
func (s *Session) Start(dims DimsFunc) EventID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled() {
		return 0
	}
	t0 := s.now()
	s.nextID++
	id := s.nextID
	s.record(Event{ID: id, Kind: KindStart, Dims: evalDims(dims), Time: t0})
	s.overhead += s.now().Sub(t0)
	return id
}

// Finish records a Finish event for a previously issued id. The id is
// not validated here; pairing is checked during correlation.
func (s *Session) Finish(id EventID, dims DimsFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled() {
		return
	}
	t0 := s.now()
	s.record(Event{ID: id, Kind: KindFinish, Dims: evalDims(dims), Time: t0})
	s.overhead += s.now().Sub(t0)
}

func (s *Session) record(ev Event) {
	if s.logging {
		s.log.Info("profile event",
			zap.Uint64("id", uint64(ev.ID)),
			zap.Stringer("kind", ev.Kind),
			zap.String("dims", FormatDims(ev.Dims)),
		)
	}
	if s.profiling {
		s.events = append(s.events, ev)
	}
}

func evalDims(dims DimsFunc) DimensionMap {
	if dims == nil {
		return nil
	}
	return dims()
}

// Wrap runs body between a Start/Finish pair and returns its result.
// The Finish event is emitted on every exit path, including panics, so
// a failing body cannot leave the session with an unterminated open.
func Wrap[T any](s *Session, dims DimsFunc, body func() T) T {
	id := s.Start(dims)
	defer s.Finish(id, nil)
	return body()
}

// Reset discards all recorded events, resets the id counter to zero and
// zeroes the accumulated overhead. The enable flags are left alone.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.events = nil
	s.nextID = 0
	s.overhead = 0
}

// Begin clears prior state, enables recording and stamps the session
// start time. With logging set, events are also emitted immediately
// through the session logger.
func (s *Session) Begin(logging bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.profiling = true
	s.logging = logging
	s.begin = s.now()
}

// SetProfiling toggles event buffering independently of logging.
func (s *Session) SetProfiling(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiling = on
}

// SetLogging toggles immediate event emission independently of
// buffering.
func (s *Session) SetLogging(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logging = on
}

// Stop disables recording and correlates the buffered events once. The
// returned Result can be aggregated and reported repeatedly for
// different dimension combinations without re-running correlation.
func (s *Session) Stop() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiling = false
	s.logging = false
	total := s.now().Sub(s.begin)
	records, err := correlate(s.events, s.overhead)
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Total: total}, nil
}

// Events returns a copy of the recorded event buffer.
func (s *Session) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

// Overhead returns the accumulated wall time spent inside Start and
// Finish calls so far.
func (s *Session) Overhead() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overhead
}

// Len returns the number of buffered events.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
