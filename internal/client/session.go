package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/risk-map-client/internal/cache"
	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/couchcryptid/risk-map-client/internal/observability"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown or evicted page session.
var ErrSessionNotFound = errors.New("session not found")

// SessionDeps are the collaborators shared by every page session.
type SessionDeps struct {
	Viewport  Viewport
	Predictor domain.Predictor
	Geocoder  domain.Geocoder // optional; enables the address label
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Observers []Observer
}

// Session is one page load: its page state, location sync, submission
// controller, and renderer. Every event handler runs inside Do, so handlers
// never interleave; only the outbound prediction call runs outside it.
type Session struct {
	id       string
	geocoder domain.Geocoder
	logger   *slog.Logger

	mu         sync.Mutex
	page       *Page
	location   *LocationSync
	controller *Controller
}

// NewSession builds a page session in its initial state: marker at the
// viewport center, date set to today, welcome message shown.
func NewSession(id string, deps SessionDeps) *Session {
	logger := deps.Logger.With("session", id)
	s := &Session{
		id:       id,
		geocoder: deps.Geocoder,
		logger:   logger,
		page:     NewPage(domain.Today()),
	}
	s.location = NewLocationSync(s.page, deps.Viewport)
	s.location.Subscribe(func(_ domain.Coordinate, source Source) {
		deps.Metrics.LocationUpdates.WithLabelValues(string(source)).Inc()
	})

	s.controller = NewController(s, s.page, NewRenderer(s.page), deps.Predictor, logger, deps.Metrics)
	observers := deps.Observers
	s.controller.AddObserver(ObserverFunc(func(ctx context.Context, outcome SubmissionOutcome) {
		outcome.SessionID = id
		for _, o := range observers {
			o.ObserveSubmission(ctx, outcome)
		}
	}))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Do runs fn with exclusive access to the session's page state.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// SessionSnapshot is the page state plus session metadata, as served to the shell.
type SessionSnapshot struct {
	Snapshot
	Session  string            `json:"session"`
	State    string            `json:"state"`
	Marker   domain.Coordinate `json:"marker"`
	Viewport Viewport          `json:"viewport"`
	Alerts   []string          `json:"alerts,omitempty"`
}

// Snapshot copies the current state and drains pending alerts.
func (s *Session) Snapshot() SessionSnapshot {
	var snap SessionSnapshot
	s.Do(func() {
		snap = SessionSnapshot{
			Snapshot: s.page.snapshot(),
			Session:  s.id,
			State:    s.controller.State().String(),
			Marker:   s.location.Coordinate(),
			Viewport: s.location.Viewport(),
			Alerts:   s.page.TakeAlerts(),
		}
	})
	return snap
}

// MapClick handles a click on the map and returns the committed coordinate.
func (s *Session) MapClick(point domain.Coordinate) domain.Coordinate {
	var c domain.Coordinate
	s.Do(func() {
		s.location.OnMapClick(point)
		c = s.location.Coordinate()
	})
	return c
}

// MarkerDragEnd handles the end of a marker drag at the given resting position.
func (s *Session) MarkerDragEnd(resting domain.Coordinate) domain.Coordinate {
	var c domain.Coordinate
	s.Do(func() {
		s.location.DragMarker(resting)
		s.location.OnMarkerDragEnd()
		c = s.location.Coordinate()
	})
	return c
}

// ApplyFields writes user-edited form values. Either all values are applied or,
// if any id is unknown, none are.
func (s *Session) ApplyFields(values map[string]string) error {
	var err error
	s.Do(func() {
		for id := range values {
			if _, ok := s.page.fields[id]; !ok {
				err = fmt.Errorf("%w: %q", ErrUnknownField, id)
				return
			}
		}
		for id, v := range values {
			s.page.fields[id] = v
		}
	})
	return err
}

// Submit applies the final form values and runs a submission.
func (s *Session) Submit(ctx context.Context, values map[string]string) error {
	if err := s.ApplyFields(values); err != nil {
		return err
	}
	return s.controller.Submit(ctx)
}

// RefreshAddress resolves the address label for the current marker position.
// The lookup runs outside Do; the label is written only if the marker has not
// moved in the meantime.
func (s *Session) RefreshAddress(ctx context.Context) {
	if s.geocoder == nil {
		return
	}

	var coord domain.Coordinate
	s.Do(func() { coord = s.location.Coordinate() })

	addr := domain.ResolveAddress(ctx, coord, s.geocoder, s.logger)
	if addr == "" {
		return
	}

	s.Do(func() {
		if s.location.Coordinate() == coord {
			s.page.Address = addr
		}
	})
}

// Store holds live page sessions, dropping the least recently used beyond its
// capacity.
type Store struct {
	deps     SessionDeps
	sessions *cache.LRU[*Session]
}

// NewStore creates a session store holding at most maxSessions sessions.
func NewStore(maxSessions int, deps SessionDeps) *Store {
	st := &Store{deps: deps}
	st.sessions = cache.NewLRU(maxSessions, func(id string, _ *Session) {
		deps.Metrics.SessionsEvicted.Inc()
		deps.Logger.Debug("session evicted", "session", id)
	})
	return st
}

// Create starts a new page session.
func (st *Store) Create() *Session {
	s := NewSession(uuid.NewString(), st.deps)
	st.sessions.Put(s.id, s)
	st.deps.Metrics.SessionsActive.Set(float64(st.sessions.Len()))
	return s
}

// Get returns a live session by id.
func (st *Store) Get(id string) (*Session, error) {
	s, ok := st.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	return st.sessions.Len()
}
