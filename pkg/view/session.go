package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite/pkg/model"
	"github.com/goliatone/go-tracksite/pkg/store"
	"github.com/goliatone/go-tracksite/pkg/tracking"
)

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithLogger attaches a logger to the session.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore backs the session with an existing store.
func WithStore(st *store.Store) SessionOption {
	return func(s *Session) {
		if st != nil {
			s.store = st
		}
	}
}

// Session is one mounted tracking view. It owns a store and at most one
// outstanding lookup; asking for a different identifier cancels the lookup
// in flight and discards its result.
type Session struct {
	tracker tracking.Tracker
	store   *store.Store
	logger  *zap.Logger

	// writeMu serialises store writes and generation changes. Lock order is
	// writeMu then mu; store writes run with only writeMu held.
	writeMu   sync.Mutex
	mu        sync.Mutex
	wg        sync.WaitGroup
	gen       uint64
	id        string
	state     State
	updatedAt string
	test      bool
	err       error
	shown     bool
	cancel    context.CancelFunc
	done      chan struct{}
	closed    bool
}

// NewSession builds a session that resolves identifiers with tracker.
func NewSession(tracker tracking.Tracker, opts ...SessionOption) *Session {
	s := &Session{
		tracker: tracker,
		store:   store.New(),
		logger:  zap.NewNop(),
		state:   StatePending,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Store exposes the backing field store. Listeners subscribed to it run
// while the session applies a lookup; they may call Snapshot or Page but
// must not call Track.
func (s *Session) Store() *store.Store {
	return s.store
}

// Track makes id the current identifier and returns a channel closed once
// the lookup for it settles or is superseded. Calls for the current
// identifier share the outstanding lookup until its result has been rendered
// through Page; after that the next call starts a fresh lookup.
func (s *Session) Track(id string) <-chan struct{} {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done
	}
	if s.done != nil && id == s.id && !s.shown {
		done := s.done
		s.mu.Unlock()
		return done
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.id = id
	s.state = StatePending
	s.updatedAt = ""
	s.test = false
	s.err = nil
	s.shown = false

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.wg.Add(1)
	s.mu.Unlock()

	s.store.ResetForm()
	s.store.SetSVGRaw("")
	s.store.SetStatus("")
	s.store.SetStatusMessage("")

	go s.run(ctx, gen, id, done)
	return done
}

func (s *Session) run(ctx context.Context, gen uint64, id string, done chan struct{}) {
	defer s.wg.Done()
	defer close(done)

	start := time.Now()
	var (
		rec model.Record
		err error
	)
	if s.tracker == nil {
		err = errors.New("view: session has no tracker")
	} else {
		rec, err = s.tracker.Track(ctx, id)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded lookup", zap.String("tracking_id", id))
		return
	}
	if err != nil {
		s.state = StateError
		s.err = err
		s.mu.Unlock()
		s.logger.Info("tracking lookup failed",
			zap.String("tracking_id", id),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.mu.Unlock()

	// gen cannot move while writeMu is held.
	s.store.SetSVGRaw(rec.SVG)
	s.store.SetFields(rec.FormFields)
	s.store.SetStatus(rec.Status)
	if rec.ErrorMessage != "" {
		s.store.SetStatusMessage(rec.ErrorMessage)
	}

	s.mu.Lock()
	s.state = StateSuccess
	s.updatedAt = rec.UpdatedAt
	s.test = rec.Test
	s.mu.Unlock()

	s.logger.Debug("tracking lookup settled",
		zap.String("tracking_id", id),
		zap.Duration("duration", time.Since(start)),
	)
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		TrackingID: s.id,
		State:      s.state,
		Store:      s.store.Snapshot(),
		UpdatedAt:  s.updatedAt,
		Test:       s.test,
		Err:        s.err,
	}
}

// Page builds the page for the current identifier and marks settled results
// as shown.
func (s *Session) Page(now time.Time) Page {
	s.mu.Lock()
	snap := s.snapshotLocked()
	if snap.State != StatePending {
		s.shown = true
	}
	s.mu.Unlock()
	return BuildPage(snap, now)
}

// Close cancels the outstanding lookup and waits for it to return. Track
// is a no-op afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
