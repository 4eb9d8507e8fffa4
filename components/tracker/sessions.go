package tracker

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite/pkg/view"
)

type sessionEntry struct {
	session  *view.Session
	lastSeen time.Time
}

// viewKey identifies one tracking view: a client cookie and the identifier
// it is tracking. Tabs of one browser tracking different identifiers get
// separate views and never cancel each other.
type viewKey struct {
	client     string
	trackingID string
}

// sessions maps client cookies and tracking identifiers to view sessions.
// Idle clients and views are swept lazily on access.
type sessions struct {
	mu      sync.Mutex
	clients map[string]time.Time
	entries map[viewKey]*sessionEntry
	ttl     time.Duration
	now     func() time.Time
	create  func() *view.Session
	gauge   prometheus.Gauge
	logger  *zap.Logger
}

func newSessions(opts Options, create func() *view.Session) *sessions {
	return &sessions{
		clients: make(map[string]time.Time),
		entries: make(map[viewKey]*sessionEntry),
		ttl:     opts.SessionTTL,
		now:     opts.Now,
		create:  create,
		gauge:   opts.Sessions,
		logger:  opts.Logger,
	}
}

// acquire returns the client id and the view session for trackingID. A
// missing, malformed or expired cookie gets a new client id, and the cookie
// is (re)set on every call.
func (s *sessions) acquire(w http.ResponseWriter, r *http.Request, cookieName, trackingID string) (string, *view.Session) {
	client := ""
	if cookie, err := r.Cookie(cookieName); err == nil {
		if parsed, err := uuid.Parse(cookie.Value); err == nil {
			client = parsed.String()
		}
	}

	now := s.now()
	s.mu.Lock()
	expired := s.sweepLocked(now)
	if _, ok := s.clients[client]; !ok {
		client = uuid.NewString()
		s.logger.Debug("view client created", zap.String("session", client))
	}
	s.clients[client] = now

	key := viewKey{client: client, trackingID: trackingID}
	entry, ok := s.entries[key]
	if !ok {
		entry = &sessionEntry{session: s.create()}
		s.entries[key] = entry
	}
	entry.lastSeen = now
	count := len(s.entries)
	s.mu.Unlock()

	s.report(count)
	closeAll(expired)

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    client,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return client, entry.session
}

func (s *sessions) sweepLocked(now time.Time) []*view.Session {
	var expired []*view.Session
	for key, entry := range s.entries {
		if now.Sub(entry.lastSeen) < s.ttl {
			continue
		}
		expired = append(expired, entry.session)
		delete(s.entries, key)
	}
	for client, lastSeen := range s.clients {
		if now.Sub(lastSeen) < s.ttl {
			continue
		}
		delete(s.clients, client)
		s.logger.Debug("view client expired", zap.String("session", client))
	}
	return expired
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// close shuts every session down and waits for outstanding lookups.
func (s *sessions) close() {
	s.mu.Lock()
	all := make([]*view.Session, 0, len(s.entries))
	for key, entry := range s.entries {
		all = append(all, entry.session)
		delete(s.entries, key)
	}
	clear(s.clients)
	s.mu.Unlock()

	s.report(0)
	closeAll(all)
}

func (s *sessions) report(count int) {
	if s.gauge != nil {
		s.gauge.Set(float64(count))
	}
}

func closeAll(list []*view.Session) {
	for _, sess := range list {
		sess.Close()
	}
}
