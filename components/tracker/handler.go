package tracker

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite/pkg/model"
	"github.com/goliatone/go-tracksite/pkg/render"
	"github.com/goliatone/go-tracksite/pkg/site"
	"github.com/goliatone/go-tracksite/pkg/tracking"
	"github.com/goliatone/go-tracksite/pkg/view"
)

// ErrNoTracker is reported by lookups when the component has no tracker.
var ErrNoTracker = errors.New("tracker: no tracking source configured")

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler is the tracking page handler. Close releases its view sessions.
type Handler struct {
	opts     Options
	registry *render.Registry
	sessions *sessions
}

// NewHandler builds a handler with default options plus any overrides.
func NewHandler(fns ...OptionFn) *Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
// Without a registry the bundled HTML and JSON renderers are used.
func HandlerWithOptions(opts Options) *Handler {
	opts = NewOptions(func(o *Options) { *o = opts })

	registry := opts.Registry
	if registry == nil {
		registry = defaultRegistry(opts.Logger)
	}
	source := opts.Tracker
	if source == nil {
		source = tracking.TrackerFunc(func(context.Context, string) (model.Record, error) {
			return model.Record{}, ErrNoTracker
		})
	}
	logger := opts.Logger

	h := &Handler{opts: opts, registry: registry}
	h.sessions = newSessions(opts, func() *view.Session {
		return view.NewSession(source, view.WithLogger(logger))
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	opts := h.opts
	if opts.Guard != nil {
		if err := opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}

	query := r.URL.Query()
	id := strings.TrimSpace(query.Get(opts.IDParam))
	if id == "" {
		http.Redirect(w, r, opts.HomePath, http.StatusSeeOther)
		return
	}

	renderer, err := h.registry.Resolve(query.Get(opts.FormatParam))
	if err != nil {
		opts.Logger.Error("no renderer available", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sid, sess := h.sessions.acquire(w, r, opts.CookieName, id)
	done := sess.Track(id)
	if !waitFor(r, done, opts.PendingAfter) {
		return
	}

	page := sess.Page(opts.Now())
	body, err := renderer.Render(r.Context(), page, render.Options{
		Path:            r.URL.Path,
		HomePath:        opts.HomePath,
		TrackURL:        r.URL.Path,
		IDParam:         opts.IDParam,
		RefreshURL:      r.URL.RequestURI(),
		RefreshInterval: opts.RefreshInterval,
	})
	if err != nil {
		opts.Logger.Error("tracking page render failed",
			zap.String("tracking_id", id),
			zap.String("session", sid),
			zap.String("renderer", renderer.Name()),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusFor(page.State))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// Close shuts down every view session and waits for their lookups.
func (h *Handler) Close() {
	if h == nil || h.sessions == nil {
		return
	}
	h.sessions.close()
}

// waitFor blocks until done closes or d elapses. It reports false when the
// client went away first.
func waitFor(r *http.Request, done <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return r.Context().Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-r.Context().Done():
		return false
	}
	return true
}

func statusFor(state view.State) int {
	switch state {
	case view.StateSuccess:
		return http.StatusOK
	case view.StateError:
		return http.StatusNotFound
	default:
		return http.StatusAccepted
	}
}

func defaultRegistry(logger *zap.Logger) *render.Registry {
	registry := render.NewRegistry()
	html, err := site.NewRenderer(site.WithLogger(logger))
	if err != nil {
		logger.Error("html renderer unavailable", zap.Error(err))
	} else {
		registry.MustRegister(html)
	}
	registry.MustRegister(render.JSON{})
	return registry
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
