package tracker

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite/pkg/render"
	"github.com/goliatone/go-tracksite/pkg/tracking"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath       string
	IDParam         string
	FormatParam     string
	HomePath        string
	CookieName      string
	PendingAfter    time.Duration
	RefreshInterval time.Duration
	SessionTTL      time.Duration
	Guard           GuardFunc

	Tracker  tracking.Tracker
	Registry *render.Registry
	Logger   *zap.Logger
	Sessions prometheus.Gauge
	Now      func() time.Time
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       "/track",
		IDParam:         "trackingId",
		FormatParam:     "format",
		HomePath:        "/",
		CookieName:      "tracksite_session",
		PendingAfter:    750 * time.Millisecond,
		RefreshInterval: 2 * time.Second,
		SessionTTL:      30 * time.Minute,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if opts.RoutePath == "" {
		opts.RoutePath = defaults.RoutePath
	}
	if opts.IDParam == "" {
		opts.IDParam = defaults.IDParam
	}
	if opts.FormatParam == "" {
		opts.FormatParam = defaults.FormatParam
	}
	if opts.HomePath == "" {
		opts.HomePath = defaults.HomePath
	}
	if opts.CookieName == "" {
		opts.CookieName = defaults.CookieName
	}
	if opts.PendingAfter < 0 {
		opts.PendingAfter = 0
	}
	if opts.RefreshInterval < 0 {
		opts.RefreshInterval = 0
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaults.SessionTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithIDParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.IDParam = name
	}
}

func WithFormatParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormatParam = name
	}
}

func WithHomePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HomePath = path
	}
}

func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

// WithPendingAfter sets how long a request waits for the lookup before the
// pending page is returned.
func WithPendingAfter(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PendingAfter = d
	}
}

// WithRefreshInterval sets the reload interval of the pending page. Zero
// disables the reload.
func WithRefreshInterval(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RefreshInterval = d
	}
}

// WithSessionTTL sets how long an idle view session is kept.
func WithSessionTTL(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionTTL = d
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithTracker(t tracking.Tracker) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Tracker = t
	}
}

func WithRegistry(reg *render.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registry = reg
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithSessionGauge reports the number of live view sessions on g.
func WithSessionGauge(g prometheus.Gauge) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Sessions = g
	}
}

func WithNow(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Now = now
	}
}

// NewSessionGauge registers the tracksite_view_sessions gauge on reg.
func NewSessionGauge(reg prometheus.Registerer) (prometheus.Gauge, error) {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tracksite",
		Subsystem: "view",
		Name:      "sessions",
		Help:      "Number of live tracking view sessions.",
	})
	if reg == nil {
		return g, nil
	}
	if err := reg.Register(g); err != nil {
		return nil, err
	}
	return g, nil
}
