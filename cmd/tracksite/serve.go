package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite/components/tracker"
	"github.com/goliatone/go-tracksite/internal/config"
	"github.com/goliatone/go-tracksite/pkg/render"
	"github.com/goliatone/go-tracksite/pkg/site"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and the tracking page over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg, a.logger.Logger)
		},
	}
	flags := cmd.Flags()
	flags.String("addr", "", "listen address")
	annotate(flags, "addr", "server.addr")
	addTrackingFlags(flags)
	return cmd
}

// server holds the assembled HTTP surface so it can be exercised without
// binding a port.
type server struct {
	handler   http.Handler
	component *tracker.Component
}

func newServer(cfg *config.Config, logger *zap.Logger) (*server, error) {
	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}

	trk, err := buildTracker(cfg.Tracking, logger, registerer)
	if err != nil {
		return nil, fmt.Errorf("tracker: %w", err)
	}

	sel, themeCfg, err := selectTheme(cfg.Site)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	html, err := site.NewRenderer(
		site.WithTheme(themeCfg),
		site.WithSiteName(cfg.Site.Name),
		site.WithLogger(logger.Named("site")),
	)
	if err != nil {
		return nil, fmt.Errorf("site renderer: %w", err)
	}

	renderers := render.NewRegistry()
	if err := renderers.Register(html); err != nil {
		return nil, err
	}
	if err := renderers.Register(render.JSON{}); err != nil {
		return nil, err
	}

	fns := []tracker.OptionFn{
		tracker.WithRoutePath(cfg.View.RoutePath),
		tracker.WithIDParam(cfg.View.IDParam),
		tracker.WithPendingAfter(cfg.View.PendingAfter),
		tracker.WithRefreshInterval(cfg.View.RefreshInterval),
		tracker.WithSessionTTL(cfg.View.SessionTTL),
		tracker.WithTracker(trk),
		tracker.WithRegistry(renderers),
		tracker.WithLogger(logger.Named("tracker")),
	}
	if registerer != nil {
		gauge, err := tracker.NewSessionGauge(registerer)
		if err != nil {
			return nil, err
		}
		fns = append(fns, tracker.WithSessionGauge(gauge))
	}
	component := tracker.New(fns...)

	mux := http.NewServeMux()
	trackPath, err := component.RegisterRoutes(mux, "")
	if err != nil {
		component.Close()
		return nil, err
	}
	site.RegisterRoutes(mux, html, render.Options{
		HomePath: component.Options().HomePath,
		TrackURL: trackPath,
		IDParam:  cfg.View.IDParam,
	}, sel.Manifest.Assets.Prefix)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if reg != nil {
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return &server{handler: mux, component: component}, nil
}

func (s *server) Close() {
	s.component.Close()
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("grace", cfg.Server.ShutdownGrace))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
