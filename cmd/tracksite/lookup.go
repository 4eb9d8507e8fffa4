package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite"
	"github.com/goliatone/go-tracksite/internal/config"
	"github.com/goliatone/go-tracksite/pkg/render"
	"github.com/goliatone/go-tracksite/pkg/renderers/tui"
	"github.com/goliatone/go-tracksite/pkg/tracking"
	"github.com/goliatone/go-tracksite/pkg/view"
)

type lookupOptions struct {
	format string
	width  int
	wait   time.Duration
}

func newLookupCmd(a *app) *cobra.Command {
	lo := &lookupOptions{}
	cmd := &cobra.Command{
		Use:   "lookup [trackingId]",
		Short: "Look up one tracking identifier and print the result",
		Long: `Look up one tracking identifier and print it as a terminal card, or as
JSON with --format json. Without an argument the identifier is prompted for.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return lookup(cmd.Context(), a.cfg, a.logger.Logger, id, lo, tui.NewSurveyDriver(cmd.ErrOrStderr()), cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&lo.format, "format", "f", tui.CardName, "output format (text or json)")
	flags.IntVar(&lo.width, "width", 0, "card width in columns (0 fits the content)")
	flags.DurationVar(&lo.wait, "wait", time.Minute, "give up waiting for the lookup after this long")
	addTrackingFlags(flags)
	return cmd
}

// errLookupFailed marks a lookup whose result was printed as not found.
var errLookupFailed = fmt.Errorf("lookup: %w", tracking.ErrNotFound)

func lookup(ctx context.Context, cfg *config.Config, logger *zap.Logger, id string, lo *lookupOptions, driver tui.PromptDriver, out io.Writer) error {
	if id == "" {
		prompted, err := tui.PromptTrackingID(ctx, driver, "")
		if err != nil {
			return err
		}
		id = prompted
	}

	trk, err := buildTracker(cfg.Tracking, logger, nil)
	if err != nil {
		return fmt.Errorf("tracker: %w", err)
	}
	_, themeCfg, err := selectTheme(cfg.Site)
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	renderers := render.NewRegistry()
	renderers.MustRegister(tui.NewCardRenderer(
		tui.WithPalette(tui.PaletteFromTheme(themeCfg)),
		tui.WithWidth(lo.width),
	))
	renderers.MustRegister(render.JSON{Indent: "  "})
	if lo.format != "" && !renderers.Has(lo.format) {
		return fmt.Errorf("lookup: unknown format %q (known: %v)", lo.format, renderers.List())
	}
	renderer, err := renderers.Resolve(lo.format)
	if err != nil {
		return err
	}

	waitCtx := ctx
	if lo.wait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, lo.wait)
		defer cancel()
	}
	page, err := tracksite.Lookup(waitCtx, trk, id, view.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("lookup %s: %w", id, err)
	}

	body, err := renderer.Render(ctx, page, render.Options{})
	if err != nil {
		return err
	}
	if _, err := out.Write(body); err != nil {
		return err
	}
	if page.State == view.StateError {
		return errLookupFailed
	}
	return nil
}
