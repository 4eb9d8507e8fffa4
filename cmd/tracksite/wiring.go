package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tracksite/internal/config"
	"github.com/goliatone/go-tracksite/pkg/site"
	"github.com/goliatone/go-tracksite/pkg/tracking"
)

// configFlag is the annotation naming the config key a flag overrides.
const configFlag = "tracksite_config_key"

func annotate(flags *pflag.FlagSet, name, key string) {
	_ = flags.SetAnnotation(name, configFlag, []string{key})
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configFlag]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		if err := v.BindPFlag(keys[0], f); err != nil {
			bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

func addTrackingFlags(flags *pflag.FlagSet) {
	flags.String("base-url", "", "tracking API base URL")
	annotate(flags, "base-url", "tracking.base_url")
	flags.String("fixtures", "", "serve records from a JSON/YAML file or directory instead of the API")
	annotate(flags, "fixtures", "tracking.fixtures")
	flags.Bool("demo", false, "serve the bundled demonstration records")
	annotate(flags, "demo", "tracking.demo")
}

// buildTracker picks the record source: demo records, fixture files, or the
// remote API, in that order.
func buildTracker(cfg config.TrackingConfig, logger *zap.Logger, reg prometheus.Registerer) (tracking.Tracker, error) {
	switch {
	case cfg.Demo:
		logger.Info("serving demonstration records")
		return tracking.DemoFixtures()
	case cfg.Fixtures != "":
		logger.Info("serving fixture records", zap.String("path", cfg.Fixtures))
		return tracking.LoadFixtures(cfg.Fixtures)
	}

	options := []tracking.ClientOption{
		tracking.WithHTTPClient(&http.Client{}),
		tracking.WithTimeout(cfg.Timeout),
		tracking.WithRetries(cfg.Retries),
		tracking.WithRetryDelay(cfg.RetryDelay),
		tracking.WithResponseValidation(cfg.ValidateResponses),
		tracking.WithLogger(logger.Named("tracking")),
	}
	if reg != nil {
		metrics, err := tracking.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		options = append(options, tracking.WithMetrics(metrics))
	}
	return tracking.NewClient(cfg.BaseURL, options...)
}

// selectTheme resolves the configured theme against the bundled manifest.
func selectTheme(cfg config.SiteConfig) (*theme.Selection, *theme.RendererConfig, error) {
	themes, err := site.NewThemes()
	if err != nil {
		return nil, nil, err
	}
	sel, err := themes.Select(cfg.Theme, cfg.Variant)
	if err != nil {
		return nil, nil, err
	}
	return sel, site.RendererConfig(sel), nil
}
