package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tracking.base_url")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// MaxRetries caps tracking.retries.
const MaxRetries = 5

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log encoder formats
func ValidLogFormats() []string {
	return []string{"json", "console"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateTracking()...)
	errors = append(errors, c.validateView()...)
	errors = append(errors, c.validateSite()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateMetrics()...)

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Server.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "server.read_header_timeout",
			Value:   c.Server.ReadHeaderTimeout,
			Message: "must be positive",
		})
	}
	if c.Server.ShutdownGrace < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.shutdown_grace",
			Value:   c.Server.ShutdownGrace,
			Message: "must not be negative",
		})
	}

	return errors
}

func (c *Config) validateTracking() []ValidationError {
	var errors []ValidationError
	t := c.Tracking

	// Demo and fixture modes never reach the remote API.
	if !t.Demo && t.Fixtures == "" {
		if t.BaseURL == "" {
			errors = append(errors, ValidationError{
				Field:   "tracking.base_url",
				Value:   t.BaseURL,
				Message: "is required unless tracking.demo or tracking.fixtures is set",
			})
		} else if u, err := url.Parse(t.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "tracking.base_url",
				Value:   t.BaseURL,
				Message: "must be an absolute http or https URL",
			})
		}
	}

	if t.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "tracking.timeout",
			Value:   t.Timeout,
			Message: "must be positive",
		})
	}
	if t.Retries < 0 || t.Retries > MaxRetries {
		errors = append(errors, ValidationError{
			Field:   "tracking.retries",
			Value:   t.Retries,
			Message: fmt.Sprintf("must be between 0 and %d", MaxRetries),
		})
	}
	if t.RetryDelay < 0 {
		errors = append(errors, ValidationError{
			Field:   "tracking.retry_delay",
			Value:   t.RetryDelay,
			Message: "must not be negative",
		})
	}

	return errors
}

func (c *Config) validateView() []ValidationError {
	var errors []ValidationError
	v := c.View

	if !strings.HasPrefix(v.RoutePath, "/") {
		errors = append(errors, ValidationError{
			Field:   "view.route_path",
			Value:   v.RoutePath,
			Message: "must start with /",
		})
	}
	if strings.TrimSpace(v.IDParam) == "" {
		errors = append(errors, ValidationError{
			Field:   "view.id_param",
			Value:   v.IDParam,
			Message: "must not be empty",
		})
	}
	if v.PendingAfter < 0 {
		errors = append(errors, ValidationError{
			Field:   "view.pending_after",
			Value:   v.PendingAfter,
			Message: "must not be negative",
		})
	}
	if v.RefreshInterval <= 0 {
		errors = append(errors, ValidationError{
			Field:   "view.refresh_interval",
			Value:   v.RefreshInterval,
			Message: "must be positive",
		})
	}
	if v.SessionTTL <= 0 {
		errors = append(errors, ValidationError{
			Field:   "view.session_ttl",
			Value:   v.SessionTTL,
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateSite() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Site.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "site.name",
			Value:   c.Site.Name,
			Message: "must not be empty",
		})
	}
	if strings.TrimSpace(c.Site.Theme) == "" {
		errors = append(errors, ValidationError{
			Field:   "site.theme",
			Value:   c.Site.Theme,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateMetrics() []ValidationError {
	if !c.Metrics.Enabled {
		return nil
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return []ValidationError{{
			Field:   "metrics.path",
			Value:   c.Metrics.Path,
			Message: "must start with /",
		}}
	}
	if c.Metrics.Path == c.View.RoutePath {
		return []ValidationError{{
			Field:   "metrics.path",
			Value:   c.Metrics.Path,
			Message: "must differ from view.route_path",
		}}
	}
	return nil
}
