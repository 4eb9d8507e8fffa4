package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-tracksite/pkg/model"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetries    = 1
	defaultRetryDelay = time.Second
	maxResponseBytes  = 4 << 20
)

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient injects the HTTP client used for lookups.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithContract replaces the embedded API contract.
func WithContract(contract *Contract) ClientOption {
	return func(c *Client) {
		if contract != nil {
			c.contract = contract
		}
	}
}

// WithTimeout bounds each lookup attempt. Zero disables the bound.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithRetries sets how many times a failed lookup is retried.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithResponseValidation toggles contract validation of response bodies.
func WithResponseValidation(enabled bool) ClientOption {
	return func(c *Client) {
		c.validate = enabled
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records lookup outcomes on m.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client looks up tracking records over HTTP.
type Client struct {
	baseURL    string
	http       *http.Client
	contract   *Contract
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	validate   bool
	logger     *zap.Logger
	metrics    *Metrics
	group      singleflight.Group
	sleep      func(context.Context, time.Duration) error
}

var _ Tracker = (*Client)(nil)

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("tracking client: base url is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("tracking client: base url %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    base,
		http:       http.DefaultClient,
		timeout:    defaultTimeout,
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
		validate:   true,
		logger:     zap.NewNop(),
		sleep:      sleepContext,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.contract == nil {
		contract, err := DefaultContract()
		if err != nil {
			return nil, fmt.Errorf("tracking client: %w", err)
		}
		c.contract = contract
	}
	return c, nil
}

// Track fetches the record for id. Concurrent calls for the same identifier
// share one lookup; a caller whose context ends stops waiting without
// cancelling the shared lookup for the others.
func (c *Client) Track(ctx context.Context, id string) (model.Record, error) {
	id, err := NormalizeID(id)
	if err != nil {
		return model.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (any, error) {
		return c.trackWithRetry(shared, id)
	})

	select {
	case <-ctx.Done():
		return model.Record{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.Record{}, res.Err
		}
		rec := res.Val.(model.Record)
		rec.FormFields = model.CloneFields(rec.FormFields)
		return rec, nil
	}
}

func (c *Client) trackWithRetry(ctx context.Context, id string) (model.Record, error) {
	started := time.Now()
	logger := c.logger.With(zap.String("tracking_id", id))

	for attempt := 0; ; attempt++ {
		rec, err := c.fetch(ctx, id)
		if err == nil {
			c.metrics.observe(OutcomeSuccess, time.Since(started))
			logger.Debug("tracking lookup succeeded",
				zap.Int("attempt", attempt+1),
				zap.Duration("duration", time.Since(started)))
			return rec, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.observe(OutcomeCanceled, time.Since(started))
			return model.Record{}, ctxErr
		}
		if attempt >= c.retries {
			c.metrics.observe(outcomeFor(err), time.Since(started))
			logger.Info("tracking lookup failed",
				zap.Int("attempt", attempt+1),
				zap.String("outcome", outcomeFor(err)),
				zap.Error(err))
			return model.Record{}, err
		}

		c.metrics.retried()
		logger.Debug("retrying tracking lookup", zap.Int("attempt", attempt+1), zap.Error(err))
		if err := c.sleep(ctx, c.retryDelay); err != nil {
			c.metrics.observe(OutcomeCanceled, time.Since(started))
			return model.Record{}, err
		}
	}
}

func (c *Client) fetch(ctx context.Context, id string) (model.Record, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + c.contract.Path(id)
	req, err := http.NewRequestWithContext(ctx, c.contract.Method(), endpoint, nil)
	if err != nil {
		return model.Record{}, fmt.Errorf("tracking client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Record{}, fmt.Errorf("tracking client: request %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return model.Record{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return model.Record{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.Record{}, fmt.Errorf("tracking client: read body: %w", err)
	}
	if c.validate {
		if err := c.contract.Validate(body); err != nil {
			return model.Record{}, err
		}
	}

	var rec model.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return model.Record{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return rec, nil
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
