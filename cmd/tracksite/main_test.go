package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-tracksite/internal/config"
	"github.com/goliatone/go-tracksite/pkg/renderers/tui"
	"github.com/goliatone/go-tracksite/pkg/tracking"
)

func demoConfig() *config.Config {
	cfg := config.Default()
	cfg.Tracking.Demo = true
	return cfg
}

type fakeDriver struct {
	answer string
	asked  int
}

func (d *fakeDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.asked++
	if cfg.Validator != nil {
		if err := cfg.Validator(d.answer); err != nil {
			return "", err
		}
	}
	return d.answer, nil
}

func (d *fakeDriver) Info(context.Context, string) error { return nil }

func TestLookupJSON(t *testing.T) {
	var out bytes.Buffer
	driver := &fakeDriver{}
	err := lookup(context.Background(), demoConfig(), zap.NewNop(), "XYZ123",
		&lookupOptions{format: "json"}, driver, &out)
	require.NoError(t, err)
	assert.Zero(t, driver.asked)

	var page map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &page))
	assert.Equal(t, "success", page["state"])
	assert.Equal(t, "XYZ123", page["trackingId"])
	assert.Equal(t, true, page["test"])
}

func TestLookupPromptsForMissingID(t *testing.T) {
	var out bytes.Buffer
	driver := &fakeDriver{answer: " XYZ123 "}
	err := lookup(context.Background(), demoConfig(), zap.NewNop(), "",
		&lookupOptions{format: tui.CardName, width: 80}, driver, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, driver.asked)
	assert.Contains(t, out.String(), "Tracking Details")
	assert.Contains(t, out.String(), "XYZ123")
}

func TestLookupNotFound(t *testing.T) {
	var out bytes.Buffer
	err := lookup(context.Background(), demoConfig(), zap.NewNop(), "UNKNOWN",
		&lookupOptions{format: tui.CardName}, &fakeDriver{}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tracking.ErrNotFound))
	assert.Contains(t, out.String(), "Tracking Not Found")
}

func TestLookupUnknownFormat(t *testing.T) {
	err := lookup(context.Background(), demoConfig(), zap.NewNop(), "XYZ123",
		&lookupOptions{format: "xml"}, &fakeDriver{}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestServerRoutes(t *testing.T) {
	srv, err := newServer(demoConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	home := get("/")
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), `action="/track"`)
	assert.Contains(t, home.Body.String(), `name="trackingId"`)

	health := get("/healthz")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok\n", health.Body.String())

	track := get("/track?trackingId=XYZ123")
	assert.Equal(t, http.StatusOK, track.Code)
	assert.Contains(t, track.Body.String(), "Tracking Details")

	missing := get("/track?trackingId=UNKNOWN")
	assert.Equal(t, http.StatusNotFound, missing.Code)

	asset := get("/assets/site.css")
	assert.Equal(t, http.StatusOK, asset.Code)

	metrics := get("/metrics")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.True(t, strings.Contains(metrics.Body.String(), "tracksite_view_sessions"))
}

func TestServerWithoutMetrics(t *testing.T) {
	cfg := demoConfig()
	cfg.Metrics.Enabled = false
	srv, err := newServer(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRootCommandLookupWithFlags(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"lookup", "--demo", "--format", "json", "--log-level", "error", "XYZ123"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"state": "success"`)
}

func TestRootCommandRejectsInvalidConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"lookup", "--demo", "--log-level", "loud", "XYZ123"})

	err := root.Execute()
	require.Error(t, err)

	var verrs config.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "logging.level", verrs[0].Field)
}

func TestRootCommandRequiresTrackingSource(t *testing.T) {
	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"lookup", "XYZ123"})

	assert.Error(t, root.Execute())
}
