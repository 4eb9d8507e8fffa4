package testsupport

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/goliatone/go-tracksite/pkg/model"
	"github.com/goliatone/go-tracksite/pkg/tracking"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// FlightRecord returns a two leg flight record used across package tests.
func FlightRecord() model.Record {
	return model.Record{
		Status:    "in_transit",
		UpdatedAt: "2025-03-04T10:30:00Z",
		Test:      true,
		SVG:       `<svg viewBox="0 0 10 10"><circle id="A" cx="1" cy="1" r="1"/><script>alert(1)</script></svg>`,
		FormFields: []model.Field{
			{ID: "status", TrackingRole: "status", DefaultValue: "in_transit", Options: []model.FieldOption{
				{Value: "in_transit", Label: "In Transit"},
			}},
			{ID: "o1", TrackingRole: "origin1", DefaultValue: "A", Options: []model.FieldOption{
				{SVGElementID: "A", Label: "New York (JFK)"},
			}},
			{ID: "d1", TrackingRole: "destination1", DefaultValue: "London (LHR)"},
			{ID: "o2", TrackingRole: "origin2", DefaultValue: "London (LHR)"},
			{ID: "d2", TrackingRole: "destination2", DefaultValue: "Dubai (DXB)"},
			{ID: "dep", TrackingRole: "departure_time", DefaultValue: "08:15"},
			{ID: "flight", TrackingRole: "flight", DefaultValue: "DL 204"},
			{ID: "name", TrackingRole: "name", DefaultValue: "Ada Lovelace"},
			{ID: "seat", TrackingRole: "seat", DefaultValue: float64(14)},
			{ID: "gate", TrackingRole: "gate", DefaultValue: ""},
		},
	}
}

// StubTracker serves canned records and counts lookups. When Gate is set,
// lookups block until it is closed or the caller gives up.
type StubTracker struct {
	Records map[string]model.Record
	Err     error
	Gate    chan struct{}

	mu    sync.Mutex
	calls []string
}

var _ tracking.Tracker = (*StubTracker)(nil)

// NewStubTracker returns a tracker serving records.
func NewStubTracker(records map[string]model.Record) *StubTracker {
	return &StubTracker{Records: records}
}

// Track implements tracking.Tracker.
func (s *StubTracker) Track(ctx context.Context, id string) (model.Record, error) {
	s.mu.Lock()
	s.calls = append(s.calls, id)
	gate := s.Gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.Record{}, ctx.Err()
		}
	}
	if s.Err != nil {
		return model.Record{}, s.Err
	}
	rec, ok := s.Records[id]
	if !ok {
		return model.Record{}, tracking.ErrNotFound
	}
	rec.FormFields = model.CloneFields(rec.FormFields)
	return rec, nil
}

// Calls lists the identifiers looked up so far.
func (s *StubTracker) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
