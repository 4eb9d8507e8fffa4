package tracker

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/goliatone/go-tracksite/pkg/model"
	"github.com/goliatone/go-tracksite/pkg/testsupport"
)

func newTestHandler(t *testing.T, tracker *testsupport.StubTracker, fns ...OptionFn) *Handler {
	t.Helper()
	base := []OptionFn{
		WithTracker(tracker),
		WithPendingAfter(time.Second),
	}
	h := NewHandler(append(base, fns...)...)
	t.Cleanup(h.Close)
	return h
}

func serve(h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_SuccessRendersBadgeAndLegs(t *testing.T) {
	tracker := testsupport.NewStubTracker(map[string]model.Record{"XYZ123": testsupport.FlightRecord()})
	h := newTestHandler(t, tracker)

	rec := serve(h, "/track?trackingId=XYZ123")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content-type, got %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<span class="badge">In Transit</span>`,
		"Leg 1", "New York (JFK)", "London (LHR)",
		"Leg 2", "Dubai (DXB)",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body\n%s", want, body)
		}
	}
	if strings.Contains(body, "Leg 3") {
		t.Fatalf("leg without endpoints rendered")
	}
}

func TestHandler_UnknownRendersNotFound(t *testing.T) {
	h := newTestHandler(t, testsupport.NewStubTracker(nil))

	rec := serve(h, "/track?trackingId=UNKNOWN")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Tracking Not Found") || !strings.Contains(body, "UNKNOWN") || !strings.Contains(body, "Track Another") {
		t.Fatalf("expected not-found panel\n%s", body)
	}
}

func TestHandler_PendingThenSettled(t *testing.T) {
	defer goleak.VerifyNone(t)

	tracker := testsupport.NewStubTracker(map[string]model.Record{"XYZ123": testsupport.FlightRecord()})
	tracker.Gate = make(chan struct{})
	h := NewHandler(
		WithTracker(tracker),
		WithPendingAfter(50*time.Millisecond),
		WithRefreshInterval(2*time.Second),
	)
	defer h.Close()

	first := serve(h, "/track?trackingId=XYZ123")
	if first.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", first.Code)
	}
	if !strings.Contains(first.Body.String(), `content="2;url=/track?trackingId=XYZ123"`) {
		t.Fatalf("pending page should refresh itself\n%s", first.Body.String())
	}
	cookies := first.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "tracksite_session" {
		t.Fatalf("expected session cookie, got %v", cookies)
	}

	close(tracker.Gate)
	second := serve(h, "/track?trackingId=XYZ123", cookies[0])
	if second.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", second.Code)
	}
	if calls := tracker.Calls(); len(calls) != 1 {
		t.Fatalf("expected the refresh to reuse the lookup, got %v", calls)
	}
}

func TestHandler_EmptyIDRedirectsHome(t *testing.T) {
	h := newTestHandler(t, testsupport.NewStubTracker(nil), WithHomePath("/home"))

	rec := serve(h, "/track?trackingId=%20")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/home" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestHandler_RejectsUnsupportedMethods(t *testing.T) {
	h := newTestHandler(t, testsupport.NewStubTracker(nil))

	req := httptest.NewRequest(http.MethodPost, "/track?trackingId=XYZ123", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	tracker := testsupport.NewStubTracker(map[string]model.Record{"XYZ123": testsupport.FlightRecord()})
	h := newTestHandler(t, tracker)

	req := httptest.NewRequest(http.MethodHead, "/track?trackingId=XYZ123", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("unexpected HEAD response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandler_GuardStatus(t *testing.T) {
	h := newTestHandler(t, testsupport.NewStubTracker(nil), WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("login required")}
	}))

	rec := serve(h, "/track?trackingId=XYZ123")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	plain := newTestHandler(t, testsupport.NewStubTracker(nil), WithGuard(func(*http.Request) error {
		return errors.New("nope")
	}))
	if rec := serve(plain, "/track?trackingId=XYZ123"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestHandler_JSONFormat(t *testing.T) {
	tracker := testsupport.NewStubTracker(map[string]model.Record{"XYZ123": testsupport.FlightRecord()})
	h := newTestHandler(t, tracker)

	rec := serve(h, "/track?trackingId=XYZ123&format=json")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	var payload struct {
		State  string `json:"state"`
		Status struct {
			Text string `json:"text"`
		} `json:"status"`
		Legs []struct {
			Origin string `json:"origin"`
		} `json:"legs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.State != "success" || payload.Status.Text != "In Transit" || len(payload.Legs) != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandler_SessionsExpire(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_sessions"})
	h := newTestHandler(t, testsupport.NewStubTracker(nil),
		WithSessionTTL(time.Minute),
		WithSessionGauge(gauge),
		WithNow(func() time.Time { return now }),
	)

	serve(h, "/track?trackingId=A")
	serve(h, "/track?trackingId=B")
	if got := h.sessions.count(); got != 2 {
		t.Fatalf("expected 2 sessions, got %d", got)
	}
	if got := testutil.ToFloat64(gauge); got != 2 {
		t.Fatalf("expected gauge at 2, got %v", got)
	}

	now = now.Add(2 * time.Minute)
	serve(h, "/track?trackingId=C")
	if got := h.sessions.count(); got != 1 {
		t.Fatalf("expected idle sessions swept, got %d", got)
	}
	if got := testutil.ToFloat64(gauge); got != 1 {
		t.Fatalf("expected gauge at 1, got %v", got)
	}
}

func TestHandler_MalformedCookieGetsNewSession(t *testing.T) {
	h := newTestHandler(t, testsupport.NewStubTracker(nil))

	rec := serve(h, "/track?trackingId=A", &http.Cookie{Name: "tracksite_session", Value: "not-a-uuid"})
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "not-a-uuid" {
		t.Fatalf("expected a fresh session cookie, got %v", cookies)
	}
}

func TestHandler_NoTrackerRendersNotFound(t *testing.T) {
	h := NewHandler(WithPendingAfter(time.Second))
	defer h.Close()

	if rec := serve(h, "/track?trackingId=XYZ123"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandler_ReturningVisitorSeesUpdatedRecord(t *testing.T) {
	record := func(status string) model.Record {
		return model.Record{FormFields: []model.Field{
			{ID: "status", TrackingRole: "status", DefaultValue: status},
		}}
	}
	tracker := testsupport.NewStubTracker(map[string]model.Record{"XYZ123": record("Booked")})
	h := newTestHandler(t, tracker)

	first := serve(h, "/track?trackingId=XYZ123&format=json")
	if !strings.Contains(first.Body.String(), `"text":"Booked"`) {
		t.Fatalf("unexpected first page\n%s", first.Body.String())
	}
	cookies := first.Result().Cookies()

	tracker.Records = map[string]model.Record{"XYZ123": record("Landed")}
	second := serve(h, "/track?trackingId=XYZ123&format=json", cookies...)

	if second.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", second.Code)
	}
	if !strings.Contains(second.Body.String(), `"text":"Landed"`) {
		t.Fatalf("expected the reload to show the new status\n%s", second.Body.String())
	}
	if calls := tracker.Calls(); len(calls) != 2 {
		t.Fatalf("expected one lookup per page load, got %v", calls)
	}
}

func TestHandler_TabsTrackingDifferentIDsDoNotInterfere(t *testing.T) {
	defer goleak.VerifyNone(t)

	tracker := testsupport.NewStubTracker(map[string]model.Record{
		"AAA": testsupport.FlightRecord(),
		"BBB": testsupport.FlightRecord(),
	})
	tracker.Gate = make(chan struct{})
	h := NewHandler(WithTracker(tracker), WithPendingAfter(20*time.Millisecond))
	defer h.Close()

	first := serve(h, "/track?trackingId=AAA")
	if first.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", first.Code)
	}
	cookies := first.Result().Cookies()

	if rec := serve(h, "/track?trackingId=BBB", cookies...); rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}

	close(tracker.Gate)
	h.opts.PendingAfter = time.Second
	for _, id := range []string{"AAA", "BBB"} {
		rec := serve(h, "/track?trackingId="+id, cookies...)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", id, rec.Code)
		}
	}
	if calls := tracker.Calls(); len(calls) != 2 {
		t.Fatalf("expected one lookup per identifier, got %v", calls)
	}
}
