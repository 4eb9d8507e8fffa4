package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tracksite/pkg/model"
)

func sampleFields() []model.Field {
	return []model.Field{
		{ID: "f-origin", TrackingRole: "origin1", DefaultValue: "JFK"},
		{ID: "f-seat", TrackingRole: "seat", DefaultValue: float64(12)},
		{ID: "f-empty", TrackingRole: "gate"},
	}
}

func TestSetFields_InitialisesCurrentFromDefault(t *testing.T) {
	s := New()
	s.SetFields(sampleFields())

	for _, field := range s.Fields() {
		want := field.DefaultValue
		if want == nil {
			want = ""
		}
		if diff := cmp.Diff(want, field.CurrentValue); diff != "" {
			t.Fatalf("field %s current value mismatch (-want +got):\n%s", field.ID, diff)
		}
	}
}

func TestSetFields_DoesNotAliasInput(t *testing.T) {
	fields := sampleFields()
	s := New()
	s.SetFields(fields)

	fields[0].DefaultValue = "LAX"
	got, _ := s.FieldValue("f-origin")
	if got != "JFK" {
		t.Fatalf("store aliased caller slice, got %v", got)
	}
}

func TestSetFields_NilYieldsEmptyList(t *testing.T) {
	s := New()
	s.SetFields(sampleFields())
	s.SetFields(nil)

	state := s.Snapshot()
	if state.Fields == nil || len(state.Fields) != 0 {
		t.Fatalf("expected empty field list, got %#v", state.Fields)
	}
}

func TestFieldValue_UnknownID(t *testing.T) {
	s := New()
	s.SetFields(sampleFields())

	if v, ok := s.FieldValue("missing"); ok || v != nil {
		t.Fatalf("expected not found, got %v %v", v, ok)
	}
}

func TestUpdateField(t *testing.T) {
	s := New()
	s.SetFields(sampleFields())

	s.UpdateField("f-origin", "LHR")
	got, ok := s.FieldValue("f-origin")
	if !ok || got != "LHR" {
		t.Fatalf("expected updated value, got %v %v", got, ok)
	}
}

func TestUpdateField_UnknownIDIsNoop(t *testing.T) {
	s := New()
	s.SetFields(sampleFields())
	before := s.Snapshot()

	calls := 0
	unsubscribe := s.Subscribe(func(State) { calls++ })
	defer unsubscribe()

	s.UpdateField("missing", "value")

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("unexpected change (-before +after):\n%s", diff)
	}
	if calls != 0 {
		t.Fatalf("expected no notification for a no-op, got %d", calls)
	}
}

func TestResetForm_RestoresDefaults(t *testing.T) {
	s := New()
	s.SetFields(sampleFields())
	initial := s.Snapshot()

	s.UpdateField("f-origin", "LHR")
	s.UpdateField("f-seat", float64(3))
	s.UpdateField("f-empty", true)
	s.UpdateField("f-origin", "CDG")
	s.ResetForm()

	if diff := cmp.Diff(initial, s.Snapshot()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusSetters(t *testing.T) {
	s := New()
	s.SetStatus("in_transit")
	s.SetStatusMessage("delayed")
	s.SetName("Order 7")
	s.SetSVGRaw("<svg/>")

	state := s.Snapshot()
	if state.Status != "in_transit" || state.StatusMessage != "delayed" {
		t.Fatalf("unexpected status: %+v", state)
	}
	if state.Name != "Order 7" || state.SVGRaw != "<svg/>" {
		t.Fatalf("unexpected name/svg: %+v", state)
	}

	s.SetStatusWithMessage("", "")
	state = s.Snapshot()
	if state.Status != "" || state.StatusMessage != "" {
		t.Fatalf("expected cleared status, got %+v", state)
	}
}

func TestSubscribe_NotifiesAndUnsubscribes(t *testing.T) {
	s := New()
	var seen []string
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st.Status) })

	s.SetStatus("a")
	s.SetStatus("b")
	unsubscribe()
	unsubscribe()
	s.SetStatus("c")

	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribe_ListenerCanReadStore(t *testing.T) {
	s := New()
	s.SetFields(sampleFields())

	var got any
	s.Subscribe(func(State) { got, _ = s.FieldValue("f-origin") })
	s.UpdateField("f-origin", "SFO")

	if got != "SFO" {
		t.Fatalf("listener observed %v", got)
	}
}

func TestUploadFile_StoresDataURL(t *testing.T) {
	s := New()
	s.SetFields([]model.Field{{ID: "doc"}})

	if err := s.UploadFile("doc", strings.NewReader("hi"), "text/plain"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	got, _ := s.FieldValue("doc")
	if got != "data:text/plain;base64,aGk=" {
		t.Fatalf("unexpected data url: %v", got)
	}

	if err := s.UploadFile("missing", failingReader{}, ""); err != nil {
		t.Fatalf("expected unknown id to be ignored, got %v", err)
	}
	if err := s.UploadFile("doc", failingReader{}, ""); err == nil {
		t.Fatalf("expected read error")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }
