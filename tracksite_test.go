package tracksite

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-tracksite/pkg/testsupport"
	"github.com/goliatone/go-tracksite/pkg/view"
)

func TestEmbeddedTemplatesContainTrackerPage(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "tracker.tpl")
	if err != nil {
		t.Fatalf("expected tracker template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "Leg") {
		t.Fatalf("expected tracker template to render legs")
	}
}

func TestStaticAssetsFSContainsStylesheet(t *testing.T) {
	if _, err := fs.ReadFile(StaticAssetsFS(), "site.css"); err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
}

func TestLookupDemo(t *testing.T) {
	tracker, err := DemoTracker()
	if err != nil {
		t.Fatalf("DemoTracker: %v", err)
	}
	page, err := Lookup(context.Background(), tracker, "XYZ123")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if page.State != view.StateSuccess {
		t.Fatalf("state = %q, want success", page.State)
	}
	if !page.Test {
		t.Errorf("expected demo record to be flagged as test data")
	}
}

func TestLookupUnknown(t *testing.T) {
	page, err := Lookup(testsupport.Context(), testsupport.NewStubTracker(nil), "UNKNOWN")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if page.State != view.StateError {
		t.Fatalf("state = %q, want error", page.State)
	}
}

func TestLookupCancelled(t *testing.T) {
	stub := testsupport.NewStubTracker(nil)
	stub.Gate = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Lookup(ctx, stub, "XYZ123"); err == nil {
		t.Fatal("expected context error")
	}
}
