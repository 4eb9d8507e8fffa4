package tracking

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestDemoFixtures(t *testing.T) {
	fixtures, err := DemoFixtures()
	if err != nil {
		t.Fatalf("demo fixtures: %v", err)
	}
	if diff := cmp.Diff([]string{"CARGO77", "XYZ123"}, fixtures.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	rec, err := fixtures.Track(context.Background(), "XYZ123")
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if !rec.Test || rec.Status != "in_transit" || len(rec.FormFields) == 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := fixtures.Track(context.Background(), "UNKNOWN"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFixtures_TrackReturnsCopies(t *testing.T) {
	fixtures, err := DemoFixtures()
	if err != nil {
		t.Fatalf("demo fixtures: %v", err)
	}
	first, _ := fixtures.Track(context.Background(), "XYZ123")
	first.FormFields[0].DefaultValue = "mutated"

	second, _ := fixtures.Track(context.Background(), "XYZ123")
	if second.FormFields[0].DefaultValue == "mutated" {
		t.Fatalf("fixture records share field storage across lookups")
	}
}

func TestLoadFixturesFS_JSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json":    {Data: []byte(`{"records":{"J1":{"status":"booked","form_fields":[{"id":"x","defaultValue":1}]}}}`)},
		"b.yml":     {Data: []byte("records:\n  Y1:\n    status: delivered\n")},
		"notes.txt": {Data: []byte("ignored")},
	}
	fixtures, err := LoadFixturesFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"J1", "Y1"}, fixtures.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFixturesFS_RejectsDuplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("records:\n  X:\n    status: a\n")},
		"b.yaml": {Data: []byte("records:\n  X:\n    status: b\n")},
	}
	if _, err := LoadFixturesFS(fsys); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadFixtures_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.yaml")
	if err := os.WriteFile(path, []byte("records:\n  F1:\n    status: booked\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("records:\n  F2:\n    status: booked\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fixtures, err := LoadFixtures(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"F1"}, fixtures.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	all, err := LoadFixtures(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(all.IDs()) != 2 {
		t.Fatalf("expected both files loaded, got %v", all.IDs())
	}
}
