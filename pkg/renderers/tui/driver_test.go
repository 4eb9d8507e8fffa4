package tui

import (
	"context"
	"errors"
	"testing"
)

type stubDriver struct {
	answer string
	err    error
	cfg    InputConfig
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.cfg = cfg
	return s.answer, s.err
}

func (s *stubDriver) Info(context.Context, string) error { return nil }

func TestPromptTrackingID(t *testing.T) {
	driver := &stubDriver{answer: "  XYZ123 "}
	id, err := PromptTrackingID(context.Background(), driver, "CARGO77")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if id != "XYZ123" {
		t.Fatalf("unexpected id %q", id)
	}
	if driver.cfg.Default != "CARGO77" {
		t.Fatalf("fallback not offered as default")
	}
	if driver.cfg.Validator == nil || driver.cfg.Validator("  ") == nil {
		t.Fatalf("validator should reject blank input")
	}
}

func TestPromptTrackingID_PropagatesAbort(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	if _, err := PromptTrackingID(context.Background(), driver, ""); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := PromptTrackingID(context.Background(), nil, ""); err == nil {
		t.Fatalf("expected missing driver error")
	}
}
