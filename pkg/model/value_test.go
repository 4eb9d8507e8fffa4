package model

import (
	"math"
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "JFK", want: "JFK"},
		{name: "whole float", in: float64(12), want: "12"},
		{name: "fraction", in: 1.5, want: "1.5"},
		{name: "int", in: 7, want: "7"},
		{name: "bool", in: true, want: "true"},
		{name: "nan", in: math.NaN(), want: "NaN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatValue(tc.in); got != tc.want {
				t.Fatalf("FormatValue(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	falsy := []any{nil, "", float64(0), 0, false, math.NaN()}
	for _, v := range falsy {
		if Truthy(v) {
			t.Fatalf("expected %#v to be falsy", v)
		}
	}
	truthy := []any{"0", float64(3), 1, true, []any{}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Fatalf("expected %#v to be truthy", v)
		}
	}
}

func TestRecordUpdated(t *testing.T) {
	rec := Record{UpdatedAt: "2025-03-04T10:30:00Z"}
	ts, ok := rec.Updated()
	if !ok {
		t.Fatalf("expected timestamp to parse")
	}
	if ts.Hour() != 10 || ts.Minute() != 30 || ts.Day() != 4 {
		t.Fatalf("unexpected timestamp: %v", ts)
	}

	if _, ok := (Record{UpdatedAt: "yesterday"}).Updated(); ok {
		t.Fatalf("expected invalid timestamp to be rejected")
	}
	if _, ok := (Record{}).Updated(); ok {
		t.Fatalf("expected missing timestamp to be rejected")
	}
}

func TestCloneFieldsCopiesOptions(t *testing.T) {
	src := []Field{{ID: "status", Options: []FieldOption{{Value: "a", Label: "A"}}}}
	out := CloneFields(src)
	out[0].Options[0].Label = "changed"
	if src[0].Options[0].Label != "A" {
		t.Fatalf("clone shares option storage with source")
	}
	if CloneFields(nil) != nil {
		t.Fatalf("expected nil clone for nil input")
	}
}

func TestRecordUpdatedDateOnly(t *testing.T) {
	ts, ok := (Record{UpdatedAt: "2024-03-05"}).Updated()
	if !ok {
		t.Fatalf("expected bare date to parse")
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("Updated() = %v, want %v", ts, want)
	}
}
