// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"
)

func TestParseWindowRoundTrip(t *testing.T) {
	w, err := parseWindow("2026-08-17..2026-08-24")
	if err != nil {
		t.Fatalf("parseWindow: %v", err)
	}
	if got := w.String(); got != "2026-08-17..2026-08-24" {
		t.Errorf("String() = %q, want the input back", got)
	}
	if w.Days() != 7 {
		t.Errorf("Days() = %d, want 7", w.Days())
	}
}

func TestParseWindowErrors(t *testing.T) {
	for _, input := range []string{"", "2026-08-17", "2026-08-17..soon", "Aug 17..Aug 24"} {
		if _, err := parseWindow(input); err == nil {
			t.Errorf("parseWindow(%q) accepted malformed input", input)
		}
	}
}

func TestParseEndDate(t *testing.T) {
	got, err := parseEndDate("2026-08-24")
	if err != nil {
		t.Fatalf("parseEndDate: %v", err)
	}
	want := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseEndDate = %v, want %v", got, want)
	}

	if _, err := parseEndDate("24/08/2026"); err == nil {
		t.Error("parseEndDate accepted a non-ISO date")
	}

	now, err := parseEndDate("")
	if err != nil {
		t.Fatalf("parseEndDate(\"\"): %v", err)
	}
	if now.IsZero() {
		t.Error("empty end date should mean now, got zero time")
	}
}
