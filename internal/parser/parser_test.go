package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/halvard/daybook/internal/models"
)

func TestParse_HeaderAndBody(t *testing.T) {
	input := []byte("---\ntitle: Standup\ntags:\n  - work\n  - weekly\n---\n# Standup\nBody text.\n")
	r := Parse(input)
	if !r.HasHeader {
		t.Fatal("expected header")
	}
	if r.Header.Title != "Standup" {
		t.Errorf("title = %q, want %q", r.Header.Title, "Standup")
	}
	if len(r.Header.Tags) != 2 || r.Header.Tags[0] != "work" {
		t.Errorf("tags = %v, want [work weekly]", r.Header.Tags)
	}
	if r.Body != "# Standup\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_EventBlock(t *testing.T) {
	input := []byte(`---
title: Team sync
created: 2025-03-10T09:00:00Z
updated: 2025-03-10T09:00:00Z
tags: []
event:
  id: ABC-123
  title: Team sync
  date: 2025-03-10T09:00:00Z
  calendar: Work
  location: Room 4
  all_day: false
---

## Notes
`)
	r := Parse(input)
	if r.Header.Event == nil {
		t.Fatal("expected event block")
	}
	if r.Header.Event.ID != "ABC-123" {
		t.Errorf("event id = %q", r.Header.Event.ID)
	}
	if r.Header.Event.Calendar != "Work" {
		t.Errorf("event calendar = %q", r.Header.Event.Calendar)
	}
	if r.Header.Event.AllDay {
		t.Error("all_day should be false")
	}
}

func TestParse_NoHeader(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r := Parse(input)
	if r.HasHeader {
		t.Error("expected no header")
	}
	if r.Body != string(input) {
		t.Errorf("body = %q", r.Body)
	}
	if got := DeriveTitle(r); got != "Just a heading" {
		t.Errorf("derived title = %q", got)
	}
}

func TestParse_MalformedYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	r := Parse(input)
	if r.HasHeader {
		t.Error("expected fallback on invalid YAML")
	}
	if !strings.Contains(r.Body, "Body") {
		t.Errorf("raw body lost: %q", r.Body)
	}
}

func TestParse_UnterminatedHeader(t *testing.T) {
	input := []byte("---\ntitle: oops\nno closing delimiter\n")
	r := Parse(input)
	if r.HasHeader {
		t.Error("expected no header without closing delimiter")
	}
	if r.Body != string(input) {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_MissingTagsDefaultsEmpty(t *testing.T) {
	input := []byte("---\ntitle: No tags here\n---\nBody\n")
	r := Parse(input)
	if !r.HasHeader {
		t.Fatal("expected header")
	}
	if len(r.Header.Tags) != 0 {
		t.Errorf("tags = %v, want empty", r.Header.Tags)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	h := Header{
		Title:   "Round trip",
		Created: created,
		Updated: created,
		Tags:    []string{"a", "b"},
		Event: &models.EventRef{
			ID:       "id-1",
			Title:    "Round trip",
			Date:     created,
			Calendar: "Personal",
			AllDay:   true,
		},
	}
	body := "# Round trip\n\ncontent line\n"

	data, err := Marshal(h, body)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	r := Parse(data)
	if !r.HasHeader {
		t.Fatal("round trip lost header")
	}
	if r.Header.Title != h.Title {
		t.Errorf("title = %q", r.Header.Title)
	}
	if !r.Header.Created.Equal(created) {
		t.Errorf("created = %v", r.Header.Created)
	}
	if r.Header.Event == nil || r.Header.Event.ID != "id-1" || !r.Header.Event.AllDay {
		t.Errorf("event = %+v", r.Header.Event)
	}
	if r.Body != body {
		t.Errorf("body = %q, want %q", r.Body, body)
	}
}
