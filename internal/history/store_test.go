package history

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("creating history store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return frozen }
	defer func() { timeNow = time.Now }()

	s := newTestStore(t)

	events := []struct {
		kind       Kind
		capID, tID string
	}{
		{KindRegistered, "backend", ""},
		{KindTemplateAdded, "backend", "web-api"},
		{KindDeprecationPlan, "backend", "web-api"},
	}
	for _, e := range events {
		if err := s.Record(e.kind, e.capID, e.tID, "detail"); err != nil {
			t.Fatalf("record %s: %v", e.kind, err)
		}
	}

	recent, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 events, got %d", len(recent))
	}
	// Most recent first.
	if recent[0].Kind != KindDeprecationPlan || recent[2].Kind != KindRegistered {
		t.Errorf("wrong order: %s ... %s", recent[0].Kind, recent[2].Kind)
	}
	if recent[0].OccurredAt != "2026-03-01T12:00:00Z" {
		t.Errorf("occurred at = %q", recent[0].OccurredAt)
	}
	if recent[1].TemplateID != "web-api" || recent[1].Detail != "detail" {
		t.Errorf("event fields lost: %+v", recent[1])
	}
}

func TestRecent_LimitAndDefault(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		if err := s.Record(KindUpdated, "backend", "", ""); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	limited, err := s.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d events", len(limited))
	}

	defaulted, err := s.Recent(0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(defaulted) != 5 {
		t.Errorf("non-positive limit should default, got %d events", len(defaulted))
	}
}

func TestForCapability(t *testing.T) {
	s := newTestStore(t)
	if err := s.Record(KindRegistered, "backend", "", ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Record(KindRegistered, "frontend", "", ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Record(KindMaturitySet, "backend", "", "deployment"); err != nil {
		t.Fatalf("record: %v", err)
	}

	events, err := s.ForCapability("backend")
	if err != nil {
		t.Fatalf("for capability: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for backend, got %d", len(events))
	}
	// Oldest first.
	if events[0].Kind != KindRegistered || events[1].Kind != KindMaturitySet {
		t.Errorf("wrong order: %s, %s", events[0].Kind, events[1].Kind)
	}

	none, err := s.ForCapability("ghost")
	if err != nil {
		t.Fatalf("for capability: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no events, got %d", len(none))
	}
}

func TestNew_ReopenKeepsEvents(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := s.Record(KindDeleted, "backend", "", ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()

	events, err := reopened.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 1 || events[0].Kind != KindDeleted {
		t.Errorf("events lost across reopen: %+v", events)
	}
}
