package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "journal", "events.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), Kind: KindTurn, SessionID: "s1", ScammerMessage: "hi", AgentReply: "hello", TotalMessages: 2}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), Kind: KindReportSent, SessionID: "s1", TotalMessages: 4, Artifacts: map[string]int{"upiIds": 1}, StatusCode: 200}
	if err := rec.AppendEvent(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.AppendEvent(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	events, err := rec.LoadEvents()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2, got %d", len(events))
	}
	if events[0].Kind != KindTurn || events[1].Kind != KindReportSent {
		t.Fatalf("order mismatch: %+v", events)
	}
	if events[1].Artifacts["upiIds"] != 1 || events[1].StatusCode != 200 {
		t.Fatalf("report fields lost: %+v", events[1])
	}

	// ensure file exists and non-empty
	st, err := os.Stat(p)
	if err != nil || st.Size() == 0 {
		t.Fatalf("file not written")
	}
}

func TestFileRecorder_SkipsCorruptLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(p, []byte("{\"kind\":\"turn\",\"session_id\":\"a\"}\n{broken\n\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	events, err := rec.LoadEvents()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 1 || events[0].SessionID != "a" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestFileRecorder_ConcurrentAppends(t *testing.T) {
	rec, err := NewFileRecorder(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = rec.AppendEvent(Event{Kind: KindTurn, SessionID: "x"})
		}()
	}
	wg.Wait()
	events, err := rec.LoadEvents()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 25 {
		t.Fatalf("want 25 events, got %d", len(events))
	}
}

func TestFileRecorder_RotatedJournal(t *testing.T) {
	p := filepath.Join(t.TempDir(), "events.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := rec.AppendEvent(Event{Kind: KindTurn, SessionID: "old"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := os.Remove(p); err != nil {
		t.Fatalf("remove: %v", err)
	}

	events, err := rec.LoadEvents()
	if err != nil || len(events) != 0 {
		t.Fatalf("removed journal should read as empty, got %v, %+v", err, events)
	}
	if err := rec.AppendEvent(Event{Kind: KindTurn, SessionID: "new"}); err != nil {
		t.Fatalf("append after rotation: %v", err)
	}
	events, err = rec.LoadEvents()
	if err != nil || len(events) != 1 || events[0].SessionID != "new" {
		t.Fatalf("unexpected events after rotation: %v, %+v", err, events)
	}
}
