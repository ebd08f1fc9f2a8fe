package analytics

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scam-honeypot/internal/storage"
)

func TestAnalyzeDailyLogs(t *testing.T) {
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	events := []storage.Event{
		// Target day
		{Timestamp: testDate.Add(1 * time.Hour), Kind: storage.KindTurn, SessionID: "a", TotalMessages: 2},
		{Timestamp: testDate.Add(2 * time.Hour), Kind: storage.KindTurn, SessionID: "a", TotalMessages: 4, ConversationOver: true,
			Artifacts: map[string]int{"upiIds": 1, "phoneNumbers": 1}},
		{Timestamp: testDate.Add(2 * time.Hour), Kind: storage.KindReportSent, SessionID: "a", TotalMessages: 4, StatusCode: 200},
		{Timestamp: testDate.Add(3 * time.Hour), Kind: storage.KindTurn, SessionID: "b", TotalMessages: 2,
			Artifacts: map[string]int{"phishingLinks": 1}},
		{Timestamp: testDate.Add(4 * time.Hour), Kind: storage.KindTurn, SessionID: "b", TotalMessages: 4,
			Artifacts: map[string]int{"phishingLinks": 2, "bankAccounts": 1}},
		{Timestamp: testDate.Add(5 * time.Hour), Kind: storage.KindTurn, SessionID: "b", TotalMessages: 6, ConversationOver: true,
			Artifacts: map[string]int{"phishingLinks": 2, "bankAccounts": 1}},
		{Timestamp: testDate.Add(5 * time.Hour), Kind: storage.KindReportFailed, SessionID: "b", Error: "report: HTTP 503"},
		{Timestamp: testDate.Add(6 * time.Hour), Kind: storage.KindTurn, SessionID: "c", TotalMessages: 2},
		// Next day, ignored
		{Timestamp: testDate.AddDate(0, 0, 1), Kind: storage.KindTurn, SessionID: "d", TotalMessages: 2},
		// Malformed, ignored
		{Timestamp: testDate.Add(7 * time.Hour), Kind: storage.KindTurn},
	}

	stats := AnalyzeDailyLogs(events, testDate.Add(13*time.Hour))

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.Turns != 6 {
		t.Errorf("Expected 6 turns, got %d", stats.Turns)
	}
	if stats.UniqueSessions != 3 {
		t.Errorf("Expected 3 sessions, got %d", stats.UniqueSessions)
	}
	if stats.ConcludedEngagements != 2 {
		t.Errorf("Expected 2 concluded engagements, got %d", stats.ConcludedEngagements)
	}
	if stats.ReportsSent != 1 || stats.ReportsFailed != 1 || stats.ReportsSkipped != 0 {
		t.Errorf("Unexpected report counts: %+v", stats)
	}
	if stats.LongestEngagementTurns != 3 {
		t.Errorf("Expected longest engagement 3 turns, got %d", stats.LongestEngagementTurns)
	}

	expected := map[string]int{
		"bankAccounts":       1,
		"upiIds":             1,
		"phishingLinks":      2,
		"phoneNumbers":       1,
		"suspiciousKeywords": 0,
	}
	for c, n := range expected {
		if got, ok := stats.ArtifactsByCategory[c]; !ok || got != n {
			t.Errorf("Expected %d %s, got %d", n, c, got)
		}
	}
	if stats.TotalArtifacts() != 5 {
		t.Errorf("Expected 5 artifacts, got %d", stats.TotalArtifacts())
	}

	b := stats.SessionStats["b"]
	if b.Turns != 3 || b.Messages != 6 || !b.Concluded {
		t.Errorf("Unexpected stats for session b: %+v", b)
	}
	if c := stats.SessionStats["c"]; c.Concluded || c.Turns != 1 {
		t.Errorf("Unexpected stats for session c: %+v", c)
	}
}

func TestAnalyzeDailyLogsEmptyData(t *testing.T) {
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	stats := AnalyzeDailyLogs(nil, testDate)

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.Turns != 0 || stats.UniqueSessions != 0 || stats.ConcludedEngagements != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
	if len(stats.ArtifactsByCategory) != 5 {
		t.Errorf("Expected every category present, got %v", stats.ArtifactsByCategory)
	}
}

func TestAnalyzeDailyLogsReturningSessionIsNewEngagement(t *testing.T) {
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	events := []storage.Event{
		{Timestamp: testDate.Add(1 * time.Hour), Kind: storage.KindTurn, SessionID: "a", TotalMessages: 2},
		{Timestamp: testDate.Add(2 * time.Hour), Kind: storage.KindTurn, SessionID: "a", TotalMessages: 4, ConversationOver: true,
			Artifacts: map[string]int{"upiIds": 2}},
		{Timestamp: testDate.Add(3 * time.Hour), Kind: storage.KindTurn, SessionID: "a", TotalMessages: 2,
			Artifacts: map[string]int{"phoneNumbers": 1}},
	}

	stats := AnalyzeDailyLogs(events, testDate)

	if stats.UniqueSessions != 2 {
		t.Fatalf("Expected 2 engagements, got %d", stats.UniqueSessions)
	}
	first, ok := stats.SessionStats["a"]
	if !ok || first.Turns != 2 || first.Messages != 4 || !first.Concluded || first.Artifacts["upiIds"] != 2 {
		t.Errorf("Unexpected first engagement: %+v", first)
	}
	second, ok := stats.SessionStats["a#2"]
	if !ok || second.SessionID != "a" || second.Turns != 1 || second.Messages != 2 || second.Concluded {
		t.Errorf("Unexpected second engagement: %+v", second)
	}
	if second.Artifacts["phoneNumbers"] != 1 || second.Artifacts["upiIds"] != 0 {
		t.Errorf("Second engagement inherited artifacts: %+v", second.Artifacts)
	}
	if stats.ConcludedEngagements != 1 || stats.ArtifactsByCategory["upiIds"] != 2 || stats.ArtifactsByCategory["phoneNumbers"] != 1 {
		t.Errorf("Unexpected totals: %+v", stats)
	}
}

func TestGenerateReportSummary(t *testing.T) {
	stats := &DailyStats{
		Date:                   "2024-01-15",
		Turns:                  7,
		UniqueSessions:         2,
		ConcludedEngagements:   1,
		ReportsSent:            1,
		ReportsSkipped:         1,
		LongestEngagementTurns: 5,
		ArtifactsByCategory:    map[string]int{"upiIds": 2, "phishingLinks": 1},
		SessionStats: map[string]SessionStats{
			"sess-z": {SessionID: "sess-z", Turns: 5, Concluded: true},
			"sess-a": {SessionID: "sess-a", Turns: 2},
		},
	}

	summary := stats.GenerateReportSummary()

	expectedStrings := []string{
		"2024-01-15",
		"Turns handled: 7",
		"Sessions active: 2",
		"Engagements concluded: 1",
		"Delivered: 1",
		"Not sent (no endpoint): 1",
		"3 artifacts",
		"upiIds: 2",
		"bankAccounts: 0",
		"sess-z: 5 turns, concluded",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(summary, expected) {
			t.Errorf("Expected summary to contain '%s'. Summary: %s", expected, summary)
		}
	}
	if strings.Index(summary, "sess-a") > strings.Index(summary, "sess-z") {
		t.Errorf("Expected sessions sorted by id. Summary: %s", summary)
	}
}

func TestToJSON(t *testing.T) {
	stats := AnalyzeDailyLogs([]storage.Event{
		{Timestamp: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), Kind: storage.KindTurn, SessionID: "a", TotalMessages: 2},
	}, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	jsonStr, err := stats.ToJSON()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var parsed DailyStats
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if parsed.Turns != 1 || parsed.SessionStats["a"].Messages != 2 {
		t.Errorf("Unexpected round trip: %+v", parsed)
	}
}

func TestLoadDailyFromFileJournal(t *testing.T) {
	rec, err := storage.NewFileRecorder(filepath.Join(t.TempDir(), "journal.jsonl"))
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"x", "x", "y"} {
		ev := storage.Event{Timestamp: day.Add(time.Duration(i) * time.Hour), Kind: storage.KindTurn, SessionID: id, TotalMessages: 2}
		if err := rec.AppendEvent(ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stats, err := LoadDaily(rec, day)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.Turns != 3 || stats.UniqueSessions != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
