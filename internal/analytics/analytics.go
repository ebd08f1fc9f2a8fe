package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"scam-honeypot/internal/intel"
	"scam-honeypot/internal/storage"
)

// DailyStats summarises one UTC day of the engagement journal.
type DailyStats struct {
	Date                   string                  `json:"date"`
	Turns                  int                     `json:"turns"`
	UniqueSessions         int                     `json:"unique_sessions"`
	ConcludedEngagements   int                     `json:"concluded_engagements"`
	ReportsSent            int                     `json:"reports_sent"`
	ReportsFailed          int                     `json:"reports_failed"`
	ReportsSkipped         int                     `json:"reports_skipped"`
	ArtifactsByCategory    map[string]int          `json:"artifacts_by_category"`
	SessionStats           map[string]SessionStats `json:"session_stats"`
	LongestEngagementTurns int                     `json:"longest_engagement_turns"`
}

// SessionStats is one engagement's slice of a day.
type SessionStats struct {
	SessionID string         `json:"session_id"`
	Turns     int            `json:"turns"`
	Messages  int            `json:"messages"`
	Concluded bool           `json:"concluded"`
	Artifacts map[string]int `json:"artifacts"`
}

// AnalyzeDailyLogs aggregates journal events that fall on targetDate.
// Turn events carry cumulative artifact counts, so the last one seen for a
// session is that session's total.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:                startOfDay.Format("2006-01-02"),
		ArtifactsByCategory: make(map[string]int),
		SessionStats:        make(map[string]SessionStats),
	}
	for _, c := range intel.Categories {
		stats.ArtifactsByCategory[c] = 0
	}

	// A session id that comes back after a concluded turn is a new
	// engagement and gets its own entry, keyed "id#2", "id#3" and so on.
	current := make(map[string]string)
	engagements := make(map[string]int)
	closed := make(map[string]bool)

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.SessionID == "" {
			continue
		}

		switch event.Kind {
		case storage.KindTurn:
			stats.Turns++
			key, ok := current[event.SessionID]
			if !ok || closed[event.SessionID] {
				engagements[event.SessionID]++
				key = event.SessionID
				if n := engagements[event.SessionID]; n > 1 {
					key = fmt.Sprintf("%s#%d", event.SessionID, n)
				}
				current[event.SessionID] = key
				closed[event.SessionID] = false
			}
			s := stats.SessionStats[key]
			s.SessionID = event.SessionID
			s.Turns++
			s.Messages = event.TotalMessages
			if len(event.Artifacts) > 0 {
				s.Artifacts = event.Artifacts
			}
			if event.ConversationOver {
				s.Concluded = true
				closed[event.SessionID] = true
			}
			stats.SessionStats[key] = s
		case storage.KindReportSent:
			stats.ReportsSent++
		case storage.KindReportFailed:
			stats.ReportsFailed++
		case storage.KindReportSkipped:
			stats.ReportsSkipped++
		}
	}

	for _, s := range stats.SessionStats {
		if s.Concluded {
			stats.ConcludedEngagements++
		}
		if s.Turns > stats.LongestEngagementTurns {
			stats.LongestEngagementTurns = s.Turns
		}
		for c, n := range s.Artifacts {
			stats.ArtifactsByCategory[c] += n
		}
	}
	stats.UniqueSessions = len(stats.SessionStats)
	return stats
}

// TotalArtifacts is the sum over all categories.
func (ds *DailyStats) TotalArtifacts() int {
	total := 0
	for _, n := range ds.ArtifactsByCategory {
		total += n
	}
	return total
}

// GenerateReportSummary renders the day as plain text for the operator.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Honeypot activity for %s:\n\n", ds.Date)

	b.WriteString("Engagements:\n")
	fmt.Fprintf(&b, "- Turns handled: %d\n", ds.Turns)
	fmt.Fprintf(&b, "- Sessions active: %d\n", ds.UniqueSessions)
	fmt.Fprintf(&b, "- Engagements concluded: %d\n", ds.ConcludedEngagements)
	fmt.Fprintf(&b, "- Longest engagement: %d turns\n\n", ds.LongestEngagementTurns)

	b.WriteString("Final reports:\n")
	fmt.Fprintf(&b, "- Delivered: %d\n", ds.ReportsSent)
	fmt.Fprintf(&b, "- Failed: %d\n", ds.ReportsFailed)
	if ds.ReportsSkipped > 0 {
		fmt.Fprintf(&b, "- Not sent (no endpoint): %d\n", ds.ReportsSkipped)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Intelligence extracted (%d artifacts):\n", ds.TotalArtifacts())
	for _, c := range intel.Categories {
		fmt.Fprintf(&b, "- %s: %d\n", c, ds.ArtifactsByCategory[c])
	}

	if len(ds.SessionStats) > 0 {
		ids := make([]string, 0, len(ds.SessionStats))
		for id := range ds.SessionStats {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintf(&b, "\nSessions (%d):\n", len(ids))
		for _, id := range ids {
			s := ds.SessionStats[id]
			fmt.Fprintf(&b, "- %s: %d turns", id, s.Turns)
			if s.Concluded {
				b.WriteString(", concluded")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ToJSON serialises the stats for detailed inspection.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadDaily reads the whole journal and analyzes targetDate.
func LoadDaily(rec storage.Recorder, targetDate time.Time) (*DailyStats, error) {
	events, err := rec.LoadEvents()
	if err != nil {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	return AnalyzeDailyLogs(events, targetDate), nil
}
