package intel

import (
	"encoding/json"
	"strings"
)

const (
	CategoryBankAccounts       = "bankAccounts"
	CategoryUPIIDs             = "upiIds"
	CategoryPhishingLinks      = "phishingLinks"
	CategoryPhoneNumbers       = "phoneNumbers"
	CategorySuspiciousKeywords = "suspiciousKeywords"
)

// Categories lists the artifact categories in wire order.
var Categories = []string{
	CategoryBankAccounts,
	CategoryUPIIDs,
	CategoryPhishingLinks,
	CategoryPhoneNumbers,
	CategorySuspiciousKeywords,
}

// Artifacts holds extracted values per category. It is used both for the
// per-turn delta reported by the model and for the cumulative record.
type Artifacts struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// fields returns pointers to the category slices in Categories order.
func (a *Artifacts) fields() []*[]string {
	return []*[]string{
		&a.BankAccounts,
		&a.UPIIDs,
		&a.PhishingLinks,
		&a.PhoneNumbers,
		&a.SuspiciousKeywords,
	}
}

// Get returns the values of one category, or nil for an unknown name.
func (a Artifacts) Get(category string) []string {
	for i, f := range a.fields() {
		if Categories[i] == category {
			return *f
		}
	}
	return nil
}

// Count returns the number of values per category.
func (a Artifacts) Count() map[string]int {
	out := make(map[string]int, len(Categories))
	for i, f := range a.fields() {
		out[Categories[i]] = len(*f)
	}
	return out
}

func (a Artifacts) Total() int {
	n := 0
	for _, f := range a.fields() {
		n += len(*f)
	}
	return n
}

// Clone returns a deep copy with every category present.
func (a Artifacts) Clone() Artifacts {
	var out Artifacts
	src := a.fields()
	for i, f := range out.fields() {
		*f = append(make([]string, 0, len(*src[i])), *src[i]...)
	}
	return out
}

// MarshalJSON always emits every category, empty ones as [].
func (a Artifacts) MarshalJSON() ([]byte, error) {
	type plain Artifacts
	return json.Marshal(plain(a.Clone()))
}

// Record is the cumulative intelligence of one session.
type Record struct {
	Artifacts  Artifacts `json:"extractedIntelligence"`
	AgentNotes string    `json:"agentNotes"`
}

func NewRecord() Record {
	return Record{Artifacts: Artifacts{}.Clone()}
}

func (r Record) Clone() Record {
	return Record{Artifacts: r.Artifacts.Clone(), AgentNotes: r.AgentNotes}
}

// Merge folds one turn's delta into the record. Every category is a set
// union, so nothing found on earlier turns is ever lost; notes are a running
// summary and are replaced by the latest value.
func (r *Record) Merge(delta Artifacts, notes string) {
	dst := r.Artifacts.fields()
	for i, f := range delta.fields() {
		*dst[i] = union(*dst[i], *f)
	}
	r.AgentNotes = notes
}

func union(current, incoming []string) []string {
	seen := make(map[string]struct{}, len(current)+len(incoming))
	out := make([]string, 0, len(current)+len(incoming))
	for _, list := range [][]string{current, incoming} {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
