package session

import (
	"context"

	"scam-honeypot/internal/history"
	"scam-honeypot/internal/intel"
)

// Session pairs a transcript with the intelligence gathered from it.
type Session struct {
	History      history.History `json:"history"`
	Intelligence intel.Record    `json:"intelligence"`
}

func New() Session {
	return Session{History: history.History{}, Intelligence: intel.NewRecord()}
}

func (s Session) Clone() Session {
	return Session{History: s.History.Clone(), Intelligence: s.Intelligence.Clone()}
}

// Store abstracts keyed session state. Implementations must be safe for
// concurrent use and must hand out copies, so that a caller mutating a
// loaded session never changes stored state before Put.
//
// There is no expiry: a session leaves the store only through Evict. A
// conversation that never concludes stays until the process exits (or until
// the backend's own TTL, when one is configured).
type Store interface {
	// GetOrCreate returns the stored session or a fresh empty one. A fresh
	// session is not persisted until Put.
	GetOrCreate(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, id string, s Session) error
	// Evict removes the session; evicting an unknown id is a no-op.
	Evict(ctx context.Context, id string) error
}
