package domain

import "github.com/google/uuid"

// SessionPair identifies one directed (source edition, target edition)
// pairing of paper sessions. Matching passes and ledger operations are
// always scoped to a pair.
type SessionPair struct {
	SourceID uuid.UUID
	TargetID uuid.UUID
}

// Key is a stable identifier for pair-scoped locking.
func (p SessionPair) Key() string {
	return p.SourceID.String() + "|" + p.TargetID.String()
}
