// Package ledger merges the two operation collections into one canonical,
// deduplicated sequence and computes the dashboard statistics over it.
package ledger

import "time"

// Collection identifies one of the two raw operation collections
type Collection string

const (
	CollectionOperations      Collection = "operations"
	CollectionFixedOperations Collection = "fixed_operations"
)

// EntryType is the sizing strategy that produced an entry
type EntryType string

const (
	EntryTypeKelly EntryType = "kelly"
	EntryTypeFixed EntryType = "fixed"
)

// Result is the canonical outcome of an operation
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
)

// RawRow is an operation row as read from storage. The two collections
// evolved independently, so the same concept can appear under different
// names and casings; the normalizer resolves that variance.
type RawRow map[string]any

// Entry is the canonical, post-normalization representation of one
// trading operation regardless of originating collection.
type Entry struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	Type             EntryType `json:"type"`
	Result           Result    `json:"result"`
	Amount           float64   `json:"amount"`
	Date             time.Time `json:"date"`
	KellyPercent     *float64  `json:"kellyPercent,omitempty"`
	SourceCollection string    `json:"sourceCollection,omitempty"`
	SourceID         string    `json:"sourceId,omitempty"`
}

// DedupKey returns the stable identity used to collapse cross-posted
// duplicates. The (sourceCollection, sourceId) pair wins when both are
// present; otherwise the namespaced entry ID stands alone.
func (e Entry) DedupKey() string {
	if e.SourceCollection != "" && e.SourceID != "" {
		return e.SourceCollection + "/" + e.SourceID
	}
	return e.ID
}
