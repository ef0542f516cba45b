// Package operations stores variable-risk (Kelly sized) trading operations.
// It is also the target collection for cross-posted fixed-risk operations.
package operations

import (
	"fmt"
	"time"
)

// Result labels as stored by the dashboard. The ledger module additionally
// accepts the canonical win/loss tokens when merging.
const (
	ResultWon  = "Ganada"
	ResultLost = "Perdida"
)

// Operation types
const (
	TypeKelly = "kelly"
	TypeFixed = "fixed" // cross-posted from the fixed-risk collection
)

// Operation is one variable-risk trading operation
type Operation struct {
	ID               int64     `json:"id"`
	OwnerID          string    `json:"-"`
	Result           string    `json:"result"`
	InitialCapital   float64   `json:"initialCapital"`
	MontoRb          float64   `json:"montoRb"`
	FinalCapital     float64   `json:"finalCapital"`
	KellyUsed        float64   `json:"kellyUsed"`
	Type             string    `json:"type"`
	SourceCollection string    `json:"sourceCollection,omitempty"`
	SourceID         string    `json:"sourceId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Validate checks the request payload invariants
func (o *Operation) Validate() error {
	if o.Result != ResultWon && o.Result != ResultLost {
		return fmt.Errorf("result must be %q or %q", ResultWon, ResultLost)
	}
	if o.Type == "" {
		o.Type = TypeKelly
	}
	if o.Type != TypeKelly && o.Type != TypeFixed {
		return fmt.Errorf("type must be %q or %q", TypeKelly, TypeFixed)
	}
	return nil
}

// CrossPost is the equivalent of a fixed-risk operation written into this
// collection for unified aggregation. The (SourceCollection, SourceID) pair
// is unique, which makes the dual write idempotent.
type CrossPost struct {
	OwnerID          string
	Result           string
	InitialCapital   float64
	Amount           float64
	FinalCapital     float64
	SourceCollection string
	SourceID         string
	Date             time.Time
}
