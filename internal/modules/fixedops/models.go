// Package fixedops stores fixed-percentage-risk trading operations. Each
// write is mirrored into the variable-risk collection (cross-posting) so
// the merged ledger can aggregate both strategies in one place.
package fixedops

import (
	"fmt"
	"time"
)

// Result labels as stored by the dashboard
const (
	ResultWon  = "Ganada"
	ResultLost = "Perdida"
)

// FixedOperation is one fixed-risk trading operation. The optional
// timestamp fields keep their historical wire names; they are stored as
// opaque strings and parsed only when the ledger needs a date.
type FixedOperation struct {
	ID             int64     `json:"id"`
	OwnerID        string    `json:"-"`
	Result         string    `json:"result"`
	InitialCapital float64   `json:"initialCapital"`
	MontoRb        float64   `json:"montoRb"`
	FinalCapital   float64   `json:"finalCapital"`
	RiskPercentage float64   `json:"riskPercentage"`
	OpenedAt       *string   `json:"fechaHoraApertura,omitempty"`
	ClosedAt       *string   `json:"fechaHoraCierre,omitempty"`
	Notes          *string   `json:"observaciones,omitempty"`
	ImageURL       *string   `json:"imagenUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Validate checks the request payload invariants and drops empty optional
// strings so they are stored as NULL.
func (o *FixedOperation) Validate() error {
	if o.Result != ResultWon && o.Result != ResultLost {
		return fmt.Errorf("result must be %q or %q", ResultWon, ResultLost)
	}

	o.OpenedAt = emptyToNil(o.OpenedAt)
	o.ClosedAt = emptyToNil(o.ClosedAt)
	o.Notes = emptyToNil(o.Notes)
	o.ImageURL = emptyToNil(o.ImageURL)

	return nil
}

func emptyToNil(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}

// Summary is the win/loss breakdown of the fixed-risk collection alone
type Summary struct {
	TotalOperations int     `json:"totalOperations"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"winRate"`
}
