package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrNotNormalizable marks a raw row that carries neither a recognizable
// result label nor a derivable amount. Callers skip such rows and surface
// a count instead of failing the whole merge.
var ErrNotNormalizable = errors.New("row cannot be normalized")

// Accepted aliases per semantic field, in resolution order. The operations
// collection predates the fixed-risk one and several columns were renamed
// along the way; legacy imports still carry the old spellings.
var (
	idAliases             = []string{"id"}
	resultAliases         = []string{"result"}
	typeAliases           = []string{"type"}
	amountAliases         = []string{"montoRb", "montorb", "monto_rb", "amount"}
	initialCapitalAliases = []string{"initialCapital", "initialcapital", "initial_capital"}
	finalCapitalAliases   = []string{"finalCapital", "finalcapital", "final_capital"}
	kellyAliases          = []string{"kellyUsed", "kelly_used", "kellyPercent", "kelly_percent"}
	closedAtAliases       = []string{"fechaHoraCierre", "fechahoracierre", "fecha_hora_cierre", "closedAt", "closed_at"}
	openedAtAliases       = []string{"fechaHoraApertura", "fechahoraapertura", "fecha_hora_apertura", "openedAt", "opened_at"}
	createdAtAliases      = []string{"created_at", "createdAt", "date"}
	sourceColAliases      = []string{"sourceCollection", "source_collection"}
	sourceIDAliases       = []string{"sourceId", "source_id"}
)

// Normalize converts one raw row from the given collection into a canonical
// Entry. The amount sign is always re-derived from the detected result;
// upstream storage does not sign losses consistently.
func Normalize(col Collection, ownerID string, row RawRow, now time.Time) (Entry, error) {
	nativeID, ok := lookupString(row, idAliases)
	if !ok || nativeID == "" {
		return Entry{}, fmt.Errorf("%w: missing native id", ErrNotNormalizable)
	}

	amount, amountOK := resolveAmount(row)
	result, resultOK := resolveResult(row)

	switch {
	case !resultOK && !amountOK:
		return Entry{}, fmt.Errorf("%w: row %s/%s has no result label and no derivable amount",
			ErrNotNormalizable, col, nativeID)
	case !resultOK:
		// No label; fall back to the stored sign
		if amount < 0 {
			result = ResultLoss
		} else {
			result = ResultWin
		}
	}

	signed := math.Abs(amount)
	if result == ResultLoss {
		signed = -signed
	}

	entry := Entry{
		ID:      fmt.Sprintf("%s:%s", col, nativeID),
		OwnerID: ownerID,
		Type:    resolveType(col, row),
		Result:  result,
		Amount:  signed,
		Date:    resolveDate(row, now),
	}

	if kelly, ok := lookupNumber(row, kellyAliases); ok {
		entry.KellyPercent = &kelly
	}

	// Stored source fields mark a cross-posted copy and point at the
	// originating row; native rows default to their own coordinates so a
	// copy and its origin resolve to the same dedup key.
	entry.SourceCollection = string(col)
	entry.SourceID = nativeID
	if src, ok := lookupString(row, sourceColAliases); ok {
		entry.SourceCollection = src
		if srcID, ok := lookupString(row, sourceIDAliases); ok {
			entry.SourceID = srcID
		}
	}

	return entry, nil
}

// resolveAmount prefers the capital delta when both endpoints are present
// and non-zero, then falls back to a directly stored amount field.
func resolveAmount(row RawRow) (float64, bool) {
	initial, hasInitial := lookupNumber(row, initialCapitalAliases)
	final, hasFinal := lookupNumber(row, finalCapitalAliases)
	if hasInitial && hasFinal && initial != 0 && final != 0 {
		return final - initial, true
	}
	return lookupNumber(row, amountAliases)
}

func resolveResult(row RawRow) (Result, bool) {
	label, ok := lookupString(row, resultAliases)
	if !ok {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "ganada", "win":
		return ResultWin, true
	case "perdida", "loss":
		return ResultLoss, true
	default:
		return "", false
	}
}

func resolveType(col Collection, row RawRow) EntryType {
	if label, ok := lookupString(row, typeAliases); ok {
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "kelly":
			return EntryTypeKelly
		case "fixed":
			return EntryTypeFixed
		}
	}
	if _, ok := lookupNumber(row, kellyAliases); ok {
		return EntryTypeKelly
	}
	if col == CollectionFixedOperations {
		return EntryTypeFixed
	}
	return EntryTypeKelly
}

// resolveDate prefers the closing timestamp, then the opening one, then the
// row's creation time, and finally the ingestion time.
func resolveDate(row RawRow, now time.Time) time.Time {
	for _, aliases := range [][]string{closedAtAliases, openedAtAliases, createdAtAliases} {
		if t, ok := lookupTime(row, aliases); ok {
			return t
		}
	}
	return now
}

// timeLayouts are the formats found in the collections; legacy rows were
// written without timezone or with a bare datetime.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a stored timestamp in any of the formats the
// collections have accumulated over time.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func lookupTime(row RawRow, aliases []string) (time.Time, bool) {
	for _, alias := range aliases {
		value, present := row[alias]
		if !present || value == nil {
			continue
		}
		switch v := value.(type) {
		case time.Time:
			return v, true
		case string:
			if t, ok := ParseTime(v); ok {
				return t, true
			}
		case []byte:
			if t, ok := ParseTime(string(v)); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func lookupString(row RawRow, aliases []string) (string, bool) {
	for _, alias := range aliases {
		value, present := row[alias]
		if !present || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v, true
			}
		case []byte:
			if len(v) > 0 {
				return string(v), true
			}
		case int64:
			return strconv.FormatInt(v, 10), true
		case int:
			return strconv.Itoa(v), true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

func lookupNumber(row RawRow, aliases []string) (float64, bool) {
	for _, alias := range aliases {
		value, present := row[alias]
		if !present || value == nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int64:
			return float64(v), true
		case int:
			return float64(v), true
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return parsed, true
			}
		case []byte:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}
