package ledger

import (
	"sort"
	"time"
)

// StatsConfig parameterizes a statistics computation
type StatsConfig struct {
	InitialCapital float64
	RecentLimit    int
}

// RecentEntry is the reduced shape of a recent operation in the stats payload
type RecentEntry struct {
	ID     string    `json:"id"`
	Type   EntryType `json:"type"`
	Result Result    `json:"result"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// Stats holds the aggregate metrics derived from the merged ledger.
// Nothing here is persisted; every request recomputes from storage.
type Stats struct {
	TotalOperations     int           `json:"totalOperations"`
	Wins                int           `json:"wins"`
	WinRate             float64       `json:"winRate"`
	TotalProfit         float64       `json:"totalProfit"`
	InitialCapital      float64       `json:"initialCapital"`
	CurrentCapital      float64       `json:"currentCapital"`
	KellyAverage        float64       `json:"kellyAverage"`
	FixedRiskOperations int           `json:"fixedRiskOperations"`
	KellyOperations     int           `json:"kellyOperations"`
	RecentOperations    []RecentEntry `json:"recentOperations"`
}

// Compute derives the aggregate statistics in a single pass over the
// deduplicated entries. Denominators guard against empty sets, so win rate
// and kelly average are 0 rather than NaN when nothing qualifies.
func Compute(entries []Entry, cfg StatsConfig) Stats {
	stats := Stats{
		InitialCapital:   cfg.InitialCapital,
		RecentOperations: []RecentEntry{},
	}

	var kellySum float64
	var kellyDenominator int

	for _, e := range entries {
		stats.TotalOperations++
		stats.TotalProfit += e.Amount

		if e.Result == ResultWin {
			stats.Wins++
		}

		switch e.Type {
		case EntryTypeFixed:
			stats.FixedRiskOperations++
		case EntryTypeKelly:
			stats.KellyOperations++
		}

		if e.Type == EntryTypeKelly || e.KellyPercent != nil {
			kellyDenominator++
			if e.KellyPercent != nil {
				kellySum += *e.KellyPercent
			}
		}
	}

	if stats.TotalOperations > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalOperations) * 100
	}
	if kellyDenominator > 0 {
		stats.KellyAverage = kellySum / float64(kellyDenominator)
	}
	stats.CurrentCapital = cfg.InitialCapital + stats.TotalProfit

	stats.RecentOperations = recentOperations(entries, cfg.RecentLimit)

	return stats
}

// recentOperations returns the N most recent entries by date descending.
// The sort is stable so entries with identical timestamps keep the order
// the merger produced, which keeps output deterministic.
func recentOperations(entries []Entry, limit int) []RecentEntry {
	if limit <= 0 {
		return []RecentEntry{}
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	if limit > len(sorted) {
		limit = len(sorted)
	}

	recent := make([]RecentEntry, 0, limit)
	for _, e := range sorted[:limit] {
		recent = append(recent, RecentEntry{
			ID:     e.ID,
			Type:   e.Type,
			Result: e.Result,
			Amount: e.Amount,
			Date:   e.Date,
		})
	}
	return recent
}
