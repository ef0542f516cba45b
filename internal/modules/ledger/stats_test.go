package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeExampleScenario(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	kelly := 2.0

	entries := []Entry{
		{ID: "operations:1", Type: EntryTypeKelly, Result: ResultWin, Amount: 60, Date: t1, KellyPercent: &kelly},
		{ID: "fixed_operations:1", Type: EntryTypeFixed, Result: ResultLoss, Amount: -50, Date: t2},
	}

	stats := Compute(entries, StatsConfig{InitialCapital: 1000, RecentLimit: 5})

	assert.Equal(t, 2, stats.TotalOperations)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 50.0, stats.WinRate)
	assert.Equal(t, 10.0, stats.TotalProfit)
	assert.Equal(t, 1000.0, stats.InitialCapital)
	assert.Equal(t, 1010.0, stats.CurrentCapital)
	assert.Equal(t, 2.0, stats.KellyAverage)
	assert.Equal(t, 1, stats.FixedRiskOperations)
	assert.Equal(t, 1, stats.KellyOperations)

	require.Len(t, stats.RecentOperations, 2)
	assert.Equal(t, "fixed_operations:1", stats.RecentOperations[0].ID)
	assert.Equal(t, "operations:1", stats.RecentOperations[1].ID)
}

func TestComputeEmptySet(t *testing.T) {
	stats := Compute(nil, StatsConfig{InitialCapital: 500, RecentLimit: 5})

	assert.Equal(t, 0, stats.TotalOperations)
	assert.Equal(t, 0.0, stats.WinRate)
	assert.Equal(t, 0.0, stats.KellyAverage)
	assert.Equal(t, 0.0, stats.TotalProfit)
	assert.Equal(t, 500.0, stats.CurrentCapital)
	assert.Empty(t, stats.RecentOperations)
}

func TestComputeRecentLimitZero(t *testing.T) {
	entries := []Entry{
		{ID: "operations:1", Type: EntryTypeKelly, Result: ResultWin, Amount: 10, Date: time.Now()},
	}

	stats := Compute(entries, StatsConfig{InitialCapital: 100, RecentLimit: 0})

	assert.Empty(t, stats.RecentOperations)
	assert.Equal(t, 1, stats.TotalOperations)
	assert.Equal(t, 110.0, stats.CurrentCapital)
}

func TestComputeRecentLimitClamped(t *testing.T) {
	entries := []Entry{
		{ID: "operations:1", Result: ResultWin, Amount: 1, Date: time.Now()},
		{ID: "operations:2", Result: ResultWin, Amount: 1, Date: time.Now()},
	}

	stats := Compute(entries, StatsConfig{RecentLimit: 10})
	assert.Len(t, stats.RecentOperations, 2)
}

func TestComputeRecentTiesKeepMergeOrder(t *testing.T) {
	same := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "operations:a", Result: ResultWin, Amount: 1, Date: same},
		{ID: "operations:b", Result: ResultWin, Amount: 1, Date: same},
		{ID: "operations:c", Result: ResultWin, Amount: 1, Date: same},
	}

	stats := Compute(entries, StatsConfig{RecentLimit: 3})

	require.Len(t, stats.RecentOperations, 3)
	assert.Equal(t, "operations:a", stats.RecentOperations[0].ID)
	assert.Equal(t, "operations:b", stats.RecentOperations[1].ID)
	assert.Equal(t, "operations:c", stats.RecentOperations[2].ID)
}

func TestComputeKellyAverageIncludesTaggedFixedEntries(t *testing.T) {
	kelly := 4.0
	entries := []Entry{
		// Fixed entry that nonetheless carries a sizing percentage
		{ID: "fixed_operations:1", Type: EntryTypeFixed, Result: ResultWin, Amount: 5, KellyPercent: &kelly},
		// Kelly entry without a recorded percentage still widens the denominator
		{ID: "operations:1", Type: EntryTypeKelly, Result: ResultWin, Amount: 5},
	}

	stats := Compute(entries, StatsConfig{})
	assert.Equal(t, 2.0, stats.KellyAverage)
}

func TestComputeAggregateConsistency(t *testing.T) {
	entries := []Entry{
		{ID: "operations:1", Type: EntryTypeKelly, Result: ResultWin, Amount: 12.5},
		{ID: "operations:2", Type: EntryTypeKelly, Result: ResultLoss, Amount: -7.25},
		{ID: "fixed_operations:3", Type: EntryTypeFixed, Result: ResultLoss, Amount: -3},
	}

	stats := Compute(entries, StatsConfig{InitialCapital: 100})

	losses := stats.TotalOperations - stats.Wins
	assert.Equal(t, 3, stats.Wins+losses)
	assert.InDelta(t, 2.25, stats.TotalProfit, 1e-9)
	assert.InDelta(t, stats.InitialCapital+stats.TotalProfit, stats.CurrentCapital, 1e-9)
}
