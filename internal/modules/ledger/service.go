package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Source reads the raw rows of one collection for one owner
type Source interface {
	Collection() Collection
	ListRawByOwner(ctx context.Context, ownerID string) ([]RawRow, error)
}

// CapitalProvider supplies the current capital baseline. Implemented by the
// settings service so a dashboard edit takes effect on the next request.
type CapitalProvider interface {
	InitialCapital() float64
}

// Report describes data-quality degradations encountered while building a
// merged view. A degraded source or skipped rows never fail the request.
type Report struct {
	SkippedRows int      `json:"skippedRows"`
	Degraded    []string `json:"degradedSources,omitempty"`
}

// ListOptions controls the merged ledger listing
type ListOptions struct {
	SortOrder string // "asc" or "desc" by date; desc by default
	Limit     int    // 0 = no limit
}

// StatsOptions controls the statistics computation
type StatsOptions struct {
	RecentLimit int
}

// Service builds the merged ledger and its statistics. It holds no state
// between requests; both entry points recompute from current storage.
type Service struct {
	variable Source
	fixed    Source
	capital  CapitalProvider
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a ledger service over the two operation sources
func NewService(variable, fixed Source, capital CapitalProvider, log zerolog.Logger) *Service {
	return &Service{
		variable: variable,
		fixed:    fixed,
		capital:  capital,
		log:      log.With().Str("component", "ledger").Logger(),
		now:      time.Now,
	}
}

// BuildLedger returns the deduplicated, chronologically ordered ledger for
// one owner.
func (s *Service) BuildLedger(ctx context.Context, ownerID string, opts ListOptions) ([]Entry, Report, error) {
	entries, report, err := s.collect(ctx, ownerID)
	if err != nil {
		return nil, report, err
	}

	ascending := opts.SortOrder == "asc"
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Date.After(entries[j].Date)
	})

	if opts.Limit > 0 && opts.Limit < len(entries) {
		entries = entries[:opts.Limit]
	}

	return entries, report, nil
}

// BuildStatistics returns the aggregate statistics for one owner
func (s *Service) BuildStatistics(ctx context.Context, ownerID string, opts StatsOptions) (Stats, Report, error) {
	entries, report, err := s.collect(ctx, ownerID)
	if err != nil {
		return Stats{}, report, err
	}

	recentLimit := opts.RecentLimit
	if recentLimit < 0 {
		recentLimit = 0
	}

	stats := Compute(entries, StatsConfig{
		InitialCapital: s.capital.InitialCapital(),
		RecentLimit:    recentLimit,
	})

	return stats, report, nil
}

// collect reads both collections concurrently, normalizes every row and
// merges the results. A single failing source degrades the view instead of
// failing it; only the loss of both sources is an error.
func (s *Service) collect(ctx context.Context, ownerID string) ([]Entry, Report, error) {
	var (
		variableRows, fixedRows []RawRow
		variableErr, fixedErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		variableRows, variableErr = s.variable.ListRawByOwner(gctx, ownerID)
		return nil
	})
	g.Go(func() error {
		fixedRows, fixedErr = s.fixed.ListRawByOwner(gctx, ownerID)
		return nil
	})
	_ = g.Wait()

	if variableErr != nil && fixedErr != nil {
		return nil, Report{}, fmt.Errorf("both operation sources unavailable: %v, %v", variableErr, fixedErr)
	}

	var report Report
	if variableErr != nil {
		s.log.Warn().Err(variableErr).
			Str("collection", string(s.variable.Collection())).
			Msg("Source unavailable, building partial ledger")
		report.Degraded = append(report.Degraded, string(s.variable.Collection()))
	}
	if fixedErr != nil {
		s.log.Warn().Err(fixedErr).
			Str("collection", string(s.fixed.Collection())).
			Msg("Source unavailable, building partial ledger")
		report.Degraded = append(report.Degraded, string(s.fixed.Collection()))
	}

	now := s.now()
	variable := s.normalizeAll(s.variable.Collection(), ownerID, variableRows, now, &report)
	fixed := s.normalizeAll(s.fixed.Collection(), ownerID, fixedRows, now, &report)

	return Merge(variable, fixed), report, nil
}

func (s *Service) normalizeAll(col Collection, ownerID string, rows []RawRow, now time.Time, report *Report) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := Normalize(col, ownerID, row, now)
		if err != nil {
			report.SkippedRows++
			s.log.Warn().Err(err).
				Str("collection", string(col)).
				Msg("Skipping row that could not be normalized")
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
