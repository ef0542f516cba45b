package fixedops

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/modules/ledger"
	"github.com/aristath/trading-journal/internal/modules/operations"
)

// CrossPoster mirrors fixed-risk operations into the variable-risk
// collection. Implemented by the operations repository.
type CrossPoster interface {
	Upsert(cp operations.CrossPost) error
	DeleteBySource(ownerID, sourceCollection, sourceID string) error
	DeleteAllFromSource(ownerID, sourceCollection string) error
}

// Service wraps the repository with the cross-posting dual write. The
// mirror write is best-effort: the merged ledger deduplicates by source
// identity, so a missing copy only means the native row is surfaced until
// the next successful cross-post.
type Service struct {
	repo        *Repository
	crossPoster CrossPoster
	log         zerolog.Logger
}

// NewService creates a fixed operations service
func NewService(repo *Repository, crossPoster CrossPoster, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		crossPoster: crossPoster,
		log:         log.With().Str("component", "fixedops").Logger(),
	}
}

// Repository exposes the underlying repository (ledger source wiring)
func (s *Service) Repository() *Repository {
	return s.repo
}

// Create stores a fixed-risk operation and cross-posts it
func (s *Service) Create(op *FixedOperation) error {
	if err := s.repo.Insert(op); err != nil {
		return err
	}
	s.crossPost(op)
	return nil
}

// Update rewrites a fixed-risk operation and refreshes its cross-posted copy
func (s *Service) Update(op *FixedOperation) error {
	if err := s.repo.Update(op); err != nil {
		return err
	}
	s.crossPost(op)
	return nil
}

// Delete removes a fixed-risk operation together with its cross-posted copy
func (s *Service) Delete(ownerID string, id int64) error {
	if err := s.repo.Delete(ownerID, id); err != nil {
		return err
	}

	sourceID := strconv.FormatInt(id, 10)
	if err := s.crossPoster.DeleteBySource(ownerID, string(s.repo.Collection()), sourceID); err != nil {
		s.log.Warn().Err(err).Str("source_id", sourceID).
			Msg("Failed to remove cross-posted copy")
	}
	return nil
}

// DeleteAll removes every fixed-risk operation of one owner and all
// cross-posted copies
func (s *Service) DeleteAll(ownerID string) error {
	if err := s.repo.DeleteAll(ownerID); err != nil {
		return err
	}

	if err := s.crossPoster.DeleteAllFromSource(ownerID, string(s.repo.Collection())); err != nil {
		s.log.Warn().Err(err).Msg("Failed to remove cross-posted copies")
	}
	return nil
}

// crossPost mirrors the operation into the variable-risk collection.
// Failures are logged, not returned; the native row already committed.
func (s *Service) crossPost(op *FixedOperation) {
	cp := operations.CrossPost{
		OwnerID:          op.OwnerID,
		Result:           op.Result,
		InitialCapital:   op.InitialCapital,
		Amount:           op.MontoRb,
		FinalCapital:     op.FinalCapital,
		SourceCollection: string(s.repo.Collection()),
		SourceID:         strconv.FormatInt(op.ID, 10),
		Date:             op.effectiveDate(),
	}

	if err := s.crossPoster.Upsert(cp); err != nil {
		s.log.Warn().Err(err).Int64("id", op.ID).
			Msg("Failed to cross-post fixed operation")
	}
}

// effectiveDate resolves the operation's date the same way the ledger
// does: close time, then open time, then creation time.
func (op *FixedOperation) effectiveDate() time.Time {
	for _, candidate := range []*string{op.ClosedAt, op.OpenedAt} {
		if candidate == nil {
			continue
		}
		if t, ok := ledger.ParseTime(*candidate); ok {
			return t
		}
	}
	if !op.CreatedAt.IsZero() {
		return op.CreatedAt
	}
	return time.Now().UTC()
}
