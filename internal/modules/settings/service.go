package settings

import (
	"strconv"

	"github.com/rs/zerolog"
)

// Service resolves the capital baseline. A value stored in the settings
// database takes precedence over the environment default, and edits take
// effect on the next statistics request without a restart.
type Service struct {
	repo            *Repository
	fallbackCapital float64
	log             zerolog.Logger
}

// NewService creates a settings service
func NewService(repo *Repository, fallbackCapital float64, log zerolog.Logger) *Service {
	return &Service{
		repo:            repo,
		fallbackCapital: fallbackCapital,
		log:             log.With().Str("component", "settings").Logger(),
	}
}

// InitialCapital returns the current capital baseline
func (s *Service) InitialCapital() float64 {
	value, err := s.repo.Get(KeyInitialCapital)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read capital baseline, using fallback")
		return s.fallbackCapital
	}
	if value == nil {
		return s.fallbackCapital
	}

	parsed, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		s.log.Warn().Str("value", *value).Msg("Stored capital baseline is not numeric, using fallback")
		return s.fallbackCapital
	}
	return parsed
}

// SetInitialCapital stores a new capital baseline
func (s *Service) SetInitialCapital(value float64) error {
	return s.repo.Set(KeyInitialCapital, strconv.FormatFloat(value, 'f', -1, 64))
}
