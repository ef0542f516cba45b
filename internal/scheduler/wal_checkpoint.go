package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/database"
)

// WALCheckpointJob runs a passive checkpoint over the databases so the WAL
// files stay bounded during long uninterrupted uptime.
type WALCheckpointJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewWALCheckpointJob creates a WAL checkpoint job
func NewWALCheckpointJob(log zerolog.Logger, databases ...*database.DB) *WALCheckpointJob {
	return &WALCheckpointJob{
		databases: databases,
		log:       log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checkpoints every registered database
func (j *WALCheckpointJob) Run() error {
	for _, db := range j.databases {
		if db == nil {
			continue
		}

		busy, walPages, checkpointed, err := db.CheckpointPassive()
		if err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("Checkpoint failed")
			continue
		}

		j.log.Debug().
			Str("database", db.Name()).
			Int("busy", busy).
			Int("wal_pages", walPages).
			Int("checkpointed", checkpointed).
			Msg("Checkpoint complete")
	}
	return nil
}
