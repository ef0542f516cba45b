package settings

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/trading-journal/internal/database"
)

func newTestService(t *testing.T, fallback float64) *Service {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "config.db"),
		Profile: database.ProfileStandard,
		Name:    "config",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.MigrateConfig())

	return NewService(NewRepository(db.Conn(), zerolog.Nop()), fallback, zerolog.Nop())
}

func TestInitialCapitalFallsBackWhenUnset(t *testing.T) {
	svc := newTestService(t, 1000)
	assert.Equal(t, 1000.0, svc.InitialCapital())
}

func TestSetInitialCapitalTakesEffect(t *testing.T) {
	svc := newTestService(t, 1000)

	require.NoError(t, svc.SetInitialCapital(2500.50))
	assert.Equal(t, 2500.50, svc.InitialCapital())

	// A second write overwrites the first
	require.NoError(t, svc.SetInitialCapital(3000))
	assert.Equal(t, 3000.0, svc.InitialCapital())
}

func TestInitialCapitalIgnoresGarbageValue(t *testing.T) {
	svc := newTestService(t, 1000)

	require.NoError(t, svc.repo.Set(KeyInitialCapital, "not a number"))
	assert.Equal(t, 1000.0, svc.InitialCapital())
}

func TestRepositoryGetUnsetKey(t *testing.T) {
	svc := newTestService(t, 0)

	value, err := svc.repo.Get("never_written")
	require.NoError(t, err)
	assert.Nil(t, value)
}
