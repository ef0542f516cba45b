package fixedops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/trading-journal/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "journal.db"),
		Profile: database.ProfileJournal,
		Name:    "journal",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.MigrateJournal())

	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestInsertAndGet(t *testing.T) {
	repo := newTestRepository(t)

	notes := "buena entrada"
	closed := "2024-03-02T10:00:00Z"
	op := &FixedOperation{
		OwnerID:        "owner-1",
		Result:         ResultWon,
		InitialCapital: 1000,
		MontoRb:        25,
		FinalCapital:   1025,
		RiskPercentage: 1,
		ClosedAt:       &closed,
		Notes:          &notes,
	}
	require.NoError(t, repo.Insert(op))
	assert.NotZero(t, op.ID)

	got, err := repo.Get("owner-1", op.ID)
	require.NoError(t, err)
	assert.Equal(t, ResultWon, got.Result)
	assert.Equal(t, 25.0, got.MontoRb)
	assert.Equal(t, 1.0, got.RiskPercentage)
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)
	require.NotNil(t, got.ClosedAt)
	assert.Equal(t, closed, *got.ClosedAt)
	assert.Nil(t, got.OpenedAt)
	assert.Nil(t, got.ImageURL)
}

func TestGetWrongOwner(t *testing.T) {
	repo := newTestRepository(t)

	op := &FixedOperation{OwnerID: "owner-1", Result: ResultWon, MontoRb: 10}
	require.NoError(t, repo.Insert(op))

	_, err := repo.Get("owner-2", op.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFixedOperation(t *testing.T) {
	repo := newTestRepository(t)

	op := &FixedOperation{OwnerID: "owner-1", Result: ResultWon, MontoRb: 10}
	require.NoError(t, repo.Insert(op))

	image := "https://cdn.example.com/chart.png"
	op.Result = ResultLost
	op.ImageURL = &image
	require.NoError(t, repo.Update(op))

	got, err := repo.Get("owner-1", op.ID)
	require.NoError(t, err)
	assert.Equal(t, ResultLost, got.Result)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, image, *got.ImageURL)
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	repo := newTestRepository(t)

	op := &FixedOperation{ID: 99, OwnerID: "owner-1", Result: ResultWon}
	assert.ErrorIs(t, repo.Update(op), ErrNotFound)
}

func TestSummarize(t *testing.T) {
	repo := newTestRepository(t)

	for _, result := range []string{ResultWon, ResultWon, ResultLost} {
		require.NoError(t, repo.Insert(&FixedOperation{OwnerID: "owner-1", Result: result, MontoRb: 10}))
	}
	require.NoError(t, repo.Insert(&FixedOperation{OwnerID: "owner-2", Result: ResultLost, MontoRb: 10}))

	summary, err := repo.Summarize("owner-1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalOperations)
	assert.Equal(t, 2, summary.Wins)
	assert.Equal(t, 1, summary.Losses)
	assert.InDelta(t, 66.66, summary.WinRate, 0.01)
}

func TestSummarizeEmpty(t *testing.T) {
	repo := newTestRepository(t)

	summary, err := repo.Summarize("owner-1")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalOperations)
	assert.Zero(t, summary.WinRate)
}

func TestListRawByOwnerKeepsColumnNames(t *testing.T) {
	repo := newTestRepository(t)

	closed := "2024-03-02T10:00:00Z"
	require.NoError(t, repo.Insert(&FixedOperation{
		OwnerID: "owner-1", Result: ResultWon, MontoRb: 10, ClosedAt: &closed,
	}))

	rows, err := repo.ListRawByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Contains(t, rows[0], "monto_rb")
	assert.Contains(t, rows[0], "fecha_hora_cierre")
	assert.Contains(t, rows[0], "risk_percentage")
}

func TestValidateNormalizesEmptyOptionals(t *testing.T) {
	empty := ""
	op := &FixedOperation{Result: ResultWon, Notes: &empty, ImageURL: &empty}
	require.NoError(t, op.Validate())
	assert.Nil(t, op.Notes)
	assert.Nil(t, op.ImageURL)

	op = &FixedOperation{Result: "Abierta"}
	assert.Error(t, op.Validate())
}
