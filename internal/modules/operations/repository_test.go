package operations

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

func TestInsertAndList(t *testing.T) {
	repo := newTestRepository(t)

	op := &Operation{
		OwnerID:        "owner-1",
		Result:         ResultWon,
		InitialCapital: 1000,
		MontoRb:        60,
		FinalCapital:   1060,
		KellyUsed:      2,
		Type:           TypeKelly,
	}
	require.NoError(t, repo.Insert(op))
	assert.NotZero(t, op.ID)
	assert.False(t, op.CreatedAt.IsZero())

	ops, err := repo.ListByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, ResultWon, ops[0].Result)
	assert.Equal(t, 60.0, ops[0].MontoRb)
	assert.Equal(t, 2.0, ops[0].KellyUsed)
}

func TestListScopedByOwner(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Insert(&Operation{OwnerID: "owner-1", Result: ResultWon, MontoRb: 10, Type: TypeKelly}))
	require.NoError(t, repo.Insert(&Operation{OwnerID: "owner-2", Result: ResultLost, MontoRb: 20, Type: TypeKelly}))

	ops, err := repo.ListByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "owner-1", ops[0].OwnerID)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepository(t)

	op := &Operation{OwnerID: "owner-1", Result: ResultWon, MontoRb: 10, Type: TypeKelly}
	require.NoError(t, repo.Insert(op))

	op.Result = ResultLost
	op.MontoRb = 15
	require.NoError(t, repo.Update(op))

	ops, err := repo.ListByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, ResultLost, ops[0].Result)
	assert.Equal(t, 15.0, ops[0].MontoRb)
}

func TestUpdateWrongOwnerReturnsNotFound(t *testing.T) {
	repo := newTestRepository(t)

	op := &Operation{OwnerID: "owner-1", Result: ResultWon, MontoRb: 10, Type: TypeKelly}
	require.NoError(t, repo.Insert(op))

	stolen := *op
	stolen.OwnerID = "owner-2"
	assert.ErrorIs(t, repo.Update(&stolen), ErrNotFound)
}

func TestDeleteAndDeleteAll(t *testing.T) {
	repo := newTestRepository(t)

	first := &Operation{OwnerID: "owner-1", Result: ResultWon, MontoRb: 10, Type: TypeKelly}
	second := &Operation{OwnerID: "owner-1", Result: ResultLost, MontoRb: 5, Type: TypeKelly}
	require.NoError(t, repo.Insert(first))
	require.NoError(t, repo.Insert(second))

	require.NoError(t, repo.Delete("owner-1", first.ID))
	ops, err := repo.ListByOwner("owner-1")
	require.NoError(t, err)
	assert.Len(t, ops, 1)

	require.NoError(t, repo.DeleteAll("owner-1"))
	ops, err = repo.ListByOwner("owner-1")
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestUpsertIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)

	cp := CrossPost{
		OwnerID:          "owner-1",
		Result:           ResultLost,
		Amount:           50,
		SourceCollection: "fixed_operations",
		SourceID:         "7",
	}
	require.NoError(t, repo.Upsert(cp))

	cp.Result = ResultWon
	cp.Amount = 75
	require.NoError(t, repo.Upsert(cp))

	ops, err := repo.ListByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, ResultWon, ops[0].Result)
	assert.Equal(t, 75.0, ops[0].MontoRb)
	assert.Equal(t, TypeFixed, ops[0].Type)
	assert.Equal(t, "fixed_operations", ops[0].SourceCollection)
	assert.Equal(t, "7", ops[0].SourceID)
}

func TestDeleteBySource(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Upsert(CrossPost{
		OwnerID: "owner-1", Result: ResultWon, Amount: 10,
		SourceCollection: "fixed_operations", SourceID: "7",
	}))
	require.NoError(t, repo.Insert(&Operation{OwnerID: "owner-1", Result: ResultWon, MontoRb: 5, Type: TypeKelly}))

	require.NoError(t, repo.DeleteBySource("owner-1", "fixed_operations", "7"))

	ops, err := repo.ListByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Empty(t, ops[0].SourceCollection)
}

func TestDeleteAllFromSource(t *testing.T) {
	repo := newTestRepository(t)

	for _, id := range []string{"7", "8"} {
		require.NoError(t, repo.Upsert(CrossPost{
			OwnerID: "owner-1", Result: ResultWon, Amount: 10,
			SourceCollection: "fixed_operations", SourceID: id,
		}))
	}
	require.NoError(t, repo.Insert(&Operation{OwnerID: "owner-1", Result: ResultWon, MontoRb: 5, Type: TypeKelly}))

	require.NoError(t, repo.DeleteAllFromSource("owner-1", "fixed_operations"))

	ops, err := repo.ListByOwner("owner-1")
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestListRawByOwner(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Insert(&Operation{
		OwnerID: "owner-1", Result: ResultWon,
		InitialCapital: 1000, MontoRb: 60, FinalCapital: 1060,
		KellyUsed: 2, Type: TypeKelly,
	}))

	rows, err := repo.ListRawByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Contains(t, rows[0], "id")
	assert.Contains(t, rows[0], "monto_rb")
	assert.Contains(t, rows[0], "kelly_used")
	assert.Contains(t, rows[0], "created_at")
}

func TestValidate(t *testing.T) {
	op := &Operation{Result: "Abierta"}
	assert.Error(t, op.Validate())

	op = &Operation{Result: ResultWon}
	require.NoError(t, op.Validate())
	assert.Equal(t, TypeKelly, op.Type)

	op = &Operation{Result: ResultLost, Type: "martingale"}
	assert.Error(t, op.Validate())
}
