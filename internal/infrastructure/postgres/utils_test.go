package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
	assert.False(t, isUniqueViolation(nil))
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/erp?sslmode=disable", migrateURL("postgres://u:p@db:5432/erp?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/erp", migrateURL("postgresql://u@db/erp"))
	assert.Equal(t, "pgx5://x", migrateURL("pgx5://x"))
}

func TestLotFilterSQL(t *testing.T) {
	where, args := lotFilterSQL(repository.LotFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = lotFilterSQL(repository.LotFilter{ProductID: "p", Status: "AVAILABLE", Kind: repository.LotKindMaterial})
	assert.Equal(t, " WHERE product_id = $1 AND status = $2 AND material_id IS NOT NULL", where)
	assert.Equal(t, []any{"p", "AVAILABLE"}, args)

	where, _ = lotFilterSQL(repository.LotFilter{LocationID: "l", Kind: repository.LotKindProduct})
	assert.Equal(t, " WHERE location_id = $1 AND product_id IS NOT NULL", where)
}

func TestMigrationsEmbebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("6f1c2a4e-0000-4000-8000-000000000001"))
	assert.False(t, isUUID("not-a-uuid"))
	assert.False(t, isUUID(""))
}

// Con ids que no son UUID los repositorios no llegan a consultar la base (Querier nil).
func TestRepos_IDNoUUIDEsFilaAusente(t *testing.T) {
	ctx := context.Background()

	lot, err := NewInventoryLotRepository(nil).GetByID(ctx, "not-a-uuid")
	assert.NoError(t, err)
	assert.Nil(t, lot)

	lot, err = NewInventoryLotRepository(nil).GetForUpdate(ctx, "lot-1")
	assert.NoError(t, err)
	assert.Nil(t, lot)

	lots, err := NewInventoryLotRepository(nil).List(ctx, repository.LotFilter{ProductID: "p1"})
	assert.NoError(t, err)
	assert.Empty(t, lots)

	batch, err := NewDispositionBatchRepository(nil).GetByID(ctx, "not-a-uuid")
	assert.NoError(t, err)
	assert.Nil(t, batch)

	recs, err := NewQARejectionRepository(nil).ListByInventory(ctx, "not-a-uuid")
	assert.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = NewQARejectionRepository(nil).ListByBatch(ctx, "x")
	assert.NoError(t, err)
	assert.Empty(t, recs)

	p, err := NewProductRepository(nil).GetByID(ctx, "x")
	assert.NoError(t, err)
	assert.Nil(t, p)

	loc, err := NewLocationRepository(nil).GetByID(ctx, "x")
	assert.NoError(t, err)
	assert.Nil(t, loc)

	wo, err := NewWorkOrderRepository(nil).GetByID(ctx, "x")
	assert.NoError(t, err)
	assert.Nil(t, wo)
}
