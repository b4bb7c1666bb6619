package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

func seeded() *memory.Store {
	s := memory.NewStore()
	p, m := "p1", "m1"
	s.SeedLot(&entity.InventoryLot{ID: "fg", ProductID: &p, LocationID: "L1", Quantity: decimal.NewFromInt(3), Status: entity.LotStatusAvailable})
	s.SeedLot(&entity.InventoryLot{ID: "rw", ProductID: &p, LocationID: "L2", Quantity: decimal.NewFromInt(2), Status: entity.LotStatusReworkPending})
	s.SeedLot(&entity.InventoryLot{ID: "raw", MaterialID: &m, LocationID: "L1", Quantity: decimal.NewFromInt(9), Status: entity.LotStatusAvailable})
	return s
}

func TestGetLot(t *testing.T) {
	uc := inventory.NewLotUseCase(seeded().Repos().Lots)

	lot, err := uc.GetLot(context.Background(), "rw")
	require.NoError(t, err)
	assert.Equal(t, entity.LotStatusReworkPending, lot.Status)

	_, err = uc.GetLot(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLots_FiltroMaterial(t *testing.T) {
	uc := inventory.NewLotUseCase(seeded().Repos().Lots)

	res, err := uc.ListLots(context.Background(), dto.LotListRequest{Kind: "Material"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "raw", res.Items[0].ID)
	assert.Equal(t, 50, res.Page.Limit)

	res, err = uc.ListLots(context.Background(), dto.LotListRequest{Status: "rework_pending"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "rw", res.Items[0].ID)

	_, err = uc.ListLots(context.Background(), dto.LotListRequest{Kind: "scrap"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
