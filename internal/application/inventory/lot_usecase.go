package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// LotUseCase consultas de lotes de inventario (lectura posterior a una disposición).
type LotUseCase struct {
	lotRepo repository.InventoryLotRepository
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(lotRepo repository.InventoryLotRepository) *LotUseCase {
	return &LotUseCase{lotRepo: lotRepo}
}

// GetLot devuelve el estado actual de un lote.
func (uc *LotUseCase) GetLot(ctx context.Context, id string) (*entity.InventoryLot, error) {
	lot, err := uc.lotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	return lot, nil
}

// ListLots lista lotes filtrados. kind=material solo devuelve lotes con material_id,
// por lo que los lotes de retrabajo nunca aparecen en la vista de materia prima.
func (uc *LotUseCase) ListLots(ctx context.Context, in dto.LotListRequest) (*dto.LotListResponse, error) {
	page := in.Page()
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	switch kind {
	case "", repository.LotKindMaterial, repository.LotKindProduct:
	default:
		return nil, domain.NewValidationError("filtro inválido").Add("kind", "debe ser material o product")
	}
	lots, err := uc.lotRepo.List(ctx, repository.LotFilter{
		ProductID:  strings.TrimSpace(in.ProductID),
		LocationID: strings.TrimSpace(in.LocationID),
		Status:     strings.ToUpper(strings.TrimSpace(in.Status)),
		Kind:       kind,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LotListResponse{
		Items: lots,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(lots)},
	}, nil
}
