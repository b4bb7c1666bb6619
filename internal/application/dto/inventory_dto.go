package dto

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// LotListRequest filtros de GET /api/inventory/lots.
type LotListRequest struct {
	Limit      int    `query:"limit" validate:"min=0,max=500"`
	Offset     int    `query:"offset" validate:"min=0"`
	ProductID  string `query:"product_id"`
	LocationID string `query:"location_id"`
	Status     string `query:"status"`
	Kind       string `query:"kind" validate:"omitempty,oneof=material product"`
}

// LotListResponse página de lotes.
type LotListResponse struct {
	Items []*entity.InventoryLot `json:"items"`
	Page  PageResponse           `json:"page"`
}

// Page devuelve la paginación con valores por defecto aplicados.
func (r LotListRequest) Page() PageRequest {
	p := PageRequest{Limit: r.Limit, Offset: r.Offset}
	p.DefaultPage()
	return p
}
