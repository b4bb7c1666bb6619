package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// LotFilter filtros de listado de lotes. Kind: "material" (material_id no nulo), "product" o vacío.
type LotFilter struct {
	ProductID  string
	LocationID string
	Status     string
	Kind       string
	Limit      int
	Offset     int
}

// Valores admitidos para LotFilter.Kind.
const (
	LotKindMaterial = "material"
	LotKindProduct  = "product"
)

// InventoryLotRepository define el puerto de persistencia para lotes de inventario.
// GetByID/GetForUpdate/FindAvailableForUpdate devuelven (nil, nil) si no existe.
type InventoryLotRepository interface {
	GetByID(ctx context.Context, id string) (*entity.InventoryLot, error)
	// GetForUpdate bloquea la fila del lote hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryLot, error)
	// FindAvailableForUpdate busca y bloquea el lote AVAILABLE de un producto en una ubicación.
	FindAvailableForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryLot, error)
	Create(ctx context.Context, lot *entity.InventoryLot) error
	Update(ctx context.Context, lot *entity.InventoryLot) error
	List(ctx context.Context, filter LotFilter) ([]*entity.InventoryLot, error)
}
