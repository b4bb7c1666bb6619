package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para ubicaciones.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByCode(ctx context.Context, code string) (*entity.Location, error)
	// EnsureByCode devuelve la ubicación con ese código, creándola si no existe.
	EnsureByCode(ctx context.Context, code, name, kind string) (*entity.Location, error)
}
