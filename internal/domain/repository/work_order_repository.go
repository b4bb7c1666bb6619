package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// WorkOrderRepository órdenes de trabajo de retrabajo.
type WorkOrderRepository interface {
	// NextSequence reserva de forma atómica el siguiente consecutivo del año.
	NextSequence(ctx context.Context, year int) (int, error)
	Create(ctx context.Context, wo *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
}
