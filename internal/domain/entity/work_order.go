package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y estados de orden de trabajo.
const (
	WorkOrderTypeRework    = "REWORK"
	WorkOrderStatusPlanned = "PLANNED"
)

// WorkOrder orden de producción; aquí solo se crean las de retrabajo.
type WorkOrder struct {
	ID                string          `json:"id"`
	WONo              string          `json:"wo_no"` // MWO-<año>-<secuencia>
	ProductID         string          `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	SourceInventoryID string          `json:"source_inventory_id"`
	CreatedAt         time.Time       `json:"created_at"`
}
