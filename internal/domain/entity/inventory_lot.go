package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de inventario.
const (
	LotStatusAvailable         = "AVAILABLE"
	LotStatusQuarantine        = "QUARANTINE"
	LotStatusPendingInspection = "PENDING_INSPECTION"
	LotStatusReworkPending     = "REWORK_PENDING"
	LotStatusConsumed          = "CONSUMED"
	LotStatusQADisposed        = "QA_DISPOSED" // terminal tras una disposición de calidad
)

// InventoryLot representa una cantidad de un producto o material en una ubicación con un estado.
// Exactamente uno de ProductID/MaterialID está definido.
type InventoryLot struct {
	ID            string          `json:"id"`
	ProductID     *string         `json:"product_id"`
	MaterialID    *string         `json:"material_id"`
	LocationID    string          `json:"location_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Status        string          `json:"status"`
	BatchNo       *string         `json:"batch_no,omitempty"`
	ReferenceWOID *string         `json:"reference_wo_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsProductLot indica si el lote es de producto (no de materia prima).
func (l *InventoryLot) IsProductLot() bool {
	return l.ProductID != nil && *l.ProductID != "" && l.MaterialID == nil
}

// IsDispositionable indica si el estado del lote admite una disposición de calidad.
func (l *InventoryLot) IsDispositionable() bool {
	return l.Status == LotStatusQuarantine || l.Status == LotStatusPendingInspection
}

// IsConsumed indica si el lote ya fue dispuesto o consumido por completo.
func (l *InventoryLot) IsConsumed() bool {
	return l.Status == LotStatusQADisposed || l.Status == LotStatusConsumed || l.Quantity.IsZero()
}

// Clone devuelve una copia profunda del lote.
func (l *InventoryLot) Clone() *InventoryLot {
	c := *l
	c.ProductID = cloneStr(l.ProductID)
	c.MaterialID = cloneStr(l.MaterialID)
	c.BatchNo = cloneStr(l.BatchNo)
	c.ReferenceWOID = cloneStr(l.ReferenceWOID)
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
