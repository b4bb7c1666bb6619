package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScrapStatusAvailable chatarra disponible para reutilización o venta.
const ScrapStatusAvailable = "AVAILABLE"

// ScrapInventoryEntry registro de chatarra generado por una disposición SCRAP.
type ScrapInventoryEntry struct {
	ID                string           `json:"scrap_id"`
	ProductID         string           `json:"product_id"`
	MaterialName      string           `json:"material_name"`
	Quantity          decimal.Decimal  `json:"quantity"`
	WeightKg          *decimal.Decimal `json:"weight_kg,omitempty"`
	Unit              string           `json:"unit"`
	Status            string           `json:"status"`
	Reference         string           `json:"reference"`
	SourceInventoryID string           `json:"source_inventory_id"`
	CreatedAt         time.Time        `json:"created_at"`
}
