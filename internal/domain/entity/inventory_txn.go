package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	TxnTypeIssue      = "ISSUE"      // salida del lote origen
	TxnTypeReceive    = "RECEIVE"    // entrada a producto terminado
	TxnTypeRework     = "REWORK"     // entrada al área de retrabajo
	TxnTypeScrap      = "SCRAP"      // entrada a chatarra
	TxnTypeAdjustment = "ADJUSTMENT" // baja definitiva (descarte)
)

// InventoryTxn fila del libro de movimientos; Quantity lleva signo. Nunca se actualiza.
type InventoryTxn struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	InventoryID   *string         `json:"inventory_id,omitempty"`
	ScrapID       *string         `json:"scrap_id,omitempty"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reference     string          `json:"reference"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
