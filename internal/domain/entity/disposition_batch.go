package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DispositionBatch una disposición confirmada; guarda la clave de idempotencia y el resultado completo.
type DispositionBatch struct {
	ID               string
	InventoryID      string
	ProductID        string
	IdempotencyKey   *string
	RequestHash      string
	SourceQuantity   decimal.Decimal
	ApprovedQuantity decimal.Decimal
	Notes            *string
	RejectedBy       string
	Result           json.RawMessage
	CreatedAt        time.Time
}
