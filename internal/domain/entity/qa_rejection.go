package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Disposiciones posibles para una cantidad rechazada.
const (
	DispositionRework   = "REWORK"
	DispositionScrap    = "SCRAP"
	DispositionDisposal = "DISPOSAL"
)

// QARejectionRecord registro inmutable de una cantidad dispuesta de un lote inspeccionado.
type QARejectionRecord struct {
	ID               string          `json:"id"`
	BatchID          string          `json:"batch_id"`
	InventoryID      string          `json:"inventory_id"`
	ProductID        string          `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	Disposition      string          `json:"disposition"`
	Reason           string          `json:"reason"`
	RootCause        *string         `json:"root_cause,omitempty"`
	CorrectiveAction *string         `json:"corrective_action,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	ReworkWOID       *string         `json:"rework_wo_id,omitempty"`
	ScrapID          *string         `json:"scrap_id,omitempty"`
	RejectedBy       string          `json:"rejected_by"`
	CreatedAt        time.Time       `json:"created_at"`
}
