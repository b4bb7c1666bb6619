package dto

import "github.com/shopspring/decimal"

// RejectionLineRequest una línea de rechazo. Las cantidades aceptan número o string JSON.
type RejectionLineRequest struct {
	Quantity         decimal.Decimal `json:"quantity" swaggertype:"string" example:"30"`
	Disposition      string          `json:"disposition" validate:"required,disposition" example:"REWORK"`
	Reason           string          `json:"reason" validate:"required,max=500"`
	RootCause        *string         `json:"root_cause,omitempty" validate:"omitempty,max=500"`
	CorrectiveAction *string         `json:"corrective_action,omitempty" validate:"omitempty,max=500"`
}

// PartialDispositionRequest body para POST /api/quality-assurance/:inventory_id/partial.
type PartialDispositionRequest struct {
	ApprovedQuantity decimal.Decimal        `json:"approved_quantity" swaggertype:"string" example:"70"`
	Rejections       []RejectionLineRequest `json:"rejections" validate:"dive"`
	Notes            *string                `json:"notes,omitempty" validate:"omitempty,max=2000"`
	RejectedBy       string                 `json:"rejected_by,omitempty" validate:"max=100"`
	IdempotencyKey   string                 `json:"idempotency_key,omitempty" validate:"max=128"`
}
