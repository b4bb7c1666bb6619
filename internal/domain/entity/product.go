package entity

import "github.com/shopspring/decimal"

// Product datos maestros mínimos de un producto terminado o semielaborado.
type Product struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	UnitWeightKg *decimal.Decimal `json:"unit_weight_kg,omitempty"`
}
