package entity

import "time"

// Tipos de ubicación.
const (
	LocationKindFinishedGoods = "FINISHED_GOODS"
	LocationKindRework        = "REWORK"
	LocationKindQuarantine    = "QUARANTINE"
	LocationKindStore         = "STORE"
)

// Location es un lugar físico donde se almacenan lotes (bodega, área de retrabajo, cuarentena).
type Location struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
