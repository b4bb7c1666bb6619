// Package notify entrega eventos de disposición al tablero (WebSocket) y a otras instancias (Redis).
package notify

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope formato de todo mensaje enviado a los clientes.
type Envelope struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	SentAt time.Time       `json:"sent_at"`
}

// Encode serializa payload dentro de un Envelope.
func Encode(eventType string, payload any, now time.Time) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("codificar evento %s: %w", eventType, err)
	}
	return json.Marshal(Envelope{Type: eventType, Data: data, SentAt: now.UTC()})
}
