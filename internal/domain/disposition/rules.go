// Package disposition contiene las reglas puras de una disposición parcial de calidad:
// normalización de la solicitud, conservación de cantidades y formatos de referencia.
package disposition

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// MaxReasonLength longitud máxima de los textos libres de una línea.
const MaxReasonLength = 500

// QuantityScale decimales que se guardan por cantidad (NUMERIC(18,4)).
const QuantityScale = 4

// MaxQuantity primer valor que ya no cabe en una columna NUMERIC(18,4).
var MaxQuantity = decimal.New(1, 14)

// Optional campos opcionales de una línea de rechazo.
type Optional struct {
	RootCause        *string
	CorrectiveAction *string
}

// Line una línea de rechazo: cantidad, disposición y motivo.
type Line struct {
	Quantity    decimal.Decimal
	Disposition string
	Reason      string
	Optional
}

// Request cantidades solicitadas para un lote.
type Request struct {
	ApprovedQuantity decimal.Decimal
	Lines            []Line
}

// Plan solicitud normalizada y validada, con totales por disposición.
type Plan struct {
	Approved decimal.Decimal
	Lines    []Line
	Rework   decimal.Decimal
	Scrap    decimal.Decimal
	Disposal decimal.Decimal
}

// Rejected suma de todas las líneas de rechazo.
func (p *Plan) Rejected() decimal.Decimal {
	return p.Rework.Add(p.Scrap).Add(p.Disposal)
}

// Total cantidad aprobada más rechazada.
func (p *Plan) Total() decimal.Decimal {
	return p.Approved.Add(p.Rejected())
}

// IsValidDisposition indica si d es una disposición conocida (ya normalizada).
func IsValidDisposition(d string) bool {
	switch d {
	case entity.DispositionRework, entity.DispositionScrap, entity.DispositionDisposal:
		return true
	}
	return false
}

// Normalize valida la solicitud sin consultar el lote y devuelve el plan.
// Cualquier problema se reporta como *domain.ValidationError con detalle por campo.
func Normalize(req Request) (*Plan, error) {
	verr := domain.NewValidationError("solicitud de disposición inválida")
	plan := &Plan{
		Approved: req.ApprovedQuantity,
		Lines:    make([]Line, 0, len(req.Lines)),
		Rework:   decimal.Zero,
		Scrap:    decimal.Zero,
		Disposal: decimal.Zero,
	}
	if req.ApprovedQuantity.IsNegative() {
		verr.Add("approved_quantity", "no puede ser negativa")
	} else if msg := checkStorable(req.ApprovedQuantity); msg != "" {
		verr.Add("approved_quantity", msg)
	}

	for i, in := range req.Lines {
		field := fmt.Sprintf("rejections[%d]", i)
		line := Line{
			Quantity:    in.Quantity,
			Disposition: strings.ToUpper(strings.TrimSpace(in.Disposition)),
			Reason:      strings.TrimSpace(in.Reason),
			Optional: Optional{
				RootCause:        trimOptional(in.RootCause),
				CorrectiveAction: trimOptional(in.CorrectiveAction),
			},
		}
		if !line.Quantity.IsPositive() {
			verr.Add(field+".quantity", "debe ser mayor que cero")
		} else if msg := checkStorable(line.Quantity); msg != "" {
			verr.Add(field+".quantity", msg)
		}
		if !IsValidDisposition(line.Disposition) {
			verr.Add(field+".disposition", "debe ser REWORK, SCRAP o DISPOSAL")
		}
		if line.Reason == "" {
			verr.Add(field+".reason", "requerido")
		} else if len(line.Reason) > MaxReasonLength {
			verr.Add(field+".reason", fmt.Sprintf("máximo %d caracteres", MaxReasonLength))
		}
		if verr.HasErrors() {
			continue
		}
		switch line.Disposition {
		case entity.DispositionRework:
			plan.Rework = plan.Rework.Add(line.Quantity)
		case entity.DispositionScrap:
			plan.Scrap = plan.Scrap.Add(line.Quantity)
		case entity.DispositionDisposal:
			plan.Disposal = plan.Disposal.Add(line.Quantity)
		}
		plan.Lines = append(plan.Lines, line)
	}
	if verr.HasErrors() {
		return nil, verr
	}
	if !plan.Total().IsPositive() {
		return nil, verr.Add("approved_quantity", "la solicitud no dispone ninguna cantidad")
	}
	return plan, nil
}

// CheckConservation exige approved + Σ rechazos == cantidad del lote, sin ajustes.
func CheckConservation(plan *Plan, lotQuantity decimal.Decimal) error {
	if plan.Total().Equal(lotQuantity) {
		return nil
	}
	return domain.NewValidationError("las cantidades no cuadran con el lote").
		Add("approved_quantity", fmt.Sprintf(
			"aprobada (%s) + rechazada (%s) = %s, el lote tiene %s",
			plan.Approved.String(), plan.Rejected().String(),
			plan.Total().String(), lotQuantity.String(),
		))
}

// checkStorable rechaza cantidades que la base redondearía o no podría guardar.
func checkStorable(q decimal.Decimal) string {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return fmt.Sprintf("máximo %d decimales", QuantityScale)
	}
	if q.GreaterThanOrEqual(MaxQuantity) {
		return "excede la cantidad máxima permitida"
	}
	return ""
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
