package disposition

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefijos de referencia del libro de movimientos. Las herramientas de conciliación
// existentes buscan filas por estos formatos exactos.
const (
	RefPrefixApproved = "QA-APPROVED-"
	RefPrefixRework   = "QA-PARTIAL-REWORK-"
	RefPrefixScrap    = "QA-REJECTED-PARTIAL-"
	RefPrefixDisposal = "QA-PARTIAL-DISPOSAL-"
)

// ApprovedRef referencia de la cantidad aprobada hacia producto terminado.
func ApprovedRef(sourceID string) string { return RefPrefixApproved + sourceID }

// ReworkRef referencia de las cantidades enviadas a retrabajo.
func ReworkRef(sourceID string) string { return RefPrefixRework + sourceID }

// ScrapRef referencia de las cantidades enviadas a chatarra.
func ScrapRef(sourceID string) string { return RefPrefixScrap + sourceID }

// DisposalRef referencia de las cantidades descartadas.
func DisposalRef(sourceID string) string { return RefPrefixDisposal + sourceID }

// WorkOrderPrefix prefijo de las órdenes de retrabajo generadas.
const WorkOrderPrefix = "MWO"

// FormatWorkOrderNo construye MWO-<año>-<secuencia>, secuencia con al menos 4 dígitos.
func FormatWorkOrderNo(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", WorkOrderPrefix, year, seq)
}

// ParseWorkOrderNo extrae año y secuencia de un número MWO.
func ParseWorkOrderNo(no string) (year, seq int, err error) {
	parts := strings.Split(no, "-")
	if len(parts) != 3 || parts[0] != WorkOrderPrefix {
		return 0, 0, fmt.Errorf("número de orden inválido: %q", no)
	}
	if year, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("año inválido en %q: %w", no, err)
	}
	if seq, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, fmt.Errorf("secuencia inválida en %q: %w", no, err)
	}
	return year, seq, nil
}
