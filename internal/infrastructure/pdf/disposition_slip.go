// Package pdf genera el comprobante imprimible de una disposición de calidad.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + lote de disposición │ fecha de proceso    │
//	│  LOTE ORIGEN: id / producto / cantidad / estado final       │
//	│  RESUMEN: Aprobado | Retrabajo | Chatarra | Descarte        │
//	│  TABLA: Cant | Disposición | Razón | OT / Chatarra          │
//	│  FOOTER: QR con el id del lote + responsable + notas        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// SlipGenerator genera el comprobante con Maroto v2.
type SlipGenerator struct {
	printer *message.Printer
}

// NewSlipGenerator construye el generador; las cantidades se imprimen con formato es-CO.
func NewSlipGenerator() *SlipGenerator {
	return &SlipGenerator{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// GenerateSlip devuelve los bytes del PDF de la disposición.
func (g *SlipGenerator) GenerateSlip(_ context.Context, res *qa.DispositionResult) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("pdf: disposición nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Disposición de calidad "+res.BatchID, true).
		WithAuthor(res.RejectedBy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(res))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.sourceRow(res))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.summaryRow(res))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableRows(res)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(res))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *SlipGenerator) headerRow(res *qa.DispositionResult) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("COMPROBANTE DE DISPOSICIÓN DE CALIDAD", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Lote de disposición: "+res.BatchID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(res.ProcessedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 10, Align: align.Right, Top: 7,
			}),
		),
	)
}

func (g *SlipGenerator) sourceRow(res *qa.DispositionResult) core.Row {
	status := "—"
	if res.SourceLot != nil {
		status = res.SourceLot.Status
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("LOTE INSPECCIONADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Inventario: %s   |   Producto: %s", res.InventoryID, res.ProductID), props.Text{
				Size: 8, Top: 6,
			}),
			text.New(fmt.Sprintf("Cantidad inspeccionada: %s   |   Estado final: %s", g.qty(res.SourceQuantity), status), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
	)
}

func (g *SlipGenerator) summaryRow(res *qa.DispositionResult) core.Row {
	totals := Totals(res)
	cell := func(label string, qty decimal.Decimal) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: colorPrimary, Top: 1}),
			text.New(g.qty(qty), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("Aprobado", res.ApprovedQuantity),
		cell("Retrabajo", totals[entity.DispositionRework]),
		cell("Chatarra", totals[entity.DispositionScrap]),
		cell("Descarte", totals[entity.DispositionDisposal]),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 2, align.Right),
		h("Disposición", 2, align.Center),
		h("Razón", 5, align.Left),
		h("OT / Chatarra", 3, align.Left),
	)
}

func (g *SlipGenerator) tableRows(res *qa.DispositionResult) []core.Row {
	woNo := make(map[string]string, len(res.WorkOrders))
	for _, wo := range res.WorkOrders {
		woNo[wo.ID] = wo.WONo
	}

	rows := make([]core.Row, 0, len(res.RejectionRecords))
	for _, r := range res.RejectionRecords {
		ref := "—"
		switch {
		case r.ReworkWOID != nil:
			ref = nonEmpty(woNo[*r.ReworkWOID], *r.ReworkWOID)
		case r.ScrapID != nil:
			ref = shortID(*r.ScrapID)
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(g.qty(r.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(dispositionLabel(r.Disposition), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(r.Reason, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(ref, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, row.New(7).Add(col.New(12).Add(
			text.New("Lote aprobado en su totalidad.", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		)))
	}
	return rows
}

func footerRow(res *qa.DispositionResult) core.Row {
	notes := "Sin notas."
	if res.Notes != nil {
		notes = *res.Notes
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(res.BatchID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Responsable: "+res.RejectedBy, props.Text{Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3}),
			text.New("Notas: "+notes, props.Text{Size: 8, Top: 11, Left: 3, Color: colorGray}),
			text.New("Escanee el QR para consultar el lote de disposición.", props.Text{
				Size: 7, Top: 30, Left: 3, Color: colorGray,
			}),
		),
	)
}

// Totals suma las cantidades rechazadas por disposición.
func Totals(res *qa.DispositionResult) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{
		entity.DispositionRework:   decimal.Zero,
		entity.DispositionScrap:    decimal.Zero,
		entity.DispositionDisposal: decimal.Zero,
	}
	for _, r := range res.RejectionRecords {
		out[r.Disposition] = out[r.Disposition].Add(r.Quantity)
	}
	return out
}

func (g *SlipGenerator) qty(d decimal.Decimal) string {
	if d.IsInteger() {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return g.printer.Sprintf("%.4f", d.InexactFloat64())
}

func dispositionLabel(d string) string {
	switch d {
	case entity.DispositionRework:
		return "Retrabajo"
	case entity.DispositionScrap:
		return "Chatarra"
	case entity.DispositionDisposal:
		return "Descarte"
	default:
		return d
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
