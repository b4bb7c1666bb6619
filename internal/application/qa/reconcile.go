package qa

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// Discrepancy un chequeo de conciliación que no cuadró para un lote de disposición.
type Discrepancy struct {
	BatchID     string `json:"batch_id"`
	InventoryID string `json:"inventory_id"`
	Check       string `json:"check"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
}

// ReconcileReport resultado de una corrida de conciliación.
type ReconcileReport struct {
	Since         time.Time     `json:"since"`
	Checked       int           `json:"checked"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// Clean indica que todos los lotes revisados cuadran.
func (r *ReconcileReport) Clean() bool { return len(r.Discrepancies) == 0 }

// ReconcileUseCase audita el libro de movimientos de cada disposición usando las etiquetas de referencia.
type ReconcileUseCase struct {
	repos repository.Repos
	log   *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(repos repository.Repos, log *logger.Logger) *ReconcileUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReconcileUseCase{repos: repos, log: log.Named("qa_reconcile")}
}

// Run revisa las disposiciones confirmadas desde since.
func (uc *ReconcileUseCase) Run(ctx context.Context, since time.Time) (*ReconcileReport, error) {
	batches, err := uc.repos.Batches.ListSince(ctx, since, 0)
	if err != nil {
		return nil, err
	}
	report := &ReconcileReport{Since: since, Discrepancies: []Discrepancy{}}
	for _, b := range batches {
		found, err := uc.checkBatch(ctx, b)
		if err != nil {
			return nil, err
		}
		report.Checked++
		report.Discrepancies = append(report.Discrepancies, found...)
	}

	ev := uc.log.Info()
	if !report.Clean() {
		ev = uc.log.Warn()
		for _, d := range report.Discrepancies {
			uc.log.Warn().
				Str("batch_id", d.BatchID).
				Str("inventory_id", d.InventoryID).
				Str("check", d.Check).
				Str("expected", d.Expected).
				Str("actual", d.Actual).
				Msg("discrepancia de conciliación")
		}
	}
	ev.Int("checked", report.Checked).Int("discrepancies", len(report.Discrepancies)).Msg("conciliación terminada")
	return report, nil
}

func (uc *ReconcileUseCase) checkBatch(ctx context.Context, b *entity.DispositionBatch) ([]Discrepancy, error) {
	var out []Discrepancy
	add := func(check string, expected, actual decimal.Decimal) {
		if !expected.Equal(actual) {
			out = append(out, Discrepancy{
				BatchID: b.ID, InventoryID: b.InventoryID, Check: check,
				Expected: expected.String(), Actual: actual.String(),
			})
		}
	}

	records, err := uc.repos.Rejections.ListByBatch(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	rework, scrap, disposal := decimal.Zero, decimal.Zero, decimal.Zero
	scrapLines := 0
	for _, rec := range records {
		switch rec.Disposition {
		case entity.DispositionRework:
			rework = rework.Add(rec.Quantity)
		case entity.DispositionScrap:
			scrap = scrap.Add(rec.Quantity)
			scrapLines++
		case entity.DispositionDisposal:
			disposal = disposal.Add(rec.Quantity)
		}
	}
	add("conservation", b.SourceQuantity, b.ApprovedQuantity.Add(rework).Add(scrap).Add(disposal))

	lot, err := uc.repos.Lots.GetByID(ctx, b.InventoryID)
	if err != nil {
		return nil, err
	}
	if lot == nil || lot.Status != entity.LotStatusQADisposed {
		status := "missing"
		if lot != nil {
			status = lot.Status
		}
		out = append(out, Discrepancy{
			BatchID: b.ID, InventoryID: b.InventoryID, Check: "source_status",
			Expected: entity.LotStatusQADisposed, Actual: status,
		})
	} else {
		add("source_quantity", decimal.Zero, lot.Quantity)
	}

	txns, err := uc.repos.Txns.ListByTransaction(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	sourceSide := decimal.Zero
	for _, t := range txns {
		if t.InventoryID != nil && *t.InventoryID == b.InventoryID {
			sourceSide = sourceSide.Add(t.Quantity)
		}
	}
	add("source_ledger", b.SourceQuantity.Neg(), sourceSide)

	tags := []struct {
		check    string
		ref      string
		expected decimal.Decimal
		positive bool
	}{
		{"approved_ledger", disposition.ApprovedRef(b.InventoryID), b.ApprovedQuantity, true},
		{"rework_ledger", disposition.ReworkRef(b.InventoryID), rework, true},
		{"scrap_ledger", disposition.ScrapRef(b.InventoryID), scrap, true},
		{"disposal_ledger", disposition.DisposalRef(b.InventoryID), disposal.Neg(), false},
	}
	for _, tag := range tags {
		rows, err := uc.repos.Txns.ListByReference(ctx, tag.ref)
		if err != nil {
			return nil, err
		}
		add(tag.check, tag.expected, sumRows(rows, b.ID, tag.positive))
	}

	entries, err := uc.repos.Scrap.ListByReference(ctx, disposition.ScrapRef(b.InventoryID))
	if err != nil {
		return nil, err
	}
	scrapStock := decimal.Zero
	for _, e := range entries {
		scrapStock = scrapStock.Add(e.Quantity)
	}
	add("scrap_entries", scrap, scrapStock)
	add("scrap_entry_count", decimal.NewFromInt(int64(scrapLines)), decimal.NewFromInt(int64(len(entries))))
	return out, nil
}

// sumRows suma las filas del lote; con positive solo las entradas (la contraparte del ISSUE).
func sumRows(rows []*entity.InventoryTxn, batchID string, positive bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range rows {
		if t.TransactionID != batchID {
			continue
		}
		if positive && !t.Quantity.IsPositive() {
			continue
		}
		total = total.Add(t.Quantity)
	}
	return total
}
