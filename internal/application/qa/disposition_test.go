package qa_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

const productID = "prod-brida"

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func str(s string) *string { return &s }

func line(qty, disp, reason string) disposition.Line {
	return disposition.Line{Quantity: d(qty), Disposition: disp, Reason: reason}
}

// chanNotifier entrega cada evento publicado en un canal.
type chanNotifier struct {
	events chan qa.DispositionEvent
	err    error
}

func (n *chanNotifier) Publish(_ context.Context, eventType string, payload any) error {
	if eventType == qa.EventDispositionCompleted {
		if ev, ok := payload.(qa.DispositionEvent); ok {
			select {
			case n.events <- ev:
			default:
			}
		}
	}
	return n.err
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) Observe(outcome string, _ *disposition.Plan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[outcome]++
}

func (r *countingRecorder) get(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[outcome]
}

type fixture struct {
	store    *memory.Store
	repos    repository.Repos
	uc       *qa.DispositionUseCase
	notifier *chanNotifier
	recorder *countingRecorder
}

func newFixture(t *testing.T, wrap func(qa.TxRunner) qa.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	w := d("0.5")
	store.SeedProduct(&entity.Product{ID: productID, Code: "BR-4", Name: "Brida 4in", Unit: "pcs", UnitWeightKg: &w})
	store.SeedLocation(&entity.Location{ID: "loc-q", Code: "QC-HOLD", Name: "Cuarentena", Kind: entity.LocationKindQuarantine})

	var runner qa.TxRunner = memory.NewTxRunner(store)
	if wrap != nil {
		runner = wrap(runner)
	}
	f := &fixture{
		store:    store,
		repos:    store.Repos(),
		notifier: &chanNotifier{events: make(chan qa.DispositionEvent, 16)},
		recorder: &countingRecorder{counts: map[string]int{}},
	}
	f.uc = qa.NewDispositionUseCase(runner, f.repos, f.notifier, f.recorder, nil, qa.Config{
		FinishedGoodsLocation: "FG-STORE",
		ReworkLocation:        "REWORK-AREA",
		NotifyTimeout:         time.Second,
		Now:                   func() time.Time { return fixedNow },
	})
	return f
}

func (f *fixture) seedLot(id, qty string) {
	pid := productID
	f.store.SeedLot(&entity.InventoryLot{
		ID:         id,
		ProductID:  &pid,
		LocationID: "loc-q",
		Quantity:   d(qty),
		Status:     entity.LotStatusQuarantine,
		BatchNo:    str("B-77"),
		CreatedAt:  fixedNow.Add(-time.Hour),
		UpdatedAt:  fixedNow.Add(-time.Hour),
	})
}

func (f *fixture) lot(t *testing.T, id string) *entity.InventoryLot {
	t.Helper()
	lot, err := f.repos.Lots.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, lot)
	return lot
}

func sumTxns(txns []*entity.InventoryTxn, keep func(*entity.InventoryTxn) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if keep == nil || keep(t) {
			total = total.Add(t.Quantity)
		}
	}
	return total
}

func TestProcessPartialDisposition_EscenarioA(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLot("lot-a", "100")
	ctx := context.Background()

	res, err := f.uc.ProcessPartialDisposition(ctx, qa.DispositionInput{
		InventoryID:      "lot-a",
		ApprovedQuantity: d("70"),
		Rejections:       []disposition.Line{line("30", "REWORK", "rebaba en cara")},
		RejectedBy:       "inspector-1",
	})
	require.NoError(t, err)
	assert.False(t, res.Replayed)

	fg, err := f.repos.Locations.GetByCode(ctx, "FG-STORE")
	require.NoError(t, err)
	require.NotNil(t, fg)
	require.NotNil(t, res.ApprovedLot)
	assert.Equal(t, fg.ID, res.ApprovedLot.LocationID)
	assert.True(t, res.ApprovedLot.Quantity.Equal(d("70")))
	assert.Equal(t, entity.LotStatusAvailable, res.ApprovedLot.Status)

	require.Len(t, res.ReworkLots, 1)
	require.Len(t, res.WorkOrders, 1)
	rw := res.ReworkLots[0]
	assert.True(t, rw.Quantity.Equal(d("30")))
	assert.Equal(t, entity.LotStatusReworkPending, rw.Status)
	assert.Nil(t, rw.MaterialID)
	require.NotNil(t, rw.ProductID)
	assert.Equal(t, productID, *rw.ProductID)
	require.NotNil(t, rw.ReferenceWOID)
	assert.Equal(t, res.WorkOrders[0].ID, *rw.ReferenceWOID)
	require.NotNil(t, rw.BatchNo)
	assert.Equal(t, "B-77", *rw.BatchNo)
	assert.Equal(t, "MWO-2026-0001", res.WorkOrders[0].WONo)
	assert.Equal(t, entity.WorkOrderTypeRework, res.WorkOrders[0].Type)

	require.Len(t, res.RejectionRecords, 1)
	rec := res.RejectionRecords[0]
	require.NotNil(t, rec.ReworkWOID)
	assert.Equal(t, res.WorkOrders[0].ID, *rec.ReworkWOID)
	assert.Equal(t, "inspector-1", rec.RejectedBy)
	assert.Equal(t, res.BatchID, rec.BatchID)

	src := f.lot(t, "lot-a")
	assert.True(t, src.Quantity.IsZero())
	assert.Equal(t, entity.LotStatusQADisposed, src.Status)
	assert.Equal(t, entity.LotStatusQADisposed, res.SourceLot.Status)

	txns, err := f.repos.Txns.ListByTransaction(ctx, res.BatchID)
	require.NoError(t, err)
	require.Len(t, txns, 4)
	assert.True(t, sumTxns(txns, nil).IsZero(), "sin descarte el libro del lote suma cero")
	assert.True(t, sumTxns(txns, func(x *entity.InventoryTxn) bool {
		return x.InventoryID != nil && *x.InventoryID == "lot-a"
	}).Equal(d("-100")))

	approved, err := f.repos.Txns.ListByReference(ctx, "QA-APPROVED-lot-a")
	require.NoError(t, err)
	assert.True(t, sumTxns(approved, func(x *entity.InventoryTxn) bool { return x.Type == entity.TxnTypeReceive }).Equal(d("70")))
	rework, err := f.repos.Txns.ListByReference(ctx, "QA-PARTIAL-REWORK-lot-a")
	require.NoError(t, err)
	assert.Len(t, rework, 2)
}

func TestProcessPartialDisposition_SumaAlLoteDisponibleExistente(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	fg, err := f.repos.Locations.EnsureByCode(ctx, "FG-STORE", "Producto terminado", entity.LocationKindFinishedGoods)
	require.NoError(t, err)
	pid := productID
	f.store.SeedLot(&entity.InventoryLot{ID: "fg-lot", ProductID: &pid, LocationID: fg.ID, Quantity: d("10"), Status: entity.LotStatusAvailable})
	f.seedLot("lot-a", "25")

	res, err := f.uc.ProcessPartialDisposition(ctx, qa.DispositionInput{InventoryID: "lot-a", ApprovedQuantity: d("25")})
	require.NoError(t, err)
	require.NotNil(t, res.ApprovedLot)
	assert.Equal(t, "fg-lot", res.ApprovedLot.ID)
	assert.True(t, f.lot(t, "fg-lot").Quantity.Equal(d("35")))
	assert.Equal(t, qa.DefaultRejectedBy, res.RejectedBy)
}

func TestProcessPartialDisposition_EscenarioB(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLot("lot-b", "50")
	ctx := context.Background()

	res, err := f.uc.ProcessPartialDisposition(ctx, qa.DispositionInput{
		InventoryID:      "lot-b",
		ApprovedQuantity: decimal.Zero,
		Rejections: []disposition.Line{
			line("20", "REWORK", "porosidad"),
			line("20", "scrap", "fisura"),
			line("10", "DISPOSAL", "contaminado"),
		},
		Notes: str("  turno noche  "),
	})
	require.NoError(t, err)

	assert.Nil(t, res.ApprovedLot)
	require.Len(t, res.ReworkLots, 1)
	assert.True(t, res.ReworkLots[0].Quantity.Equal(d("20")))
	require.Len(t, res.ScrapEntries, 1)
	scrap := res.ScrapEntries[0]
	assert.True(t, scrap.Quantity.Equal(d("20")))
	assert.Equal(t, "QA-REJECTED-PARTIAL-lot-b", scrap.Reference)
	assert.Equal(t, entity.ScrapStatusAvailable, scrap.Status)
	assert.Equal(t, "Brida 4in", scrap.MaterialName)
	require.NotNil(t, scrap.WeightKg)
	assert.True(t, scrap.WeightKg.Equal(d("10")))

	require.Len(t, res.RejectionRecords, 3)
	assert.Equal(t, entity.DispositionRework, res.RejectionRecords[0].Disposition)
	assert.Equal(t, entity.DispositionScrap, res.RejectionRecords[1].Disposition)
	require.NotNil(t, res.RejectionRecords[1].ScrapID)
	assert.Equal(t, scrap.ID, *res.RejectionRecords[1].ScrapID)
	disposal := res.RejectionRecords[2]
	assert.Equal(t, entity.DispositionDisposal, disposal.Disposition)
	assert.Nil(t, disposal.ReworkWOID)
	assert.Nil(t, disposal.ScrapID)
	require.NotNil(t, disposal.Notes)
	assert.Equal(t, "turno noche", *disposal.Notes)

	// Solo el lote origen y el de retrabajo: el descarte no crea inventario.
	assert.Equal(t, 2, f.store.Counts().Lots)
	assert.True(t, f.lot(t, "lot-b").Quantity.IsZero())

	txns, err := f.repos.Txns.ListByTransaction(ctx, res.BatchID)
	require.NoError(t, err)
	assert.True(t, sumTxns(txns, nil).Equal(d("-10")), "el libro del lote suma menos el descarte")
	adj, err := f.repos.Txns.ListByReference(ctx, "QA-PARTIAL-DISPOSAL-lot-b")
	require.NoError(t, err)
	require.Len(t, adj, 1)
	assert.Equal(t, entity.TxnTypeAdjustment, adj[0].Type)
	assert.True(t, adj[0].Quantity.Equal(d("-10")))
}

func TestProcessPartialDisposition_EscenarioC_SinEscrituras(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLot("lot-c", "100")
	before := f.store.Counts()

	_, err := f.uc.ProcessPartialDisposition(context.Background(), qa.DispositionInput{
		InventoryID:      "lot-c",
		ApprovedQuantity: d("50"),
		Rejections:       []disposition.Line{line("40", "SCRAP", "golpe")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "approved_quantity")

	assert.Equal(t, before, f.store.Counts())
	lot := f.lot(t, "lot-c")
	assert.True(t, lot.Quantity.Equal(d("100")))
	assert.Equal(t, entity.LotStatusQuarantine, lot.Status)
	assert.Equal(t, 1, f.recorder.get(qa.OutcomeValidation))
}

func TestProcessPartialDisposition_EscenarioD_Carrera(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLot("lot-d", "100")

	inputs := []qa.DispositionInput{
		{InventoryID: "lot-d", ApprovedQuantity: d("60"), Rejections: []disposition.Line{line("40", "REWORK", "a")}},
		{InventoryID: "lot-d", ApprovedQuantity: d("30"), Rejections: []disposition.Line{line("70", "SCRAP", "b")}},
	}
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.uc.ProcessPartialDisposition(context.Background(), inputs[i])
		}(i)
	}
	close(start)
	wg.Wait()

	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	lot := f.lot(t, "lot-d")
	assert.True(t, lot.Quantity.IsZero())
	assert.Equal(t, 1, f.store.Counts().Batches)

	txns, err := f.repos.Txns.ListByReference(context.Background(), "QA-APPROVED-lot-d")
	require.NoError(t, err)
	assert.Len(t, txns, 2, "solo una disposición llegó al libro")
}

// failingScrap falla al crear chatarra para simular un error a mitad de transacción.
type failingScrap struct {
	repository.ScrapInventoryRepository
}

func (failingScrap) Create(context.Context, *entity.ScrapInventoryEntry) error {
	return errors.New("disk full")
}

type failingRunner struct {
	inner qa.TxRunner
}

func (r failingRunner) Run(ctx context.Context, fn func(context.Context, repository.Repos) error) error {
	return r.inner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		repos.Scrap = failingScrap{repos.Scrap}
		return fn(ctx, repos)
	})
}

func TestProcessPartialDisposition_AtomicidadAnteFallo(t *testing.T) {
	f := newFixture(t, func(inner qa.TxRunner) qa.TxRunner { return failingRunner{inner: inner} })
	f.seedLot("lot-e", "50")
	before := f.store.Counts()

	_, err := f.uc.ProcessPartialDisposition(context.Background(), qa.DispositionInput{
		InventoryID:      "lot-e",
		ApprovedQuantity: d("10"),
		Rejections: []disposition.Line{
			line("20", "REWORK", "x"),
			line("10", "DISPOSAL", "y"),
			line("10", "SCRAP", "z"),
		},
	})
	require.Error(t, err)
	assert.Equal(t, 1, f.recorder.get(qa.OutcomeError))

	assert.Equal(t, before, f.store.Counts(), "ninguna fila sobrevive al rollback")
	lot := f.lot(t, "lot-e")
	assert.True(t, lot.Quantity.Equal(d("50")))
	assert.Equal(t, entity.LotStatusQuarantine, lot.Status)

	// El consecutivo reservado también se revierte.
	n, err := f.repos.WorkOrders.NextSequence(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProcessPartialDisposition_AislamientoDeRetrabajo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.seedLot("lot-f", "40")
	mat := "mat-acero"
	f.store.SeedLot(&entity.InventoryLot{ID: "raw-1", MaterialID: &mat, LocationID: "loc-q", Quantity: d("500"), Status: entity.LotStatusAvailable})

	_, err := f.uc.ProcessPartialDisposition(ctx, qa.DispositionInput{
		InventoryID: "lot-f",
		Rejections:  []disposition.Line{line("25", "REWORK", "a"), line("15", "REWORK", "b")},
	})
	require.NoError(t, err)

	materials, err := f.repos.Lots.List(ctx, repository.LotFilter{Kind: repository.LotKindMaterial})
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "raw-1", materials[0].ID)

	rework, err := f.repos.Lots.List(ctx, repository.LotFilter{Status: entity.LotStatusReworkPending})
	require.NoError(t, err)
	require.Len(t, rework, 2)
	for _, l := range rework {
		assert.Nil(t, l.MaterialID)
		require.NotNil(t, l.ProductID)
		assert.Equal(t, productID, *l.ProductID)
	}
}

func TestProcessPartialDisposition_OrdenesConsecutivas(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLot("lot-g", "30")
	f.seedLot("lot-h", "5")

	res, err := f.uc.ProcessPartialDisposition(context.Background(), qa.DispositionInput{
		InventoryID: "lot-g",
		Rejections:  []disposition.Line{line("10", "REWORK", "a"), line("10", "REWORK", "b"), line("10", "REWORK", "c")},
	})
	require.NoError(t, err)
	require.Len(t, res.WorkOrders, 3)
	for i, wo := range res.WorkOrders {
		assert.Equal(t, fmt.Sprintf("MWO-2026-%04d", i+1), wo.WONo)
	}

	res, err = f.uc.ProcessPartialDisposition(context.Background(), qa.DispositionInput{
		InventoryID: "lot-h",
		Rejections:  []disposition.Line{line("5", "REWORK", "d")},
	})
	require.NoError(t, err)
	assert.Equal(t, "MWO-2026-0004", res.WorkOrders[0].WONo)
}

func TestProcessPartialDisposition_ErroresDeLote(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mat := "mat-1"
	f.store.SeedLot(&entity.InventoryLot{ID: "raw", MaterialID: &mat, LocationID: "loc-q", Quantity: d("10"), Status: entity.LotStatusQuarantine})
	pid := productID
	f.store.SeedLot(&entity.InventoryLot{ID: "avail", ProductID: &pid, LocationID: "loc-q", Quantity: d("10"), Status: entity.LotStatusAvailable})
	f.seedLot("done", "10")

	in := func(id string) qa.DispositionInput {
		return qa.DispositionInput{InventoryID: id, ApprovedQuantity: d("10")}
	}

	_, err := f.uc.ProcessPartialDisposition(ctx, in("nope"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.ProcessPartialDisposition(ctx, in("raw"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.ProcessPartialDisposition(ctx, in("avail"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.ProcessPartialDisposition(ctx, in("done"))
	require.NoError(t, err)
	_, err = f.uc.ProcessPartialDisposition(ctx, in("done"))
	assert.ErrorIs(t, err, domain.ErrConflict, "un lote ya dispuesto no se vuelve a consumir")
	assert.Equal(t, 1, f.recorder.get(qa.OutcomeNotFound))
	assert.Equal(t, 1, f.recorder.get(qa.OutcomeConflict))
}

func TestProcessPartialDisposition_Idempotencia(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLot("lot-i", "100")
	ctx := context.Background()
	input := qa.DispositionInput{
		InventoryID:      "lot-i",
		ApprovedQuantity: d("90"),
		Rejections:       []disposition.Line{line("10", "SCRAP", "rayado")},
		IdempotencyKey:   "req-123",
	}

	first, err := f.uc.ProcessPartialDisposition(ctx, input)
	require.NoError(t, err)
	after := f.store.Counts()

	second, err := f.uc.ProcessPartialDisposition(ctx, input)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.BatchID, second.BatchID)
	assert.Len(t, second.ScrapEntries, 1)
	assert.Equal(t, after, f.store.Counts(), "la repetición no escribe")
	assert.Equal(t, 1, f.recorder.get(qa.OutcomeReplayed))

	input.Rejections = []disposition.Line{line("10", "DISPOSAL", "rayado")}
	_, err = f.uc.ProcessPartialDisposition(ctx, input)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProcessPartialDisposition_Notifica(t *testing.T) {
	f := newFixture(t, nil)
	f.notifier.err = errors.New("broker caído")
	f.seedLot("lot-n", "12")

	res, err := f.uc.ProcessPartialDisposition(context.Background(), qa.DispositionInput{
		InventoryID:      "lot-n",
		ApprovedQuantity: d("2"),
		Rejections:       []disposition.Line{line("10", "REWORK", "a")},
	})
	require.NoError(t, err, "un fallo del notificador no afecta la disposición")

	select {
	case ev := <-f.notifier.events:
		assert.Equal(t, res.BatchID, ev.BatchID)
		assert.True(t, ev.Rework.Equal(d("10")))
		assert.Equal(t, []string{"MWO-2026-0001"}, ev.WorkOrders)
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento de disposición")
	}
}

func TestGetBatchYListRejections(t *testing.T) {
	f := newFixture(t, nil)
	f.seedLot("lot-r", "8")
	ctx := context.Background()

	res, err := f.uc.ProcessPartialDisposition(ctx, qa.DispositionInput{
		InventoryID: "lot-r",
		Rejections:  []disposition.Line{line("3", "SCRAP", "a"), line("5", "DISPOSAL", "b")},
	})
	require.NoError(t, err)

	got, err := f.uc.GetBatch(ctx, res.BatchID)
	require.NoError(t, err)
	assert.Equal(t, res.BatchID, got.BatchID)
	assert.Len(t, got.RejectionRecords, 2)
	assert.True(t, got.SourceQuantity.Equal(d("8")))

	_, err = f.uc.GetBatch(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	recs, err := f.uc.ListRejections(ctx, "lot-r")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	_, err = f.uc.ListRejections(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Particiones aleatorias: lo que sale del lote es exactamente lo que había.
func TestProcessPartialDisposition_Conservacion(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	kinds := []string{"REWORK", "SCRAP", "DISPOSAL"}

	for iter := 0; iter < 40; iter++ {
		id := fmt.Sprintf("lot-p%d", iter)
		total := int64(1 + rng.Intn(500))
		f.seedLot(id, fmt.Sprint(total))

		remaining := total
		var lines []disposition.Line
		for n := rng.Intn(5); n > 0 && remaining > 1; n-- {
			q := 1 + rng.Int63n(remaining-1)
			remaining -= q
			lines = append(lines, disposition.Line{Quantity: decimal.NewFromInt(q), Disposition: kinds[rng.Intn(3)], Reason: "prop"})
		}

		res, err := f.uc.ProcessPartialDisposition(ctx, qa.DispositionInput{
			InventoryID:      id,
			ApprovedQuantity: decimal.NewFromInt(remaining),
			Rejections:       lines,
		})
		require.NoError(t, err, "iteración %d", iter)

		out := decimal.Zero
		if res.ApprovedLot != nil {
			out = out.Add(decimal.NewFromInt(remaining))
		}
		for _, l := range res.ReworkLots {
			out = out.Add(l.Quantity)
		}
		for _, s := range res.ScrapEntries {
			out = out.Add(s.Quantity)
		}
		for _, r := range res.RejectionRecords {
			if r.Disposition == entity.DispositionDisposal {
				out = out.Add(r.Quantity)
			}
		}
		assert.True(t, out.Equal(decimal.NewFromInt(total)), "iteración %d", iter)
		assert.True(t, f.lot(t, id).Quantity.IsZero())

		source := sumTxns(res.Transactions, func(x *entity.InventoryTxn) bool {
			return x.InventoryID != nil && *x.InventoryID == id
		})
		assert.True(t, source.Equal(decimal.NewFromInt(-total)), "iteración %d", iter)
	}
}
