package qa

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// DefaultRejectedBy usuario registrado cuando la solicitud no trae uno.
const DefaultRejectedBy = "system"

// Config parámetros del caso de uso.
type Config struct {
	FinishedGoodsLocation string
	ReworkLocation        string
	NotifyTimeout         time.Duration
	Now                   func() time.Time
}

// DispositionInput entrada de una disposición parcial de un lote inspeccionado.
type DispositionInput struct {
	InventoryID      string
	ApprovedQuantity decimal.Decimal
	Rejections       []disposition.Line
	Notes            *string
	RejectedBy       string
	IdempotencyKey   string
}

// DispositionResult entidades creadas o modificadas por una disposición confirmada.
// Es también lo que se guarda en el lote de disposición para las repeticiones idempotentes.
type DispositionResult struct {
	BatchID          string                        `json:"batch_id"`
	InventoryID      string                        `json:"inventory_id"`
	ProductID        string                        `json:"product_id"`
	SourceQuantity   decimal.Decimal               `json:"source_quantity"`
	ApprovedQuantity decimal.Decimal               `json:"approved_quantity"`
	ApprovedLot      *entity.InventoryLot          `json:"approved_lot,omitempty"`
	ReworkLots       []*entity.InventoryLot        `json:"rework_lots"`
	WorkOrders       []*entity.WorkOrder           `json:"work_orders"`
	ScrapEntries     []*entity.ScrapInventoryEntry `json:"scrap_entries"`
	RejectionRecords []*entity.QARejectionRecord   `json:"rejection_records"`
	Transactions     []*entity.InventoryTxn        `json:"transactions"`
	SourceLot        *entity.InventoryLot          `json:"source_lot_final_state"`
	Notes            *string                       `json:"notes,omitempty"`
	RejectedBy       string                        `json:"rejected_by"`
	Replayed         bool                          `json:"replayed"`
	ProcessedAt      time.Time                     `json:"processed_at"`
}

// DispositionEvent carga útil publicada al notificador tras el commit.
type DispositionEvent struct {
	BatchID     string          `json:"batch_id"`
	InventoryID string          `json:"inventory_id"`
	ProductID   string          `json:"product_id"`
	Approved    decimal.Decimal `json:"approved"`
	Rework      decimal.Decimal `json:"rework"`
	Scrap       decimal.Decimal `json:"scrap"`
	Disposal    decimal.Decimal `json:"disposal"`
	WorkOrders  []string        `json:"work_orders"`
	RejectedBy  string          `json:"rejected_by"`
}

// errReplay señala, dentro de la transacción, que la clave ya fue confirmada con la misma solicitud.
var errReplay = errors.New("disposición ya confirmada")

// DispositionUseCase convierte un lote inspeccionado en producto aprobado, retrabajo, chatarra
// y descarte dentro de una única transacción.
type DispositionUseCase struct {
	txRunner TxRunner
	repos    repository.Repos
	notifier Notifier
	recorder Recorder
	log      *logger.Logger
	cfg      Config
}

// NewDispositionUseCase construye el caso de uso. repos son los repositorios fuera de transacción
// (lecturas previas); notifier y recorder pueden ser nil.
func NewDispositionUseCase(
	txRunner TxRunner,
	repos repository.Repos,
	notifier Notifier,
	recorder Recorder,
	log *logger.Logger,
	cfg Config,
) *DispositionUseCase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DispositionUseCase{
		txRunner: txRunner,
		repos:    repos,
		notifier: notifier,
		recorder: recorder,
		log:      log.Named("qa_disposition"),
		cfg:      cfg,
	}
}

// ProcessPartialDisposition valida la solicitud, bloquea el lote origen y aplica todas las
// disposiciones de forma atómica. Con clave de idempotencia ya confirmada devuelve el resultado guardado.
func (uc *DispositionUseCase) ProcessPartialDisposition(ctx context.Context, in DispositionInput) (*DispositionResult, error) {
	plan, err := disposition.Normalize(disposition.Request{
		ApprovedQuantity: in.ApprovedQuantity,
		Lines:            in.Rejections,
	})
	if err != nil {
		uc.observe(OutcomeValidation, nil)
		return nil, err
	}
	in.InventoryID = strings.TrimSpace(in.InventoryID)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)
	in.RejectedBy = strings.TrimSpace(in.RejectedBy)
	if in.RejectedBy == "" {
		in.RejectedBy = DefaultRejectedBy
	}
	if in.Notes != nil {
		if n := strings.TrimSpace(*in.Notes); n != "" {
			in.Notes = &n
		} else {
			in.Notes = nil
		}
	}
	if in.InventoryID == "" {
		uc.observe(OutcomeValidation, plan)
		return nil, domain.NewValidationError("lote requerido").Add("inventory_id", "requerido")
	}
	hash := requestHash(in, plan)

	res, err := uc.process(ctx, in, plan, hash)
	if err != nil {
		uc.observe(classify(err), plan)
		return nil, err
	}
	if res.Replayed {
		uc.observe(OutcomeReplayed, plan)
		uc.log.Info().Str("batch_id", res.BatchID).Str("inventory_id", res.InventoryID).Msg("disposición repetida, se devuelve el resultado guardado")
		return res, nil
	}
	uc.observe(OutcomeCommitted, plan)
	uc.log.Info().
		Str("batch_id", res.BatchID).
		Str("inventory_id", res.InventoryID).
		Str("approved", plan.Approved.String()).
		Str("rework", plan.Rework.String()).
		Str("scrap", plan.Scrap.String()).
		Str("disposal", plan.Disposal.String()).
		Msg("disposición confirmada")
	uc.notifyAsync(res, plan)
	return res, nil
}

func (uc *DispositionUseCase) process(ctx context.Context, in DispositionInput, plan *disposition.Plan, hash string) (*DispositionResult, error) {
	if in.IdempotencyKey != "" {
		batch, err := uc.repos.Batches.GetByIdempotencyKey(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if batch != nil {
			return replay(batch, hash)
		}
	}

	// Validación previa sin bloqueo: nada se escribe si la solicitud no cuadra con el lote.
	pre, err := uc.repos.Lots.GetByID(ctx, in.InventoryID)
	if err != nil {
		return nil, err
	}
	if pre == nil {
		return nil, fmt.Errorf("lote %s: %w", in.InventoryID, domain.ErrNotFound)
	}
	if err := checkLot(pre, plan); err != nil {
		return nil, err
	}

	now := uc.cfg.Now().UTC()
	var (
		result   *DispositionResult
		replayed *entity.DispositionBatch
	)
	err = uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		locked, err := r.Lots.GetForUpdate(ctx, in.InventoryID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("lote %s: %w", in.InventoryID, domain.ErrNotFound)
		}
		if in.IdempotencyKey != "" {
			batch, err := r.Batches.GetByIdempotencyKey(ctx, in.IdempotencyKey)
			if err != nil {
				return err
			}
			if batch != nil {
				replayed = batch
				return errReplay
			}
		}
		if lotChanged(pre, locked) {
			return domain.NewConflict(fmt.Sprintf(
				"el lote %s cambió durante la disposición (estado %s, cantidad %s)",
				locked.ID, locked.Status, locked.Quantity.String()))
		}
		if err := checkLot(locked, plan); err != nil {
			return err
		}
		product, err := r.Products.GetByID(ctx, *locked.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", *locked.ProductID, domain.ErrNotFound)
		}

		a := &applier{
			repos:   r,
			cfg:     uc.cfg,
			source:  locked,
			product: product,
			plan:    plan,
			now:     now,
			by:      in.RejectedBy,
			notes:   in.Notes,
		}
		result, err = a.apply(ctx, in.IdempotencyKey, hash)
		return err
	})
	if errors.Is(err, errReplay) {
		return replay(replayed, hash)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBatch devuelve el resultado guardado de un lote de disposición.
func (uc *DispositionUseCase) GetBatch(ctx context.Context, batchID string) (*DispositionResult, error) {
	batch, err := uc.repos.Batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("disposición %s: %w", batchID, domain.ErrNotFound)
	}
	return decodeResult(batch)
}

// ListRejections registros de rechazo de un lote, en orden de creación.
func (uc *DispositionUseCase) ListRejections(ctx context.Context, inventoryID string) ([]*entity.QARejectionRecord, error) {
	lot, err := uc.repos.Lots.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("lote %s: %w", inventoryID, domain.ErrNotFound)
	}
	return uc.repos.Rejections.ListByInventory(ctx, inventoryID)
}

func (uc *DispositionUseCase) observe(outcome string, plan *disposition.Plan) {
	if uc.recorder != nil {
		uc.recorder.Observe(outcome, plan)
	}
}

// notifyAsync publica el evento en segundo plano; los errores solo se registran.
func (uc *DispositionUseCase) notifyAsync(res *DispositionResult, plan *disposition.Plan) {
	if uc.notifier == nil {
		return
	}
	ev := DispositionEvent{
		BatchID:     res.BatchID,
		InventoryID: res.InventoryID,
		ProductID:   res.ProductID,
		Approved:    plan.Approved,
		Rework:      plan.Rework,
		Scrap:       plan.Scrap,
		Disposal:    plan.Disposal,
		WorkOrders:  make([]string, 0, len(res.WorkOrders)),
		RejectedBy:  res.RejectedBy,
	}
	for _, wo := range res.WorkOrders {
		ev.WorkOrders = append(ev.WorkOrders, wo.WONo)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), uc.cfg.NotifyTimeout)
		defer cancel()
		if err := uc.notifier.Publish(ctx, EventDispositionCompleted, ev); err != nil {
			uc.log.Warn().Err(err).Str("batch_id", ev.BatchID).Msg("no se pudo notificar la disposición")
		}
	}()
}

// checkLot reglas del lote origen: de producto, en estado inspeccionable y con la cantidad exacta.
func checkLot(lot *entity.InventoryLot, plan *disposition.Plan) error {
	if !lot.IsProductLot() {
		return domain.NewValidationError("el lote no es de producto").
			Add("inventory_id", "los lotes de materia prima no admiten disposición de calidad")
	}
	if lot.Status == entity.LotStatusQADisposed || lot.Quantity.IsZero() {
		return domain.NewConflict(fmt.Sprintf("el lote %s ya fue dispuesto", lot.ID))
	}
	if !lot.IsDispositionable() {
		return domain.NewValidationError("estado del lote inválido").
			Add("inventory_id", fmt.Sprintf("el estado %s no admite disposición", lot.Status))
	}
	return disposition.CheckConservation(plan, lot.Quantity)
}

func lotChanged(before, after *entity.InventoryLot) bool {
	return before.Status != after.Status || !before.Quantity.Equal(after.Quantity)
}

func replay(batch *entity.DispositionBatch, hash string) (*DispositionResult, error) {
	if batch.RequestHash != hash {
		return nil, domain.NewConflict("la clave de idempotencia ya se usó con otra solicitud")
	}
	res, err := decodeResult(batch)
	if err != nil {
		return nil, err
	}
	res.Replayed = true
	return res, nil
}

func decodeResult(batch *entity.DispositionBatch) (*DispositionResult, error) {
	var res DispositionResult
	if err := json.Unmarshal(batch.Result, &res); err != nil {
		return nil, fmt.Errorf("decodificar resultado de %s: %w", batch.ID, err)
	}
	return &res, nil
}

// requestHash huella de la solicitud normalizada; identifica una repetición exacta.
func requestHash(in DispositionInput, plan *disposition.Plan) string {
	var b strings.Builder
	b.WriteString(in.InventoryID)
	b.WriteString("|")
	b.WriteString(plan.Approved.String())
	for _, l := range plan.Lines {
		fmt.Fprintf(&b, "|%s;%s;%s;%s;%s", l.Quantity.String(), l.Disposition, l.Reason,
			deref(l.RootCause), deref(l.CorrectiveAction))
	}
	b.WriteString("|")
	b.WriteString(deref(in.Notes))
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrConflict):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}

// applier aplica un plan ya validado sobre el lote bloqueado, con los repos de la transacción.
type applier struct {
	repos   repository.Repos
	cfg     Config
	source  *entity.InventoryLot
	product *entity.Product
	plan    *disposition.Plan
	now     time.Time
	by      string
	notes   *string

	batchID   string
	reworkLoc *entity.Location
	result    *DispositionResult
}

func (a *applier) apply(ctx context.Context, idempotencyKey, hash string) (*DispositionResult, error) {
	a.batchID = uuid.New().String()
	sourceQty := a.source.Quantity
	a.result = &DispositionResult{
		BatchID:          a.batchID,
		InventoryID:      a.source.ID,
		ProductID:        a.product.ID,
		SourceQuantity:   sourceQty,
		ApprovedQuantity: a.plan.Approved,
		ReworkLots:       []*entity.InventoryLot{},
		WorkOrders:       []*entity.WorkOrder{},
		ScrapEntries:     []*entity.ScrapInventoryEntry{},
		RejectionRecords: []*entity.QARejectionRecord{},
		Transactions:     []*entity.InventoryTxn{},
		Notes:            a.notes,
		RejectedBy:       a.by,
		ProcessedAt:      a.now,
	}

	// El lote origen queda en cero y en estado terminal; su cantidad se reparte abajo.
	a.source.Quantity = decimal.Zero
	a.source.Status = entity.LotStatusQADisposed
	a.source.UpdatedAt = a.now
	if err := a.repos.Lots.Update(ctx, a.source); err != nil {
		return nil, err
	}

	if a.plan.Approved.IsPositive() {
		if err := a.applyApproved(ctx); err != nil {
			return nil, err
		}
	}
	for _, line := range a.plan.Lines {
		var err error
		switch line.Disposition {
		case entity.DispositionRework:
			err = a.applyRework(ctx, line)
		case entity.DispositionScrap:
			err = a.applyScrap(ctx, line)
		case entity.DispositionDisposal:
			err = a.applyDisposal(ctx, line)
		default:
			err = domain.NewValidationError("disposición desconocida").Add("disposition", line.Disposition)
		}
		if err != nil {
			return nil, err
		}
	}
	a.result.SourceLot = a.source.Clone()

	payload, err := json.Marshal(a.result)
	if err != nil {
		return nil, fmt.Errorf("codificar resultado: %w", err)
	}
	batch := &entity.DispositionBatch{
		ID:               a.batchID,
		InventoryID:      a.source.ID,
		ProductID:        a.product.ID,
		RequestHash:      hash,
		SourceQuantity:   sourceQty,
		ApprovedQuantity: a.plan.Approved,
		Notes:            a.notes,
		RejectedBy:       a.by,
		Result:           payload,
		CreatedAt:        a.now,
	}
	if idempotencyKey != "" {
		batch.IdempotencyKey = &idempotencyKey
	}
	if err := a.repos.Batches.Create(ctx, batch); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict("otra disposición con la misma clave de idempotencia se confirmó primero")
		}
		return nil, err
	}
	return a.result, nil
}

// applyApproved suma la cantidad aprobada al lote AVAILABLE del producto en producto terminado.
func (a *applier) applyApproved(ctx context.Context) error {
	loc, err := a.repos.Locations.EnsureByCode(ctx, a.cfg.FinishedGoodsLocation, "Producto terminado", entity.LocationKindFinishedGoods)
	if err != nil {
		return err
	}
	dest, err := a.repos.Lots.FindAvailableForUpdate(ctx, a.product.ID, loc.ID)
	if err != nil {
		return err
	}
	if dest == nil {
		dest = &entity.InventoryLot{
			ID:         uuid.New().String(),
			ProductID:  &a.product.ID,
			LocationID: loc.ID,
			Quantity:   a.plan.Approved,
			Status:     entity.LotStatusAvailable,
			CreatedAt:  a.now,
			UpdatedAt:  a.now,
		}
		if err := a.repos.Lots.Create(ctx, dest); err != nil {
			return err
		}
	} else {
		dest.Quantity = dest.Quantity.Add(a.plan.Approved)
		dest.UpdatedAt = a.now
		if err := a.repos.Lots.Update(ctx, dest); err != nil {
			return err
		}
	}
	ref := disposition.ApprovedRef(a.source.ID)
	if err := a.ledger(ctx, entity.TxnTypeIssue, a.plan.Approved.Neg(), ref, &a.source.ID, nil); err != nil {
		return err
	}
	if err := a.ledger(ctx, entity.TxnTypeReceive, a.plan.Approved, ref, &dest.ID, nil); err != nil {
		return err
	}
	a.result.ApprovedLot = dest.Clone()
	return nil
}

// applyRework crea la orden MWO y un lote REWORK_PENDING en el área de retrabajo.
// El lote nuevo nunca lleva material_id.
func (a *applier) applyRework(ctx context.Context, line disposition.Line) error {
	if a.reworkLoc == nil {
		loc, err := a.repos.Locations.EnsureByCode(ctx, a.cfg.ReworkLocation, "Área de retrabajo", entity.LocationKindRework)
		if err != nil {
			return err
		}
		a.reworkLoc = loc
	}
	year := a.now.Year()
	seq, err := a.repos.WorkOrders.NextSequence(ctx, year)
	if err != nil {
		return err
	}
	wo := &entity.WorkOrder{
		ID:                uuid.New().String(),
		WONo:              disposition.FormatWorkOrderNo(year, seq),
		ProductID:         a.product.ID,
		Quantity:          line.Quantity,
		Type:              entity.WorkOrderTypeRework,
		Status:            entity.WorkOrderStatusPlanned,
		SourceInventoryID: a.source.ID,
		CreatedAt:         a.now,
	}
	if err := a.repos.WorkOrders.Create(ctx, wo); err != nil {
		return err
	}
	lot := &entity.InventoryLot{
		ID:            uuid.New().String(),
		ProductID:     &a.product.ID,
		MaterialID:    nil,
		LocationID:    a.reworkLoc.ID,
		Quantity:      line.Quantity,
		Status:        entity.LotStatusReworkPending,
		BatchNo:       a.source.BatchNo,
		ReferenceWOID: &wo.ID,
		CreatedAt:     a.now,
		UpdatedAt:     a.now,
	}
	if err := a.repos.Lots.Create(ctx, lot); err != nil {
		return err
	}
	ref := disposition.ReworkRef(a.source.ID)
	if err := a.ledger(ctx, entity.TxnTypeIssue, line.Quantity.Neg(), ref, &a.source.ID, nil); err != nil {
		return err
	}
	if err := a.ledger(ctx, entity.TxnTypeRework, line.Quantity, ref, &lot.ID, nil); err != nil {
		return err
	}
	if err := a.record(ctx, line, &wo.ID, nil); err != nil {
		return err
	}
	a.result.WorkOrders = append(a.result.WorkOrders, wo)
	a.result.ReworkLots = append(a.result.ReworkLots, lot.Clone())
	return nil
}

// applyScrap registra la cantidad como chatarra disponible, etiquetada con el nombre del producto.
func (a *applier) applyScrap(ctx context.Context, line disposition.Line) error {
	unit := a.product.Unit
	if unit == "" {
		unit = "pcs"
	}
	entry := &entity.ScrapInventoryEntry{
		ID:                uuid.New().String(),
		ProductID:         a.product.ID,
		MaterialName:      a.product.Name,
		Quantity:          line.Quantity,
		Unit:              unit,
		Status:            entity.ScrapStatusAvailable,
		Reference:         disposition.ScrapRef(a.source.ID),
		SourceInventoryID: a.source.ID,
		CreatedAt:         a.now,
	}
	if a.product.UnitWeightKg != nil {
		w := line.Quantity.Mul(*a.product.UnitWeightKg)
		entry.WeightKg = &w
	}
	if err := a.repos.Scrap.Create(ctx, entry); err != nil {
		return err
	}
	if err := a.ledger(ctx, entity.TxnTypeIssue, line.Quantity.Neg(), entry.Reference, &a.source.ID, nil); err != nil {
		return err
	}
	if err := a.ledger(ctx, entity.TxnTypeScrap, line.Quantity, entry.Reference, nil, &entry.ID); err != nil {
		return err
	}
	if err := a.record(ctx, line, nil, &entry.ID); err != nil {
		return err
	}
	a.result.ScrapEntries = append(a.result.ScrapEntries, entry)
	return nil
}

// applyDisposal baja definitiva: solo registro y ajuste negativo en el libro.
func (a *applier) applyDisposal(ctx context.Context, line disposition.Line) error {
	ref := disposition.DisposalRef(a.source.ID)
	if err := a.ledger(ctx, entity.TxnTypeAdjustment, line.Quantity.Neg(), ref, &a.source.ID, nil); err != nil {
		return err
	}
	return a.record(ctx, line, nil, nil)
}

func (a *applier) record(ctx context.Context, line disposition.Line, woID, scrapID *string) error {
	rec := &entity.QARejectionRecord{
		ID:               uuid.New().String(),
		BatchID:          a.batchID,
		InventoryID:      a.source.ID,
		ProductID:        a.product.ID,
		Quantity:         line.Quantity,
		Disposition:      line.Disposition,
		Reason:           line.Reason,
		RootCause:        line.RootCause,
		CorrectiveAction: line.CorrectiveAction,
		Notes:            a.notes,
		ReworkWOID:       woID,
		ScrapID:          scrapID,
		RejectedBy:       a.by,
		CreatedAt:        a.now,
	}
	if err := a.repos.Rejections.Create(ctx, rec); err != nil {
		return err
	}
	a.result.RejectionRecords = append(a.result.RejectionRecords, rec)
	return nil
}

func (a *applier) ledger(ctx context.Context, typ string, qty decimal.Decimal, ref string, inventoryID, scrapID *string) error {
	txn := &entity.InventoryTxn{
		ID:            uuid.New().String(),
		TransactionID: a.batchID,
		InventoryID:   inventoryID,
		ScrapID:       scrapID,
		ProductID:     a.product.ID,
		Type:          typ,
		Quantity:      qty,
		Reference:     ref,
		CreatedBy:     a.by,
		CreatedAt:     a.now,
	}
	if err := a.repos.Txns.Create(ctx, txn); err != nil {
		return err
	}
	a.result.Transactions = append(a.result.Transactions, txn)
	return nil
}
