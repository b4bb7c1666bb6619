package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var (
	_ repository.InventoryLotRepository     = (*LotRepo)(nil)
	_ repository.LocationRepository         = (*LocationRepo)(nil)
	_ repository.ProductRepository          = (*ProductRepo)(nil)
	_ repository.QARejectionRepository      = (*RejectionRepo)(nil)
	_ repository.WorkOrderRepository        = (*WorkOrderRepo)(nil)
	_ repository.ScrapInventoryRepository   = (*ScrapRepo)(nil)
	_ repository.InventoryTxnRepository     = (*TxnRepo)(nil)
	_ repository.DispositionBatchRepository = (*BatchRepo)(nil)
)

// LotRepo lotes de inventario.
type LotRepo struct{ v *view }

// GetByID obtiene un lote por ID; nil si no existe.
func (r *LotRepo) GetByID(_ context.Context, id string) (*entity.InventoryLot, error) {
	var out *entity.InventoryLot
	r.v.read(func(d *data) {
		if l, ok := d.lots[id]; ok {
			out = l.Clone()
		}
	})
	return out, nil
}

// GetForUpdate en memoria el bloqueo lo da la serialización de transacciones.
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryLot, error) {
	return r.GetByID(ctx, id)
}

// FindAvailableForUpdate primer lote AVAILABLE del producto en la ubicación.
func (r *LotRepo) FindAvailableForUpdate(_ context.Context, productID, locationID string) (*entity.InventoryLot, error) {
	var out *entity.InventoryLot
	r.v.read(func(d *data) {
		for _, id := range d.lotOrder {
			l := d.lots[id]
			if l.ProductID != nil && *l.ProductID == productID && l.MaterialID == nil &&
				l.LocationID == locationID && l.Status == entity.LotStatusAvailable {
				out = l.Clone()
				return
			}
		}
	})
	return out, nil
}

// Create inserta un lote; asigna ID si viene vacío.
func (r *LotRepo) Create(_ context.Context, lot *entity.InventoryLot) error {
	if (lot.ProductID == nil) == (lot.MaterialID == nil) {
		return fmt.Errorf("crear lote: %w", domain.ErrInvalidInput)
	}
	if lot.Quantity.IsNegative() {
		return fmt.Errorf("crear lote: cantidad negativa: %w", domain.ErrInvalidInput)
	}
	return r.v.write(func(d *data) error {
		if lot.ID == "" {
			lot.ID = uuid.New().String()
		}
		if _, ok := d.lots[lot.ID]; ok {
			return domain.ErrDuplicate
		}
		d.lots[lot.ID] = lot.Clone()
		d.lotOrder = append(d.lotOrder, lot.ID)
		return nil
	})
}

// Update reemplaza el lote guardado.
func (r *LotRepo) Update(_ context.Context, lot *entity.InventoryLot) error {
	if lot.Quantity.IsNegative() {
		return fmt.Errorf("actualizar lote: cantidad negativa: %w", domain.ErrInvalidInput)
	}
	return r.v.write(func(d *data) error {
		if _, ok := d.lots[lot.ID]; !ok {
			return fmt.Errorf("lote %s: %w", lot.ID, domain.ErrNotFound)
		}
		d.lots[lot.ID] = lot.Clone()
		return nil
	})
}

// List lista lotes filtrados por fecha de creación.
func (r *LotRepo) List(_ context.Context, f repository.LotFilter) ([]*entity.InventoryLot, error) {
	out := []*entity.InventoryLot{}
	r.v.read(func(d *data) {
		for _, id := range d.lotOrder {
			l := d.lots[id]
			if f.ProductID != "" && (l.ProductID == nil || *l.ProductID != f.ProductID) {
				continue
			}
			if f.LocationID != "" && l.LocationID != f.LocationID {
				continue
			}
			if f.Status != "" && l.Status != f.Status {
				continue
			}
			switch f.Kind {
			case repository.LotKindMaterial:
				if l.MaterialID == nil {
					continue
				}
			case repository.LotKindProduct:
				if l.ProductID == nil {
					continue
				}
			}
			out = append(out, l.Clone())
		}
	})
	return page(out, f.Offset, f.Limit), nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// LocationRepo ubicaciones.
type LocationRepo struct{ v *view }

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	r.v.read(func(d *data) {
		if l, ok := d.locations[id]; ok {
			c := *l
			out = &c
		}
	})
	return out, nil
}

// GetByCode obtiene una ubicación por código.
func (r *LocationRepo) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	var out *entity.Location
	r.v.read(func(d *data) { out = findLocation(d, code) })
	return out, nil
}

// EnsureByCode devuelve la ubicación con ese código, creándola si no existe.
func (r *LocationRepo) EnsureByCode(_ context.Context, code, name, kind string) (*entity.Location, error) {
	var out *entity.Location
	err := r.v.write(func(d *data) error {
		if out = findLocation(d, code); out != nil {
			return nil
		}
		loc := &entity.Location{ID: uuid.New().String(), Code: code, Name: name, Kind: kind, CreatedAt: time.Now().UTC()}
		d.locations[loc.ID] = loc
		c := *loc
		out = &c
		return nil
	})
	return out, err
}

func findLocation(d *data, code string) *entity.Location {
	for _, l := range d.locations {
		if l.Code == code {
			c := *l
			return &c
		}
	}
	return nil
}

// ProductRepo productos (solo lectura).
type ProductRepo struct{ v *view }

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(d *data) {
		if p, ok := d.products[id]; ok {
			c := *p
			out = &c
		}
	})
	return out, nil
}

// RejectionRepo registros de rechazo.
type RejectionRepo struct{ v *view }

// Create guarda un registro de rechazo.
func (r *RejectionRepo) Create(_ context.Context, rec *entity.QARejectionRecord) error {
	c := *rec
	return r.v.write(func(d *data) error {
		d.rejections = append(d.rejections, &c)
		return nil
	})
}

// ListByInventory registros de un lote origen.
func (r *RejectionRepo) ListByInventory(_ context.Context, inventoryID string) ([]*entity.QARejectionRecord, error) {
	return r.filter(func(rec *entity.QARejectionRecord) bool { return rec.InventoryID == inventoryID }), nil
}

// ListByBatch registros de una disposición.
func (r *RejectionRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.QARejectionRecord, error) {
	return r.filter(func(rec *entity.QARejectionRecord) bool { return rec.BatchID == batchID }), nil
}

func (r *RejectionRepo) filter(keep func(*entity.QARejectionRecord) bool) []*entity.QARejectionRecord {
	out := []*entity.QARejectionRecord{}
	r.v.read(func(d *data) {
		for _, rec := range d.rejections {
			if keep(rec) {
				c := *rec
				out = append(out, &c)
			}
		}
	})
	return out
}

// WorkOrderRepo órdenes de retrabajo y su consecutivo anual.
type WorkOrderRepo struct{ v *view }

// NextSequence siguiente consecutivo de órdenes del año.
func (r *WorkOrderRepo) NextSequence(_ context.Context, year int) (int, error) {
	var next int
	err := r.v.write(func(d *data) error {
		last, ok := d.woSeq[year]
		if !ok {
			prefix := fmt.Sprintf("%s-%d-", disposition.WorkOrderPrefix, year)
			for _, wo := range d.workOrders {
				if strings.HasPrefix(wo.WONo, prefix) {
					last++
				}
			}
		}
		next = last + 1
		d.woSeq[year] = next
		return nil
	})
	return next, err
}

// Create inserta una orden; número repetido es domain.ErrDuplicate.
func (r *WorkOrderRepo) Create(_ context.Context, wo *entity.WorkOrder) error {
	c := *wo
	return r.v.write(func(d *data) error {
		for _, existing := range d.workOrders {
			if existing.WONo == wo.WONo {
				return fmt.Errorf("orden %s: %w", wo.WONo, domain.ErrDuplicate)
			}
		}
		d.workOrders[c.ID] = &c
		d.woOrder = append(d.woOrder, c.ID)
		return nil
	})
}

// GetByID obtiene una orden por ID.
func (r *WorkOrderRepo) GetByID(_ context.Context, id string) (*entity.WorkOrder, error) {
	var out *entity.WorkOrder
	r.v.read(func(d *data) {
		if wo, ok := d.workOrders[id]; ok {
			c := *wo
			out = &c
		}
	})
	return out, nil
}

// ScrapRepo inventario de chatarra.
type ScrapRepo struct{ v *view }

// Create guarda una entrada de chatarra.
func (r *ScrapRepo) Create(_ context.Context, e *entity.ScrapInventoryEntry) error {
	c := *e
	return r.v.write(func(d *data) error {
		d.scrap = append(d.scrap, &c)
		return nil
	})
}

// ListByReference entradas de chatarra de una referencia.
func (r *ScrapRepo) ListByReference(_ context.Context, reference string) ([]*entity.ScrapInventoryEntry, error) {
	out := []*entity.ScrapInventoryEntry{}
	r.v.read(func(d *data) {
		for _, e := range d.scrap {
			if e.Reference == reference {
				c := *e
				out = append(out, &c)
			}
		}
	})
	return out, nil
}

// TxnRepo libro de movimientos.
type TxnRepo struct{ v *view }

// Create agrega un movimiento al libro.
func (r *TxnRepo) Create(_ context.Context, t *entity.InventoryTxn) error {
	c := *t
	return r.v.write(func(d *data) error {
		d.txns = append(d.txns, &c)
		return nil
	})
}

// ListByTransaction movimientos de una transacción.
func (r *TxnRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.InventoryTxn, error) {
	return r.filter(func(t *entity.InventoryTxn) bool { return t.TransactionID == transactionID }), nil
}

// ListByReference movimientos de una referencia.
func (r *TxnRepo) ListByReference(_ context.Context, reference string) ([]*entity.InventoryTxn, error) {
	return r.filter(func(t *entity.InventoryTxn) bool { return t.Reference == reference }), nil
}

func (r *TxnRepo) filter(keep func(*entity.InventoryTxn) bool) []*entity.InventoryTxn {
	out := []*entity.InventoryTxn{}
	r.v.read(func(d *data) {
		for _, t := range d.txns {
			if keep(t) {
				c := *t
				out = append(out, &c)
			}
		}
	})
	return out
}

// BatchRepo lotes de disposición confirmados.
type BatchRepo struct{ v *view }

// Create guarda una disposición; clave de idempotencia repetida es domain.ErrDuplicate.
func (r *BatchRepo) Create(_ context.Context, b *entity.DispositionBatch) error {
	c := *b
	return r.v.write(func(d *data) error {
		for _, existing := range d.batches {
			if existing.ID == b.ID {
				return domain.ErrDuplicate
			}
			if b.IdempotencyKey != nil && existing.IdempotencyKey != nil && *existing.IdempotencyKey == *b.IdempotencyKey {
				return fmt.Errorf("clave de idempotencia %s: %w", *b.IdempotencyKey, domain.ErrDuplicate)
			}
		}
		d.batches = append(d.batches, &c)
		return nil
	})
}

// GetByID obtiene una disposición por ID.
func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.DispositionBatch, error) {
	return r.find(func(b *entity.DispositionBatch) bool { return b.ID == id }), nil
}

// GetByIdempotencyKey obtiene la disposición con esa clave.
func (r *BatchRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.DispositionBatch, error) {
	return r.find(func(b *entity.DispositionBatch) bool {
		return b.IdempotencyKey != nil && *b.IdempotencyKey == key
	}), nil
}

func (r *BatchRepo) find(match func(*entity.DispositionBatch) bool) *entity.DispositionBatch {
	var out *entity.DispositionBatch
	r.v.read(func(d *data) {
		for _, b := range d.batches {
			if match(b) {
				c := *b
				out = &c
				return
			}
		}
	})
	return out
}

// ListSince disposiciones desde since, más antiguas primero.
func (r *BatchRepo) ListSince(_ context.Context, since time.Time, limit int) ([]*entity.DispositionBatch, error) {
	out := []*entity.DispositionBatch{}
	r.v.read(func(d *data) {
		for _, b := range d.batches {
			if !b.CreatedAt.Before(since) {
				c := *b
				out = append(out, &c)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, 0, limit), nil
}
