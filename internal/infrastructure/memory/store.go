// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORE_DRIVER=memory y como doble de PostgreSQL en los tests.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ qa.TxRunner = (*TxRunner)(nil)

// Store estado en memoria. Los objetos guardados nunca se modifican en sitio: cada escritura
// guarda una copia nueva, así una transacción puede trabajar sobre una copia superficial.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *data
}

type data struct {
	lots       map[string]*entity.InventoryLot
	lotOrder   []string
	locations  map[string]*entity.Location
	products   map[string]*entity.Product
	rejections []*entity.QARejectionRecord
	workOrders map[string]*entity.WorkOrder
	woOrder    []string
	woSeq      map[int]int
	scrap      []*entity.ScrapInventoryEntry
	txns       []*entity.InventoryTxn
	batches    []*entity.DispositionBatch
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: &data{
		lots:       map[string]*entity.InventoryLot{},
		locations:  map[string]*entity.Location{},
		products:   map[string]*entity.Product{},
		workOrders: map[string]*entity.WorkOrder{},
		woSeq:      map[int]int{},
	}}
}

func (d *data) snapshot() *data {
	c := &data{
		lots:       make(map[string]*entity.InventoryLot, len(d.lots)),
		lotOrder:   append([]string(nil), d.lotOrder...),
		locations:  make(map[string]*entity.Location, len(d.locations)),
		products:   make(map[string]*entity.Product, len(d.products)),
		rejections: append([]*entity.QARejectionRecord(nil), d.rejections...),
		workOrders: make(map[string]*entity.WorkOrder, len(d.workOrders)),
		woOrder:    append([]string(nil), d.woOrder...),
		woSeq:      make(map[int]int, len(d.woSeq)),
		scrap:      append([]*entity.ScrapInventoryEntry(nil), d.scrap...),
		txns:       append([]*entity.InventoryTxn(nil), d.txns...),
		batches:    append([]*entity.DispositionBatch(nil), d.batches...),
	}
	for k, v := range d.lots {
		c.lots[k] = v
	}
	for k, v := range d.locations {
		c.locations[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.workOrders {
		c.workOrders[k] = v
	}
	for k, v := range d.woSeq {
		c.woSeq[k] = v
	}
	return c
}

// view acceso a un estado: el compartido (con bloqueo) o la copia privada de una transacción.
type view struct {
	store *Store
	tx    *data
}

func (v *view) read(fn func(d *data)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(v.store.data)
}

func (v *view) write(fn func(d *data) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.data)
}

func (s *Store) repos(v *view) repository.Repos {
	return repository.Repos{
		Lots:       &LotRepo{v: v},
		Locations:  &LocationRepo{v: v},
		Products:   &ProductRepo{v: v},
		Rejections: &RejectionRepo{v: v},
		WorkOrders: &WorkOrderRepo{v: v},
		Scrap:      &ScrapRepo{v: v},
		Txns:       &TxnRepo{v: v},
		Batches:    &BatchRepo{v: v},
	}
}

// Repos repositorios sobre el estado compartido (fuera de transacción).
func (s *Store) Repos() repository.Repos {
	return s.repos(&view{store: s})
}

// TxRunner ejecuta callbacks sobre una copia del estado y la publica solo si fn termina sin error.
// Las transacciones se serializan, equivalente a bloquear todas las filas tocadas.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner del almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{store: s}
}

// Run ver qa.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s := r.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	work := s.data.snapshot()
	s.mu.RUnlock()

	if err := fn(ctx, s.repos(&view{store: s, tx: work})); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// Counts número de filas por tabla.
type Counts struct {
	Lots       int
	Locations  int
	WorkOrders int
	Scrap      int
	Rejections int
	Txns       int
	Batches    int
}

// Counts devuelve el número de filas de cada tabla.
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.data
	return Counts{
		Lots:       len(d.lots),
		Locations:  len(d.locations),
		WorkOrders: len(d.workOrders),
		Scrap:      len(d.scrap),
		Rejections: len(d.rejections),
		Txns:       len(d.txns),
		Batches:    len(d.batches),
	}
}

// SeedProduct registra un producto (datos maestros externos).
func (s *Store) SeedProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.data.products[p.ID] = &c
}

// SeedLocation registra una ubicación.
func (s *Store) SeedLocation(l *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *l
	s.data.locations[l.ID] = &c
}

// SeedLot registra un lote tal cual, sin pasar por el libro de movimientos.
func (s *Store) SeedLot(l *entity.InventoryLot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.lots[l.ID]; !ok {
		s.data.lotOrder = append(s.data.lotOrder, l.ID)
	}
	s.data.lots[l.ID] = l.Clone()
}
