package inventory_test

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: estado compartido + repos que implementan los puertos.
// El fakeTxRunner toma un snapshot del estado antes de fn y lo restaura si
// fn falla, emulando el rollback transaccional.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	products  map[string]*entity.Product
	stores    map[string]*entity.Store
	stocks    map[string]*entity.Stock // clave: storeID + "|" + productID
	stockIns  map[string]*entity.StockIn
	stockOuts map[string]*entity.StockOut
	mutations map[string]*entity.StockMutation
}

func newMemState() *memState {
	return &memState{
		products:  map[string]*entity.Product{},
		stores:    map[string]*entity.Store{},
		stocks:    map[string]*entity.Stock{},
		stockIns:  map[string]*entity.StockIn{},
		stockOuts: map[string]*entity.StockOut{},
		mutations: map[string]*entity.StockMutation{},
	}
}

func stockKey(loc entity.Location, productID string) string {
	return loc.StoreID + "|" + productID
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.stores {
		st := *v
		c.stores[k] = &st
	}
	for k, v := range s.stocks {
		st := *v
		c.stocks[k] = &st
	}
	for k, v := range s.stockIns {
		m := *v
		m.Lines = append([]entity.MovementLine(nil), v.Lines...)
		c.stockIns[k] = &m
	}
	for k, v := range s.stockOuts {
		m := *v
		m.Lines = append([]entity.MovementLine(nil), v.Lines...)
		c.stockOuts[k] = &m
	}
	for k, v := range s.mutations {
		m := *v
		m.Lines = append([]entity.MovementLine(nil), v.Lines...)
		c.mutations[k] = &m
	}
	return c
}

func (s *memState) restore(from *memState) {
	s.products = from.products
	s.stores = from.stores
	s.stocks = from.stocks
	s.stockIns = from.stockIns
	s.stockOuts = from.stockOuts
	s.mutations = from.mutations
}

func (s *memState) repos() inventory.Repos {
	return inventory.Repos{
		StockIn:  &memStockInRepo{s: s},
		StockOut: &memStockOutRepo{s: s},
		Mutation: &memMutationRepo{s: s},
		Stock:    &memStockRepo{s: s},
		Product:  &memProductRepo{s: s},
	}
}

type fakeTxRunner struct {
	s *memState
	// makeRepos permite interceptar los repos que ve la transacción
	// (p. ej. para simular lecturas desactualizadas entre transacciones).
	makeRepos func() inventory.Repos
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repos inventory.Repos) error) error {
	snapshot := r.s.clone()
	repos := r.s.repos()
	if r.makeRepos != nil {
		repos = r.makeRepos()
	}
	if err := fn(repos); err != nil {
		r.s.restore(snapshot)
		return err
	}
	return nil
}

// ---- Stock ----

type memStockRepo struct{ s *memState }

func (r *memStockRepo) Get(loc entity.Location, productID string) (*entity.Stock, error) {
	st, ok := r.s.stocks[stockKey(loc, productID)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *memStockRepo) GetForUpdate(loc entity.Location, productID string) (*entity.Stock, error) {
	return r.Get(loc, productID)
}

func (r *memStockRepo) Upsert(stock *entity.Stock) error {
	cp := *stock
	r.s.stocks[stockKey(stock.Location, stock.ProductID)] = &cp
	return nil
}

func (r *memStockRepo) ListByLocation(loc entity.Location, limit, offset int) ([]*entity.StockWithRefs, error) {
	var out []*entity.StockWithRefs
	for _, st := range r.s.stocks {
		if st.Location == loc {
			out = append(out, r.withRefs(st))
		}
	}
	return out, nil
}

func (r *memStockRepo) ListWithRefs() ([]*entity.StockWithRefs, error) {
	var out []*entity.StockWithRefs
	for _, st := range r.s.stocks {
		out = append(out, r.withRefs(st))
	}
	return out, nil
}

func (r *memStockRepo) withRefs(st *entity.Stock) *entity.StockWithRefs {
	ref := &entity.StockWithRefs{Stock: *st}
	if p, ok := r.s.products[st.ProductID]; ok {
		ref.ProductName = p.Name
		ref.Threshold = p.Threshold
	}
	if !st.Location.IsWarehouse() {
		if s, ok := r.s.stores[st.Location.StoreID]; ok {
			ref.StoreName = s.Name
		}
	}
	return ref
}

// ---- Product ----

type memProductRepo struct{ s *memState }

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

// ---- Store (solo lo que usan los casos de uso de movimientos) ----

type memStoreRepo struct{ s *memState }

func (r *memStoreRepo) Create(st *entity.Store) error {
	cp := *st
	r.s.stores[st.ID] = &cp
	return nil
}

func (r *memStoreRepo) GetByID(id string) (*entity.Store, error) {
	st, ok := r.s.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *memStoreRepo) Update(st *entity.Store) error {
	cp := *st
	r.s.stores[st.ID] = &cp
	return nil
}

func (r *memStoreRepo) List(limit, offset int) ([]*entity.Store, error) { return nil, nil }

func (r *memStoreRepo) Delete(id string) error {
	delete(r.s.stores, id)
	return nil
}

// ---- Movimientos ----

type memStockInRepo struct{ s *memState }

func (r *memStockInRepo) Create(m *entity.StockIn) error {
	for _, existing := range r.s.stockIns {
		if existing.TransactionCode == m.TransactionCode {
			return domain.ErrDuplicateTransactionCode
		}
	}
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	r.s.stockIns[m.ID] = &cp
	return nil
}

func (r *memStockInRepo) GetByID(id string) (*entity.StockIn, error) {
	m, ok := r.s.stockIns[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	return &cp, nil
}

func (r *memStockInRepo) ExistsByTransactionCode(code string) (bool, error) {
	for _, m := range r.s.stockIns {
		if m.TransactionCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStockInRepo) MarkCompleted(id, userID string) error {
	m, ok := r.s.stockIns[id]
	if !ok || m.Status != entity.MovementPending {
		return domain.ErrAlreadyVerified
	}
	m.Status = entity.MovementCompleted
	m.PerformedBy = userID
	return nil
}

func (r *memStockInRepo) Replace(id string, date time.Time, lines []entity.MovementLine) error {
	m, ok := r.s.stockIns[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Date = date
	m.Lines = append([]entity.MovementLine(nil), lines...)
	return nil
}

func (r *memStockInRepo) Delete(id string) error {
	if _, ok := r.s.stockIns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.stockIns, id)
	return nil
}

func (r *memStockInRepo) List(limit, offset int) ([]*entity.StockIn, error) {
	var out []*entity.StockIn
	for _, m := range r.s.stockIns {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memStockInRepo) NextCode() (int, error) { return len(r.s.stockIns) + 1, nil }

type memStockOutRepo struct{ s *memState }

func (r *memStockOutRepo) Create(m *entity.StockOut) error {
	for _, existing := range r.s.stockOuts {
		if existing.TransactionCode == m.TransactionCode {
			return domain.ErrDuplicateTransactionCode
		}
	}
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	r.s.stockOuts[m.ID] = &cp
	return nil
}

func (r *memStockOutRepo) GetByID(id string) (*entity.StockOut, error) {
	m, ok := r.s.stockOuts[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	return &cp, nil
}

func (r *memStockOutRepo) ExistsByTransactionCode(code string) (bool, error) {
	for _, m := range r.s.stockOuts {
		if m.TransactionCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStockOutRepo) MarkCompleted(id, userID string) error {
	m, ok := r.s.stockOuts[id]
	if !ok || m.Status != entity.MovementPending {
		return domain.ErrAlreadyVerified
	}
	m.Status = entity.MovementCompleted
	m.PerformedBy = userID
	return nil
}

func (r *memStockOutRepo) Replace(id string, date time.Time, lines []entity.MovementLine) error {
	m, ok := r.s.stockOuts[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Date = date
	m.Lines = append([]entity.MovementLine(nil), lines...)
	return nil
}

func (r *memStockOutRepo) Delete(id string) error {
	if _, ok := r.s.stockOuts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.stockOuts, id)
	return nil
}

func (r *memStockOutRepo) List(limit, offset int) ([]*entity.StockOut, error) {
	var out []*entity.StockOut
	for _, m := range r.s.stockOuts {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memStockOutRepo) NextCode() (int, error) { return len(r.s.stockOuts) + 1, nil }

type memMutationRepo struct{ s *memState }

func (r *memMutationRepo) Create(m *entity.StockMutation) error {
	for _, existing := range r.s.mutations {
		if existing.TransactionCode == m.TransactionCode {
			return domain.ErrDuplicateTransactionCode
		}
	}
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	r.s.mutations[m.ID] = &cp
	return nil
}

func (r *memMutationRepo) GetByID(id string) (*entity.StockMutation, error) {
	m, ok := r.s.mutations[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	return &cp, nil
}

func (r *memMutationRepo) ExistsByTransactionCode(code string) (bool, error) {
	for _, m := range r.s.mutations {
		if m.TransactionCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMutationRepo) MarkCompleted(id, userID string) error {
	m, ok := r.s.mutations[id]
	if !ok || m.Status != entity.MovementPending {
		return domain.ErrAlreadyVerified
	}
	m.Status = entity.MovementCompleted
	m.PerformedBy = userID
	return nil
}

func (r *memMutationRepo) Replace(id string, date time.Time, lines []entity.MovementLine) error {
	m, ok := r.s.mutations[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Date = date
	m.Lines = append([]entity.MovementLine(nil), lines...)
	return nil
}

func (r *memMutationRepo) Delete(id string) error {
	if _, ok := r.s.mutations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.mutations, id)
	return nil
}

func (r *memMutationRepo) List(limit, offset int) ([]*entity.StockMutation, error) {
	var out []*entity.StockMutation
	for _, m := range r.s.mutations {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memMutationRepo) NextCode() (int, error) { return len(r.s.mutations) + 1, nil }

// ---- Publisher ----

type recordingPublisher struct {
	published []dto.StockNotification
}

func (p *recordingPublisher) Publish(snapshot dto.StockNotification) {
	p.published = append(p.published, snapshot)
}
