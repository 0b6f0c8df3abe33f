package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-engine/internal/application/audit"
	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso de ventas.
// memStore simula la base de datos; fakeTxRunner simula la transacción con
// snapshot + restore: si fn falla, el estado vuelve al snapshot (rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	businesses map[string]*entity.Business
	products   map[string]*entity.Product
	variants   map[string]*entity.ProductVariant
	materials  map[string]*entity.RawMaterial
	recipes    map[string][]*entity.Recipe // por productID
	customers  map[string]*entity.Customer
	orders     map[string]*entity.Order
	items      map[string][]*entity.OrderItem         // por orderID
	resources  map[string][]*entity.OrderItemResource // por orderID
	ledger     []*entity.PointsEntry
}

func newMemStore() *memStore {
	return &memStore{
		businesses: map[string]*entity.Business{},
		products:   map[string]*entity.Product{},
		variants:   map[string]*entity.ProductVariant{},
		materials:  map[string]*entity.RawMaterial{},
		recipes:    map[string][]*entity.Recipe{},
		customers:  map[string]*entity.Customer{},
		orders:     map[string]*entity.Order{},
		items:      map[string][]*entity.OrderItem{},
		resources:  map[string][]*entity.OrderItemResource{},
		ledger:     nil,
	}
}

func cloneMap[V any](src map[string]*V) map[string]*V {
	dst := make(map[string]*V, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

func cloneSliceMap[V any](src map[string][]*V) map[string][]*V {
	dst := make(map[string][]*V, len(src))
	for k, vs := range src {
		cs := make([]*V, 0, len(vs))
		for _, v := range vs {
			c := *v
			cs = append(cs, &c)
		}
		dst[k] = cs
	}
	return dst
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		businesses: cloneMap(s.businesses),
		products:   cloneMap(s.products),
		variants:   cloneMap(s.variants),
		materials:  cloneMap(s.materials),
		recipes:    cloneSliceMap(s.recipes),
		customers:  cloneMap(s.customers),
		orders:     cloneMap(s.orders),
		items:      cloneSliceMap(s.items),
		resources:  cloneSliceMap(s.resources),
		ledger:     make([]*entity.PointsEntry, 0, len(s.ledger)),
	}
	for _, e := range s.ledger {
		ec := *e
		c.ledger = append(c.ledger, &ec)
	}
	return c
}

// fakeTxRunner ejecuta fn contra el store y, si falla, restaura el snapshot.
// runs cuenta las transacciones abiertas (para asertar que input inválido no
// llega a abrir transacción).
type fakeTxRunner struct {
	s    *memStore
	runs int
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	materialRepo repository.RawMaterialRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	ledgerRepo repository.PointsLedgerRepository,
) error) error {
	r.runs++
	snap := r.s.clone()
	err := fn(
		&fakeProductRepo{s: r.s},
		&fakeMaterialRepo{s: r.s},
		&fakeOrderRepo{s: r.s},
		&fakeCustomerRepo{s: r.s},
		&fakeLedgerRepo{s: r.s},
	)
	if err != nil {
		*r.s = *snap
	}
	return err
}

// captureSink acumula los eventos emitidos, para asertar sobre la auditoría.
type captureSink struct{ events []audit.Event }

func (s *captureSink) Record(_ context.Context, ev audit.Event) {
	s.events = append(s.events, ev)
}

type fakeBusinessRepo struct{ s *memStore }

func (r *fakeBusinessRepo) GetByID(id string) (*entity.Business, error) {
	if b, ok := r.s.businesses[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, nil
}

type fakeVariantRepo struct{ s *memStore }

func (r *fakeVariantRepo) GetByID(id string) (*entity.ProductVariant, error) {
	if v, ok := r.s.variants[id]; ok {
		c := *v
		return &c, nil
	}
	return nil, nil
}

type fakeRecipeRepo struct{ s *memStore }

func (r *fakeRecipeRepo) ListByProduct(productID string) ([]*entity.Recipe, error) {
	recipes := r.s.recipes[productID]
	out := make([]*entity.Recipe, 0, len(recipes))
	for _, rec := range recipes {
		c := *rec
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RawMaterialID < out[j].RawMaterialID })
	return out, nil
}

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) AdjustStock(id string, delta decimal.Decimal) error {
	p, ok := r.s.products[id]
	if !ok {
		return fmt.Errorf("adjust product stock: producto %s no existe", id)
	}
	// Mismo contrato que el adaptador real: el contador nunca queda negativo.
	if p.Stock.Add(delta).IsNegative() {
		return fmt.Errorf("adjust product stock %s: %w", id, domain.ErrInsufficientStock)
	}
	p.Stock = p.Stock.Add(delta)
	return nil
}

type fakeMaterialRepo struct{ s *memStore }

func (r *fakeMaterialRepo) GetByID(id string) (*entity.RawMaterial, error) {
	if m, ok := r.s.materials[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (r *fakeMaterialRepo) GetForUpdate(id string) (*entity.RawMaterial, error) {
	return r.GetByID(id)
}

func (r *fakeMaterialRepo) AdjustQuantity(id string, delta decimal.Decimal) error {
	m, ok := r.s.materials[id]
	if !ok {
		return fmt.Errorf("adjust raw material: materia prima %s no existe", id)
	}
	if m.StockQuantity.Add(delta).IsNegative() {
		return fmt.Errorf("adjust raw material quantity %s: %w", id, domain.ErrInsufficientStock)
	}
	m.StockQuantity = m.StockQuantity.Add(delta)
	return nil
}

type fakeCustomerRepo struct{ s *memStore }

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if c, ok := r.s.customers[id]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetForUpdate(id string) (*entity.Customer, error) {
	return r.GetByID(id)
}

func (r *fakeCustomerRepo) AddPoints(id string, delta int64) error {
	c, ok := r.s.customers[id]
	if !ok {
		return fmt.Errorf("add points: cliente %s no existe", id)
	}
	c.Points += delta
	return nil
}

func (r *fakeCustomerRepo) SetPoints(id string, points int64) error {
	c, ok := r.s.customers[id]
	if !ok {
		return fmt.Errorf("set points: cliente %s no existe", id)
	}
	c.Points = points
	return nil
}

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Create(order *entity.Order) error {
	if _, ok := r.s.orders[order.ID]; ok {
		return fmt.Errorf("create order: id %s duplicado", order.ID)
	}
	c := *order
	r.s.orders[order.ID] = &c
	return nil
}

func (r *fakeOrderRepo) CreateItem(item *entity.OrderItem) error {
	c := *item
	r.s.items[item.OrderID] = append(r.s.items[item.OrderID], &c)
	return nil
}

func (r *fakeOrderRepo) CreateItemResource(res *entity.OrderItemResource) error {
	c := *res
	r.s.resources[res.OrderID] = append(r.s.resources[res.OrderID], &c)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	if o, ok := r.s.orders[id]; ok {
		c := *o
		return &c, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *fakeOrderRepo) ListItems(orderID string) ([]*entity.OrderItem, error) {
	items := r.s.items[orderID]
	out := make([]*entity.OrderItem, 0, len(items))
	for _, it := range items {
		c := *it
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListResourcesByOrder(orderID string) ([]*entity.OrderItemResource, error) {
	resources := r.s.resources[orderID]
	out := make([]*entity.OrderItemResource, 0, len(resources))
	for _, res := range resources {
		c := *res
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeOrderRepo) DeleteResources(orderID string) error {
	delete(r.s.resources, orderID)
	return nil
}

func (r *fakeOrderRepo) DeleteItems(orderID string) error {
	delete(r.s.items, orderID)
	return nil
}

func (r *fakeOrderRepo) Delete(id string) error {
	delete(r.s.orders, id)
	return nil
}

type fakeLedgerRepo struct{ s *memStore }

func (r *fakeLedgerRepo) Append(entry *entity.PointsEntry) error {
	c := *entry
	r.s.ledger = append(r.s.ledger, &c)
	return nil
}

func (r *fakeLedgerRepo) SumByCustomer(customerID string) (int64, error) {
	var sum int64
	for _, e := range r.s.ledger {
		if e.CustomerID == customerID {
			sum += e.PointsChange
		}
	}
	return sum, nil
}

func (r *fakeLedgerRepo) ListByCustomer(customerID string, limit int) ([]*entity.PointsEntry, error) {
	var out []*entity.PointsEntry
	// Más recientes primero (el fake agrega en orden de inserción).
	for i := len(r.s.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.ledger[i].CustomerID == customerID {
			c := *r.s.ledger[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

// Verificaciones de interfaz: los fakes deben satisfacer los mismos puertos que
// los adaptadores reales.
var (
	_ repository.BusinessRepository     = (*fakeBusinessRepo)(nil)
	_ repository.VariantRepository      = (*fakeVariantRepo)(nil)
	_ repository.RecipeRepository       = (*fakeRecipeRepo)(nil)
	_ repository.ProductRepository      = (*fakeProductRepo)(nil)
	_ repository.RawMaterialRepository  = (*fakeMaterialRepo)(nil)
	_ repository.CustomerRepository     = (*fakeCustomerRepo)(nil)
	_ repository.OrderRepository        = (*fakeOrderRepo)(nil)
	_ repository.PointsLedgerRepository = (*fakeLedgerRepo)(nil)
	_ TxRunner                          = (*fakeTxRunner)(nil)
)
