package loyalty

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-engine/internal/application/audit"
	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

const (
	testBusinessID = "biz-1"
	testCustomerID = "cust-1"
	testUserID     = "user-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El fake de transacción restaura el estado si fn falla,
// emulando el rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	customers map[string]*entity.Customer
	ledger    []*entity.PointsEntry
}

func newMemState() *memState {
	return &memState{customers: map[string]*entity.Customer{}}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.customers {
		cc := *v
		c.customers[k] = &cc
	}
	c.ledger = make([]*entity.PointsEntry, 0, len(s.ledger))
	for _, e := range s.ledger {
		ec := *e
		c.ledger = append(c.ledger, &ec)
	}
	return c
}

type fakeCustomerRepo struct{ s *memState }

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
		return errors.New("cliente no existe")
	}
	c.Points += delta
	return nil
}

func (r *fakeCustomerRepo) SetPoints(id string, points int64) error {
	c, ok := r.s.customers[id]
	if !ok {
		return errors.New("cliente no existe")
	}
	c.Points = points
	return nil
}

type fakeLedgerRepo struct{ s *memState }

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
	for i := len(r.s.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.ledger[i].CustomerID == customerID {
			c := *r.s.ledger[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeTxRunner struct{ s *memState }

func (r *fakeTxRunner) RunLoyalty(_ context.Context, fn func(
	customerRepo repository.CustomerRepository,
	ledgerRepo repository.PointsLedgerRepository,
) error) error {
	snap := r.s.clone()
	err := fn(&fakeCustomerRepo{s: r.s}, &fakeLedgerRepo{s: r.s})
	if err != nil {
		*r.s = *snap
	}
	return err
}

var _ TxRunner = (*fakeTxRunner)(nil)

func newFixture(points int64) (*UseCase, *memState) {
	uc, s, _ := newFixtureWithSink(points)
	return uc, s
}

func newFixtureWithSink(points int64) (*UseCase, *memState, *captureSink) {
	s := newMemState()
	s.customers[testCustomerID] = &entity.Customer{
		ID: testCustomerID, BusinessID: testBusinessID, Name: "Ana", Points: points,
	}
	sink := &captureSink{}
	uc := NewUseCase(&fakeTxRunner{s: s}, &fakeCustomerRepo{s: s}, &fakeLedgerRepo{s: s}, sink)
	return uc, s, sink
}

// captureSink acumula los eventos emitidos, para asertar sobre la auditoría.
type captureSink struct{ events []audit.Event }

func (s *captureSink) Record(_ context.Context, ev audit.Event) {
	s.events = append(s.events, ev)
}

// accrue agrega una acumulación directa al estado, como lo haría una venta.
func accrue(t *testing.T, s *memState, orderID string, points int64) {
	t.Helper()
	uc := NewUseCase(nil, nil, nil, audit.NopSink{})
	err := uc.AccrueInTx(&fakeCustomerRepo{s: s}, &fakeLedgerRepo{s: s},
		testCustomerID, orderID, points, "acumulación por venta "+orderID, time.Now())
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAccrueInTx_AgregaFilaYActualizaCache(t *testing.T) {
	_, s := newFixture(0)

	accrue(t, s, "order-1", 5)

	assert.Equal(t, int64(5), s.customers[testCustomerID].Points)
	require.Len(t, s.ledger, 1)
	assert.Equal(t, int64(5), s.ledger[0].PointsChange)
	assert.Equal(t, "order-1", s.ledger[0].OrderID)
}

func TestAccrueInTx_PuntosNoPositivos_RetornaInvalidInput(t *testing.T) {
	_, s := newFixture(0)
	uc := NewUseCase(nil, nil, nil, audit.NopSink{})

	err := uc.AccrueInTx(&fakeCustomerRepo{s: s}, &fakeLedgerRepo{s: s},
		testCustomerID, "order-1", 0, "nada", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.ledger)
}

// Canje con saldo suficiente: 50 puntos, canjear 30 → saldo 20, fila negativa.
func TestRedeem_SaldoSuficiente(t *testing.T) {
	uc, s := newFixture(0)
	accrue(t, s, "order-1", 50)

	err := uc.Redeem(context.Background(), testBusinessID, testUserID, testCustomerID, 30, "canje promo")
	require.NoError(t, err)

	assert.Equal(t, int64(20), s.customers[testCustomerID].Points)
	require.Len(t, s.ledger, 2)
	assert.Equal(t, int64(-30), s.ledger[1].PointsChange)
}

// Canje por más del saldo: error estructurado, ledger y cache intactos.
func TestRedeem_SaldoInsuficiente_NoTocaElLedger(t *testing.T) {
	uc, s := newFixture(0)
	accrue(t, s, "order-1", 30)

	err := uc.Redeem(context.Background(), testBusinessID, testUserID, testCustomerID, 50, "canje promo")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	var shortage *domain.PointsShortageError
	require.True(t, errors.As(err, &shortage))
	assert.Equal(t, int64(50), shortage.Required)
	assert.Equal(t, int64(30), shortage.Available)

	assert.Equal(t, int64(30), s.customers[testCustomerID].Points)
	assert.Len(t, s.ledger, 1, "el ledger no debe registrar el canje rechazado")
}

// Todo intento de canje queda auditado: el exitoso como points_redeemed y el
// rechazado como points_redeem_failed.
func TestRedeem_AuditaExitoYFallo(t *testing.T) {
	uc, s, sink := newFixtureWithSink(0)
	ctx := context.Background()
	accrue(t, s, "order-1", 40)

	require.NoError(t, uc.Redeem(ctx, testBusinessID, testUserID, testCustomerID, 30, "canje promo"))
	err := uc.Redeem(ctx, testBusinessID, testUserID, testCustomerID, 30, "canje promo")
	require.ErrorIs(t, err, domain.ErrInsufficientPoints)

	require.Len(t, sink.events, 2)
	assert.Equal(t, "points_redeemed", sink.events[0].Action)
	assert.Equal(t, "points_redeem_failed", sink.events[1].Action)
	assert.Equal(t, testCustomerID, sink.events[1].Details["customer_id"])
}

func TestRedeem_ClienteDeOtroNegocio_RetornaForbidden(t *testing.T) {
	uc, s := newFixture(100)
	s.customers[testCustomerID].BusinessID = "biz-ajeno"

	err := uc.Redeem(context.Background(), testBusinessID, testUserID, testCustomerID, 10, "canje")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Invariante del ledger: tras cualquier mezcla de acumulaciones y canjes, el
// cache es exactamente SUM(points_change).
func TestLedger_CacheIgualASuma(t *testing.T) {
	uc, s := newFixture(0)
	ctx := context.Background()

	accrue(t, s, "order-1", 12)
	accrue(t, s, "order-2", 7)
	require.NoError(t, uc.Redeem(ctx, testBusinessID, testUserID, testCustomerID, 10, "canje"))
	accrue(t, s, "order-3", 4)

	sum, err := (&fakeLedgerRepo{s: s}).SumByCustomer(testCustomerID)
	require.NoError(t, err)
	assert.Equal(t, int64(13), sum)
	assert.Equal(t, sum, s.customers[testCustomerID].Points)
}

// Reconcile con cache divergente (drift inducido): recomputa desde el ledger y
// sobreescribe el cache.
func TestReconcile_SanaDrift(t *testing.T) {
	uc, s := newFixture(0)
	accrue(t, s, "order-1", 25)

	// Drift inducido: alguien editó el cache por fuera de la ruta del append.
	s.customers[testCustomerID].Points = 99

	resp, err := uc.Reconcile(context.Background(), testBusinessID, testCustomerID)
	require.NoError(t, err)

	assert.True(t, resp.Adjusted)
	assert.Equal(t, int64(99), resp.CachedBefore)
	assert.Equal(t, int64(25), resp.Recomputed)
	assert.Equal(t, int64(25), s.customers[testCustomerID].Points)
}

func TestReconcile_SinDrift_NoAjusta(t *testing.T) {
	uc, s := newFixture(0)
	accrue(t, s, "order-1", 25)

	resp, err := uc.Reconcile(context.Background(), testBusinessID, testCustomerID)
	require.NoError(t, err)
	assert.False(t, resp.Adjusted)
	assert.Equal(t, int64(25), resp.Recomputed)
}

func TestGetBalance_DevuelveSaldoYMovimientos(t *testing.T) {
	uc, s := newFixture(0)
	ctx := context.Background()
	accrue(t, s, "order-1", 10)
	accrue(t, s, "order-2", 5)

	resp, err := uc.GetBalance(ctx, testBusinessID, testCustomerID)
	require.NoError(t, err)

	assert.Equal(t, int64(15), resp.Points)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "order-2", resp.Entries[0].OrderID, "más reciente primero")
}

func TestGetBalance_ClienteInexistente_RetornaNotFound(t *testing.T) {
	uc, _ := newFixture(0)
	_, err := uc.GetBalance(context.Background(), testBusinessID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
