package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/inventory"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	actorID    = "00000000-0000-0000-0000-00000000000a"
	businessID = "00000000-0000-0000-0000-00000000000b"
	productID  = "00000000-0000-0000-0000-00000000000c"
)

// fakeStore simula el almacén: productos y libro bajo un mutex compartido.
type fakeStore struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	ledger   []*entity.InventoryTransaction
}

func newFakeStore(products ...*entity.Product) *fakeStore {
	s := &fakeStore{products: make(map[string]*entity.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) quantity(t *testing.T, id string) int64 {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	require.True(t, ok, "el producto debe existir en el store")
	return p.Quantity
}

func (s *fakeStore) ledgerCopy() []*entity.InventoryTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.InventoryTransaction, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// storeProductRepo repositorio de productos fuera de transacción:
// toma el mutex en cada llamada y devuelve copias.
type storeProductRepo struct{ s *fakeStore }

func (r *storeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *storeProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *storeProductRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

// txProductRepo repositorio atado a la "transacción": asume el mutex ya tomado
// por el fakeTxRunner, igual que un repo atado a pgx.Tx asume la tx abierta.
type txProductRepo struct{ s *fakeStore }

func (r *txProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *txProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *txProductRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// txLedgerRepo libro atado a la "transacción". Solo Create participa en la
// unidad de trabajo del mutador; las consultas no se usan por este camino.
type txLedgerRepo struct{ s *fakeStore }

func (r *txLedgerRepo) Create(_ context.Context, tx *entity.InventoryTransaction) error {
	cp := *tx
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *txLedgerRepo) ListByProduct(context.Context, string, repository.HistoryFilter, int, int) ([]*entity.InventoryTransaction, error) {
	return nil, nil
}

func (r *txLedgerRepo) CountByProduct(context.Context, string, repository.HistoryFilter) (int, error) {
	return 0, nil
}

func (r *txLedgerRepo) ListByBusiness(context.Context, string, repository.BusinessHistoryFilter, int, int) ([]repository.BusinessLedgerRow, error) {
	return nil, nil
}

func (r *txLedgerRepo) CountByBusiness(context.Context, string, repository.BusinessHistoryFilter) (int, error) {
	return 0, nil
}

// fakeTxRunner serializa las unidades de trabajo con el mutex del store y
// restaura el estado previo si la función falla (rollback). conflictsLeft
// inyecta fallos de serialización antes de permitir que un intento avance.
type fakeTxRunner struct {
	store         *fakeStore
	conflictsLeft int32
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	ledgerRepo repository.InventoryTransactionRepository,
) error) error {
	if atomic.AddInt32(&r.conflictsLeft, -1) >= 0 {
		return fmt.Errorf("ejecutar transacción: %w", domain.ErrConcurrencyConflict)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Snapshot para el rollback
	quantities := make(map[string]int64, len(r.store.products))
	for id, p := range r.store.products {
		quantities[id] = p.Quantity
	}
	ledgerLen := len(r.store.ledger)

	err := fn(&txProductRepo{s: r.store}, &txLedgerRepo{s: r.store})
	if err != nil {
		for id, q := range quantities {
			r.store.products[id].Quantity = q
		}
		r.store.ledger = r.store.ledger[:ledgerLen]
		return err
	}
	return nil
}

func newMutatorFixture(products ...*entity.Product) (*inventory.StockMutator, *fakeStore, *fakeTxRunner) {
	store := newFakeStore(products...)
	runner := &fakeTxRunner{store: store}
	mutator := inventory.NewStockMutator(runner, &storeProductRepo{s: store})
	return mutator, store, runner
}

func testProduct(quantity int64) *entity.Product {
	return &entity.Product{
		ID:          productID,
		BusinessID:  businessID,
		CategoryID:  "00000000-0000-0000-0000-00000000000d",
		Name:        "Tornillo 3/8",
		Quantity:    quantity,
		IsAvailable: true,
	}
}

func mutationInput(quantity int64) inventory.MutationInput {
	return inventory.MutationInput{
		BusinessID: businessID,
		ProductID:  productID,
		ActorID:    actorID,
		Quantity:   quantity,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Increment / Decrement
// ──────────────────────────────────────────────────────────────────────────────

func TestStockMutator_IncrementRegistraEntradaTopUp(t *testing.T) {
	mutator, store, _ := newMutatorFixture(testProduct(50))

	in := mutationInput(25)
	in.Reason = "reposición semanal"
	result, err := mutator.Increment(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, int64(50), result.OldQuantity)
	assert.Equal(t, int64(75), result.NewQuantity)
	assert.Equal(t, int64(25), result.QuantityChanged)
	assert.Equal(t, entity.TransactionTypeTopUp, result.TransactionType)
	assert.NotEmpty(t, result.TransactionID)
	assert.Equal(t, int64(75), store.quantity(t, productID))

	ledger := store.ledgerCopy()
	require.Len(t, ledger, 1)
	entry := ledger[0]
	assert.Equal(t, entity.TransactionTypeTopUp, entry.TransactionType)
	assert.Equal(t, int64(50), entry.OldQuantity)
	assert.Equal(t, int64(75), entry.NewQuantity)
	assert.Equal(t, int64(25), entry.QuantityChanged)
	assert.Equal(t, actorID, entry.UserID)
	assert.Equal(t, "reposición semanal", entry.Reason)
}

func TestStockMutator_DecrementInsuficiente_SinEfectos(t *testing.T) {
	mutator, store, _ := newMutatorFixture(testProduct(75))

	result, err := mutator.Decrement(context.Background(), mutationInput(80))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, result)

	// Sin entrada en el libro y con la cantidad intacta
	assert.Equal(t, int64(75), store.quantity(t, productID))
	assert.Empty(t, store.ledgerCopy())
}

// Flujo completo: 50 → +25 → 75; −80 rechazado; −75 → 0. El replay de las
// entradas del libro debe reproducir la cantidad final.
func TestStockMutator_FlujoCompleto_ReplayConsistente(t *testing.T) {
	mutator, store, _ := newMutatorFixture(testProduct(50))
	ctx := context.Background()

	_, err := mutator.Increment(ctx, mutationInput(25))
	require.NoError(t, err)
	assert.Equal(t, int64(75), store.quantity(t, productID))

	_, err = mutator.Decrement(ctx, mutationInput(80))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(75), store.quantity(t, productID))

	result, err := mutator.Decrement(ctx, mutationInput(75))
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.NewQuantity)

	ledger := store.ledgerCopy()
	require.Len(t, ledger, 2, "la mutación rechazada no debe dejar entrada")

	replayed := int64(50)
	for _, e := range ledger {
		assert.Positive(t, e.QuantityChanged, "el cambio registrado siempre es positivo")
		assert.Equal(t, replayed, e.OldQuantity)
		switch e.TransactionType {
		case entity.TransactionTypeTopUp:
			replayed += e.QuantityChanged
		case entity.TransactionTypeUsage:
			replayed -= e.QuantityChanged
		}
		assert.Equal(t, replayed, e.NewQuantity)
	}
	assert.Equal(t, store.quantity(t, productID), replayed,
		"el replay del libro debe reproducir la cantidad actual")
}

func TestStockMutator_DecrementConcurrente_SoloUnoGana(t *testing.T) {
	mutator, store, _ := newMutatorFixture(testProduct(10))

	const workers = 5
	var successes, insufficient int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := mutator.Decrement(context.Background(), mutationInput(6))
			switch {
			case err == nil:
				atomic.AddInt64(&successes, 1)
			case errors.Is(err, domain.ErrInsufficientStock):
				atomic.AddInt64(&insufficient, 1)
			}
		}()
	}
	wg.Wait()

	// Con stock 10 y decrementos de 6, exactamente uno puede ganar.
	assert.Equal(t, int64(1), successes)
	assert.Equal(t, int64(workers-1), insufficient)
	assert.Equal(t, int64(4), store.quantity(t, productID))
	assert.Len(t, store.ledgerCopy(), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de validación y alcance
// ──────────────────────────────────────────────────────────────────────────────

func TestStockMutator_CantidadNoPositiva_Rechazada(t *testing.T) {
	mutator, store, _ := newMutatorFixture(testProduct(50))

	for _, qty := range []int64{0, -5} {
		_, err := mutator.Increment(context.Background(), mutationInput(qty))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "quantity=%d debe rechazarse", qty)
	}
	assert.Equal(t, int64(50), store.quantity(t, productID))
	assert.Empty(t, store.ledgerCopy())
}

func TestStockMutator_SinActor_Rechazado(t *testing.T) {
	mutator, _, _ := newMutatorFixture(testProduct(50))

	in := mutationInput(5)
	in.ActorID = ""
	_, err := mutator.Increment(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockMutator_ProductoInexistente_NotFound(t *testing.T) {
	mutator, _, _ := newMutatorFixture() // store vacío

	_, err := mutator.Increment(context.Background(), mutationInput(5))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockMutator_ProductoNoDisponible_NotFound(t *testing.T) {
	p := testProduct(50)
	p.IsAvailable = false
	mutator, store, _ := newMutatorFixture(p)

	_, err := mutator.Decrement(context.Background(), mutationInput(5))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(50), store.quantity(t, productID))
}

func TestStockMutator_NegocioAjeno_Forbidden(t *testing.T) {
	mutator, store, _ := newMutatorFixture(testProduct(50))

	in := mutationInput(5)
	in.BusinessID = "00000000-0000-0000-0000-0000000000ff"
	_, err := mutator.Increment(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, int64(50), store.quantity(t, productID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de reintento ante conflicto de serialización
// ──────────────────────────────────────────────────────────────────────────────

func TestStockMutator_ReintentaTrasConflicto(t *testing.T) {
	mutator, store, runner := newMutatorFixture(testProduct(50))
	runner.conflictsLeft = 2 // los dos primeros intentos fallan, el tercero pasa

	result, err := mutator.Increment(context.Background(), mutationInput(10))
	require.NoError(t, err, "la mutación debe reintentarse y completarse")
	assert.Equal(t, int64(60), result.NewQuantity)
	assert.Equal(t, int64(60), store.quantity(t, productID))
	assert.Len(t, store.ledgerCopy(), 1, "los intentos fallidos no dejan entradas")
}

func TestStockMutator_ConflictoPersistente_RetornaConflicto(t *testing.T) {
	mutator, store, runner := newMutatorFixture(testProduct(50))
	runner.conflictsLeft = 100 // todos los intentos fallan

	_, err := mutator.Decrement(context.Background(), mutationInput(10))
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, int64(50), store.quantity(t, productID))
	assert.Empty(t, store.ledgerCopy())
}
