package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/inventory"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los fallos de serialización y deadlocks (40001/40P01)
// se traducen a domain.ErrConcurrencyConflict para que el mutador reintente
// la unidad de trabajo completa con estado fresco.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	ledgerRepo repository.InventoryTransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	ledgerRepo := NewInventoryTransactionRepository(tx)

	if err := fn(productRepo, ledgerRepo); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("transacción en conflicto: %w", domain.ErrConcurrencyConflict)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("commit en conflicto: %w", domain.ErrConcurrencyConflict)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
