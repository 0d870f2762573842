package repository

import (
	"context"
	"time"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
)

// HistoryFilter filtros de consulta sobre el libro de movimientos.
// TransactionType vacío significa ambos tipos; las fechas acotan CreatedAt.
type HistoryFilter struct {
	TransactionType string
	StartDate       *time.Time
	EndDate         *time.Time
}

// BusinessHistoryFilter añade el filtro por categoría para la vista de negocio.
type BusinessHistoryFilter struct {
	HistoryFilter
	CategoryID string
}

// BusinessLedgerRow fila cruda del JOIN libro → producto → categoría.
// ProductQuantity es el snapshot de la cantidad actual al momento de la
// consulta (leído de products, no reconstruido desde las entradas).
// CategoryExists es false cuando la categoría del producto fue eliminada;
// la fila se conserva porque el libro es independiente del estado actual.
type BusinessLedgerRow struct {
	Transaction     entity.InventoryTransaction
	ProductName     string
	ProductQuantity int64
	CategoryID      string
	CategoryName    string
	CategoryActive  bool
	CategoryExists  bool
}

// InventoryTransactionRepository puerto del libro de auditoría: append-only.
// No expone update ni delete a ningún caller; las correcciones se modelan
// como nuevas entradas compensatorias.
type InventoryTransactionRepository interface {
	// Create inserta una entrada. Genera ID/CreatedAt si vienen vacíos.
	Create(ctx context.Context, tx *entity.InventoryTransaction) error

	// ListByProduct lista entradas de un producto ordenadas por
	// created_at DESC (desempate por id DESC).
	ListByProduct(ctx context.Context, productID string, filter HistoryFilter, limit, offset int) ([]*entity.InventoryTransaction, error)
	// CountByProduct cuenta las entradas de un producto bajo el filtro.
	CountByProduct(ctx context.Context, productID string, filter HistoryFilter) (int, error)

	// ListByBusiness lista entradas de todos los productos del negocio con
	// producto y categoría resueltos por JOIN explícito, mismo orden.
	ListByBusiness(ctx context.Context, businessID string, filter BusinessHistoryFilter, limit, offset int) ([]BusinessLedgerRow, error)
	// CountByBusiness cuenta las entradas del negocio bajo el filtro.
	CountByBusiness(ctx context.Context, businessID string, filter BusinessHistoryFilter) (int, error)
}
