package inventory

import (
	"context"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad de la unidad de trabajo
// del mutador: o se aplican la cantidad nueva y la entrada del libro, o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error) error
}

// HistoryPDFGenerator genera la representación PDF del historial de un producto.
type HistoryPDFGenerator interface {
	GenerateHistoryPDF(ctx context.Context, product *entity.Product, transactions []*entity.InventoryTransaction) ([]byte, error)
}
