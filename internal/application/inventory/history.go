package inventory

import (
	"context"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/dto"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/repository"
)

// Límites de paginación del historial.
const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// HistoryQuery motor de consultas de solo lectura sobre el libro de
// movimientos. Nunca muta estado; sus lecturas no toman bloqueos.
type HistoryQuery struct {
	ledgerRepo   repository.InventoryTransactionRepository
	productRepo  repository.ProductRepository
	businessRepo repository.BusinessRepository
}

// NewHistoryQuery construye el motor de historial.
func NewHistoryQuery(
	ledgerRepo repository.InventoryTransactionRepository,
	productRepo repository.ProductRepository,
	businessRepo repository.BusinessRepository,
) *HistoryQuery {
	return &HistoryQuery{ledgerRepo: ledgerRepo, productRepo: productRepo, businessRepo: businessRepo}
}

// GetProductHistory devuelve las entradas de un producto ordenadas por
// created_at descendente, con metadatos de paginación. El historial es
// visible aunque el producto esté marcado como no disponible: el libro es
// independiente del estado actual del catálogo.
func (q *HistoryQuery) GetProductHistory(
	ctx context.Context,
	businessID, productID string,
	filter repository.HistoryFilter,
	page, limit int,
) (*dto.ProductHistoryResponse, error) {
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	product, err := q.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if businessID != "" && product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	total, err := q.ledgerRepo.CountByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	entries, err := q.ledgerRepo.ListByProduct(ctx, productID, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	transactions := make([]dto.TransactionDTO, 0, len(entries))
	for _, e := range entries {
		transactions = append(transactions, dto.NewTransactionDTO(e))
	}
	return &dto.ProductHistoryResponse{
		Transactions: transactions,
		Pagination:   dto.NewPagination(page, limit, total),
	}, nil
}

// GetBusinessHistory devuelve la página de entradas del negocio agrupada
// categoría → producto. Cada producto se anota con el snapshot de su cantidad
// actual (leído del registro de stock en la misma consulta, no reconstruido
// desde la página). Las categorías desactivadas o eliminadas se incluyen con
// isActive en false; sus movimientos históricos siguen visibles.
func (q *HistoryQuery) GetBusinessHistory(
	ctx context.Context,
	businessID string,
	filter repository.BusinessHistoryFilter,
	page, limit int,
) (*dto.BusinessHistoryResponse, error) {
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return nil, err
	}
	if err := validateFilter(filter.HistoryFilter); err != nil {
		return nil, err
	}

	business, err := q.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}

	total, err := q.ledgerRepo.CountByBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}
	rows, err := q.ledgerRepo.ListByBusiness(ctx, businessID, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &dto.BusinessHistoryResponse{
		Business:          dto.BusinessDTO{ID: business.ID, Name: business.Name},
		Categories:        groupByCategory(rows),
		TotalTransactions: total,
		Pagination:        dto.NewPagination(page, limit, total),
	}, nil
}

// groupByCategory agrupa las filas de la página por categoría y producto,
// preservando el orden de aparición (que ya viene por created_at DESC).
func groupByCategory(rows []repository.BusinessLedgerRow) []dto.CategoryGroupDTO {
	categories := make([]dto.CategoryGroupDTO, 0)
	catIndex := make(map[string]int)
	prodIndex := make(map[string]map[string]int) // categoryID -> productID -> posición

	for _, row := range rows {
		ci, ok := catIndex[row.CategoryID]
		if !ok {
			ci = len(categories)
			catIndex[row.CategoryID] = ci
			prodIndex[row.CategoryID] = make(map[string]int)
			categories = append(categories, dto.CategoryGroupDTO{
				ID:       row.CategoryID,
				Name:     row.CategoryName,
				IsActive: row.CategoryExists && row.CategoryActive,
				Products: []dto.ProductGroupDTO{},
			})
		}
		pi, ok := prodIndex[row.CategoryID][row.Transaction.ProductID]
		if !ok {
			pi = len(categories[ci].Products)
			prodIndex[row.CategoryID][row.Transaction.ProductID] = pi
			categories[ci].Products = append(categories[ci].Products, dto.ProductGroupDTO{
				ID:              row.Transaction.ProductID,
				Name:            row.ProductName,
				CurrentQuantity: row.ProductQuantity,
				Transactions:    []dto.TransactionDTO{},
			})
		}
		tx := row.Transaction
		categories[ci].Products[pi].Transactions = append(categories[ci].Products[pi].Transactions, dto.NewTransactionDTO(&tx))
	}
	return categories
}

// normalizePage aplica los valores por defecto y valida los límites.
func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	if page < 1 || limit < 1 || limit > maxHistoryLimit {
		return 0, 0, domain.ErrInvalidInput
	}
	return page, limit, nil
}

// validateFilter valida tipo de transacción y rango de fechas.
func validateFilter(f repository.HistoryFilter) error {
	switch f.TransactionType {
	case "", entity.TransactionTypeTopUp, entity.TransactionTypeUsage:
	default:
		return domain.ErrInvalidInput
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return domain.ErrInvalidInput
	}
	return nil
}
