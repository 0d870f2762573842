package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo implementación del libro de auditoría sobre
// PostgreSQL (usable con pool o tx). Solo inserta y lee: la tabla no recibe
// UPDATE ni DELETE desde ningún punto del código.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

const transactionColumns = `id, product_id, business_id, user_id, transaction_type, old_quantity, new_quantity, quantity_changed, reason, reference_id, created_at`

// Create persiste una entrada del libro. Genera ID y CreatedAt si vienen vacíos.
func (r *InventoryTransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	reason := (*string)(nil)
	if t.Reason != "" {
		reason = &t.Reason
	}
	referenceID := (*string)(nil)
	if t.ReferenceID != "" {
		referenceID = &t.ReferenceID
	}
	query := `
		INSERT INTO inventory_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProductID, t.BusinessID, t.UserID, t.TransactionType,
		t.OldQuantity, t.NewQuantity, t.QuantityChanged, reason, referenceID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory transaction: %w", err)
	}
	return nil
}

// ListByProduct lista entradas de un producto bajo el filtro, ordenadas por
// created_at DESC con desempate por id DESC.
func (r *InventoryTransactionRepo) ListByProduct(ctx context.Context, productID string, filter repository.HistoryFilter, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE product_id = $1`
	args := []any{productID}
	query, args = appendFilter(query, args, "", filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions by product: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryTransaction
	for rows.Next() {
		var t entity.InventoryTransaction
		var reason, referenceID *string
		if err := rows.Scan(&t.ID, &t.ProductID, &t.BusinessID, &t.UserID, &t.TransactionType,
			&t.OldQuantity, &t.NewQuantity, &t.QuantityChanged, &reason, &referenceID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if reason != nil {
			t.Reason = *reason
		}
		if referenceID != nil {
			t.ReferenceID = *referenceID
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// CountByProduct cuenta las entradas de un producto bajo el filtro.
func (r *InventoryTransactionRepo) CountByProduct(ctx context.Context, productID string, filter repository.HistoryFilter) (int, error) {
	query := `SELECT COUNT(*) FROM inventory_transactions WHERE product_id = $1`
	args := []any{productID}
	query, args = appendFilter(query, args, "", filter)

	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count transactions by product: %w", err)
	}
	return total, nil
}

// ListByBusiness lista entradas de todos los productos del negocio. El JOIN
// explícito resuelve nombre de producto, snapshot de cantidad actual y
// categoría; el LEFT JOIN conserva las filas cuya categoría fue eliminada.
func (r *InventoryTransactionRepo) ListByBusiness(ctx context.Context, businessID string, filter repository.BusinessHistoryFilter, limit, offset int) ([]repository.BusinessLedgerRow, error) {
	query := `
		SELECT t.id, t.product_id, t.business_id, t.user_id, t.transaction_type,
		       t.old_quantity, t.new_quantity, t.quantity_changed, t.reason, t.reference_id, t.created_at,
		       p.name, p.quantity, p.category_id,
		       c.id, COALESCE(c.name, ''), COALESCE(c.status, '')
		FROM inventory_transactions t
		JOIN products p ON p.id = t.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE t.business_id = $1`
	args := []any{businessID}
	query, args = appendFilter(query, args, "t.", filter.HistoryFilter)
	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND p.category_id = $%d", len(args)+1)
		args = append(args, filter.CategoryID)
	}
	query += fmt.Sprintf(" ORDER BY t.created_at DESC, t.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions by business: %w", err)
	}
	defer rows.Close()

	var list []repository.BusinessLedgerRow
	for rows.Next() {
		var row repository.BusinessLedgerRow
		var reason, referenceID, categoryID *string
		var categoryStatus string
		t := &row.Transaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.BusinessID, &t.UserID, &t.TransactionType,
			&t.OldQuantity, &t.NewQuantity, &t.QuantityChanged, &reason, &referenceID, &t.CreatedAt,
			&row.ProductName, &row.ProductQuantity, &row.CategoryID,
			&categoryID, &row.CategoryName, &categoryStatus); err != nil {
			return nil, fmt.Errorf("scan business transaction: %w", err)
		}
		if reason != nil {
			t.Reason = *reason
		}
		if referenceID != nil {
			t.ReferenceID = *referenceID
		}
		row.CategoryExists = categoryID != nil
		row.CategoryActive = categoryStatus == entity.CategoryStatusActive
		list = append(list, row)
	}
	return list, rows.Err()
}

// CountByBusiness cuenta las entradas del negocio bajo el filtro.
func (r *InventoryTransactionRepo) CountByBusiness(ctx context.Context, businessID string, filter repository.BusinessHistoryFilter) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM inventory_transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.business_id = $1`
	args := []any{businessID}
	query, args = appendFilter(query, args, "t.", filter.HistoryFilter)
	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND p.category_id = $%d", len(args)+1)
		args = append(args, filter.CategoryID)
	}

	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count transactions by business: %w", err)
	}
	return total, nil
}

// appendFilter añade las condiciones del filtro con argumentos posicionales.
// prefix es el alias de tabla ("t." en los JOIN) o vacío.
func appendFilter(query string, args []any, prefix string, f repository.HistoryFilter) (string, []any) {
	if f.TransactionType != "" {
		query += fmt.Sprintf(" AND %stransaction_type = $%d", prefix, len(args)+1)
		args = append(args, f.TransactionType)
	}
	if f.StartDate != nil {
		query += fmt.Sprintf(" AND %screated_at >= $%d", prefix, len(args)+1)
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		query += fmt.Sprintf(" AND %screated_at <= $%d", prefix, len(args)+1)
		args = append(args, *f.EndDate)
	}
	return query, args
}
