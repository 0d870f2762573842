package dto

import (
	"time"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
)

// MutateStockRequest body para POST /api/inventory/:productId/(increment|decrement).
type MutateStockRequest struct {
	Quantity    int64  `json:"quantity"`
	Reason      string `json:"reason,omitempty"`
	ReferenceID string `json:"referenceId,omitempty"`
}

// TransactionSummaryDTO resumen de la mutación aplicada.
type TransactionSummaryDTO struct {
	ProductID       string `json:"productId"`
	ProductName     string `json:"productName"`
	OldQuantity     int64  `json:"oldQuantity"`
	NewQuantity     int64  `json:"newQuantity"`
	QuantityChanged int64  `json:"quantityChanged"`
	TransactionType string `json:"transactionType"`
	TransactionID   string `json:"transactionId"`
}

// MutateStockResponse respuesta de increment/decrement.
type MutateStockResponse struct {
	Message     string                `json:"message"`
	Transaction TransactionSummaryDTO `json:"transaction"`
}

// TransactionDTO entrada del libro en las respuestas de historial.
type TransactionDTO struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"productId"`
	UserID          string    `json:"userId"`
	TransactionType string    `json:"transactionType"`
	OldQuantity     int64     `json:"oldQuantity"`
	NewQuantity     int64     `json:"newQuantity"`
	QuantityChanged int64     `json:"quantityChanged"`
	Reason          string    `json:"reason,omitempty"`
	ReferenceID     string    `json:"referenceId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewTransactionDTO convierte la entidad al DTO de respuesta.
func NewTransactionDTO(t *entity.InventoryTransaction) TransactionDTO {
	return TransactionDTO{
		ID:              t.ID,
		ProductID:       t.ProductID,
		UserID:          t.UserID,
		TransactionType: t.TransactionType,
		OldQuantity:     t.OldQuantity,
		NewQuantity:     t.NewQuantity,
		QuantityChanged: t.QuantityChanged,
		Reason:          t.Reason,
		ReferenceID:     t.ReferenceID,
		CreatedAt:       t.CreatedAt,
	}
}

// ProductHistoryResponse historial paginado de un producto.
type ProductHistoryResponse struct {
	Transactions []TransactionDTO `json:"transactions"`
	Pagination   Pagination       `json:"pagination"`
}

// BusinessDTO negocio anotado en la vista de historial.
type BusinessDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductGroupDTO producto dentro de la vista agrupada, con el snapshot
// de su cantidad actual leído del registro de stock al momento de la consulta.
type ProductGroupDTO struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	CurrentQuantity int64            `json:"currentQuantity"`
	Transactions    []TransactionDTO `json:"transactions"`
}

// CategoryGroupDTO grupo de productos por categoría. IsActive marca las
// categorías desactivadas o eliminadas; sus movimientos siguen visibles.
type CategoryGroupDTO struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	IsActive bool              `json:"isActive"`
	Products []ProductGroupDTO `json:"products"`
}

// BusinessHistoryResponse historial del negocio agrupado categoría → producto.
type BusinessHistoryResponse struct {
	Business          BusinessDTO        `json:"business"`
	Categories        []CategoryGroupDTO `json:"categories"`
	TotalTransactions int                `json:"totalTransactions"`
	Pagination        Pagination         `json:"pagination"`
}
