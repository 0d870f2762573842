package repository

import (
	"context"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
)

// ProductRepository puerto de lectura del registro de productos.
// El mutador de stock es el único autorizado a escribir Quantity, y solo vía
// UpdateQuantity dentro de una transacción abierta por el TxRunner.
type ProductRepository interface {
	// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea su fila para update
	// (SELECT FOR UPDATE). Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// UpdateQuantity escribe la nueva cantidad del producto. Debe invocarse
	// únicamente sobre la fila bloqueada por GetForUpdate en la misma tx.
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
}
