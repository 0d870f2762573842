package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de un negocio.
// Quantity es el registro de stock: nunca es negativo y solo lo escribe el
// mutador de stock dentro de su transacción; ningún otro camino lo modifica.
type Product struct {
	ID          string
	BusinessID  string
	CategoryID  string
	Name        string
	Price       decimal.Decimal // precio de venta
	Quantity    int64           // siempre >= 0
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
