package entity

import "time"

// Tipos de transacción de inventario.
const (
	TransactionTypeTopUp = "TOP_UP" // entrada de stock
	TransactionTypeUsage = "USAGE"  // salida de stock
)

// InventoryTransaction es una entrada del libro de auditoría de inventario.
// Se crea en la misma transacción que actualiza Product.Quantity y es inmutable:
// no existe operación de update ni delete; las correcciones se registran como
// nuevas entradas compensatorias.
//
// Invariantes: QuantityChanged > 0 siempre (la dirección la define
// TransactionType, nunca el signo) y NewQuantity = OldQuantity ± QuantityChanged
// según el tipo. El replay de las entradas de un producto ordenadas por
// CreatedAt (desempate por ID) reproduce su cantidad actual.
type InventoryTransaction struct {
	ID              string
	ProductID       string
	BusinessID      string
	UserID          string // actor que ejecutó la mutación
	TransactionType string
	OldQuantity     int64
	NewQuantity     int64
	QuantityChanged int64
	Reason          string // opcional
	ReferenceID     string // opcional, correlación externa (UUID)
	CreatedAt       time.Time
}
