package entity

import "time"

// Estados de categoría.
const (
	CategoryStatusActive   = "active"
	CategoryStatusInactive = "inactive"
)

// Category representa una categoría de productos de un negocio.
// El motor de historial solo la lee para agrupar; su ciclo de vida se maneja fuera.
type Category struct {
	ID         string
	BusinessID string
	Name       string
	Status     string // active, inactive
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
