package entity

import "time"

// Business representa el negocio dueño de categorías y productos.
// Solo se lee para validar alcance y anotar las respuestas de historial.
type Business struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
