package repository

import (
	"context"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
)

// BusinessRepository puerto de lectura de negocios (solo alcance y anotación).
type BusinessRepository interface {
	// GetByID obtiene un negocio por ID. Devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Business, error)
}
