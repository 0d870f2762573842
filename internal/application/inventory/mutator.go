package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/entity"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/repository"
)

// maxMutationAttempts reintentos de la unidad de trabajo completa cuando el
// store reporta un fallo de serialización. Cada intento relee el estado fresco.
const maxMutationAttempts = 3

// StockMutator es el único componente autorizado a cambiar Product.Quantity.
// Cada mutación es una unidad atómica: bloqueo de fila (SELECT FOR UPDATE),
// verificación de suficiencia, UPDATE de la cantidad e INSERT de la entrada
// del libro en la misma transacción, con Commit o Rollback completos.
type StockMutator struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewStockMutator construye el mutador.
func NewStockMutator(txRunner TxRunner, productRepo repository.ProductRepository) *StockMutator {
	return &StockMutator{txRunner: txRunner, productRepo: productRepo}
}

// MutationInput entrada para Increment/Decrement. BusinessID es el alcance
// validado por el middleware de auth; Quantity siempre positivo (la dirección
// la define la operación invocada, no el signo).
type MutationInput struct {
	BusinessID  string
	ProductID   string
	ActorID     string
	Quantity    int64
	Reason      string
	ReferenceID string
}

// MutationResult resumen de la transacción aplicada.
type MutationResult struct {
	ProductID       string
	ProductName     string
	OldQuantity     int64
	NewQuantity     int64
	QuantityChanged int64
	TransactionType string
	TransactionID   string
}

// Increment suma Quantity al stock del producto y registra una entrada TOP_UP.
func (m *StockMutator) Increment(ctx context.Context, input MutationInput) (*MutationResult, error) {
	return m.mutate(ctx, entity.TransactionTypeTopUp, input)
}

// Decrement resta Quantity del stock y registra una entrada USAGE.
// Si el resultado quedara negativo falla con ErrInsufficientStock sin efectos.
func (m *StockMutator) Decrement(ctx context.Context, input MutationInput) (*MutationResult, error) {
	return m.mutate(ctx, entity.TransactionTypeUsage, input)
}

func (m *StockMutator) mutate(ctx context.Context, txType string, input MutationInput) (*MutationResult, error) {
	if input.ProductID == "" || input.ActorID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar producto y alcance del negocio antes de abrir la transacción;
	// la existencia se reverifica bajo bloqueo dentro de la unidad de trabajo.
	product, err := m.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsAvailable {
		return nil, domain.ErrNotFound
	}
	if input.BusinessID != "" && product.BusinessID != input.BusinessID {
		return nil, domain.ErrForbidden
	}

	for attempt := 1; attempt <= maxMutationAttempts; attempt++ {
		result, err := m.tryMutate(ctx, txType, input)
		if errors.Is(err, domain.ErrConcurrencyConflict) && attempt < maxMutationAttempts {
			continue
		}
		return result, err
	}
	return nil, domain.ErrConcurrencyConflict
}

// tryMutate ejecuta un intento completo de la unidad de trabajo atómica.
// Dentro de la ventana de bloqueo no hay I/O externo: solo la relectura,
// el cálculo y las dos escrituras.
func (m *StockMutator) tryMutate(ctx context.Context, txType string, input MutationInput) (*MutationResult, error) {
	var result *MutationResult
	err := m.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		ledgerRepo repository.InventoryTransactionRepository,
	) error {
		// Bloquea la fila: ningún otro writer puede leer-modificar-escribir
		// la cantidad hasta que esta transacción termine.
		product, err := productRepo.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.IsAvailable {
			return domain.ErrNotFound
		}

		oldQty := product.Quantity
		var newQty int64
		switch txType {
		case entity.TransactionTypeTopUp:
			newQty = oldQty + input.Quantity
		case entity.TransactionTypeUsage:
			newQty = oldQty - input.Quantity
			if newQty < 0 {
				// Aborta la unidad de trabajo: sin entrada en el libro
				// y con el registro de stock intacto.
				return domain.ErrInsufficientStock
			}
		default:
			return domain.ErrInvalidInput
		}

		if err := productRepo.UpdateQuantity(ctx, product.ID, newQty); err != nil {
			return err
		}

		entry := &entity.InventoryTransaction{
			ID:              uuid.New().String(),
			ProductID:       product.ID,
			BusinessID:      product.BusinessID,
			UserID:          input.ActorID,
			TransactionType: txType,
			OldQuantity:     oldQty,
			NewQuantity:     newQty,
			QuantityChanged: input.Quantity,
			Reason:          input.Reason,
			ReferenceID:     input.ReferenceID,
			CreatedAt:       time.Now(),
		}
		if err := ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}

		result = &MutationResult{
			ProductID:       product.ID,
			ProductName:     product.Name,
			OldQuantity:     oldQty,
			NewQuantity:     newQty,
			QuantityChanged: input.Quantity,
			TransactionType: txType,
			TransactionID:   entry.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
