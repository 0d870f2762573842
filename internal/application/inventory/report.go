package inventory

import (
	"context"
	"fmt"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/repository"
)

// reportMaxEntries tope de entradas incluidas en el PDF (las más recientes).
const reportMaxEntries = 200

// HistoryReportUseCase exporta el historial de un producto como PDF.
type HistoryReportUseCase struct {
	ledgerRepo  repository.InventoryTransactionRepository
	productRepo repository.ProductRepository
	pdf         HistoryPDFGenerator
}

// NewHistoryReportUseCase construye el caso de uso de reporte.
func NewHistoryReportUseCase(
	ledgerRepo repository.InventoryTransactionRepository,
	productRepo repository.ProductRepository,
	pdf HistoryPDFGenerator,
) *HistoryReportUseCase {
	return &HistoryReportUseCase{ledgerRepo: ledgerRepo, productRepo: productRepo, pdf: pdf}
}

// GenerateProductHistoryPDF genera el PDF con las entradas más recientes del
// producto y devuelve los bytes junto con el nombre de archivo sugerido.
func (uc *HistoryReportUseCase) GenerateProductHistoryPDF(ctx context.Context, businessID, productID string) ([]byte, string, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	if product == nil {
		return nil, "", domain.ErrNotFound
	}
	if businessID != "" && product.BusinessID != businessID {
		return nil, "", domain.ErrForbidden
	}

	entries, err := uc.ledgerRepo.ListByProduct(ctx, productID, repository.HistoryFilter{}, reportMaxEntries, 0)
	if err != nil {
		return nil, "", err
	}

	data, err := uc.pdf.GenerateHistoryPDF(ctx, product, entries)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF de historial: %w", err)
	}
	return data, fmt.Sprintf("historial-%s.pdf", product.ID), nil
}
