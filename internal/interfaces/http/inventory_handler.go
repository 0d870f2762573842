package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/dto"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/inventory"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain"
	"github.com/Danbaba1/Inventory-Management-sub001/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de mutación y consulta de
// inventario (protegido por auth).
type InventoryHandler struct {
	mutator *inventory.StockMutator
	history *inventory.HistoryQuery
	report  *inventory.HistoryReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	mutator *inventory.StockMutator,
	history *inventory.HistoryQuery,
	report *inventory.HistoryReportUseCase,
) *InventoryHandler {
	return &InventoryHandler{mutator: mutator, history: history, report: report}
}

// Increment godoc
// @Summary      Incrementar stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto (UUID)"
// @Param        body       body  dto.MutateStockRequest  true  "quantity > 0, reason y referenceId opcionales"
// @Success      200  {object}  dto.MutateStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/increment [post]
func (h *InventoryHandler) Increment(c *fiber.Ctx) error {
	return h.mutate(c, h.mutator.Increment, "stock incrementado")
}

// Decrement godoc
// @Summary      Decrementar stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto (UUID)"
// @Param        body       body  dto.MutateStockRequest  true  "quantity > 0, reason y referenceId opcionales"
// @Success      200  {object}  dto.MutateStockResponse
// @Failure      400  {object}  dto.ErrorResponse  "incluye INSUFFICIENT_STOCK"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/decrement [post]
func (h *InventoryHandler) Decrement(c *fiber.Ctx) error {
	return h.mutate(c, h.mutator.Decrement, "stock decrementado")
}

func (h *InventoryHandler) mutate(c *fiber.Ctx, op func(context.Context, inventory.MutationInput) (*inventory.MutationResult, error), message string) error {
	productID := c.Params("productId")
	if _, err := uuid.Parse(productID); err != nil {
		return badRequest(c, "productId inválido")
	}
	var in dto.MutateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.Quantity <= 0 {
		return badRequest(c, "quantity debe ser un entero positivo")
	}
	if in.ReferenceID != "" {
		if _, err := uuid.Parse(in.ReferenceID); err != nil {
			return badRequest(c, "referenceId inválido")
		}
	}

	result, err := op(c.UserContext(), inventory.MutationInput{
		BusinessID:  GetBusinessID(c),
		ProductID:   productID,
		ActorID:     GetUserID(c),
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		ReferenceID: in.ReferenceID,
	})
	if err != nil {
		return mapDomainError(c, err)
	}

	return c.JSON(dto.MutateStockResponse{
		Message: message,
		Transaction: dto.TransactionSummaryDTO{
			ProductID:       result.ProductID,
			ProductName:     result.ProductName,
			OldQuantity:     result.OldQuantity,
			NewQuantity:     result.NewQuantity,
			QuantityChanged: result.QuantityChanged,
			TransactionType: result.TransactionType,
			TransactionID:   result.TransactionID,
		},
	})
}

// GetProductHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId        path   string  true   "ID del producto (UUID)"
// @Param        transactionType  query  string  false  "TOP_UP | USAGE"
// @Param        startDate        query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        endDate          query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        page             query  int     false  "página (>=1)"
// @Param        limit            query  int     false  "entradas por página (1-100)"
// @Success      200  {object}  dto.ProductHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/history [get]
func (h *InventoryHandler) GetProductHistory(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if _, err := uuid.Parse(productID); err != nil {
		return badRequest(c, "productId inválido")
	}
	filter, page, limit, err := parseHistoryQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.history.GetProductHistory(c.UserContext(), GetBusinessID(c), productID, filter, page, limit)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetBusinessHistory godoc
// @Summary      Historial del negocio agrupado por categoría y producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        businessId       path   string  true   "ID del negocio (UUID)"
// @Param        transactionType  query  string  false  "TOP_UP | USAGE"
// @Param        startDate        query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        endDate          query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        categoryId       query  string  false  "filtrar por categoría (UUID)"
// @Param        page             query  int     false  "página (>=1)"
// @Param        limit            query  int     false  "entradas por página (1-100)"
// @Success      200  {object}  dto.BusinessHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/business/{businessId}/history [get]
func (h *InventoryHandler) GetBusinessHistory(c *fiber.Ctx) error {
	businessID := c.Params("businessId")
	if _, err := uuid.Parse(businessID); err != nil {
		return badRequest(c, "businessId inválido")
	}
	base, page, limit, err := parseHistoryQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	filter := repository.BusinessHistoryFilter{HistoryFilter: base}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		if _, err := uuid.Parse(categoryID); err != nil {
			return badRequest(c, "categoryId inválido")
		}
		filter.CategoryID = categoryID
	}

	resp, err := h.history.GetBusinessHistory(c.UserContext(), businessID, filter, page, limit)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetProductHistoryPDF godoc
// @Summary      Exportar el historial de un producto como PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        productId  path  string  true  "ID del producto (UUID)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/history/pdf [get]
func (h *InventoryHandler) GetProductHistoryPDF(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if _, err := uuid.Parse(productID); err != nil {
		return badRequest(c, "productId inválido")
	}
	data, filename, err := h.report.GenerateProductHistoryPDF(c.UserContext(), GetBusinessID(c), productID)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// parseHistoryQuery parsea filtro y paginación comunes a las rutas de historial.
func parseHistoryQuery(c *fiber.Ctx) (repository.HistoryFilter, int, int, error) {
	var filter repository.HistoryFilter
	filter.TransactionType = c.Query("transactionType")

	start, err := parseDateQuery(c.Query("startDate"))
	if err != nil {
		return filter, 0, 0, errors.New("startDate inválido")
	}
	filter.StartDate = start

	end, err := parseDateQuery(c.Query("endDate"))
	if err != nil {
		return filter, 0, 0, errors.New("endDate inválido")
	}
	filter.EndDate = end

	page, err := parseIntQuery(c.Query("page"))
	if err != nil {
		return filter, 0, 0, errors.New("page inválido")
	}
	limit, err := parseIntQuery(c.Query("limit"))
	if err != nil {
		return filter, 0, 0, errors.New("limit inválido")
	}
	return filter, page, limit, nil
}

// parseDateQuery acepta RFC3339 o fecha simple YYYY-MM-DD; vacío devuelve nil.
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseIntQuery devuelve 0 para vacío (el use case aplica el valor por defecto).
func parseIntQuery(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "VALIDATION", Message: message})
}

// mapDomainError traduce errores de dominio al código HTTP y cuerpo {error, message}.
// Los errores inesperados se loguean y nunca exponen detalles del storage.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return badRequest(c, "datos inválidos")
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "CONCURRENCY_CONFLICT", Message: "conflicto de concurrencia, reintente"})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "INTERNAL", Message: "error interno"})
	}
}
