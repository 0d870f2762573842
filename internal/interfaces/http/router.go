package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Mutator      *inventory.StockMutator
	History      *inventory.HistoryQuery
	Report       *inventory.HistoryReportUseCase
	RateLimiter  RateLimiterStore // nil desactiva el rate limiting
	RateLimitMax int64
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Todas las rutas bajo /api requieren Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	inventoryHandler := NewInventoryHandler(deps.Mutator, deps.History, deps.Report)
	invGroup := api.Group("/inventory")

	// Mutaciones: rate-limited por actor cuando hay contador configurado.
	// El middleware va por ruta, no por grupo, para no limitar las lecturas.
	rateLimit := func(c *fiber.Ctx) error { return c.Next() }
	if deps.RateLimiter != nil {
		rateLimit = RateLimitMiddleware(deps.RateLimiter, deps.RateLimitMax)
	}
	invGroup.Post("/:productId/increment", rateLimit, inventoryHandler.Increment)
	invGroup.Post("/:productId/decrement", rateLimit, inventoryHandler.Decrement)

	// Consultas de historial (solo lectura, sin rate limiting)
	invGroup.Get("/:productId/history", inventoryHandler.GetProductHistory)
	invGroup.Get("/:productId/history/pdf", inventoryHandler.GetProductHistoryPDF)
	invGroup.Get("/business/:businessId/history", BusinessScopeMiddleware(), inventoryHandler.GetBusinessHistory)
}
