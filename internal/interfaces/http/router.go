package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/audit"
	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Mutation     *ledger.StockMutationUseCase
	Query        *ledger.LedgerQueryUseCase
	AuthUC       *auth.AuthUseCase
	MaterialRepo repository.MaterialRepository
	Audit        *audit.Recorder
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Materiales (solo lectura: selectores y stock actual)
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialRepo)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)

	// Las mutaciones requieren rol de bodega
	canMutate := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Ajustes de stock
	adjustments := protected.Group("/stock-adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.Mutation, deps.Query, deps.Audit)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Post("/", canMutate, adjustmentHandler.Create)
	adjustments.Get("/stats", adjustmentHandler.Stats)
	adjustments.Get("/report", adjustmentHandler.Report)
	adjustments.Get("/material/:id", adjustmentHandler.ListByMaterial)
	adjustments.Get("/reason/:reason", adjustmentHandler.ListByReason)
	adjustments.Get("/:id", adjustmentHandler.Show)

	// Salidas de stock
	stockOut := protected.Group("/stock-out")
	stockOutHandler := NewStockOutHandler(deps.Mutation, deps.Query, deps.Audit)
	stockOut.Get("/", stockOutHandler.List)
	stockOut.Post("/", canMutate, stockOutHandler.Create)
	stockOut.Get("/material/:id", stockOutHandler.ListByMaterial)
	stockOut.Get("/usage/:usage_type", stockOutHandler.ListByUsage)
	stockOut.Get("/:id", stockOutHandler.Show)
}
