package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/audit"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// AdjustmentHandler maneja las peticiones HTTP de ajustes de stock (protegido).
type AdjustmentHandler struct {
	mutation *ledger.StockMutationUseCase
	query    *ledger.LedgerQueryUseCase
	audit    *audit.Recorder
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(mutation *ledger.StockMutationUseCase, query *ledger.LedgerQueryUseCase, auditRec *audit.Recorder) *AdjustmentHandler {
	return &AdjustmentHandler{mutation: mutation, query: query, audit: auditRec}
}

// List godoc
// @Summary      Listado paginado de ajustes de stock
// @Tags         stock-adjustments
// @Security     Bearer
// @Produce      json
// @Param        page         query  int     false  "Página (>=1)"
// @Param        per_page     query  int     false  "Tamaño de página (1-100, default 20)"
// @Param        material_id  query  string  false  "Filtrar por material"
// @Param        reason       query  string  false  "Filtrar por motivo"
// @Param        start_date   query  string  false  "YYYY-MM-DD (requiere end_date)"
// @Param        end_date     query  string  false  "YYYY-MM-DD (requiere start_date)"
// @Param        q            query  string  false  "Búsqueda libre"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Message: "query inválido"})
	}
	q.UsageType = "" // no aplica a ajustes
	page, err := h.query.List(c.Context(), entity.MovementKindAdjustment, q)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "ajustes de stock obtenidos", page)
}

// Show devuelve el detalle de un ajuste por ID.
func (h *AdjustmentHandler) Show(c *fiber.Ctx) error {
	mov, err := h.query.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "detalle del ajuste", mov)
}

// Create godoc
// @Summary      Registrar un ajuste de stock (valor absoluto)
// @Tags         stock-adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "material_id, new_stock, reason, notes"
// @Success      201  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Message: "cuerpo inválido"})
	}
	mov, err := h.mutation.ApplyAdjustment(c.Context(), ledger.AdjustmentInput{
		MaterialID: in.MaterialID,
		NewStock:   in.NewStock,
		Reason:     in.Reason,
		Notes:      in.Notes,
		ActorID:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	// Auditoría best-effort: nunca afecta la respuesta
	h.audit.Record(audit.Entry{
		UserID:      GetUserID(c),
		Action:      "CREATE",
		EntityType:  "stock_movements",
		EntityID:    mov.ID,
		Description: fmt.Sprintf("ajuste de stock del material %s a %s (%s)", mov.MaterialID, mov.ResultingStock, mov.Reason),
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	resp := dto.ToMovementResponse(mov)
	return respondSuccess(c, fiber.StatusCreated, "ajuste de stock registrado", resp)
}

// ListByMaterial devuelve los ajustes y salidas de un material, con rango opcional.
func (h *AdjustmentHandler) ListByMaterial(c *fiber.Ctx) error {
	list, err := h.query.ListByMaterial(c.Context(), c.Params("id"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "movimientos del material", list)
}

// ListByReason devuelve los ajustes con el motivo dado, con rango opcional.
func (h *AdjustmentHandler) ListByReason(c *fiber.Ctx) error {
	list, err := h.query.ListByReason(c.Context(), c.Params("reason"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "ajustes por motivo", list)
}

// Stats devuelve los agregados por motivo/tipo de uso para el dashboard.
func (h *AdjustmentHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.query.Stats(c.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "estadísticas de movimientos", stats)
}

// Report godoc
// @Summary      Reporte de movimientos del período (material y actor resueltos)
// @Tags         stock-adjustments
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  true  "YYYY-MM-DD"
// @Param        end_date    query  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-adjustments/report [get]
func (h *AdjustmentHandler) Report(c *fiber.Ctx) error {
	report, err := h.query.Report(c.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "reporte de movimientos", report)
}
