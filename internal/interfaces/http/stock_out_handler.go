package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/audit"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// StockOutHandler maneja las peticiones HTTP de salidas de stock (protegido).
type StockOutHandler struct {
	mutation *ledger.StockMutationUseCase
	query    *ledger.LedgerQueryUseCase
	audit    *audit.Recorder
}

// NewStockOutHandler construye el handler.
func NewStockOutHandler(mutation *ledger.StockMutationUseCase, query *ledger.LedgerQueryUseCase, auditRec *audit.Recorder) *StockOutHandler {
	return &StockOutHandler{mutation: mutation, query: query, audit: auditRec}
}

// List devuelve el listado paginado de salidas con filtros material_id,
// usage_type, rango de fechas y búsqueda libre.
func (h *StockOutHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Message: "query inválido"})
	}
	q.Reason = "" // no aplica a salidas
	page, err := h.query.List(c.Context(), entity.MovementKindStockOut, q)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "salidas de stock obtenidas", page)
}

// Show devuelve el detalle de una salida por ID.
func (h *StockOutHandler) Show(c *fiber.Ctx) error {
	mov, err := h.query.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "detalle de la salida", mov)
}

// Create godoc
// @Summary      Registrar una salida de stock (cantidad relativa)
// @Tags         stock-out
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockOutRequest  true  "material_id, quantity, usage_type, destination, notes"
// @Success      201  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse  "validación o stock insuficiente"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-out [post]
func (h *StockOutHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Message: "cuerpo inválido"})
	}
	mov, err := h.mutation.ApplyStockOut(c.Context(), ledger.StockOutInput{
		MaterialID:  in.MaterialID,
		Quantity:    in.Quantity,
		UsageType:   in.UsageType,
		Destination: in.Destination,
		Notes:       in.Notes,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	h.audit.Record(audit.Entry{
		UserID:      GetUserID(c),
		Action:      "CREATE",
		EntityType:  "stock_movements",
		EntityID:    mov.ID,
		Description: fmt.Sprintf("salida de stock del material %s por %s (%s)", mov.MaterialID, mov.Quantity.Abs(), mov.UsageType),
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	resp := dto.ToMovementResponse(mov)
	return respondSuccess(c, fiber.StatusCreated, "salida de stock registrada", resp)
}

// ListByMaterial devuelve los movimientos de un material, con rango opcional.
func (h *StockOutHandler) ListByMaterial(c *fiber.Ctx) error {
	list, err := h.query.ListByMaterial(c.Context(), c.Params("id"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "movimientos del material", list)
}

// ListByUsage devuelve las salidas con el tipo de uso dado, con rango opcional.
func (h *StockOutHandler) ListByUsage(c *fiber.Ctx) error {
	list, err := h.query.ListByUsageType(c.Context(), c.Params("usage_type"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "salidas por tipo de uso", list)
}
