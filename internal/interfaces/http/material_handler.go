package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// MaterialHandler lecturas del registro de materiales (selectores y consulta
// de stock actual). El alta/edición de materiales queda fuera de este servicio.
type MaterialHandler struct {
	materials repository.MaterialRepository
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(materials repository.MaterialRepository) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

// List lista materiales con su stock actual (limit/offset).
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Success: false, Message: "query inválido"})
	}
	p.DefaultPage()
	list, err := h.materials.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "materiales obtenidos", dto.ToMaterialResponses(list))
}

// GetByID devuelve un material con su stock actual.
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	material, err := h.materials.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if material == nil {
		return respondError(c, domain.ErrMaterialNotFound)
	}
	return respondSuccess(c, fiber.StatusOK, "detalle del material", dto.ToMaterialResponse(material))
}
