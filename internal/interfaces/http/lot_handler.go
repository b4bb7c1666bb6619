package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/pkg/validator"
)

// LotHandler lectura de lotes de inventario.
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// List godoc
// @Summary      Listar lotes
// @Description  kind=material excluye los lotes de producto (incluidos los de retrabajo).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        status       query  string  false  "Estado"
// @Param        kind         query  string  false  "material | product"
// @Param        limit        query  int     false  "Máximo 500"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.LotListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	var in dto.LotListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Error: "parámetros inválidos"})
	}
	if err := validator.ToDomain("filtros inválidos", validator.ValidateStruct(in)); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListLots(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Lote"
// @Success      200  {object}  entity.InventoryLot
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	lot, err := h.uc.GetLot(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lot)
}
