package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/qa"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/pkg/validator"
)

// HeaderIdempotencyKey alternativa al campo idempotency_key del body.
const HeaderIdempotencyKey = "Idempotency-Key"

// SlipGenerator genera el PDF de una disposición confirmada.
type SlipGenerator interface {
	GenerateSlip(ctx context.Context, res *qa.DispositionResult) ([]byte, error)
}

// QAHandler endpoints de disposición de calidad.
type QAHandler struct {
	uc    *qa.DispositionUseCase
	slips SlipGenerator
}

// NewQAHandler construye el handler. slips puede ser nil (el PDF responde 501).
func NewQAHandler(uc *qa.DispositionUseCase, slips SlipGenerator) *QAHandler {
	return &QAHandler{uc: uc, slips: slips}
}

// PartialDisposition godoc
// @Summary      Disposición parcial de un lote inspeccionado
// @Description  Divide el lote en aprobado, retrabajo, chatarra y descarte en una sola transacción.
// @Tags         quality-assurance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        inventory_id     path    string                          true   "Lote inspeccionado"
// @Param        Idempotency-Key  header  string                          false  "Clave de idempotencia"
// @Param        body             body    dto.PartialDispositionRequest  true   "Cantidades y rechazos"
// @Success      201  {object}  qa.DispositionResult
// @Success      200  {object}  qa.DispositionResult  "repetición idempotente"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quality-assurance/{inventory_id}/partial [post]
func (h *QAHandler) PartialDisposition(c *fiber.Ctx) error {
	var in dto.PartialDispositionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido: " + err.Error()})
	}
	if err := validator.ToDomain("solicitud inválida", validator.ValidateStruct(in)); err != nil {
		return respondError(c, err)
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = strings.TrimSpace(c.Get(HeaderIdempotencyKey))
	}
	rejectedBy := strings.TrimSpace(in.RejectedBy)
	if rejectedBy == "" {
		rejectedBy = GetUserID(c)
	}

	lines := make([]disposition.Line, 0, len(in.Rejections))
	for _, r := range in.Rejections {
		lines = append(lines, disposition.Line{
			Quantity:    r.Quantity,
			Disposition: r.Disposition,
			Reason:      r.Reason,
			Optional: disposition.Optional{
				RootCause:        r.RootCause,
				CorrectiveAction: r.CorrectiveAction,
			},
		})
	}

	res, err := h.uc.ProcessPartialDisposition(c.UserContext(), qa.DispositionInput{
		InventoryID:      c.Params("inventory_id"),
		ApprovedQuantity: in.ApprovedQuantity,
		Rejections:       lines,
		Notes:            in.Notes,
		RejectedBy:       rejectedBy,
		IdempotencyKey:   key,
	})
	if err != nil {
		return respondError(c, err)
	}
	if res.Replayed {
		return c.Status(fiber.StatusOK).JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListRejections godoc
// @Summary      Registros de rechazo de un lote
// @Tags         quality-assurance
// @Security     Bearer
// @Produce      json
// @Param        inventory_id  path  string  true  "Lote"
// @Success      200  {array}   entity.QARejectionRecord
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quality-assurance/{inventory_id}/rejections [get]
func (h *QAHandler) ListRejections(c *fiber.Ctx) error {
	records, err := h.uc.ListRejections(c.UserContext(), c.Params("inventory_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}

// GetBatch godoc
// @Summary      Resultado guardado de una disposición
// @Tags         quality-assurance
// @Security     Bearer
// @Produce      json
// @Param        batch_id  path  string  true  "Lote de disposición"
// @Success      200  {object}  qa.DispositionResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quality-assurance/batches/{batch_id} [get]
func (h *QAHandler) GetBatch(c *fiber.Ctx) error {
	res, err := h.uc.GetBatch(c.UserContext(), c.Params("batch_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GetSlip godoc
// @Summary      Comprobante PDF de una disposición
// @Tags         quality-assurance
// @Security     Bearer
// @Produce      application/pdf
// @Param        batch_id  path  string  true  "Lote de disposición"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quality-assurance/batches/{batch_id}/slip.pdf [get]
func (h *QAHandler) GetSlip(c *fiber.Ctx) error {
	if h.slips == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Error: "generador de PDF no configurado"})
	}
	res, err := h.uc.GetBatch(c.UserContext(), c.Params("batch_id"))
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.slips.GenerateSlip(c.UserContext(), res)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="disposicion-`+res.BatchID+`.pdf"`)
	return c.Send(doc)
}
