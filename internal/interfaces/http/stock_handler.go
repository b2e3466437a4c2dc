package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockHandler maneja movimientos de stock (entradas, salidas, traslados),
// su verificación y las consultas de saldos (protegido).
type StockHandler struct {
	movements *inventory.MovementUseCase
	verify    *inventory.VerifyMovementUseCase
	stocks    *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(movements *inventory.MovementUseCase, verify *inventory.VerifyMovementUseCase, stocks *usecase.StockUseCase) *StockHandler {
	return &StockHandler{movements: movements, verify: verify, stocks: stocks}
}

func toLineResponses(lines []entity.MovementLine) []dto.MovementLineResponse {
	out := make([]dto.MovementLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.MovementLineResponse{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func toStockInResponse(m *entity.StockIn) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		TransactionCode: m.TransactionCode,
		Date:            m.Date,
		Status:          m.Status,
		ToWarehouse:     &m.ToWarehouse,
		StoreID:         m.StoreID,
		PerformedBy:     m.PerformedBy,
		Lines:           toLineResponses(m.Lines),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toStockOutResponse(m *entity.StockOut) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		TransactionCode: m.TransactionCode,
		Date:            m.Date,
		Status:          m.Status,
		StoreID:         m.StoreID,
		PerformedBy:     m.PerformedBy,
		Lines:           toLineResponses(m.Lines),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toStockMutationResponse(m *entity.StockMutation) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		TransactionCode: m.TransactionCode,
		Date:            m.Date,
		Status:          m.Status,
		FromWarehouse:   &m.FromWarehouse,
		FromStoreID:     m.FromStoreID,
		ToStoreID:       m.ToStoreID,
		PerformedBy:     m.PerformedBy,
		Lines:           toLineResponses(m.Lines),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ---- Entradas ----

func (h *StockHandler) CreateStockIn(c *fiber.Ctx) error {
	var in dto.CreateStockInRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.movements.CreateStockIn(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *StockHandler) GetStockIn(c *fiber.Ctx) error {
	m, err := h.movements.GetStockIn(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toStockInResponse(m))
}

func (h *StockHandler) ListStockIn(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	ms, err := h.movements.ListStockIn(page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toStockInResponse(m))
	}
	return c.JSON(out)
}

func (h *StockHandler) UpdateStockIn(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.movements.UpdateStockIn(c.Context(), c.Params("id"), in); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento actualizado"})
}

func (h *StockHandler) DeleteStockIn(c *fiber.Ctx) error {
	if err := h.movements.DeleteStockIn(c.Context(), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyStockIn confirma una entrada pendiente contra los saldos.
func (h *StockHandler) VerifyStockIn(c *fiber.Ctx) error {
	err := h.verify.VerifyStockIn(c.Context(), c.Params("id"), GetUserID(c))
	countVerification("in", err)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento verificado"})
}

func (h *StockHandler) NextCodeStockIn(c *fiber.Ctx) error {
	next, err := h.movements.NextCodeStockIn()
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"next_index": next})
}

// ---- Salidas ----

func (h *StockHandler) CreateStockOut(c *fiber.Ctx) error {
	var in dto.CreateStockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.movements.CreateStockOut(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *StockHandler) GetStockOut(c *fiber.Ctx) error {
	m, err := h.movements.GetStockOut(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toStockOutResponse(m))
}

func (h *StockHandler) ListStockOut(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	ms, err := h.movements.ListStockOut(page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toStockOutResponse(m))
	}
	return c.JSON(out)
}

func (h *StockHandler) UpdateStockOut(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.movements.UpdateStockOut(c.Context(), c.Params("id"), in); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento actualizado"})
}

func (h *StockHandler) DeleteStockOut(c *fiber.Ctx) error {
	if err := h.movements.DeleteStockOut(c.Context(), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyStockOut confirma una salida pendiente contra los saldos.
func (h *StockHandler) VerifyStockOut(c *fiber.Ctx) error {
	err := h.verify.VerifyStockOut(c.Context(), c.Params("id"), GetUserID(c))
	countVerification("out", err)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento verificado"})
}

func (h *StockHandler) NextCodeStockOut(c *fiber.Ctx) error {
	next, err := h.movements.NextCodeStockOut()
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"next_index": next})
}

// ---- Traslados ----

func (h *StockHandler) CreateStockMutation(c *fiber.Ctx) error {
	var in dto.CreateStockMutationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.movements.CreateStockMutation(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *StockHandler) GetStockMutation(c *fiber.Ctx) error {
	m, err := h.movements.GetStockMutation(c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toStockMutationResponse(m))
}

func (h *StockHandler) ListStockMutation(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	ms, err := h.movements.ListStockMutation(page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toStockMutationResponse(m))
	}
	return c.JSON(out)
}

func (h *StockHandler) UpdateStockMutation(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.movements.UpdateStockMutation(c.Context(), c.Params("id"), in); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento actualizado"})
}

func (h *StockHandler) DeleteStockMutation(c *fiber.Ctx) error {
	if err := h.movements.DeleteStockMutation(c.Context(), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyStockMutation confirma un traslado pendiente contra los saldos.
func (h *StockHandler) VerifyStockMutation(c *fiber.Ctx) error {
	err := h.verify.VerifyStockMutation(c.Context(), c.Params("id"), GetUserID(c))
	countVerification("mutation", err)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "movimiento verificado"})
}

func (h *StockHandler) NextCodeStockMutation(c *fiber.Ctx) error {
	next, err := h.movements.NextCodeStockMutation()
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"next_index": next})
}

// ---- Saldos ----

// ListWarehouseStock lista los saldos de la bodega central.
func (h *StockHandler) ListWarehouseStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	stocks, err := h.stocks.ListWarehouse(page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(stocks)
}

// ListStoreStock lista los saldos de una tienda.
func (h *StockHandler) ListStoreStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	stocks, err := h.stocks.ListStore(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(stocks)
}

func countVerification(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	verificationsTotal.WithLabelValues(kind, outcome).Inc()
}
