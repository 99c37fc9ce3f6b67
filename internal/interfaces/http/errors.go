package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cashbook-api/internal/application/dto"
	"github.com/jhoicas/cashbook-api/internal/domain"
)

// errorMapping traduce errores de dominio a status y código HTTP.
var errorMapping = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado al recurso"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "no autorizado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "registro duplicado"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"},
	{domain.ErrNotDeletable, fiber.StatusConflict, "NOT_DELETABLE", "el lote ya fue consumido"},
	{domain.ErrDanglingAllocation, fiber.StatusConflict, "DANGLING_ALLOCATION", "la asignación referencia un lote inexistente"},
	{domain.ErrLinkedTransaction, fiber.StatusConflict, "LINKED_TRANSACTION", "el movimiento pertenece a una venta o lote"},
	{domain.ErrInvariantViolation, fiber.StatusInternalServerError, "INVARIANT_VIOLATION", "violación de invariante del libro de lotes"},
}

// writeError responde con el status del primer error de dominio que coincida.
// El detalle (err.Error()) acompaña a los 4xx; los 500 solo llevan el mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			msg := m.message
			if m.status < fiber.StatusInternalServerError {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// queryRange lee ?from=&to= (YYYY-MM-DD). to se extiende al final del día.
func queryRange(c *fiber.Ctx, loc *time.Location) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, err := dto.ParseDate(s, time.Time{})
		if err != nil {
			return nil, nil, err
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := dto.ParseDate(s, time.Time{})
		if err != nil {
			return nil, nil, err
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
		to = &t
	}
	return from, to, nil
}
