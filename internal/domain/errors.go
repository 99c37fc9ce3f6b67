package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrForbidden    = errors.New("acceso denegado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrDuplicate    = errors.New("recurso duplicado")

	// Motor de costeo FIFO.
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvariantViolation = errors.New("violación de invariante del lote")
	ErrNotDeletable       = errors.New("el lote ya fue consumido total o parcialmente")
	ErrDanglingAllocation = errors.New("la asignación referencia un lote inexistente")

	// Libro de caja: la transacción pertenece a una venta, lote o producción.
	ErrLinkedTransaction = errors.New("transacción vinculada a otro registro")
)
