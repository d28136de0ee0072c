package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los errores de tipo (ErrInvalidInput, ErrConflict, ...) clasifican; los específicos los envuelven
// para que errors.Is funcione en ambos niveles.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrLookupUnavailable = errors.New("no se pudo verificar")
)

// Validación.
var (
	ErrAtLeastOneLineRequired = fmt.Errorf("%w: se requiere al menos una línea válida", ErrInvalidInput)
	ErrOwnerRequired          = fmt.Errorf("%w: propietario requerido", ErrInvalidInput)
	ErrSeriesRequired         = fmt.Errorf("%w: serie de facturación requerida", ErrInvalidInput)
	ErrRateNotAllowed         = fmt.Errorf("%w: tipo de IVA o retención no permitido", ErrInvalidInput)
	ErrPeriodRequired         = fmt.Errorf("%w: año y mes son requeridos", ErrInvalidInput)
)

// Conflicto.
var (
	ErrDuplicateNumber   = fmt.Errorf("%w: el número de factura ya existe", ErrConflict)
	ErrSettlementLocked  = fmt.Errorf("%w: la liquidación tiene una factura emitida", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: transición de estado no permitida", ErrConflict)
	ErrSettlementBusy    = fmt.Errorf("%w: la liquidación se está procesando", ErrConflict)
	ErrAlreadyIssued     = fmt.Errorf("%w: la liquidación ya tiene factura", ErrConflict)
	ErrAlreadySent       = fmt.Errorf("%w: la liquidación ya fue enviada", ErrConflict)
)
