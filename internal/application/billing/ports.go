package billing

import "context"

// NumberChecker consulta si un número ya fue emitido (lo implementa el repositorio de facturas).
type NumberChecker interface {
	ExistsNumber(ctx context.Context, userID, number string) (bool, error)
}
