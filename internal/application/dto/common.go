package dto

// Límites de los listados paginados.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest parámetros ?limit=&offset= de los listados (facturas, propietarios).
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// WithDefaults devuelve la página con el límite por defecto si no vino informado.
// Los valores fuera de rango se dejan para que la validación los rechace.
func (p PageRequest) WithDefaults() PageRequest {
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
	return p
}

// PageResponse página devuelta junto a los elementos.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (DUPLICATE_NUMBER, SETTLEMENT_LOCKED...).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
