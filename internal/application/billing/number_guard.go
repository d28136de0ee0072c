package billing

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/gestion-api/internal/domain/entity"
	"github.com/jhoicas/gestion-api/internal/domain/invoicing"
	"github.com/jhoicas/gestion-api/pkg/logger"
)

// MinSettle espera mínima antes de consultar un número editado a mano.
const MinSettle = 500 * time.Millisecond

// CheckResult resultado de la comprobación de duplicados.
// Superseded indica que llegó una edición posterior del mismo borrador y esta se descartó.
type CheckResult struct {
	Number     string
	Exists     bool
	Verified   bool
	Skipped    bool
	Superseded bool
}

// NumberGuard comprobación de duplicados con espera (debounce) por borrador y consultas
// agrupadas por número. Un fallo de la consulta nunca bloquea: Exists=false, Verified=false.
type NumberGuard struct {
	checker NumberChecker
	settle  time.Duration
	log     *logger.Logger

	group singleflight.Group

	mu      sync.Mutex
	seq     uint64
	pending map[string]uint64
}

// NewNumberGuard construye el guard. settle por debajo de MinSettle se eleva a MinSettle.
func NewNumberGuard(checker NumberChecker, settle time.Duration, log *logger.Logger) *NumberGuard {
	if settle < MinSettle {
		settle = MinSettle
	}
	if log == nil {
		log = logger.Nop()
	}
	return &NumberGuard{
		checker: checker,
		settle:  settle,
		log:     log.Component("number_guard"),
		pending: make(map[string]uint64),
	}
}

// Check espera a que el número se asiente y lo consulta. draftKey identifica el formulario
// (una edición nueva con la misma clave descarta la anterior). Solo se consulta en modo manual
// con al menos 3 caracteres.
func (g *NumberGuard) Check(ctx context.Context, userID, draftKey, number string) (CheckResult, error) {
	draft := invoicing.NewNumberDraft(entity.InvoiceSeries{}).Edit(number)
	res := CheckResult{Number: draft.Value}
	if !draft.NeedsDuplicateCheck() {
		res.Skipped, res.Verified = true, true
		return res, nil
	}

	key := userID + "|" + draftKey
	gen := g.begin(key)

	timer := time.NewTimer(g.settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		g.finish(key, gen)
		return res, ctx.Err()
	case <-timer.C:
	}

	if !g.finish(key, gen) {
		res.Superseded = true
		return res, nil
	}
	exists, verified := g.Lookup(ctx, userID, draft.Value)
	res.Exists, res.Verified = exists, verified
	return res, nil
}

// Lookup consulta sin espera. Consultas simultáneas del mismo número comparten resultado.
func (g *NumberGuard) Lookup(ctx context.Context, userID, number string) (exists, verified bool) {
	number = strings.TrimSpace(number)
	v, err, _ := g.group.Do(userID+"|"+number, func() (interface{}, error) {
		return g.checker.ExistsNumber(ctx, userID, number)
	})
	if err != nil {
		g.log.Warn().Err(err).Str("user_id", userID).Str("number", number).
			Msg("no se pudo comprobar el número de factura; se asume libre")
		return false, false
	}
	return v.(bool), true
}

func (g *NumberGuard) begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.pending[key] = g.seq
	return g.seq
}

// finish devuelve true si gen sigue siendo la última edición de key.
func (g *NumberGuard) finish(key string, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending[key] != gen {
		return false
	}
	delete(g.pending, key)
	return true
}
