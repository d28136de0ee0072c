package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/pkg/logger"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		out = append(out, m)
	}
	return out
}

func TestFromWriter_CamposFijos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromWriter(&buf, "debug").Component("liquidations").Liquidation("liq-1")
	log.Info().Str("status", "SENT").Msg("liquidación enviada")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "liquidations", got[0]["component"])
	assert.Equal(t, "liq-1", got[0]["liquidation_id"])
	assert.Equal(t, "SENT", got[0]["status"])
	assert.Equal(t, "info", got[0]["level"])
}

func TestFromWriter_Nivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromWriter(&buf, "WARN")
	log.Info().Msg("descartado")
	log.Warn().Msg("visible")
	require.Len(t, lines(t, &buf), 1)

	buf.Reset()
	log = logger.FromWriter(&buf, "")
	log.Debug().Msg("descartado")
	log.Info().Msg("visible")
	assert.Len(t, lines(t, &buf), 1)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("nada") })
}
