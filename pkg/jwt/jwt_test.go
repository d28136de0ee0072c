package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse(t *testing.T) {
	tok, err := jwt.Generate(secret, "u1", "c1", jwt.RoleManager, "gestion-test", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, jwt.RoleManager, claims.Role)
	assert.Equal(t, "u1", claims.Subject)
}

func TestParse_Rechaza(t *testing.T) {
	expired, err := jwt.Generate(secret, "u1", "c1", jwt.RoleAdmin, "gestion-test", -5)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, expired)
	assert.Error(t, err, "expirado")

	tok, _ := jwt.Generate(secret, "u1", "c1", jwt.RoleAdmin, "gestion-test", 60)
	_, err = jwt.Parse("otro-secret", tok)
	assert.Error(t, err, "firma")

	_, err = jwt.Parse("", tok)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)

	_, err = jwt.Generate("", "u1", "", "", "", 1)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
