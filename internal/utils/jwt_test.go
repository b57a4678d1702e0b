package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
)

func TestSignAndParseJWT(t *testing.T) {
	id := uuid.New()
	tok, err := SignJWT("secret", id, models.RoleWorker, 10080)
	require.NoError(t, err)

	gotID, gotRole, err := ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, models.RoleWorker, gotRole)
}

func TestParseJWTRejects(t *testing.T) {
	id := uuid.New()
	valid, err := SignJWT("secret", id, models.RoleClient, 60)
	require.NoError(t, err)
	expired, err := SignJWT("secret", id, models.RoleClient, -1)
	require.NoError(t, err)

	noneTok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: id.String(), Role: "client"})
	unsigned, err := noneTok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		secret string
		token  string
	}{
		"empty":        {"secret", ""},
		"wrong secret": {"other", valid},
		"expired":      {"secret", expired},
		"garbage":      {"secret", "not.a.jwt"},
		"alg none":     {"secret", unsigned},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseJWT(tc.secret, tc.token)
			assert.Error(t, err)
		})
	}
}
