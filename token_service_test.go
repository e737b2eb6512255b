package auth_test

import (
	"testing"
	"time"

	auth "github.com/dermmate/auth-service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func testIdentity() auth.Identity {
	return auth.NewIdentityFromUser(&auth.User{
		ID:    uuid.New(),
		Name:  "Pepe Rone",
		Email: "pepe.rone@example.com",
		Role:  auth.RoleDermatologist,
	})
}

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	svc := auth.NewTokenService(testSigningKey, 168, "dermmate", []string{"dermmate-app"}, testLogger{})
	identity := testIdentity()

	token, err := svc.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, identity.ID(), claims.UID)
	assert.Equal(t, identity.ID(), claims.Subject)
	assert.Equal(t, "dermatologist", claims.UserRole)
	assert.Equal(t, "dermmate", claims.Issuer)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenServiceDefaultExpiration(t *testing.T) {
	svc := auth.NewTokenService(testSigningKey, 0, "", nil, nil)

	token, err := svc.Generate(testIdentity())
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenServiceRejectsWrongKey(t *testing.T) {
	minter := auth.NewTokenService("other-key", 1, "", nil, testLogger{})
	svc := auth.NewTokenService(testSigningKey, 1, "", nil, testLogger{})

	token, err := minter.Generate(testIdentity())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestTokenServiceRejectsExpiredToken(t *testing.T) {
	svc := auth.NewTokenService(testSigningKey, 1, "", nil, testLogger{})

	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "some-user",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UID:      "some-user",
		UserRole: "patient",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc := auth.NewTokenService(testSigningKey, 1, "", nil, testLogger{})

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Validate(raw)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed, "raw=%q", raw)
	}
}

func TestTokenServiceRejectsWrongAlgorithm(t *testing.T) {
	svc := auth.NewTokenService(testSigningKey, 1, "", nil, testLogger{})

	// alg=none must never validate.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.JWTClaims{UID: "x"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}
