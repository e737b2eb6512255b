package auth_test

import (
	"testing"

	auth "github.com/dermmate/auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenValidator(t *testing.T) {
	svc := auth.NewTokenService(testSigningKey, 1, "", nil, testLogger{})
	validator := auth.NewTokenValidator(svc)

	identity := testIdentity()
	token, err := svc.Generate(identity)
	require.NoError(t, err)

	claims, err := validator.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, identity.ID(), claims.UserID())
	assert.Equal(t, identity.Role(), claims.Role())

	_, err = validator.Validate("garbage")
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestMultiTokenValidatorFallsThrough(t *testing.T) {
	primary := auth.NewTokenService("primary-key", 1, "", nil, testLogger{})
	secondary := auth.NewTokenService("secondary-key", 1, "", nil, testLogger{})

	multi := auth.NewMultiTokenValidator(
		nil,
		auth.NewTokenValidator(primary),
		auth.NewTokenValidator(secondary),
	)

	token, err := secondary.Generate(testIdentity())
	require.NoError(t, err)

	claims, err := multi.Validate(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.UserID())

	_, err = multi.Validate("garbage")
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}
