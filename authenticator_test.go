package auth_test

import (
	"context"
	"testing"

	auth "github.com/dermmate/auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	user *auth.User
	err  error
}

func (s *stubProvider) VerifyIdentity(ctx context.Context, identifier, password string) (*auth.User, error) {
	return s.user, s.err
}

func (s *stubProvider) FindByID(ctx context.Context, id string) (*auth.User, error) {
	return s.user, s.err
}

func TestAutherLoginSuccess(t *testing.T) {
	user := providerUser(t, "password-123", true)
	tokens := auth.NewTokenService(testSigningKey, 1, "dermmate", nil, testLogger{})
	sink := &captureSink{}

	auther := auth.NewAuthenticator(&stubProvider{user: user}, tokens,
		auth.WithAutherLogger(testLogger{}),
		auth.WithAutherActivitySink(sink),
	)

	token, got, err := auther.Login(context.Background(), user.Email, "password-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UID)
	assert.Equal(t, "patient", claims.UserRole)

	assert.True(t, sink.Has(auth.ActivityLoginSucceeded))
}

func TestAutherLoginPassesProviderErrorThrough(t *testing.T) {
	tokens := auth.NewTokenService(testSigningKey, 1, "", nil, testLogger{})
	sink := &captureSink{}

	for _, want := range []error{
		auth.ErrIdentityNotFound,
		auth.ErrMismatchedHashAndPassword,
		auth.ErrAccountNotVerified,
		auth.ErrTooManyLoginAttempts,
	} {
		auther := auth.NewAuthenticator(&stubProvider{err: want}, tokens,
			auth.WithAutherActivitySink(sink))

		token, user, err := auther.Login(context.Background(), "pepe@example.com", "pw")
		assert.ErrorIs(t, err, want)
		assert.Empty(t, token)
		assert.Nil(t, user)
	}

	assert.True(t, sink.Has(auth.ActivityLoginFailed))
}

func TestAutherSessionRoundTrip(t *testing.T) {
	user := providerUser(t, "password-123", true)
	tokens := auth.NewTokenService(testSigningKey, 1, "dermmate", nil, testLogger{})
	auther := auth.NewAuthenticator(&stubProvider{user: user}, tokens)

	token, _, err := auther.Login(context.Background(), user.Email, "password-123")
	require.NoError(t, err)

	session, err := auther.SessionFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), session.GetUserID())
	assert.Equal(t, "patient", session.GetRole())
	assert.Equal(t, "dermmate", session.GetIssuer())
	require.NotNil(t, session.GetExpiration())

	got, err := auther.IdentityFromSession(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = auther.SessionFromToken("garbage")
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}
