package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	auth "github.com/dermmate/auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLinks() auth.LinkBuilder {
	return auth.LinkBuilder{BaseURL: "http://localhost:3000"}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	repo, users := newMockRepo()
	dispatcher := newMockDispatcher()
	handler := auth.NewRegisterUserHandler(repo, dispatcher, testLinks(), testLogger{}, nil)

	existing := providerUser(t, "password-123", true)
	repo.On("Users").Return()
	users.On("GetByEmail", mock.Anything, existing.Email).Return(existing, nil)

	err := handler.Execute(context.Background(), auth.RegisterUserMessage{
		Name:     "Another Pepe",
		Email:    existing.Email,
		Password: "password-456",
	})
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
	dispatcher.AssertNotCalled(t, "SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterUserUnknownRole(t *testing.T) {
	repo, _ := newMockRepo()
	handler := auth.NewRegisterUserHandler(repo, newMockDispatcher(), testLinks(), testLogger{}, nil)

	err := handler.Execute(context.Background(), auth.RegisterUserMessage{
		Name:     "Pepe Rone",
		Email:    "pepe@example.com",
		Password: "password-123",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, auth.ErrUnknownRole)
}

func TestRegisterUserSuccess(t *testing.T) {
	repo, users := newMockRepo()
	dispatcher := newMockDispatcher()
	sink := &captureSink{}
	handler := auth.NewRegisterUserHandler(repo, dispatcher, testLinks(), testLogger{}, sink)

	repo.On("Users").Return()
	users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, notFoundErr())
	repo.On("RunInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var created *auth.User
	users.On("RegisterTx", mock.Anything, mock.Anything, mock.AnythingOfType("*auth.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*auth.User)
		}).
		Return(&auth.User{}, nil).Once()

	dispatcher.On("SendVerificationEmail", mock.Anything, "new@example.com", "New Person", mock.Anything).
		Return(nil).Once()

	err := handler.Execute(context.Background(), auth.RegisterUserMessage{
		Name:      "New Person",
		Email:     "new@example.com",
		Password:  "password-123",
		Role:      "dermatologist",
		Degree:    "MD",
		Specialty: "Dermatology",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, auth.RoleDermatologist, created.Role)
	assert.False(t, created.IsVerified)
	assert.Len(t, created.VerificationToken, 40)
	require.NotNil(t, created.VerificationTokenExpire)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *created.VerificationTokenExpire, time.Minute)
	assert.NotEqual(t, "password-123", created.PasswordHash)

	_, delivered := dispatcher.waitForDelivery(2 * time.Second)
	assert.True(t, delivered, "verification email should be dispatched")
	assert.True(t, sink.Has(auth.ActivityUserRegistered))
}

func TestRegisterUserSwallowsEmailFailure(t *testing.T) {
	repo, users := newMockRepo()
	dispatcher := newMockDispatcher()
	handler := auth.NewRegisterUserHandler(repo, dispatcher, testLinks(), testLogger{}, nil)

	repo.On("Users").Return()
	users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, notFoundErr())
	repo.On("RunInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	users.On("RegisterTx", mock.Anything, mock.Anything, mock.Anything).Return(&auth.User{}, nil)

	dispatcher.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Once()

	err := handler.Execute(context.Background(), auth.RegisterUserMessage{
		Name:     "New Person",
		Email:    "new@example.com",
		Password: "password-123",
	})
	assert.NoError(t, err, "registration must succeed even when the email fails")

	_, attempted := dispatcher.waitForDelivery(2 * time.Second)
	assert.True(t, attempted)
}

func TestRegisterUserCancelledContext(t *testing.T) {
	repo, _ := newMockRepo()
	handler := auth.NewRegisterUserHandler(repo, newMockDispatcher(), testLinks(), testLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, auth.RegisterUserMessage{
		Name:     "Late",
		Email:    "late@example.com",
		Password: "password-123",
	})
	assert.Error(t, err)
}
