package auth_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	auth "github.com/dermmate/auth-service"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockUsers stubs the credential store. The embedded Repository satisfies
// the interface; only the methods a test stubs may be called.
type MockUsers struct {
	mock.Mock
	repository.Repository[*auth.User]
}

func (m *MockUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	args := m.Called(ctx, tx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByVerificationToken(ctx context.Context, token string) (*auth.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByResetToken(ctx context.Context, token string) (*auth.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, tx, user)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

func (m *MockUsers) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUsers) MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *MockUsers) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	return m.Called(ctx, id, token, expiry).Error(0)
}

func (m *MockUsers) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUsers) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, tx, id, passwordHash).Error(0)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, id uuid.UUID, patch auth.ProfilePatch) (*auth.User, error) {
	args := m.Called(ctx, id, patch)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUsers) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockRepositoryManager hands out the mock store and runs transaction
// closures against a zero bun.Tx.
type MockRepositoryManager struct {
	mock.Mock
	users *MockUsers
}

func (m *MockRepositoryManager) Users() auth.Users {
	m.Called()
	return m.users
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	var tx bun.Tx
	return f(ctx, tx)
}

func (m *MockRepositoryManager) Validate() error { return nil }
func (m *MockRepositoryManager) MustValidate()   {}

func newMockRepo() (*MockRepositoryManager, *MockUsers) {
	users := &MockUsers{}
	repo := &MockRepositoryManager{users: users}
	return repo, users
}

// MockDispatcher records lifecycle emails.
type MockDispatcher struct {
	mock.Mock
	delivered chan string
}

func newMockDispatcher() *MockDispatcher {
	return &MockDispatcher{delivered: make(chan string, 4)}
}

func (m *MockDispatcher) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	args := m.Called(ctx, to, name, link)
	select {
	case m.delivered <- to:
	default:
	}
	return args.Error(0)
}

func (m *MockDispatcher) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	args := m.Called(ctx, to, name, link)
	select {
	case m.delivered <- to:
	default:
	}
	return args.Error(0)
}

func (m *MockDispatcher) waitForDelivery(timeout time.Duration) (string, bool) {
	select {
	case to := <-m.delivered:
		return to, true
	case <-time.After(timeout):
		return "", false
	}
}

// captureSink collects audit events.
type captureSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *captureSink) RecordActivity(_ context.Context, event auth.ActivityEvent) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *captureSink) Events() []auth.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *captureSink) Has(t auth.ActivityType) bool {
	for _, event := range s.Events() {
		if event.Type == t {
			return true
		}
	}
	return false
}

// MockAuthenticator implements auth.Authenticator for controller tests.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, identifier, password string) (string, *auth.User, error) {
	args := m.Called(ctx, identifier, password)
	user, _ := args.Get(1).(*auth.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthenticator) SessionFromToken(token string) (auth.Session, error) {
	args := m.Called(token)
	session, _ := args.Get(0).(auth.Session)
	return session, args.Error(1)
}

func (m *MockAuthenticator) IdentityFromSession(ctx context.Context, session auth.Session) (*auth.User, error) {
	args := m.Called(ctx, session)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func notFoundErr() error {
	return repository.NewRecordNotFound()
}
