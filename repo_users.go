package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var markUserVerifiedSQL = `UPDATE "users" AS "usr"
SET
	"is_verified" = TRUE,
	"verification_token" = NULL,
	"verification_token_expire" = NULL,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

var setResetTokenSQL = `UPDATE "users" AS "usr"
SET
	"reset_password_token" = ?,
	"reset_password_expire" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

var clearResetTokenSQL = `UPDATE "users" AS "usr"
SET
	"reset_password_token" = NULL,
	"reset_password_expire" = NULL,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

var resetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"reset_password_token" = NULL,
	"reset_password_expire" = NULL,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

var trackAttemptedLoginSQL = `UPDATE "users" AS "usr"
SET
	"login_attempts" = COALESCE("login_attempts", 0) + 1,
	"login_attempt_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

var trackSuccessfulLoginSQL = `UPDATE "users" AS "usr"
SET
	"loggedin_at" = CURRENT_TIMESTAMP,
	"login_attempts" = NULL,
	"login_attempt_at" = NULL
WHERE
	"usr"."id" = ?
RETURNING *;`

// ProfilePatch is the profile update allow list. Nil fields leave the
// stored value untouched.
type ProfilePatch struct {
	Age         *int
	PhoneNumber *string
	Location    *string
	ClinicName  *string
	Specialty   *string
	Experience  *string
	Gender      *string
}

// Users is the credential store.
type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	GetByResetToken(ctx context.Context, token string) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	MarkVerified(ctx context.Context, id uuid.UUID) error
	MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*User, error)

	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByColumnTx(ctx, tx, "email", normalizeEmail(email))
}

func (a *users) GetByVerificationToken(ctx context.Context, token string) (*User, error) {
	return a.getByColumnTx(ctx, a.db, "verification_token", token)
}

func (a *users) GetByResetToken(ctx context.Context, token string) (*User, error) {
	return a.getByColumnTx(ctx, a.db, "reset_password_token", token)
}

func (a *users) getByColumnTx(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	if value == "" {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"column": column})
	}

	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"column": column})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return a.MarkVerifiedTx(ctx, a.db, id)
}

func (a *users) MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	return a.execByID(ctx, tx, markUserVerifiedSQL, id.String())
}

func (a *users) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	return a.execByID(ctx, a.db, setResetTokenSQL, token, expiry, id.String())
}

func (a *users) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	return a.execByID(ctx, a.db, clearResetTokenSQL, id.String())
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	return a.execByID(ctx, tx, resetUserPasswordSQL, passwordHash, id.String())
}

func (a *users) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*User, error) {
	user, err := a.GetByID(ctx, id.String())
	if err != nil {
		return nil, err
	}

	applyProfilePatch(user, patch)
	user.OnboardingCompleted = true
	now := time.Now()
	user.UpdatedAt = &now

	_, err = a.db.NewUpdate().
		Model(user).
		Column(
			"age",
			"phone_number",
			"location",
			"clinic_name",
			"specialty",
			"experience",
			"gender",
			"onboarding_completed",
			"updated_at",
		).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return a.execByID(ctx, a.db, trackAttemptedLoginSQL, user.ID.String())
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.execByID(ctx, a.db, trackSuccessfulLoginSQL, user.ID.String())
}

func (a *users) execByID(ctx context.Context, tx bun.IDB, sql string, args ...any) error {
	res, err := a.Repository.RawTx(ctx, tx, sql, args...)
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"args": args})
	}

	return nil
}

// applyProfilePatch copies only non-empty values onto the record. Clients
// submit the whole form, so a blank field means unchanged, never clear.
func applyProfilePatch(user *User, patch ProfilePatch) {
	if patch.Age != nil && *patch.Age != 0 {
		user.Age = *patch.Age
	}
	if patch.PhoneNumber != nil && *patch.PhoneNumber != "" {
		user.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Location != nil && *patch.Location != "" {
		user.Location = *patch.Location
	}
	if patch.ClinicName != nil && *patch.ClinicName != "" {
		user.ClinicName = *patch.ClinicName
	}
	if patch.Specialty != nil && *patch.Specialty != "" {
		user.Specialty = *patch.Specialty
	}
	if patch.Experience != nil && *patch.Experience != "" {
		user.Experience = *patch.Experience
	}
	if patch.Gender != nil && *patch.Gender != "" {
		user.Gender = *patch.Gender
	}
}

func prepareUserDefaults(user *User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = DefaultRole
	}
	user.Email = normalizeEmail(user.Email)

	now := time.Now()
	if user.CreatedAt == nil {
		user.CreatedAt = &now
	}
	user.UpdatedAt = &now
}

// normalizeEmail trims surrounding whitespace only. Emails are stored and
// compared verbatim; casing is significant.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
