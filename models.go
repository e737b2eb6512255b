package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted credential record. One row per account; the side
// token columns double as the pending verification and password reset
// state, cleared once redeemed.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr" json:"-"`

	ID           uuid.UUID `bun:"id,pk,notnull" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Role         Role      `bun:"role,notnull" json:"role"`

	// Dermatologist profile fields, optional for other roles. Certificate
	// holds an uploaded document reference and is never touched by the
	// lifecycle operations here.
	Degree      string `bun:"degree,nullzero" json:"degree,omitempty"`
	Specialty   string `bun:"specialty,nullzero" json:"specialty,omitempty"`
	Experience  string `bun:"experience,nullzero" json:"experience,omitempty"`
	ClinicName  string `bun:"clinic_name,nullzero" json:"clinicName,omitempty"`
	Certificate string `bun:"certificate,nullzero" json:"certificate,omitempty"`

	Age         int    `bun:"age,nullzero" json:"age,omitempty"`
	PhoneNumber string `bun:"phone_number,nullzero" json:"phoneNumber,omitempty"`
	Location    string `bun:"location,nullzero" json:"location,omitempty"`
	Gender      string `bun:"gender,nullzero" json:"gender,omitempty"`

	OnboardingCompleted bool `bun:"onboarding_completed,notnull,default:false" json:"onboardingCompleted"`

	IsVerified              bool       `bun:"is_verified,notnull,default:false" json:"isVerified"`
	VerificationToken       string     `bun:"verification_token,nullzero" json:"-"`
	VerificationTokenExpire *time.Time `bun:"verification_token_expire,nullzero" json:"-"`

	ResetPasswordToken  string     `bun:"reset_password_token,nullzero" json:"-"`
	ResetPasswordExpire *time.Time `bun:"reset_password_expire,nullzero" json:"-"`

	LoginAttempts  int        `bun:"login_attempts,nullzero" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at,nullzero" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at,nullzero" json:"-"`

	CreatedAt *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt,omitempty"`
}

// PublicUser is the response projection of a User. It never carries the
// password hash, side tokens, or throttle counters.
type PublicUser struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`

	Degree      string `json:"degree,omitempty"`
	Specialty   string `json:"specialty,omitempty"`
	Experience  string `json:"experience,omitempty"`
	ClinicName  string `json:"clinicName,omitempty"`
	Certificate string `json:"certificate,omitempty"`

	Age         int    `json:"age,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Location    string `json:"location,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// Public builds the response projection for u.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:                  u.ID.String(),
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role.String(),
		OnboardingCompleted: u.OnboardingCompleted,
		Degree:              u.Degree,
		Specialty:           u.Specialty,
		Experience:          u.Experience,
		ClinicName:          u.ClinicName,
		Certificate:         u.Certificate,
		Age:                 u.Age,
		PhoneNumber:         u.PhoneNumber,
		Location:            u.Location,
		Gender:              u.Gender,
	}
}

// HasPendingVerification reports whether a verification token is still
// outstanding for the account.
func (u *User) HasPendingVerification() bool {
	return !u.IsVerified && u.VerificationToken != ""
}
