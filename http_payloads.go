package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	Degree    string `json:"degree"`
	Specialty string `json:"specialty"`
	Location  string `json:"location"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&p.Role, validation.In(RoleNames()...)),
	)
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate keeps login checks to presence only. Format checks would turn
// an unknown identifier into a 400 instead of the contracted 404.
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

type VerifyEmailPayload struct {
	Token string `json:"token"`
}

func (p VerifyEmailPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required),
	)
}

type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

func (p ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required),
	)
}

type ResetPasswordPayload struct {
	Password string `json:"password"`
}

func (p ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, validation.Required, validation.Length(6, 72)),
	)
}

// UpdateProfilePayload carries the profile allow list. Absent fields stay
// nil and leave the stored values untouched.
type UpdateProfilePayload struct {
	Age         *int    `json:"age"`
	PhoneNumber *string `json:"phoneNumber"`
	Location    *string `json:"location"`
	ClinicName  *string `json:"clinicName"`
	Specialty   *string `json:"specialty"`
	Experience  *string `json:"experience"`
	Gender      *string `json:"gender"`
}

func (p UpdateProfilePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Age, validation.Min(0), validation.Max(130)),
		validation.Field(&p.PhoneNumber, validation.By(validPhoneNumber)),
	)
}

// Patch converts the payload into the repository patch.
func (p UpdateProfilePayload) Patch() ProfilePatch {
	return ProfilePatch{
		Age:         p.Age,
		PhoneNumber: p.PhoneNumber,
		Location:    p.Location,
		ClinicName:  p.ClinicName,
		Specialty:   p.Specialty,
		Experience:  p.Experience,
		Gender:      p.Gender,
	}
}

func validPhoneNumber(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	num, err := phonenumbers.Parse(raw, "US")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}

	return nil
}
