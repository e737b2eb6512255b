package auth

// AuthClaims is the validated-claims surface consumers such as the
// jwtware middleware contract on.
type AuthClaims interface {
	UserID() string
	Role() string
	HasAnyRole(roles ...string) bool
}

// TokenValidator validates raw tokens without tying callers to a specific
// signing implementation.
type TokenValidator interface {
	Validate(raw string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(raw string) (AuthClaims, error)

func (f TokenValidatorFunc) Validate(raw string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(raw)
}

// NewTokenValidator exposes a TokenService as a TokenValidator.
func NewTokenValidator(tokens TokenService) TokenValidator {
	return TokenValidatorFunc(func(raw string) (AuthClaims, error) {
		claims, err := tokens.Validate(raw)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// MultiTokenValidator tries validators in order until one succeeds. A
// malformed token moves on to the next validator; any other failure is
// final.
type MultiTokenValidator struct {
	validators []TokenValidator
}

func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	filtered := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &MultiTokenValidator{validators: filtered}
}

func (m *MultiTokenValidator) Validate(raw string) (AuthClaims, error) {
	var lastErr error
	for _, v := range m.validators {
		claims, err := v.Validate(raw)
		if err == nil {
			return claims, nil
		}
		if err == ErrTokenMalformed {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrTokenMalformed
}
