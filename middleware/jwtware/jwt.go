// Package jwtware gates fiber routes behind bearer session tokens and an
// optional role allow list. It deliberately does not import the auth
// package; callers bridge their token service through TokenValidator.
package jwtware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var defaultTokenLookup = "header:" + fiber.HeaderAuthorization

var (
	// ErrJWTMissingOrMalformed: no token could be extracted from the
	// request.
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
	// ErrTokenInvalid: a token was presented but failed validation.
	ErrTokenInvalid = errors.New("invalid or expired JWT")
	// ErrAccessDenied: the token is valid but the role is not allowed.
	ErrAccessDenied = errors.New("access denied")
)

// AuthClaims is the validated claims surface the middleware needs.
type AuthClaims interface {
	UserID() string
	Role() string
	HasAnyRole(roles ...string) bool
}

// TokenValidator validates raw tokens into claims.
type TokenValidator interface {
	Validate(raw string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(raw string) (AuthClaims, error)

func (f TokenValidatorFunc) Validate(raw string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenInvalid
	}
	return f(raw)
}

type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after authentication and authorization pass.
	// Defaults to Next.
	SuccessHandler fiber.Handler
	// ErrorHandler maps extraction, validation, and authorization
	// failures to responses.
	ErrorHandler func(*fiber.Ctx, error) error

	// TokenValidator validates extracted tokens. When nil, one is built
	// from KeyFunc, SigningKeys, JWKSetURLs, or SigningKey.
	TokenValidator TokenValidator

	SigningKey  SigningKey
	SigningKeys map[string]SigningKey
	JWKSetURLs  []string
	KeyFunc     jwt.Keyfunc

	// ContextKey is the fiber locals key claims are stored under.
	// Defaults to "user".
	ContextKey string
	// TokenLookup is a comma separated list of sources, e.g.
	// "header:Authorization,cookie:jwt,query:token,param:token".
	TokenLookup string
	// AuthScheme is the expected header prefix. Defaults to "Bearer".
	AuthScheme string

	// AllowedRoles gates the route to the listed roles. Empty allows any
	// authenticated principal. Checked only after the token validates.
	AllowedRoles []string
	// RoleChecker overrides the allow list check.
	RoleChecker func(claims AuthClaims, allowed []string) bool

	// ContextEnricher propagates claims into the request's standard
	// context after validation.
	ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context
}

type SigningKey struct {
	JWTAlg string
	Key    any
}

// New returns the auth middleware for the given config.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	extractors := cfg.getExtractors()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := extractRawToken(c, extractors)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if err := Authorize(claims, cfg.AllowedRoles, cfg.RoleChecker); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return cfg.SuccessHandler(c)
	}
}

// Authorize checks claims against a role allow list. It is a pure
// function so the gate can be tested without a request in flight. It must
// only be called with claims that already passed validation.
func Authorize(claims AuthClaims, allowed []string, checker func(AuthClaims, []string) bool) error {
	if checker != nil {
		if !checker(claims, allowed) {
			return ErrAccessDenied
		}
		return nil
	}

	if len(allowed) == 0 {
		return nil
	}

	if !claims.HasAnyRole(allowed...) {
		return ErrAccessDenied
	}

	return nil
}

func extractRawToken(c *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(c)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.KeyFunc == nil {
		if len(cfg.SigningKeys) > 0 || len(cfg.JWKSetURLs) > 0 {
			var givenKeys map[string]keyfunc.GivenKey
			if cfg.SigningKeys != nil {
				givenKeys = make(map[string]keyfunc.GivenKey, len(cfg.SigningKeys))
				for kid, key := range cfg.SigningKeys {
					givenKeys[kid] = keyfunc.NewGivenCustom(key.Key, keyfunc.GivenKeyOptions{
						Algorithm: key.JWTAlg,
					})
				}
			}
			if len(cfg.JWKSetURLs) > 0 {
				var err error
				cfg.KeyFunc, err = multiKeyfunc(givenKeys, cfg.JWKSetURLs)
				if err != nil {
					panic("jwtware: failed to create keyfunc from JWK Set URL: " + err.Error())
				}
			} else {
				cfg.KeyFunc = keyfunc.NewGiven(givenKeys).Keyfunc
			}
		} else if cfg.SigningKey.Key != nil {
			cfg.KeyFunc = signingKeyFunc(cfg.SigningKey)
		}
	}

	if cfg.TokenValidator == nil {
		if cfg.KeyFunc == nil {
			panic("jwtware: configuration requires TokenValidator, or one of KeyFunc, JWKSetURLs, SigningKeys, SigningKey")
		}
		cfg.TokenValidator = keyFuncValidator(cfg.KeyFunc)
	}

	return cfg
}

// defaultErrorHandler keeps the product's response contract: 401 with
// distinct messages for missing vs invalid tokens, 403 for role denials.
func defaultErrorHandler(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrJWTMissingOrMalformed):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided"})
	case errors.Is(err, ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Access denied"})
	default:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}
}

// tokenClaims backs the standalone keyfunc validator so the middleware
// can run without the host's token service.
type tokenClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid"`
	UserRole string `json:"role"`
}

func (c *tokenClaims) UserID() string { return c.UID }
func (c *tokenClaims) Role() string   { return c.UserRole }

func (c *tokenClaims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if c.UserRole == role {
			return true
		}
	}
	return false
}

func keyFuncValidator(kf jwt.Keyfunc) TokenValidator {
	return TokenValidatorFunc(func(raw string) (AuthClaims, error) {
		claims := &tokenClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, kf)
		if err != nil || !token.Valid {
			return nil, ErrTokenInvalid
		}
		return claims, nil
	})
}

func multiKeyfunc(givenKeys map[string]keyfunc.GivenKey, jwkSetURLs []string) (jwt.Keyfunc, error) {
	opts := keyfuncOptions(givenKeys)
	m := make(map[string]keyfunc.Options, len(jwkSetURLs))
	for _, url := range jwkSetURLs {
		m[url] = opts
	}
	mopts := keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	}
	multi, err := keyfunc.GetMultiple(m, mopts)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWK Set URLs: %w", err)
	}
	return multi.Keyfunc, nil
}

func keyfuncOptions(givenKeys map[string]keyfunc.GivenKey) keyfunc.Options {
	return keyfunc.Options{
		GivenKeys: givenKeys,
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to do a background refresh of JWK Set: %s", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// GetExtractors parses a token lookup string like
// "header:Authorization,cookie:jwt,query:token,param:token" into extractor
// functions, tried in order.
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c *fiber.Ctx) (string, error)

func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		l := len(authScheme)
		if l == 0 {
			return "", ErrJWTMissingOrMalformed
		}
		authScheme = strings.TrimSpace(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

func jwtFromQuery(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromParam(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func jwtFromCookie(name string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func signingKeyFunc(key SigningKey) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if key.JWTAlg != "" {
			alg, ok := token.Header["alg"].(string)
			if !ok {
				return nil, fmt.Errorf("unexpected JWT signing method: expected %q got: missing json type", key.JWTAlg)
			}
			if alg != key.JWTAlg {
				return nil, fmt.Errorf("unexpected JWT signing method: expected %q got %q", key.JWTAlg, alg)
			}
		}
		return key.Key, nil
	}
}
