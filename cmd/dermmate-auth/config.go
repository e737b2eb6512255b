package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is populated from the environment. It implements auth.Config so
// the token service and middleware read their settings through the same
// getters.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:dermmate.db?cache=shared&mode=rwc"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	JWT  JWTConfig  `envPrefix:"JWT_"`
	Mail MailConfig `envPrefix:"MAIL_"`
}

type JWTConfig struct {
	Secret          string   `env:"SECRET,required"`
	ExpirationHours int      `env:"EXPIRATION_HOURS" envDefault:"168"`
	Issuer          string   `env:"ISSUER" envDefault:"dermmate"`
	Audience        []string `env:"AUDIENCE" envSeparator:"," envDefault:"dermmate-app"`
	ContextKey      string   `env:"CONTEXT_KEY" envDefault:"user"`
	TokenLookup     string   `env:"TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme      string   `env:"AUTH_SCHEME" envDefault:"Bearer"`
}

type MailConfig struct {
	BrevoAPIKey string `env:"BREVO_API_KEY"`
	FromEmail   string `env:"FROM_EMAIL" envDefault:"no-reply@dermmate.app"`
	FromName    string `env:"FROM_NAME" envDefault:"DermMate"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) GetSigningKey() string    { return c.JWT.Secret }
func (c *Config) GetSigningMethod() string { return "HS256" }
func (c *Config) GetTokenExpiration() int  { return c.JWT.ExpirationHours }
func (c *Config) GetIssuer() string        { return c.JWT.Issuer }
func (c *Config) GetAudience() []string    { return c.JWT.Audience }
func (c *Config) GetContextKey() string    { return c.JWT.ContextKey }
func (c *Config) GetTokenLookup() string   { return c.JWT.TokenLookup }
func (c *Config) GetAuthScheme() string    { return c.JWT.AuthScheme }
