package auth

import "context"

type contextKey string

const claimsContextKey contextKey = "auth:claims"

// WithClaimsContext attaches validated claims to a request context.
func WithClaimsContext(ctx context.Context, claims *JWTClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// GetClaimsContext retrieves claims previously attached by the middleware.
func GetClaimsContext(ctx context.Context) (*JWTClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*JWTClaims)
	return claims, ok
}
