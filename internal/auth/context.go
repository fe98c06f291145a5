package auth

import "context"

type ctxKey string

const (
	authorizationKey ctxKey = "authorization"
	claimsKey        ctxKey = "claims"
)

// WithAuthorization stores the raw Authorization header value of the inbound request.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authorizationKey, header)
}

func AuthorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authorizationKey).(string)
	return v
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}
