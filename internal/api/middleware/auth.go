package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hvzgame/hvz-server/internal/api/apierr"
)

type contextKey string

const (
	subjectContextKey contextKey = "subject"
	rolesContextKey   contextKey = "roles"
)

// RoleAdmin is the role required for administrative routes
const RoleAdmin = "admin"

// Claims is the expected JWT payload. The subject identifies the caller to
// the rest of the system; credential issuance happens outside this server.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// Auth creates authentication middleware validating an HS256 bearer token.
// The verified subject and roles are placed on the request context.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
			if err != nil || !parsed.Valid || claims.Subject == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, subjectContextKey, claims.Subject)
			ctx = context.WithValue(ctx, rolesContextKey, claims.Roles)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetSubject returns the verified subject from the request context
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(subjectContextKey).(string)
	return subject
}

// GetRoles returns the caller's roles from the request context
func GetRoles(ctx context.Context) []string {
	roles, _ := ctx.Value(rolesContextKey).([]string)
	return roles
}

// HasRole reports whether the caller holds the given role
func HasRole(ctx context.Context, role string) bool {
	return slices.Contains(GetRoles(ctx), role)
}

// MustGetSubject returns the verified subject or panics
func MustGetSubject(ctx context.Context) string {
	subject := GetSubject(ctx)
	if subject == "" {
		panic("no subject in context - auth middleware not applied?")
	}
	return subject
}
