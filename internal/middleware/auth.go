package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mercato/server/internal/auth"
	"github.com/mercato/server/internal/model"
	"github.com/mercato/server/internal/repo"
)

type contextKey string

const (
	userKey   contextKey = "user"
	claimsKey contextKey = "claims"
)

// SessionMiddleware reads the session cookie, verifies the token, loads the
// user fresh from the DB, and attaches both to the request context. Every
// failure mode (no cookie, bad signature, expired token, user gone) yields
// the same uniform 401 so callers cannot distinguish them.
func SessionMiddleware(jwtService *auth.JWTService, userRepo repo.UserRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ReadSessionCookie(r)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			claims, err := jwtService.Verify(token)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			user, err := userRepo.GetByID(r.Context(), claims.UserID)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, &user)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the user attached to the request context (set by SessionMiddleware)
func GetUser(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

// GetClaims returns the verified session claims from the request context
func GetClaims(ctx context.Context) (*auth.SessionClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.SessionClaims)
	return c, ok
}

// respondUnauthorized sends the uniform 401 for all session read failures
func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
