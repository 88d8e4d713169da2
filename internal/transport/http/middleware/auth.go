package middleware

import (
	"context"
	"net/http"
	"strings"

	"payguard/internal/domain/auth"
	"payguard/internal/transport/http/api"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// Auth parses a bearer token when present and stores the actor in the
// request context. Routes that need an authenticated actor wrap
// themselves with RequireActor.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyActor, auth.Actor{
				ID:   claims.ActorID,
				Role: claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (auth.Actor, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(auth.Actor)
	return actor, ok
}

func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetActor(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
