package api

import (
	"net/http"

	gauth "github.com/shaj13/go-guardian/auth"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/auth"
	"github.com/linesmerrill/court-records-api/config"
	"github.com/linesmerrill/court-records-api/models"
)

// MiddlewareAuth authenticates bearer tokens and stores the resulting actor on the request
type MiddlewareAuth struct {
	Authenticator gauth.Authenticator
}

// Middleware rejects requests without a valid bearer token
func (m MiddlewareAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := m.Authenticator.Authenticate(r)
		if err != nil {
			zap.S().Debugw("unauthorized", "url", r.URL.Path)
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		actor := actorOf(info)
		if !actor.Valid() {
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
	})
}

func actorOf(info gauth.Info) models.Actor {
	actor := models.Actor{ID: info.ID()}
	if groups := info.Groups(); len(groups) > 0 {
		actor.Role = groups[0]
	}
	return actor
}

// RequireRole only lets actors holding one of roles through. It must run after
// MiddlewareAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFrom(r.Context())
			if !ok {
				config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, nil)
				return
			}
			for _, role := range roles {
				if actor.Is(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			config.ErrorStatus("insufficient permissions", http.StatusForbidden, w, nil)
		})
	}
}
