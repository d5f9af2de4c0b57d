package auth

import (
	"context"
	"net/http"
	"time"

	gauth "github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
)

// tokenCacheTTL bounds how long a validated token is served from cache without re-parsing
const tokenCacheTTL = time.Minute

// NewAuthenticator returns a go-guardian authenticator whose bearer strategy validates
// JWTs with jwt and caches the result briefly. The actor's role is carried as the
// single group of the returned info.
func NewAuthenticator(ctx context.Context, jwt *JWTManager) gauth.Authenticator {
	authenticator := gauth.New()
	cache := store.NewFIFO(ctx, tokenCacheTTL)
	strategy := bearer.New(func(_ context.Context, _ *http.Request, token string) (gauth.Info, error) {
		actor, err := jwt.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return gauth.NewDefaultUser(actor.ID, actor.ID, []string{actor.Role}, nil), nil
	}, cache)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, strategy)
	return authenticator
}
