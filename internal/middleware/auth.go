package middleware

import (
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/SahilSagvekar/vedessa-sub001/internal/auth"
	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
)

// Request value keys populated by Authenticated.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	RoleKey   = "role"
)

// Authenticated validates the bearer token and stores the identity in
// request values. Downstream handlers trust these values; no handler
// re-authenticates.
func Authenticated(cfg *config.JWTConfig, cache *auth.TokenCache) iris.Handler {
	return func(ctx iris.Context) {
		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"success": false, "message": "missing token"})
			return
		}

		claims, hit, err := cache.Get(ctx.Request().Context(), token)
		if err != nil || !hit {
			claims, err = auth.ParseToken(cfg, token)
			if err != nil {
				ctx.StopWithJSON(401, iris.Map{"success": false, "message": "invalid token"})
				return
			}
			_ = cache.Set(ctx.Request().Context(), token, claims)
		}

		ctx.Values().Set(UserIDKey, claims.UserID)
		ctx.Values().Set(EmailKey, claims.Email)
		ctx.Values().Set(RoleKey, claims.Role)
		ctx.Next()
	}
}

// RequireRole gates a route on the authenticated role.
func RequireRole(roles ...string) iris.Handler {
	return func(ctx iris.Context) {
		got := ctx.Values().GetStringDefault(RoleKey, "")
		for _, r := range roles {
			if got == r {
				ctx.Next()
				return
			}
		}
		ctx.StopWithJSON(403, iris.Map{"success": false, "message": "forbidden"})
	}
}
