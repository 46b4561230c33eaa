package utils

import (
	"ferim-server/models"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

// RoleMiddleware gates a route to the given roles. The role comes from the
// token claims; ownership and assignment checks stay in the handlers.
func RoleMiddleware(roles ...models.Role) iris.Handler {
	return func(ctx iris.Context) {
		claims := jwt.Get(ctx).(*AccessToken)
		if !slices.Contains(roles, claims.Role) {
			CreateForbidden(ctx)
			return
		}
		ctx.Next()
	}
}
