package middlewares

import (
	"dekites-server/models"
	"dekites-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminOnly gates the dashboard routes. Runs after Authenticated.
func AdminOnly(ctx iris.Context) {
	caller := models.User{Role: models.UserRole(ctx.Values().GetString("role"))}
	if !caller.IsAdmin() {
		utils.CreateForbidden(ctx)
		return
	}
	ctx.Next()
}
