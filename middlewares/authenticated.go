package middlewares

import (
	"strings"

	"dekites-server/utils"

	"github.com/kataras/iris/v12"
)

// Authenticated verifies the bearer access token and stores the caller's id
// and role on the request context for the handlers downstream.
func Authenticated(ctx iris.Context) {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Silakan login terlebih dahulu", ctx)
		return
	}

	claims, err := utils.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Sesi tidak valid atau kedaluwarsa", ctx)
		return
	}

	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("role", string(claims.Role))
	ctx.Next()
}
