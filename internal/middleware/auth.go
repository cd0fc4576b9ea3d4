package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/internal/authz"
	"github.com/orgnotes/orgnotes/internal/services"
	"github.com/orgnotes/orgnotes/internal/types"
	"github.com/orgnotes/orgnotes/internal/utils"
	"go.uber.org/zap"
)

// AuthMiddleware resolves the bearer access token into a caller and stores it on the
// context under types.ContextCallerKey.
func AuthMiddleware(authService services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			utils.RespondError(ctx, log, authz.Unauthorized("authenticate", "Authentication credentials were not provided."))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			utils.RespondError(ctx, log, authz.Unauthorized("authenticate", "Authorization header format must be Bearer {token}"))
			return
		}

		caller, err := authService.Authenticate(ctx.Request.Context(), strings.TrimSpace(parts[1]))

		if err != nil {
			utils.RespondError(ctx, log, err)
			return
		}

		ctx.Set(types.ContextCallerKey, caller)
		ctx.Next()
	}
}
