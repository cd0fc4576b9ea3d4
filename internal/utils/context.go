package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/internal/authz"
	"github.com/orgnotes/orgnotes/internal/types"
)

// GetCurrentCaller returns the caller set by the auth middleware. A missing or
// malformed value is reported as unauthorized.
func GetCurrentCaller(ctx *gin.Context) (*authz.Caller, error) {
	value, exists := ctx.Get(types.ContextCallerKey)

	if !exists {
		return nil, authz.Unauthorized("current_caller", "Authentication credentials were not provided.")
	}

	caller, ok := value.(*authz.Caller)

	if !ok || caller == nil {
		return nil, authz.Unauthorized("current_caller", "Invalid caller in context.")
	}

	return caller, nil
}

func GetCurrentUserID(ctx *gin.Context) uint {
	caller, err := GetCurrentCaller(ctx)

	if err != nil {
		return 0
	}

	return caller.UserID
}

func GetRequestID(ctx *gin.Context) string {
	return ctx.GetString(types.ContextRequestIDKey)
}
