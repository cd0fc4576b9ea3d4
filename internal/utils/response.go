package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/internal/authz"
	"github.com/orgnotes/orgnotes/internal/types"
	"go.uber.org/zap"
)

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case authz.EUnauthorized:
		return http.StatusUnauthorized
	case authz.EForbidden:
		return http.StatusForbidden
	case authz.ENotFound:
		return http.StatusNotFound
	case authz.EInvalid, authz.EDuplicateOrganization:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError aborts the request with the status and body for err. Internal errors are
// logged and their details withheld from the response.
func RespondError(ctx *gin.Context, log *zap.Logger, err error) {
	code := authz.ErrorCode(err)
	status := StatusFor(code)

	msg := authz.ErrorMessage(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed",
			zap.Error(err),
			zap.String("path", ctx.FullPath()),
			zap.String("request_id", GetRequestID(ctx)),
		)
		msg = "Internal server error"
	}

	ctx.AbortWithStatusJSON(status, types.ErrorResponse{Error: msg, Code: code})
}

// RespondBindError reports a request body that could not be decoded.
func RespondBindError(ctx *gin.Context, log *zap.Logger, err error) {
	log.Debug("Failed to bind JSON", zap.Error(err))
	ctx.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{
		Error: "Invalid request",
		Code:  authz.EInvalid,
	})
}
