package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/internal/services"
	"github.com/orgnotes/orgnotes/internal/types"
	"github.com/orgnotes/orgnotes/internal/utils"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"omitempty,email"`
	Password         string `json:"password" binding:"required"`
	OrganizationName string `json:"organization_name" binding:"required"`
	Industry         string `json:"industry"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type AuthHandler struct {
	authService services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Register creates an organization together with its first admin and signs the admin in.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.RespondBindError(ctx, h.log, err)
		return
	}

	session, err := h.authService.Register(ctx.Request.Context(), services.RegisterInput{
		Username:         body.Username,
		Email:            body.Email,
		Password:         body.Password,
		OrganizationName: body.OrganizationName,
		Industry:         body.Industry,
	})

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.RegisterResponse{
		Refresh:      session.Tokens.Refresh,
		Access:       session.Tokens.Access,
		Username:     session.User.Username,
		Role:         session.Claims.Role.String(),
		Organization: session.Claims.Organization,
	})
}

func (h *AuthHandler) ObtainToken(ctx *gin.Context) {
	var body TokenRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.RespondBindError(ctx, h.log, err)
		return
	}

	session, err := h.authService.ObtainToken(ctx.Request.Context(), body.Username, body.Password)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.TokenResponse{
		Refresh:      session.Tokens.Refresh,
		Access:       session.Tokens.Access,
		Username:     session.User.Username,
		Email:        session.User.Email,
		Role:         session.Claims.Role.String(),
		Organization: session.Claims.Organization,
	})
}

func (h *AuthHandler) RefreshToken(ctx *gin.Context) {
	var body RefreshRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.RespondBindError(ctx, h.log, err)
		return
	}

	access, err := h.authService.RefreshToken(ctx.Request.Context(), body.Refresh)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.RefreshResponse{Access: access})
}
