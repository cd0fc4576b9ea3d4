package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/internal/services"
	"github.com/orgnotes/orgnotes/internal/types"
	"github.com/orgnotes/orgnotes/internal/utils"
	"go.uber.org/zap"
)

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// UpdateUserRequest accepts a partial body on both PUT and PATCH.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type UserHandler struct {
	userService services.UserService
	log         *zap.Logger
}

func NewUserHandler(userService services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) CreateOrgUser(ctx *gin.Context) {
	caller, err := utils.GetCurrentCaller(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.RespondBindError(ctx, h.log, err)
		return
	}

	user, err := h.userService.CreateOrgUser(ctx.Request.Context(), caller, services.CreateUserInput{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.CreatedUserResponse{
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role.String(),
		Organization: user.OrganizationName(),
	})
}

func (h *UserHandler) ListOrgUsers(ctx *gin.Context) {
	caller, err := utils.GetCurrentCaller(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	users, err := h.userService.ListOrgUsers(ctx.Request.Context(), caller)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	response := make([]types.OrgUserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, types.NewOrgUserResponse(u))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *UserHandler) UpdateOrgUser(ctx *gin.Context) {
	caller, err := utils.GetCurrentCaller(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	username, err := utils.GetUsername(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	var body UpdateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.RespondBindError(ctx, h.log, err)
		return
	}

	user, err := h.userService.UpdateOrgUser(ctx.Request.Context(), caller, username, services.UpdateUserInput{
		Username: body.Username,
		Email:    body.Email,
	})

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.UpdatedUserResponse{
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *UserHandler) DeleteOrgUser(ctx *gin.Context) {
	caller, err := utils.GetCurrentCaller(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	username, err := utils.GetUsername(ctx)
	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	if err := h.userService.DeleteOrgUser(ctx.Request.Context(), caller, username); err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
