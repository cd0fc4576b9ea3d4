package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/db"
	"github.com/orgnotes/orgnotes/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHealthHandler(database *gorm.DB, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: database, log: log}
}

func (h *HealthHandler) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := db.Ping(pingCtx, h.db); err != nil {
		h.log.Warn("Database ping failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, types.NewHealthResponse("unavailable", "unreachable", time.Now()))
		return
	}

	ctx.JSON(http.StatusOK, types.NewHealthResponse("ok", "ok", time.Now()))
}
