package handlers

import (
	"github.com/orgnotes/orgnotes/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HandlerManager struct {
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	NoteHandler   *NoteHandler
	HealthHandler *HealthHandler
}

func NewHandlerManager(sm *services.ServiceManager, database *gorm.DB, log *zap.Logger) *HandlerManager {
	return &HandlerManager{
		AuthHandler:   NewAuthHandler(sm.AuthService, log.Named("auth")),
		UserHandler:   NewUserHandler(sm.UserService, log.Named("users")),
		NoteHandler:   NewNoteHandler(sm.NoteService, log.Named("notes")),
		HealthHandler: NewHealthHandler(database, log.Named("health")),
	}
}
