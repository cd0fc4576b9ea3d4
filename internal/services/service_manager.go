package services

import (
	"github.com/orgnotes/orgnotes/internal/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceManager struct {
	AuthService AuthService
	UserService UserService
	NoteService NoteService
}

func NewServiceManager(db *gorm.DB, tokens *auth.TokenIssuer, hasher *auth.PasswordHasher, log *zap.Logger) *ServiceManager {
	return &ServiceManager{
		AuthService: NewAuthService(db, tokens, hasher, log.Named("auth")),
		UserService: NewUserService(db, hasher, log.Named("users")),
		NoteService: NewNoteService(db, log.Named("notes")),
	}
}
