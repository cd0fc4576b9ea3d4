package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/orgnotes/orgnotes/db"
	"github.com/orgnotes/orgnotes/internal/auth"
	"github.com/orgnotes/orgnotes/internal/authz"
	"github.com/orgnotes/orgnotes/internal/models"
	"github.com/orgnotes/orgnotes/internal/services"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
	svc    *services.ServiceManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zaptest.NewLogger(t)

	database, err := db.ConnectDatabase("sqlite", "file::memory:", log)
	require.NoError(t, err)
	require.NoError(t, db.MigrateDatabase(database))

	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	tokens, err := auth.NewTokenIssuer("test-secret", 5*time.Minute, time.Hour)
	require.NoError(t, err)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	return &fixture{
		db:     database,
		tokens: tokens,
		svc:    services.NewServiceManager(database, tokens, hasher, log),
	}
}

// register creates an organization with its admin and returns the admin as a caller.
func (f *fixture) register(t *testing.T, username, org string) *authz.Caller {
	t.Helper()

	session, err := f.svc.AuthService.Register(context.Background(), services.RegisterInput{
		Username:         username,
		Email:            username + "@example.com",
		Password:         "password-" + username,
		OrganizationName: org,
	})
	require.NoError(t, err)

	return session.User.Caller()
}

// member creates a user in admin's organization and returns it as a caller.
func (f *fixture) member(t *testing.T, admin *authz.Caller, username string, role authz.Role) *authz.Caller {
	t.Helper()

	user, err := f.svc.UserService.CreateOrgUser(context.Background(), admin, services.CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password-" + username,
		Role:     role.String(),
	})
	require.NoError(t, err)

	return user.Caller()
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()

	var u models.User
	err := f.db.Where("username = ?", username).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	require.NoError(t, err)
	return &u
}
