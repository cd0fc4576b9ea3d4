package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/orgnotes/orgnotes/internal/auth"
	"github.com/orgnotes/orgnotes/internal/authz"
	"github.com/orgnotes/orgnotes/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput holds the mutable profile fields. Nil fields are left unchanged.
type UpdateUserInput struct {
	Username *string
	Email    *string
}

type UserService interface {
	CreateOrgUser(ctx context.Context, caller *authz.Caller, in CreateUserInput) (*models.User, error)
	ListOrgUsers(ctx context.Context, caller *authz.Caller) ([]models.User, error)
	UpdateOrgUser(ctx context.Context, caller *authz.Caller, username string, in UpdateUserInput) (*models.User, error)
	DeleteOrgUser(ctx context.Context, caller *authz.Caller, username string) error
}

type userService struct {
	db     *gorm.DB
	hasher *auth.PasswordHasher
	log    *zap.Logger
}

func NewUserService(db *gorm.DB, hasher *auth.PasswordHasher, log *zap.Logger) UserService {
	return &userService{db: db, hasher: hasher, log: log}
}

// CreateOrgUser creates a non-admin user in the caller's organization.
func (s *userService) CreateOrgUser(ctx context.Context, caller *authz.Caller, in CreateUserInput) (*models.User, error) {
	op := authz.OpCreateOrgUser.String()

	if err := authz.Authorize(caller, authz.OpCreateOrgUser); err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	if err := validateUsername(op, in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(op, in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(op, in.Password); err != nil {
		return nil, err
	}

	role, err := authz.MemberRole(in.Role)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   passwordHash,
		Role:           role,
		OrganizationID: caller.OrganizationID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUsernameFree(tx, op, user.Username, 0); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return usernameTaken(op)
			}
			return fmt.Errorf("creating user: %w", err)
		}
		return tx.Preload("Organization").First(&user, user.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Created organization user",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()),
		zap.Uint("created_by", caller.UserID),
	)

	return &user, nil
}

// ListOrgUsers returns the users of the caller's organization, the caller included.
func (s *userService) ListOrgUsers(ctx context.Context, caller *authz.Caller) ([]models.User, error) {
	if err := authz.Authorize(caller, authz.OpListOrgUsers); err != nil {
		return nil, err
	}

	orgID, ok := authz.OrgUserScope(caller)
	if !ok {
		return []models.User{}, nil
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Organization").
		Where("organization_id = ?", orgID).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("listing organization users: %w", err)
	}

	return users, nil
}

// UpdateOrgUser changes the username and/or email of another member of the caller's
// organization.
func (s *userService) UpdateOrgUser(ctx context.Context, caller *authz.Caller, username string, in UpdateUserInput) (*models.User, error) {
	op := authz.OpUpdateOrgUser.String()

	if err := authz.Authorize(caller, authz.OpUpdateOrgUser); err != nil {
		return nil, err
	}

	var target *models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		target, err = findByUsername(tx, username)
		if err != nil {
			return err
		}

		if err := authz.AuthorizeTarget(caller, authz.OpUpdateOrgUser, targetOf(target)); err != nil {
			return err
		}

		updates, err := updatesFor(op, in)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		if newUsername, ok := updates["username"].(string); ok && newUsername != target.Username {
			if err := ensureUsernameFree(tx, op, newUsername, target.ID); err != nil {
				return err
			}
		}

		if err := tx.Model(target).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return usernameTaken(op)
			}
			return fmt.Errorf("updating user: %w", err)
		}

		return tx.Preload("Organization").First(target, target.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Updated organization user",
		zap.Uint("user_id", target.ID),
		zap.String("username", target.Username),
		zap.Uint("updated_by", caller.UserID),
	)

	return target, nil
}

// DeleteOrgUser removes another member of the caller's organization. The user's notes
// stay stored with no owner.
func (s *userService) DeleteOrgUser(ctx context.Context, caller *authz.Caller, username string) error {
	if err := authz.Authorize(caller, authz.OpDeleteOrgUser); err != nil {
		return err
	}

	var target *models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		target, err = findByUsername(tx, username)
		if err != nil {
			return err
		}

		if err := authz.AuthorizeTarget(caller, authz.OpDeleteOrgUser, targetOf(target)); err != nil {
			return err
		}

		// Not every driver honours ON DELETE SET NULL, so orphan the notes explicitly.
		if err := tx.Model(&models.Note{}).Where("author_id = ?", target.ID).Update("author_id", nil).Error; err != nil {
			return fmt.Errorf("orphaning notes: %w", err)
		}

		if err := tx.Delete(&models.User{}, target.ID).Error; err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Deleted organization user",
		zap.Uint("user_id", target.ID),
		zap.String("username", target.Username),
		zap.Uint("deleted_by", caller.UserID),
	)

	return nil
}

// updatesFor validates in and returns the columns to change. It runs only after the
// target has been authorized.
func updatesFor(op string, in UpdateUserInput) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if in.Username != nil {
		newUsername := strings.TrimSpace(*in.Username)
		if err := validateUsername(op, newUsername); err != nil {
			return nil, err
		}
		updates["username"] = newUsername
	}

	if in.Email != nil {
		newEmail := normalizeEmail(*in.Email)
		if err := validateEmail(op, newEmail); err != nil {
			return nil, err
		}
		updates["email"] = newEmail
	}

	return updates, nil
}

func findByUsername(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	err := tx.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &user, nil
}

func targetOf(user *models.User) *authz.Target {
	if user == nil {
		return nil
	}
	return &authz.Target{
		UserID:         user.ID,
		Username:       user.Username,
		OrganizationID: user.OrganizationID,
	}
}
