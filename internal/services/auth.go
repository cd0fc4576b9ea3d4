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

type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	OrganizationName string
	Industry         string
}

// Session is a user together with a freshly issued token pair.
type Session struct {
	User   *models.User
	Claims authz.TokenClaims
	Tokens auth.TokenPair
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	ObtainToken(ctx context.Context, username, password string) (*Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (*authz.Caller, error)
}

type authService struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
	hasher *auth.PasswordHasher
	log    *zap.Logger
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer, hasher *auth.PasswordHasher, log *zap.Logger) AuthService {
	return &authService{db: db, tokens: tokens, hasher: hasher, log: log}
}

// Register creates an organization and its admin in one transaction. Either both rows
// are committed or neither is.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	const op = "register"

	if err := authz.Authorize(nil, authz.OpRegister); err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	in.OrganizationName = strings.TrimSpace(in.OrganizationName)
	in.Industry = strings.TrimSpace(in.Industry)

	if err := validateUsername(op, in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(op, in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(op, in.Password); err != nil {
		return nil, err
	}
	if in.OrganizationName == "" {
		return nil, authz.Invalid(op, "Organization name is required.")
	}
	if !withinLength(in.OrganizationName, 255) {
		return nil, authz.Invalid(op, "Organization name must be at most 255 characters.")
	}
	if !withinLength(in.Industry, 100) {
		return nil, authz.Invalid(op, "Industry must be at most 100 characters.")
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var user models.User

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Organization
		err := tx.Where("name = ?", in.OrganizationName).First(&existing).Error
		if err == nil {
			return duplicateOrganization(op)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("checking organization name: %w", err)
		}

		if err := ensureUsernameFree(tx, op, in.Username, 0); err != nil {
			return err
		}

		org := models.Organization{
			Name:     in.OrganizationName,
			Industry: in.Industry,
		}
		if err := tx.Create(&org).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateOrganization(op)
			}
			return fmt.Errorf("creating organization: %w", err)
		}

		user = models.User{
			Username:       in.Username,
			Email:          in.Email,
			PasswordHash:   passwordHash,
			Role:           authz.RoleAdmin,
			OrganizationID: &org.ID,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return usernameTaken(op)
			}
			return fmt.Errorf("creating admin user: %w", err)
		}
		user.Organization = &org

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Registered organization",
		zap.String("organization", user.Organization.Name),
		zap.Uint("organization_id", user.Organization.ID),
		zap.String("admin", user.Username),
	)

	return s.session(&user)
}

// ObtainToken checks credentials and issues a token pair carrying the user's role and
// organization.
func (s *authService) ObtainToken(ctx context.Context, username, password string) (*Session, error) {
	const op = "issue_token"

	if err := authz.Authorize(nil, authz.OpIssueToken); err != nil {
		return nil, err
	}

	invalid := authz.Unauthorized(op, "No active account found with the given credentials")

	var user models.User
	err := s.db.WithContext(ctx).Preload("Organization").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("comparing password: %w", err)
	}
	if !ok {
		return nil, invalid
	}

	return s.session(&user)
}

// RefreshToken exchanges a refresh token for a new access token. Claims are derived
// from the stored user, so a deleted user cannot refresh.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	const op = "refresh_token"

	if err := authz.Authorize(nil, authz.OpRefreshToken); err != nil {
		return "", err
	}

	claims, err := s.tokens.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		return "", authz.Unauthorized(op, "Token is invalid or expired")
	}

	user, err := s.lookup(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", authz.Unauthorized(op, "User not found")
	}

	access, err := s.tokens.IssueAccess(auth.Subject{UserID: user.ID, Claims: user.Caller().Claims()})
	if err != nil {
		return "", fmt.Errorf("issuing access token: %w", err)
	}

	return access, nil
}

// Authenticate resolves an access token to the caller it was issued for.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*authz.Caller, error) {
	const op = "authenticate"

	claims, err := s.tokens.Verify(accessToken, auth.AccessToken)
	if err != nil {
		return nil, authz.Unauthorized(op, "Invalid or expired token")
	}

	user, err := s.lookup(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authz.Unauthorized(op, "User not found")
	}

	return user.Caller(), nil
}

func (s *authService) lookup(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Organization").Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &user, nil
}

func (s *authService) session(user *models.User) (*Session, error) {
	claims := user.Caller().Claims()

	tokens, err := s.tokens.IssuePair(auth.Subject{UserID: user.ID, Claims: claims})
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}

	return &Session{User: user, Claims: claims, Tokens: tokens}, nil
}

func duplicateOrganization(op string) error {
	return &authz.Error{
		Code: authz.EDuplicateOrganization,
		Op:   op,
		Msg:  "An organization with this name already exists.",
	}
}
