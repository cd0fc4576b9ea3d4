package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/orgnotes/orgnotes/internal/authz"
	"github.com/orgnotes/orgnotes/internal/models"
	"gorm.io/gorm"
)

var (
	validate = validator.New()

	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

// withinLength reports whether s has at most limit characters.
func withinLength(s string, limit int) bool {
	return validate.Var(s, fmt.Sprintf("max=%d", limit)) == nil
}

func validateUsername(op, username string) error {
	if username == "" {
		return authz.Invalid(op, "Username is required.")
	}
	if !withinLength(username, 150) {
		return authz.Invalid(op, "Username must be at most 150 characters.")
	}
	if !usernamePattern.MatchString(username) {
		return authz.Invalid(op, "Username may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	return nil
}

func validatePassword(op, password string) error {
	if password == "" {
		return authz.Invalid(op, "Password is required.")
	}
	return nil
}

func validateEmail(op, email string) error {
	if email == "" {
		return nil
	}
	if !withinLength(email, 254) {
		return authz.Invalid(op, "Email must be at most 254 characters.")
	}
	if err := validate.Var(email, "email"); err != nil {
		return authz.Invalid(op, "Enter a valid email address.")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func usernameTaken(op string) error {
	return authz.Invalid(op, "A user with that username already exists.")
}

// ensureUsernameFree fails when another user than exceptID holds username.
func ensureUsernameFree(tx *gorm.DB, op, username string, exceptID uint) error {
	var existing models.User
	err := tx.Where("username = ? AND id <> ?", username, exceptID).First(&existing).Error
	if err == nil {
		return usernameTaken(op)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("checking username: %w", err)
	}
	return nil
}
