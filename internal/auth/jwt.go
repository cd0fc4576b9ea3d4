package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orgnotes/orgnotes/internal/authz"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrInvalidToken = errors.New("Invalid or expired token")

type Claims struct {
	TokenType    TokenType `json:"token_type"`
	UserID       uint      `json:"user_id"`
	Role         string    `json:"role"`
	Organization *string   `json:"organization"`
	jwt.RegisteredClaims
}

// Subject is the user a token is issued for.
type Subject struct {
	UserID uint
	Claims authz.TokenClaims
}

type TokenPair struct {
	Access  string
	Refresh string
}

type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is not set")
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock returns a copy of i that reads the current time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	c := *i
	c.now = now
	return &c
}

func (i *TokenIssuer) IssuePair(sub Subject) (TokenPair, error) {
	access, err := i.sign(sub, AccessToken, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := i.sign(sub, RefreshToken, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *TokenIssuer) IssueAccess(sub Subject) (string, error) {
	return i.sign(sub, AccessToken, i.accessTTL)
}

func (i *TokenIssuer) sign(sub Subject, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()

	claims := Claims{
		TokenType:    typ,
		UserID:       sub.UserID,
		Role:         sub.Claims.Role.String(),
		Organization: sub.Claims.Organization,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(sub.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses tokenString and checks its signature, expiry and type.
func (i *TokenIssuer) Verify(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != want || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
