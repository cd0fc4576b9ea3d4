package types

import (
	"time"

	"github.com/orgnotes/orgnotes/internal/models"
)

type RegisterResponse struct {
	Refresh      string  `json:"refresh"`
	Access       string  `json:"access"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	Organization *string `json:"organization"`
}

type TokenResponse struct {
	Refresh      string  `json:"refresh"`
	Access       string  `json:"access"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	Organization *string `json:"organization"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type CreatedUserResponse struct {
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	Organization *string `json:"organization"`
}

type UpdatedUserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type OrgUserResponse struct {
	ID               uint    `json:"id"`
	Username         string  `json:"username"`
	Role             string  `json:"role"`
	OrganizationName *string `json:"organization_name"`
	Email            string  `json:"email"`
}

type NoteResponse struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func NewOrgUserResponse(u models.User) OrgUserResponse {
	return OrgUserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Role:             u.Role.String(),
		OrganizationName: u.OrganizationName(),
		Email:            u.Email,
	}
}

func NewNoteResponse(n models.Note) NoteResponse {
	return NoteResponse{
		ID:      n.ID,
		Title:   n.Title,
		Content: n.Content,
		Author:  n.Author,
	}
}

func NewHealthResponse(status, database string, now time.Time) HealthResponse {
	return HealthResponse{
		Status:    status,
		Database:  database,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
