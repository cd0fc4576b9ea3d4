package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgnotes/orgnotes/internal/authz"
	"github.com/orgnotes/orgnotes/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateNoteInput struct {
	Title   string
	Content string
}

type NoteService interface {
	List(ctx context.Context, caller *authz.Caller) ([]models.Note, error)
	Create(ctx context.Context, caller *authz.Caller, in CreateNoteInput) (*models.Note, error)
	Delete(ctx context.Context, caller *authz.Caller, id uint) error
}

type noteService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewNoteService(db *gorm.DB, log *zap.Logger) NoteService {
	return &noteService{db: db, log: log}
}

func (s *noteService) List(ctx context.Context, caller *authz.Caller) ([]models.Note, error) {
	if err := authz.Authorize(caller, authz.OpListNotes); err != nil {
		return nil, err
	}

	var notes []models.Note
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authz.NoteScope(caller)).
		Order("id").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	return notes, nil
}

// Create stores a note owned by caller. Invalid input is rejected rather than dropped.
func (s *noteService) Create(ctx context.Context, caller *authz.Caller, in CreateNoteInput) (*models.Note, error) {
	op := authz.OpCreateNote.String()

	if err := authz.Authorize(caller, authz.OpCreateNote); err != nil {
		return nil, err
	}

	if err := validateNote(op, in); err != nil {
		s.log.Warn("Rejected note",
			zap.Uint("user_id", caller.UserID),
			zap.String("reason", authz.ErrorMessage(err)),
		)
		return nil, err
	}

	authorID := authz.NoteScope(caller)
	note := models.Note{
		Title:    in.Title,
		Content:  in.Content,
		Author:   caller.Username,
		AuthorID: &authorID,
	}

	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	return &note, nil
}

// Delete removes one of caller's notes. A note owned by someone else is reported as
// not found.
func (s *noteService) Delete(ctx context.Context, caller *authz.Caller, id uint) error {
	op := authz.OpDeleteNote.String()

	if err := authz.Authorize(caller, authz.OpDeleteNote); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authz.NoteScope(caller)).
		Delete(&models.Note{})
	if result.Error != nil {
		return fmt.Errorf("deleting note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return authz.NotFound(op, "No Note matches the given query.")
	}

	return nil
}

func validateNote(op string, in CreateNoteInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return authz.Invalid(op, "Title is required.")
	}
	if !withinLength(in.Title, 200) {
		return authz.Invalid(op, "Title must be at most 200 characters.")
	}
	if strings.TrimSpace(in.Content) == "" {
		return authz.Invalid(op, "Content is required.")
	}
	return nil
}
