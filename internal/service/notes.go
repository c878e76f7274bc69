package service

import (
	"context"
	"strings"

	"github.com/notehq/notehub/internal/apperrors"
	"github.com/notehq/notehub/internal/domain/note"
)

type NoteStore interface {
	Create(ctx context.Context, userID, title, content string) (note.Note, error)
	FindByID(ctx context.Context, id string) (note.Note, error)
	FindByOwner(ctx context.Context, userID string, limit, offset int) ([]note.Note, error)
	SearchByOwner(ctx context.Context, userID, query string, limit, offset int) ([]note.Note, error)
	CountByOwner(ctx context.Context, userID string) (int, error)
	CountSearchByOwner(ctx context.Context, userID, query string) (int, error)
	Update(ctx context.Context, id string, title, content *string) (note.Note, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	OwnerOf(ctx context.Context, id string) (string, error)
}

type NoteService struct {
	notes NoteStore
}

func NewNoteService(notes NoteStore) *NoteService {
	return &NoteService{notes: notes}
}

func (s *NoteService) CreateNote(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
	if userID == "" {
		return note.Note{}, apperrors.New(apperrors.KindValidation, "user id is required")
	}

	return s.notes.Create(ctx, userID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Content))
}

func (s *NoteService) GetNote(ctx context.Context, userID, noteID string) (note.Note, error) {
	if userID == "" || noteID == "" {
		return note.Note{}, apperrors.New(apperrors.KindValidation, "user id and note id are required")
	}

	if err := s.assertOwnership(ctx, userID, noteID); err != nil {
		return note.Note{}, err
	}

	return s.notes.FindByID(ctx, noteID)
}

func (s *NoteService) ListNotes(ctx context.Context, userID string, limit, offset int) ([]note.Note, int, error) {
	if userID == "" {
		return nil, 0, apperrors.New(apperrors.KindValidation, "user id is required")
	}

	total, err := s.notes.CountByOwner(ctx, userID)

	if err != nil {
		return nil, 0, err
	}

	notes, err := s.notes.FindByOwner(ctx, userID, limit, offset)

	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

func (s *NoteService) SearchNotes(ctx context.Context, userID, query string, limit, offset int) ([]note.Note, int, error) {
	if userID == "" {
		return nil, 0, apperrors.New(apperrors.KindValidation, "user id is required")
	}

	query = strings.TrimSpace(query)

	if query == "" {
		return nil, 0, apperrors.New(apperrors.KindValidation, "search query is required")
	}

	total, err := s.notes.CountSearchByOwner(ctx, userID, query)

	if err != nil {
		return nil, 0, err
	}

	notes, err := s.notes.SearchByOwner(ctx, userID, query, limit, offset)

	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error) {
	if userID == "" || noteID == "" {
		return note.Note{}, apperrors.New(apperrors.KindValidation, "user id and note id are required")
	}

	if req.Title == nil && req.Content == nil {
		return note.Note{}, apperrors.New(apperrors.KindValidation, "no valid fields to update")
	}

	if err := s.assertOwnership(ctx, userID, noteID); err != nil {
		return note.Note{}, err
	}

	title := trimmed(req.Title)
	content := trimmed(req.Content)

	return s.notes.Update(ctx, noteID, title, content)
}

func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	if userID == "" || noteID == "" {
		return apperrors.New(apperrors.KindValidation, "user id and note id are required")
	}

	if err := s.assertOwnership(ctx, userID, noteID); err != nil {
		return err
	}

	return s.notes.Delete(ctx, noteID)
}

// assertOwnership checks existence before ownership: probing an unknown id
// yields not-found, an existing id owned by someone else yields forbidden.
// The ids are opaque UUIDs, so the structural difference does not make the id
// space enumerable.
func (s *NoteService) assertOwnership(ctx context.Context, userID, noteID string) error {
	exists, err := s.notes.Exists(ctx, noteID)

	if err != nil {
		return err
	}

	if !exists {
		return apperrors.New(apperrors.KindNotFound, "note not found")
	}

	owner, err := s.notes.OwnerOf(ctx, noteID)

	if err != nil {
		return err
	}

	if owner != userID {
		return apperrors.New(apperrors.KindAuthorization, "you do not have permission to access this note")
	}

	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}

	t := strings.TrimSpace(*s)

	return &t
}
