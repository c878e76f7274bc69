package service

import (
	"context"
	"testing"

	"github.com/notehq/notehub/internal/apperrors"
	"github.com/notehq/notehub/internal/domain/note"
)

type fakeNoteStore struct {
	createFn             func(ctx context.Context, userID, title, content string) (note.Note, error)
	findByIDFn           func(ctx context.Context, id string) (note.Note, error)
	findByOwnerFn        func(ctx context.Context, userID string, limit, offset int) ([]note.Note, error)
	searchByOwnerFn      func(ctx context.Context, userID, query string, limit, offset int) ([]note.Note, error)
	countByOwnerFn       func(ctx context.Context, userID string) (int, error)
	countSearchByOwnerFn func(ctx context.Context, userID, query string) (int, error)
	updateFn             func(ctx context.Context, id string, title, content *string) (note.Note, error)
	deleteFn             func(ctx context.Context, id string) error
	existsFn             func(ctx context.Context, id string) (bool, error)
	ownerOfFn            func(ctx context.Context, id string) (string, error)
}

func (f *fakeNoteStore) Create(ctx context.Context, userID, title, content string) (note.Note, error) {
	return f.createFn(ctx, userID, title, content)
}

func (f *fakeNoteStore) FindByID(ctx context.Context, id string) (note.Note, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeNoteStore) FindByOwner(ctx context.Context, userID string, limit, offset int) ([]note.Note, error) {
	return f.findByOwnerFn(ctx, userID, limit, offset)
}

func (f *fakeNoteStore) SearchByOwner(ctx context.Context, userID, query string, limit, offset int) ([]note.Note, error) {
	return f.searchByOwnerFn(ctx, userID, query, limit, offset)
}

func (f *fakeNoteStore) CountByOwner(ctx context.Context, userID string) (int, error) {
	return f.countByOwnerFn(ctx, userID)
}

func (f *fakeNoteStore) CountSearchByOwner(ctx context.Context, userID, query string) (int, error) {
	return f.countSearchByOwnerFn(ctx, userID, query)
}

func (f *fakeNoteStore) Update(ctx context.Context, id string, title, content *string) (note.Note, error) {
	return f.updateFn(ctx, id, title, content)
}

func (f *fakeNoteStore) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeNoteStore) Exists(ctx context.Context, id string) (bool, error) {
	return f.existsFn(ctx, id)
}

func (f *fakeNoteStore) OwnerOf(ctx context.Context, id string) (string, error) {
	return f.ownerOfFn(ctx, id)
}

// ownedStore fakes a store holding a single note n1 owned by u1.
func ownedStore() *fakeNoteStore {
	return &fakeNoteStore{
		existsFn: func(_ context.Context, id string) (bool, error) {
			return id == "n1", nil
		},
		ownerOfFn: func(_ context.Context, _ string) (string, error) {
			return "u1", nil
		},
		findByIDFn: func(_ context.Context, id string) (note.Note, error) {
			return note.Note{ID: id, Title: "groceries", UserID: "u1"}, nil
		},
		updateFn: func(_ context.Context, id string, title, content *string) (note.Note, error) {
			n := note.Note{ID: id, Title: "groceries", Content: "eggs", UserID: "u1"}

			if title != nil {
				n.Title = *title
			}

			if content != nil {
				n.Content = *content
			}

			return n, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

func TestCreateNote_TrimsFields(t *testing.T) {
	store := &fakeNoteStore{
		createFn: func(_ context.Context, userID, title, content string) (note.Note, error) {
			return note.Note{ID: "n1", Title: title, Content: content, UserID: userID}, nil
		},
	}

	svc := NewNoteService(store)

	n, err := svc.CreateNote(context.Background(), "u1", note.CreateNoteRequest{
		Title:   "  groceries  ",
		Content: " eggs, milk ",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n.Title != "groceries" || n.Content != "eggs, milk" {
		t.Fatalf("fields not trimmed: %+v", n)
	}
}

func TestGetNote_Ownership(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		noteID string
		want   apperrors.Kind
	}{
		{name: "unknown_note", userID: "u1", noteID: "missing", want: apperrors.KindNotFound},
		{name: "someone_elses_note", userID: "u2", noteID: "n1", want: apperrors.KindAuthorization},
	}

	svc := NewNoteService(ownedStore())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetNote(context.Background(), tt.userID, tt.noteID)

			if got := apperrors.KindOf(err); got != tt.want {
				t.Fatalf("got kind %q (err %v), want %q", got, err, tt.want)
			}
		})
	}

	t.Run("owner", func(t *testing.T) {
		n, err := svc.GetNote(context.Background(), "u1", "n1")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n.ID != "n1" {
			t.Fatalf("got %+v", n)
		}
	})
}

func TestUpdateNote(t *testing.T) {
	svc := NewNoteService(ownedStore())

	t.Run("no_fields", func(t *testing.T) {
		_, err := svc.UpdateNote(context.Background(), "u1", "n1", note.UpdateNoteRequest{})

		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Fatalf("got %v, want validation error", err)
		}
	})

	t.Run("partial_update", func(t *testing.T) {
		title := "  chores  "

		n, err := svc.UpdateNote(context.Background(), "u1", "n1", note.UpdateNoteRequest{Title: &title})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n.Title != "chores" {
			t.Fatalf("title not applied: %+v", n)
		}

		if n.Content != "eggs" {
			t.Fatalf("content should be untouched: %+v", n)
		}
	})

	t.Run("not_owner", func(t *testing.T) {
		title := "chores"

		_, err := svc.UpdateNote(context.Background(), "u2", "n1", note.UpdateNoteRequest{Title: &title})

		if !apperrors.IsKind(err, apperrors.KindAuthorization) {
			t.Fatalf("got %v, want forbidden", err)
		}
	})
}

func TestDeleteNote(t *testing.T) {
	svc := NewNoteService(ownedStore())

	if err := svc.DeleteNote(context.Background(), "u1", "n1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteNote(context.Background(), "u1", "missing"); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestListNotes_ReturnsTotal(t *testing.T) {
	store := &fakeNoteStore{
		countByOwnerFn: func(_ context.Context, _ string) (int, error) { return 42, nil },
		findByOwnerFn: func(_ context.Context, userID string, limit, offset int) ([]note.Note, error) {
			if limit != 10 || offset != 20 {
				t.Fatalf("pagination not forwarded: limit=%d offset=%d", limit, offset)
			}

			return []note.Note{{ID: "n1", UserID: userID}}, nil
		},
	}

	svc := NewNoteService(store)

	notes, total, err := svc.ListNotes(context.Background(), "u1", 10, 20)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if total != 42 || len(notes) != 1 {
		t.Fatalf("got total=%d notes=%d", total, len(notes))
	}
}

func TestSearchNotes_RequiresQuery(t *testing.T) {
	svc := NewNoteService(&fakeNoteStore{})

	for _, q := range []string{"", "   "} {
		_, _, err := svc.SearchNotes(context.Background(), "u1", q, 10, 0)

		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Fatalf("query %q: got %v, want validation error", q, err)
		}
	}
}
