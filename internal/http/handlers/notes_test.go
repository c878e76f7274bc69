package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/apperrors"
	"github.com/notehq/notehub/internal/domain/note"
	"github.com/notehq/notehub/internal/http/middlewares"
)

type fakeNoteService struct {
	createFn func(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error)
	getFn    func(ctx context.Context, userID, noteID string) (note.Note, error)
	listFn   func(ctx context.Context, userID string, limit, offset int) ([]note.Note, int, error)
	searchFn func(ctx context.Context, userID, query string, limit, offset int) ([]note.Note, int, error)
	updateFn func(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error)
	deleteFn func(ctx context.Context, userID, noteID string) error
}

func (f *fakeNoteService) CreateNote(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
	return f.createFn(ctx, userID, req)
}

func (f *fakeNoteService) GetNote(ctx context.Context, userID, noteID string) (note.Note, error) {
	return f.getFn(ctx, userID, noteID)
}

func (f *fakeNoteService) ListNotes(ctx context.Context, userID string, limit, offset int) ([]note.Note, int, error) {
	return f.listFn(ctx, userID, limit, offset)
}

func (f *fakeNoteService) SearchNotes(ctx context.Context, userID, query string, limit, offset int) ([]note.Note, int, error) {
	return f.searchFn(ctx, userID, query, limit, offset)
}

func (f *fakeNoteService) UpdateNote(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error) {
	return f.updateFn(ctx, userID, noteID, req)
}

func (f *fakeNoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	return f.deleteFn(ctx, userID, noteID)
}

const testNoteID = "0b79a259-2c9f-4f92-9a6b-2a0a9a1f8a11"

// newNotesRouter injects the identity the auth middleware would have set.
func newNotesRouter(svc NoteService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewNotesHandler(svc)

	r := gin.New()

	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middlewares.CtxUserID, userID)
		}
		c.Next()
	})

	r.POST("/notes", h.CreateNote)
	r.GET("/notes", h.ListNotes)
	r.GET("/notes/search", h.SearchNotes)
	r.GET("/notes/:id", h.GetNote)
	r.PUT("/notes/:id", h.UpdateNote)
	r.DELETE("/notes/:id", h.DeleteNote)

	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	req := httptest.NewRequest(method, path, strings.NewReader(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	r.ServeHTTP(w, req)

	return w
}

func TestCreateNoteHandler(t *testing.T) {
	svc := &fakeNoteService{
		createFn: func(_ context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
			return note.Note{ID: testNoteID, Title: req.Title, Content: req.Content, UserID: userID}, nil
		},
	}

	t.Run("created", func(t *testing.T) {
		w := doRequest(newNotesRouter(svc, "u1"), http.MethodPost, "/notes", `{"title":"groceries","content":"eggs"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("got status %d, body %s", w.Code, w.Body.String())
		}

		var n note.Note

		if err := json.Unmarshal(w.Body.Bytes(), &n); err != nil {
			t.Fatal(err)
		}

		if n.Title != "groceries" || n.UserID != "u1" {
			t.Fatalf("got %+v", n)
		}
	})

	t.Run("missing_title", func(t *testing.T) {
		w := doRequest(newNotesRouter(svc, "u1"), http.MethodPost, "/notes", `{"content":"eggs"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
	})

	t.Run("no_identity", func(t *testing.T) {
		w := doRequest(newNotesRouter(svc, ""), http.MethodPost, "/notes", `{"title":"groceries","content":"eggs"}`)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want 401", w.Code)
		}
	})
}

func TestListNotesHandler(t *testing.T) {
	svc := &fakeNoteService{
		listFn: func(_ context.Context, userID string, limit, offset int) ([]note.Note, int, error) {
			if limit != 5 || offset != 5 {
				t.Fatalf("pagination not forwarded: limit=%d offset=%d", limit, offset)
			}

			return []note.Note{{ID: testNoteID, UserID: userID}}, 12, nil
		},
	}

	w := doRequest(newNotesRouter(svc, "u1"), http.MethodGet, "/notes?page=2&limit=5", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", w.Code, w.Body.String())
	}

	var payload struct {
		Data       []note.Note `json:"data"`
		Pagination PageMeta    `json:"pagination"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}

	if len(payload.Data) != 1 {
		t.Fatalf("got %d notes", len(payload.Data))
	}

	p := payload.Pagination

	if p.TotalItems != 12 || p.TotalPages != 3 || p.CurrentPage != 2 || !p.HasNext || !p.HasPrevious {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestSearchNotesHandler(t *testing.T) {
	svc := &fakeNoteService{
		searchFn: func(_ context.Context, userID, query string, _, _ int) ([]note.Note, int, error) {
			if query != "eggs" {
				t.Fatalf("got query %q", query)
			}

			return []note.Note{{ID: testNoteID, UserID: userID}}, 1, nil
		},
	}

	w := doRequest(newNotesRouter(svc, "u1"), http.MethodGet, "/notes/search?q=eggs", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", w.Code, w.Body.String())
	}

	var payload struct {
		Query string `json:"query"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}

	if payload.Query != "eggs" {
		t.Fatalf("query echo missing: %s", w.Body.String())
	}
}

func TestGetNoteHandler(t *testing.T) {
	svc := &fakeNoteService{
		getFn: func(_ context.Context, userID, noteID string) (note.Note, error) {
			if userID != "u1" {
				return note.Note{}, apperrors.New(apperrors.KindAuthorization, "you do not have permission to access this note")
			}

			return note.Note{ID: noteID, Title: "groceries", UserID: userID}, nil
		},
	}

	t.Run("ok_with_etag", func(t *testing.T) {
		w := doRequest(newNotesRouter(svc, "u1"), http.MethodGet, "/notes/"+testNoteID, "")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body %s", w.Code, w.Body.String())
		}

		if w.Header().Get("ETag") == "" {
			t.Fatal("expected an ETag header")
		}
	})

	t.Run("malformed_id", func(t *testing.T) {
		w := doRequest(newNotesRouter(svc, "u1"), http.MethodGet, "/notes/not-a-uuid", "")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
	})

	t.Run("forbidden", func(t *testing.T) {
		w := doRequest(newNotesRouter(svc, "u2"), http.MethodGet, "/notes/"+testNoteID, "")

		if w.Code != http.StatusForbidden {
			t.Fatalf("got status %d, want 403", w.Code)
		}
	})
}

func TestUpdateNoteHandler(t *testing.T) {
	svc := &fakeNoteService{
		updateFn: func(_ context.Context, _, noteID string, req note.UpdateNoteRequest) (note.Note, error) {
			n := note.Note{ID: noteID, Title: "groceries", UserID: "u1"}

			if req.Title != nil {
				n.Title = *req.Title
			}

			return n, nil
		},
	}

	w := doRequest(newNotesRouter(svc, "u1"), http.MethodPut, "/notes/"+testNoteID, `{"title":"chores"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", w.Code, w.Body.String())
	}

	var n note.Note

	if err := json.Unmarshal(w.Body.Bytes(), &n); err != nil {
		t.Fatal(err)
	}

	if n.Title != "chores" {
		t.Fatalf("got %+v", n)
	}
}

func TestDeleteNoteHandler(t *testing.T) {
	t.Run("no_content", func(t *testing.T) {
		svc := &fakeNoteService{
			deleteFn: func(_ context.Context, _, _ string) error { return nil },
		}

		w := doRequest(newNotesRouter(svc, "u1"), http.MethodDelete, "/notes/"+testNoteID, "")

		if w.Code != http.StatusNoContent {
			t.Fatalf("got status %d, want 204", w.Code)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc := &fakeNoteService{
			deleteFn: func(_ context.Context, _, _ string) error {
				return apperrors.New(apperrors.KindNotFound, "note not found")
			},
		}

		w := doRequest(newNotesRouter(svc, "u1"), http.MethodDelete, "/notes/"+testNoteID, "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}
	})
}
