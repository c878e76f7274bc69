package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/notehq/notehub/internal/config"
	"github.com/notehq/notehub/internal/domain/note"
	"github.com/notehq/notehub/internal/http/middlewares"
)

type NoteService interface {
	CreateNote(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error)
	GetNote(ctx context.Context, userID, noteID string) (note.Note, error)
	ListNotes(ctx context.Context, userID string, limit, offset int) ([]note.Note, int, error)
	SearchNotes(ctx context.Context, userID, query string, limit, offset int) ([]note.Note, int, error)
	UpdateNote(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error)
	DeleteNote(ctx context.Context, userID, noteID string) error
}

type NotesHandler struct {
	svc NoteService
}

func NewNotesHandler(svc NoteService) *NotesHandler {
	return &NotesHandler{svc: svc}
}

func (h *NotesHandler) CreateNote(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req note.CreateNoteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	n, err := h.svc.CreateNote(cctx, userID, req)

	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, n)
}

func (h *NotesHandler) ListNotes(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	params := PageParamsFrom(ctx)

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	notes, total, err := h.svc.ListNotes(cctx, userID, params.Limit, params.Offset())

	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       notes,
		"pagination": NewPageMeta(total, params),
	})
}

func (h *NotesHandler) SearchNotes(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	query := ctx.Query("q")

	params := PageParamsFrom(ctx)

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	notes, total, err := h.svc.SearchNotes(cctx, userID, query, params.Limit, params.Offset())

	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       notes,
		"query":      query,
		"pagination": NewPageMeta(total, params),
	})
}

func (h *NotesHandler) GetNote(ctx *gin.Context) {
	userID, noteID, ok := h.identityAndNoteID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	n, err := h.svc.GetNote(cctx, userID, noteID)

	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, n)
}

func (h *NotesHandler) UpdateNote(ctx *gin.Context) {
	userID, noteID, ok := h.identityAndNoteID(ctx)

	if !ok {
		return
	}

	var req note.UpdateNoteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	n, err := h.svc.UpdateNote(cctx, userID, noteID, req)

	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, n)
}

func (h *NotesHandler) DeleteNote(ctx *gin.Context) {
	userID, noteID, ok := h.identityAndNoteID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if err := h.svc.DeleteNote(cctx, userID, noteID); err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// identityAndNoteID pulls the authenticated user off the context and checks
// the path id is a well-formed UUID before any repo call.
func (h *NotesHandler) identityAndNoteID(ctx *gin.Context) (string, string, bool) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return "", "", false
	}

	noteID := ctx.Param("id")

	if uuid.Validate(noteID) != nil {
		RespondBadRequest(ctx, "note id must be a valid UUID", nil)
		return "", "", false
	}

	return userID, noteID, true
}
