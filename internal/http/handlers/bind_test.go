package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/domain/note"
)

type bindErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			JSON   string       `json:"json"`
			Field  string       `json:"field"`
			Fields []FieldError `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func bindNote(body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/notes", func(ctx *gin.Context) {
		var req note.CreateNoteRequest

		if !BindJSON(ctx, &req) {
			return
		}

		ctx.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestBindJSON_ValidationErrorsUseJSONFieldNames(t *testing.T) {
	longTitle := strings.Repeat("a", 300)

	w := bindNote(`{"title":"` + longTitle + `"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if resp.Error.Code != "invalid_request" {
		t.Fatalf("unexpected code: %s", resp.Error.Code)
	}

	wantRules := map[string]string{
		"title":   "max",
		"content": "required",
	}

	found := map[string]FieldError{}

	for _, fieldErr := range resp.Error.Details.Fields {
		found[fieldErr.Field] = fieldErr
	}

	for field, rule := range wantRules {
		fieldErr, ok := found[field]

		if !ok {
			t.Fatalf("missing field error for %q: %+v", field, resp.Error.Details.Fields)
		}

		if fieldErr.Rule != rule {
			t.Fatalf("field %q rule mismatch: got %q want %q", field, fieldErr.Rule, rule)
		}

		if fieldErr.Message == "" {
			t.Fatalf("field %q should include a non-empty message", field)
		}
	}
}

func TestBindJSON_SyntaxError(t *testing.T) {
	w := bindNote(`{"title": `)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var resp bindErrorResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Error.Details.JSON != "invalid_json_syntax" {
		t.Fatalf("unexpected details: %s", w.Body.String())
	}
}

func TestBindJSON_TypeMismatch(t *testing.T) {
	w := bindNote(`{"title": 7, "content": "eggs"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var resp bindErrorResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Error.Details.JSON != "invalid_json_type" || resp.Error.Details.Field != "title" {
		t.Fatalf("unexpected details: %s", w.Body.String())
	}
}
