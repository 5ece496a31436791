package question

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type mockQuestionService struct {
	createQuestionFn       func(ctx context.Context, in QuestionInput) (*Question, error)
	getQuestionFn          func(ctx context.Context, id int64) (*Question, error)
	listQuestionsFn        func(ctx context.Context) ([]Question, error)
	updateQuestionFn       func(ctx context.Context, id int64, in QuestionInput) (*Question, error)
	deleteQuestionFn       func(ctx context.Context, id int64) error
	importQuestionsFn      func(ctx context.Context, docs []ImportDoc) (int, error)
	exportQuestionsExcelFn func(ctx context.Context) ([]byte, error)
}

func (m *mockQuestionService) CreateQuestion(ctx context.Context, in QuestionInput) (*Question, error) {
	if m.createQuestionFn != nil {
		return m.createQuestionFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockQuestionService) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	if m.getQuestionFn != nil {
		return m.getQuestionFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockQuestionService) ListQuestions(ctx context.Context) ([]Question, error) {
	if m.listQuestionsFn != nil {
		return m.listQuestionsFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockQuestionService) UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (*Question, error) {
	if m.updateQuestionFn != nil {
		return m.updateQuestionFn(ctx, id, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockQuestionService) DeleteQuestion(ctx context.Context, id int64) error {
	if m.deleteQuestionFn != nil {
		return m.deleteQuestionFn(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockQuestionService) ImportQuestions(ctx context.Context, docs []ImportDoc) (int, error) {
	if m.importQuestionsFn != nil {
		return m.importQuestionsFn(ctx, docs)
	}
	return 0, errors.New("not implemented")
}

func (m *mockQuestionService) ExportQuestionsExcel(ctx context.Context) ([]byte, error) {
	if m.exportQuestionsExcelFn != nil {
		return m.exportQuestionsExcelFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/questions", h.List)
	r.Post("/questions", h.Create)
	r.Post("/questions/import", h.Import)
	r.Get("/questions/export.xlsx", h.ExportExcel)
	r.Get("/questions/{id}", h.Get)
	r.Put("/questions/{id}", h.Update)
	r.Delete("/questions/{id}", h.Delete)
	return r
}

func TestListSortsByQuery(t *testing.T) {
	t1, _ := time.Parse(time.RFC3339, "2024-12-01T00:00:00Z")
	t2, _ := time.Parse(time.RFC3339, "2024-12-02T00:00:00Z")
	svc := &mockQuestionService{
		listQuestionsFn: func(ctx context.Context) ([]Question, error) {
			return []Question{
				{ID: 1, Statement: "Banana", CreatedAt: t2},
				{ID: 2, Statement: "apple", CreatedAt: t1},
			}, nil
		},
	}
	r := newRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/questions?sort=statement&dir=asc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var env struct {
		Data []Question `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 2 || env.Data[0].Statement != "apple" {
		t.Fatalf("sort not applied: %+v", env.Data)
	}
}

func TestCreateValidationError(t *testing.T) {
	svc := &mockQuestionService{
		createQuestionFn: func(ctx context.Context, in QuestionInput) (*Question, error) {
			return nil, normalizeErr(in)
		},
	}
	r := newRouter(NewHandler(svc))

	body := `{"statement":"","category":"discursive"}`
	req := httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "statement is required") {
		t.Fatalf("validation message missing: %s", rec.Body.String())
	}
}

func normalizeErr(in QuestionInput) error {
	_, err := normalizeInput(in)
	return err
}

func TestGetNotFound(t *testing.T) {
	svc := &mockQuestionService{
		getQuestionFn: func(ctx context.Context, id int64) (*Question, error) {
			return nil, ErrQuestionNotFound
		},
	}
	r := newRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/questions/99", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestImportRejectsBeforeStore(t *testing.T) {
	called := false
	svc := &mockQuestionService{
		importQuestionsFn: func(ctx context.Context, docs []ImportDoc) (int, error) {
			called = true
			return len(docs), nil
		},
	}
	r := newRouter(NewHandler(svc))

	for _, payload := range []string{`{}`, `[]`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/questions/import", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: status = %d, want 400", payload, rec.Code)
		}
	}
	if called {
		t.Fatalf("malformed payloads must not reach the store")
	}
}

func TestImportReportsInsertedCount(t *testing.T) {
	svc := &mockQuestionService{
		importQuestionsFn: func(ctx context.Context, docs []ImportDoc) (int, error) {
			return len(docs), nil
		},
	}
	r := newRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodPost, "/questions/import", strings.NewReader(`[{"statement":"Q1"},{"statement":"Q2"}]`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var env struct {
		Data map[string]int `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data["inserted"] != 2 {
		t.Fatalf("inserted = %d, want 2", env.Data["inserted"])
	}
}

func TestExportExcelHeaders(t *testing.T) {
	svc := &mockQuestionService{
		exportQuestionsExcelFn: func(ctx context.Context) ([]byte, error) {
			return []byte("xlsx-bytes"), nil
		},
	}
	r := newRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/questions/export.xlsx", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "questions.xlsx") {
		t.Fatalf("content-disposition = %q", got)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := &mockQuestionService{
		deleteQuestionFn: func(ctx context.Context, id int64) error {
			return ErrQuestionNotFound
		},
	}
	r := newRouter(NewHandler(svc))

	req := httptest.NewRequest(http.MethodDelete, "/questions/5", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
