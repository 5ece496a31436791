package question

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"examboard/internal/app/apiresp"
	"examboard/internal/listview"
)

const importMaxBytes = 8 << 20

type questionService interface {
	CreateQuestion(ctx context.Context, in QuestionInput) (*Question, error)
	GetQuestion(ctx context.Context, id int64) (*Question, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (*Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
	ImportQuestions(ctx context.Context, docs []ImportDoc) (int, error)
	ExportQuestionsExcel(ctx context.Context) ([]byte, error)
}

type Handler struct {
	svc questionService
}

func NewHandler(svc questionService) *Handler {
	return &Handler{svc: svc}
}

type questionRequest struct {
	Statement          string   `json:"statement"`
	Category           string   `json:"category"`
	Alternatives       []string `json:"alternatives"`
	CorrectAlternative *int     `json:"correct_alternative"`
	AnswerComment      string   `json:"answer_comment"`
	ItemModel          string   `json:"item_model"`
}

func (r questionRequest) toInput() QuestionInput {
	return QuestionInput{
		Statement:          r.Statement,
		Category:           r.Category,
		Alternatives:       r.Alternatives,
		CorrectAlternative: r.CorrectAlternative,
		AnswerComment:      r.AnswerComment,
		ItemModel:          r.ItemModel,
	}
}

func listColumns() listview.Columns[Question] {
	return listview.Columns[Question]{
		"id":         func(a, b Question) int { return listview.CompareInt64(a.ID, b.ID) },
		"statement":  func(a, b Question) int { return listview.CompareStringsFold(a.Statement, b.Statement) },
		"category":   func(a, b Question) int { return listview.CompareStringsFold(a.Category, b.Category) },
		"item_model": func(a, b Question) int { return listview.CompareStringsFold(a.ItemModel, b.ItemModel) },
		"created_at": func(a, b Question) int { return listview.CompareTimes(a.CreatedAt, b.CreatedAt) },
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListQuestions(r.Context())
	if err != nil {
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if key := strings.TrimSpace(r.URL.Query().Get("sort")); key != "" {
		dir := listview.Ascending
		if strings.EqualFold(r.URL.Query().Get("dir"), "desc") {
			dir = listview.Descending
		}
		listview.SortBy(items, listColumns(), key, dir)
	}

	apiresp.WriteOK(w, r, http.StatusOK, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid question id")
		return
	}

	q, err := h.svc.GetQuestion(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuestionNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "question not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, q)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.svc.CreateQuestion(r.Context(), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, q)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid question id")
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.svc.UpdateQuestion(r.Context(), id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrQuestionNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "question not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, q)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid question id")
		return
	}

	if err := h.svc.DeleteQuestion(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrQuestionNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "question not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

// Import accepts the raw JSON array of question documents. The whole batch
// is validated before the first store call and inserted atomically.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, importMaxBytes))
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "cannot read request body")
		return
	}

	docs, err := ParseImportBatch(body)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	inserted, err := h.svc.ImportQuestions(r.Context(), docs)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, map[string]int{"inserted": inserted})
}

func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportQuestionsExcel(r.Context())
	if err != nil {
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="questions.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
