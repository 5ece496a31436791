package exam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"examboard/internal/app/apiresp"
	"examboard/internal/listview"
)

type examService interface {
	CreateExam(ctx context.Context, in ExamInput) (*Exam, error)
	ListExams(ctx context.Context) ([]Exam, error)
	GetExam(ctx context.Context, id int64) (*Exam, error)
	DeleteExam(ctx context.Context, id int64) error
	DrawQuestions(ctx context.Context, numMultiple, numDiscursive int) ([]int64, error)
	ExportExam(ctx context.Context, id int64, includeAnswerKey bool) ([]byte, string, error)
}

type Handler struct {
	svc examService
}

func NewHandler(svc examService) *Handler {
	return &Handler{svc: svc}
}

type createExamRequest struct {
	Title              string          `json:"title"`
	Course             string          `json:"course"`
	Discipline         string          `json:"discipline"`
	Mode               string          `json:"mode"`
	NumMultiple        int             `json:"num_multiple"`
	NumDiscursive      int             `json:"num_discursive"`
	WeightDistribution json.RawMessage `json:"weight_distribution"`
	MaxScore           float64         `json:"max_score"`
	Questions          []int64         `json:"questions"`
}

type drawRequest struct {
	NumMultiple   int `json:"num_multiple"`
	NumDiscursive int `json:"num_discursive"`
}

func listColumns() listview.Columns[Exam] {
	return listview.Columns[Exam]{
		"id":         func(a, b Exam) int { return listview.CompareInt64(a.ID, b.ID) },
		"title":      func(a, b Exam) int { return listview.CompareStringsFold(a.Title, b.Title) },
		"max_score":  func(a, b Exam) int { return listview.CompareFloat64(a.MaxScore, b.MaxScore) },
		"created_at": func(a, b Exam) int { return listview.CompareTimes(a.CreatedAt, b.CreatedAt) },
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListExams(r.Context())
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
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid exam id")
		return
	}

	e, err := h.svc.GetExam(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrExamNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "exam not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, e)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.svc.CreateExam(r.Context(), ExamInput{
		Title:              req.Title,
		Course:             req.Course,
		Discipline:         req.Discipline,
		Mode:               SelectionMode(req.Mode),
		NumMultiple:        req.NumMultiple,
		NumDiscursive:      req.NumDiscursive,
		WeightDistribution: req.WeightDistribution,
		MaxScore:           req.MaxScore,
		Questions:          req.Questions,
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			apiresp.WriteError(w, r, http.StatusBadRequest, verr.Message)
			return
		}
		// Store failures surface their message so the operator can retry.
		apiresp.WriteError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid exam id")
		return
	}

	if err := h.svc.DeleteExam(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrExamNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "exam not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) Draw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ids, err := h.svc.DrawQuestions(r.Context(), req.NumMultiple, req.NumDiscursive)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			apiresp.WriteError(w, r, http.StatusBadRequest, verr.Message)
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, map[string][]int64{"questions": ids})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid exam id")
		return
	}

	answerKey := false
	switch strings.TrimSpace(r.URL.Query().Get("answer_key")) {
	case "1", "true":
		answerKey = true
	}

	data, filename, err := h.svc.ExportExam(r.Context(), id, answerKey)
	if err != nil {
		switch {
		case errors.Is(err, ErrExamNotFound):
			apiresp.WriteError(w, r, http.StatusNotFound, "exam not found")
		default:
			apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
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
