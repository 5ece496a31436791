package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrQuestionNotFound = errors.New("question not found")
)

const (
	CategoryMultipleChoice = "multiple-choice"
	CategoryDiscursive     = "discursive"
)

// Item model labels stored verbatim; the numeric prefix is the code.
const (
	ItemModelSingleAnswer        = "001 - RESPOSTA UNICA"
	ItemModelIncompleteStatement = "002 - AFIRMAÇÃO INCOMPLETA"
	ItemModelMultipleAnswer      = "003 - RESPOSTA MÚLTIPLA"
	ItemModelAssertionReason     = "004 - ASSERÇÃO E RAZÃO"
	ItemModelDiscursive          = "005 - DISCURSIVA"
)

const alternativeSlots = 5

var multipleChoiceItemModels = map[string]struct{}{
	ItemModelSingleAnswer:        {},
	ItemModelIncompleteStatement: {},
	ItemModelMultipleAnswer:      {},
	ItemModelAssertionReason:     {},
}

type Question struct {
	ID                 int64     `json:"id"`
	Statement          string    `json:"statement"`
	Category           string    `json:"category"`
	Alternatives       []string  `json:"alternatives"`
	CorrectAlternative *int      `json:"correct_alternative"`
	AnswerComment      *string   `json:"answer_comment"`
	ItemModel          string    `json:"item_model"`
	CreatedAt          time.Time `json:"created_at"`
}

type QuestionInput struct {
	Statement          string
	Category           string
	Alternatives       []string
	CorrectAlternative *int
	AnswerComment      string
	ItemModel          string
}

type CategoryCounts struct {
	MultipleChoice int64 `json:"multiple_choice"`
	Discursive     int64 `json:"discursive"`
}

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// normalizeInput enforces the category invariants: multiple-choice questions
// carry exactly five alternative slots and a correct index in [0,4] with an
// item model from the 001..004 set; discursive questions carry no
// alternatives, no correct index, and always the 005 model.
func normalizeInput(in QuestionInput) (QuestionInput, error) {
	in.Statement = strings.TrimSpace(in.Statement)
	in.Category = strings.TrimSpace(in.Category)
	in.ItemModel = strings.TrimSpace(in.ItemModel)
	in.AnswerComment = strings.TrimSpace(in.AnswerComment)

	if in.Statement == "" {
		return in, fmt.Errorf("%w: statement is required", ErrInvalidInput)
	}

	switch in.Category {
	case CategoryMultipleChoice:
		if in.ItemModel == "" {
			in.ItemModel = ItemModelSingleAnswer
		}
		if _, ok := multipleChoiceItemModels[in.ItemModel]; !ok {
			return in, fmt.Errorf("%w: item model %q is not valid for multiple-choice", ErrInvalidInput, in.ItemModel)
		}
		if len(in.Alternatives) > alternativeSlots {
			return in, fmt.Errorf("%w: at most %d alternatives are allowed", ErrInvalidInput, alternativeSlots)
		}
		alts := make([]string, alternativeSlots)
		copy(alts, in.Alternatives)
		in.Alternatives = alts
		if in.CorrectAlternative == nil || *in.CorrectAlternative < 0 || *in.CorrectAlternative >= alternativeSlots {
			return in, fmt.Errorf("%w: correct alternative must be between 0 and %d", ErrInvalidInput, alternativeSlots-1)
		}
	case CategoryDiscursive:
		in.ItemModel = ItemModelDiscursive
		in.Alternatives = nil
		in.CorrectAlternative = nil
	default:
		return in, fmt.Errorf("%w: category must be %q or %q", ErrInvalidInput, CategoryMultipleChoice, CategoryDiscursive)
	}
	return in, nil
}

func (s *Service) CreateQuestion(ctx context.Context, in QuestionInput) (*Question, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	altsJSON, err := marshalAlternatives(in.Alternatives)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO questions (
			statement, category, alternatives, correct_alternative, answer_comment, item_model, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, now()
		)
		RETURNING id, statement, category, alternatives, correct_alternative, answer_comment, item_model, created_at
	`, in.Statement, in.Category, altsJSON, nullIntPtr(in.CorrectAlternative), nullString(in.AnswerComment), in.ItemModel)

	q, err := scanQuestion(row)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (s *Service) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, statement, category, alternatives, correct_alternative, answer_comment, item_model, created_at
		FROM questions
		WHERE id = $1
	`, id)

	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("query question: %w", err)
	}
	return q, nil
}

func (s *Service) ListQuestions(ctx context.Context) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, statement, category, alternatives, correct_alternative, answer_comment, item_model, created_at
		FROM questions
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := make([]Question, 0, 64)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

// GetQuestionsByIDs resolves a set of ids in one round-trip. Ids that do not
// exist are simply missing from the result; callers that care about dangling
// references handle the gap themselves.
func (s *Service) GetQuestionsByIDs(ctx context.Context, ids []int64) ([]Question, error) {
	if len(ids) == 0 {
		return []Question{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, statement, category, alternatives, correct_alternative, answer_comment, item_model, created_at
		FROM questions
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query questions by ids: %w", err)
	}
	defer rows.Close()

	out := make([]Question, 0, len(ids))
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

// UpdateQuestion fully replaces the scored fields of an existing question.
func (s *Service) UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (*Question, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	altsJSON, err := marshalAlternatives(in.Alternatives)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE questions
		SET statement = $2,
			category = $3,
			alternatives = $4,
			correct_alternative = $5,
			answer_comment = $6,
			item_model = $7
		WHERE id = $1
		RETURNING id, statement, category, alternatives, correct_alternative, answer_comment, item_model, created_at
	`, id, in.Statement, in.Category, altsJSON, nullIntPtr(in.CorrectAlternative), nullString(in.AnswerComment), in.ItemModel)

	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func (s *Service) CountByCategory(ctx context.Context) (*CategoryCounts, error) {
	out := &CategoryCounts{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE category = $1),
			COUNT(*) FILTER (WHERE category = $2)
		FROM questions
	`, CategoryMultipleChoice, CategoryDiscursive).Scan(&out.MultipleChoice, &out.Discursive)
	if err != nil {
		return nil, fmt.Errorf("count questions by category: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*Question, error) {
	var q Question
	var altsRaw []byte
	var correct sql.NullInt64
	var comment sql.NullString
	if err := row.Scan(&q.ID, &q.Statement, &q.Category, &altsRaw, &correct, &comment, &q.ItemModel, &q.CreatedAt); err != nil {
		return nil, err
	}
	if len(altsRaw) > 0 {
		if err := json.Unmarshal(altsRaw, &q.Alternatives); err != nil {
			return nil, fmt.Errorf("decode alternatives: %w", err)
		}
	}
	if correct.Valid {
		v := int(correct.Int64)
		q.CorrectAlternative = &v
	}
	if comment.Valid {
		q.AnswerComment = &comment.String
	}
	return &q, nil
}

func marshalAlternatives(alts []string) (interface{}, error) {
	if alts == nil {
		return nil, nil
	}
	b, err := json.Marshal(alts)
	if err != nil {
		return nil, fmt.Errorf("encode alternatives: %w", err)
	}
	return b, nil
}

func nullIntPtr(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
