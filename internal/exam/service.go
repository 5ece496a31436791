package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"examboard/internal/question"
)

var ErrExamNotFound = errors.New("exam not found")

const CalculationMethodWeighted = "Média Ponderada"

type QuestionConfig struct {
	MultipleChoice int `json:"multiple_choice"`
	Discursive     int `json:"discursive"`
}

type Exam struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Course             *string         `json:"course"`
	Discipline         *string         `json:"discipline"`
	QuestionConfig     *QuestionConfig `json:"question_config,omitempty"`
	CreatedBy          string          `json:"created_by"`
	WeightDistribution json.RawMessage `json:"weight_distribution,omitempty"`
	MaxScore           float64         `json:"max_score"`
	CalculationMethod  string          `json:"calculation_method"`
	Questions          []int64         `json:"questions"`
	CreatedAt          time.Time       `json:"created_at"`
}

type ExamInput struct {
	Title              string
	Course             string
	Discipline         string
	Mode               SelectionMode
	NumMultiple        int
	NumDiscursive      int
	CreatedBy          string
	WeightDistribution json.RawMessage
	MaxScore           float64
	Questions          []int64
}

type questionStore interface {
	ListQuestions(ctx context.Context) ([]question.Question, error)
	GetQuestionsByIDs(ctx context.Context, ids []int64) ([]question.Question, error)
	CountByCategory(ctx context.Context) (*question.CategoryCounts, error)
}

type Service struct {
	db               *sql.DB
	questions        questionStore
	defaultCreatedBy string
}

func NewService(db *sql.DB, questions questionStore, defaultCreatedBy string) *Service {
	if defaultCreatedBy == "" {
		defaultCreatedBy = "usuario@exemplo.com"
	}
	return &Service{db: db, questions: questions, defaultCreatedBy: defaultCreatedBy}
}

// DrawQuestions runs an automatic draw against a fresh pool snapshot and
// returns the drawn id list without persisting anything.
func (s *Service) DrawQuestions(ctx context.Context, numMultiple, numDiscursive int) ([]int64, error) {
	pool, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	asm := NewAssembly(pool, nil)
	if err := asm.DrawRandom(numMultiple, numDiscursive); err != nil {
		return nil, err
	}
	return asm.Selected(), nil
}

// CreateExam validates the draft against live category counts, then persists
// the record. Validation order: automatic caps, manual non-empty selection,
// score range. question_config is stored only for automatic drafts.
func (s *Service) CreateExam(ctx context.Context, in ExamInput) (*Exam, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Course = strings.TrimSpace(in.Course)
	in.Discipline = strings.TrimSpace(in.Discipline)
	if in.Mode != ModeAutomatic {
		in.Mode = ModeManual
	}

	counts, err := s.questions.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count available questions: %w", err)
	}

	draft := Draft{
		Title:         in.Title,
		Mode:          in.Mode,
		NumMultiple:   in.NumMultiple,
		NumDiscursive: in.NumDiscursive,
		MaxScore:      in.MaxScore,
		Questions:     in.Questions,
	}
	if err := validateDraft(draft, int(counts.MultipleChoice), int(counts.Discursive)); err != nil {
		return nil, err
	}

	existing, err := s.questions.GetQuestionsByIDs(ctx, in.Questions)
	if err != nil {
		return nil, fmt.Errorf("verify selected questions: %w", err)
	}
	if len(existing) != len(in.Questions) {
		return nil, &ValidationError{Message: "selected question no longer exists"}
	}

	var config *QuestionConfig
	if in.Mode == ModeAutomatic {
		config = &QuestionConfig{MultipleChoice: in.NumMultiple, Discursive: in.NumDiscursive}
	}
	var configJSON interface{}
	if config != nil {
		b, err := json.Marshal(config)
		if err != nil {
			return nil, fmt.Errorf("encode question config: %w", err)
		}
		configJSON = b
	}

	questionsJSON, err := json.Marshal(in.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode question ids: %w", err)
	}

	createdBy := strings.TrimSpace(in.CreatedBy)
	if createdBy == "" {
		createdBy = s.defaultCreatedBy
	}

	var weights interface{}
	if len(in.WeightDistribution) > 0 {
		weights = []byte(in.WeightDistribution)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO exams (
			title, course, discipline, question_config, created_by,
			weight_distribution, max_score, calculation_method, questions, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, now()
		)
		RETURNING id, title, course, discipline, question_config, created_by,
			weight_distribution, max_score, calculation_method, questions, created_at
	`, in.Title, nullString(in.Course), nullString(in.Discipline), configJSON, createdBy,
		weights, in.MaxScore, CalculationMethodWeighted, questionsJSON)

	e, err := scanExam(row)
	if err != nil {
		return nil, fmt.Errorf("insert exam: %w", err)
	}
	return e, nil
}

func (s *Service) ListExams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, course, discipline, question_config, created_by,
			weight_distribution, max_score, calculation_method, questions, created_at
		FROM exams
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	out := make([]Exam, 0, 32)
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exam: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exams: %w", err)
	}
	return out, nil
}

func (s *Service) GetExam(ctx context.Context, id int64) (*Exam, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, course, discipline, question_config, created_by,
			weight_distribution, max_score, calculation_method, questions, created_at
		FROM exams
		WHERE id = $1
	`, id)

	e, err := scanExam(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("query exam: %w", err)
	}
	return e, nil
}

func (s *Service) DeleteExam(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrExamNotFound
	}
	return nil
}

// ExportExam resolves the exam's question ids with one bulk lookup and
// serializes the export document. Ids pointing at deleted questions are
// dropped silently.
func (s *Service) ExportExam(ctx context.Context, id int64, includeAnswerKey bool) ([]byte, string, error) {
	e, err := s.GetExam(ctx, id)
	if err != nil {
		return nil, "", err
	}

	resolved, err := s.questions.GetQuestionsByIDs(ctx, e.Questions)
	if err != nil {
		return nil, "", fmt.Errorf("resolve exam questions: %w", err)
	}

	doc := BuildExportDocument(e, resolved, includeAnswerKey)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode export document: %w", err)
	}
	return data, ExportFilename(e.Title, includeAnswerKey), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(row rowScanner) (*Exam, error) {
	var e Exam
	var course, discipline sql.NullString
	var configRaw, weightsRaw, questionsRaw []byte
	if err := row.Scan(&e.ID, &e.Title, &course, &discipline, &configRaw, &e.CreatedBy,
		&weightsRaw, &e.MaxScore, &e.CalculationMethod, &questionsRaw, &e.CreatedAt); err != nil {
		return nil, err
	}
	if course.Valid {
		e.Course = &course.String
	}
	if discipline.Valid {
		e.Discipline = &discipline.String
	}
	if len(configRaw) > 0 {
		var cfg QuestionConfig
		if err := json.Unmarshal(configRaw, &cfg); err != nil {
			return nil, fmt.Errorf("decode question config: %w", err)
		}
		e.QuestionConfig = &cfg
	}
	if len(weightsRaw) > 0 {
		e.WeightDistribution = json.RawMessage(weightsRaw)
	}
	if len(questionsRaw) > 0 {
		if err := json.Unmarshal(questionsRaw, &e.Questions); err != nil {
			return nil, fmt.Errorf("decode question ids: %w", err)
		}
	}
	return &e, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
