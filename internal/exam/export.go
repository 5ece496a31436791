package exam

import (
	"encoding/json"
	"strings"
	"time"

	"examboard/internal/question"
)

const fallbackExportTitle = "prova"

// ExportQuestion is one resolved question entry in the export document. The
// answer-key fields are emitted only when includeAnswerKey was requested;
// every other byte of the document is identical between the two variants.
type ExportQuestion struct {
	ID                 int64
	Statement          string
	Category           string
	Alternatives       []string
	ItemModel          string
	CorrectAlternative *int
	AnswerComment      *string
	IncludeAnswerKey   bool
}

func (q ExportQuestion) MarshalJSON() ([]byte, error) {
	type base struct {
		ID           int64    `json:"id"`
		Statement    string   `json:"statement"`
		Category     string   `json:"category"`
		Alternatives []string `json:"alternatives"`
		ItemModel    string   `json:"item_model"`
	}
	b := base{
		ID:           q.ID,
		Statement:    q.Statement,
		Category:     q.Category,
		Alternatives: q.Alternatives,
		ItemModel:    q.ItemModel,
	}
	if !q.IncludeAnswerKey {
		return json.Marshal(b)
	}
	return json.Marshal(struct {
		base
		CorrectAlternative *int    `json:"correct_alternative"`
		AnswerComment      *string `json:"answer_comment"`
	}{
		base:               b,
		CorrectAlternative: q.CorrectAlternative,
		AnswerComment:      q.AnswerComment,
	})
}

type ExportDocument struct {
	ID                 int64            `json:"id"`
	Title              string           `json:"title"`
	Course             *string          `json:"course"`
	Discipline         *string          `json:"discipline"`
	QuestionConfig     *QuestionConfig  `json:"question_config,omitempty"`
	CreatedBy          string           `json:"created_by"`
	WeightDistribution json.RawMessage  `json:"weight_distribution,omitempty"`
	MaxScore           float64          `json:"max_score"`
	CalculationMethod  string           `json:"calculation_method"`
	CreatedAt          time.Time        `json:"created_at"`
	Questions          []ExportQuestion `json:"questions"`
}

// BuildExportDocument joins the exam's id list against the resolved
// questions, preserving the exam's ordering. Ids without a resolved question
// are dropped without error.
func BuildExportDocument(e *Exam, resolved []question.Question, includeAnswerKey bool) *ExportDocument {
	byID := make(map[int64]question.Question, len(resolved))
	for _, q := range resolved {
		byID[q.ID] = q
	}

	entries := make([]ExportQuestion, 0, len(e.Questions))
	for _, id := range e.Questions {
		q, ok := byID[id]
		if !ok {
			continue
		}
		entries = append(entries, ExportQuestion{
			ID:                 q.ID,
			Statement:          q.Statement,
			Category:           q.Category,
			Alternatives:       q.Alternatives,
			ItemModel:          q.ItemModel,
			CorrectAlternative: q.CorrectAlternative,
			AnswerComment:      q.AnswerComment,
			IncludeAnswerKey:   includeAnswerKey,
		})
	}

	return &ExportDocument{
		ID:                 e.ID,
		Title:              e.Title,
		Course:             e.Course,
		Discipline:         e.Discipline,
		QuestionConfig:     e.QuestionConfig,
		CreatedBy:          e.CreatedBy,
		WeightDistribution: e.WeightDistribution,
		MaxScore:           e.MaxScore,
		CalculationMethod:  e.CalculationMethod,
		CreatedAt:          e.CreatedAt,
		Questions:          entries,
	}
}

// ExportFilename builds `{title|"prova"}[_gabarito].json`.
func ExportFilename(title string, answerKey bool) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = fallbackExportTitle
	}
	if answerKey {
		name += "_gabarito"
	}
	return name + ".json"
}
