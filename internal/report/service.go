package report

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary is the dashboard snapshot: bank size per category plus the number
// of assembled exams.
type Summary struct {
	TotalQuestions int64 `json:"total_questions"`
	MultipleChoice int64 `json:"multiple_choice"`
	Discursive     int64 `json:"discursive"`
	TotalExams     int64 `json:"total_exams"`
}

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	out := &Summary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE category = 'multiple-choice'),
			COUNT(*) FILTER (WHERE category = 'discursive')
		FROM questions
	`).Scan(&out.TotalQuestions, &out.MultipleChoice, &out.Discursive)
	if err != nil {
		return nil, fmt.Errorf("query question counts: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exams`).Scan(&out.TotalExams); err != nil {
		return nil, fmt.Errorf("query exam count: %w", err)
	}
	return out, nil
}
