package question

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportQuestionsExcel renders the full question bank as a spreadsheet:
// one header row plus one row per question.
func (s *Service) ExportQuestionsExcel(ctx context.Context) ([]byte, error) {
	items, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"id", "statement", "category", "item_model", "alternatives", "correct_alternative", "answer_comment", "created_at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, q := range items {
		row := i + 2
		correct := ""
		if q.CorrectAlternative != nil {
			correct = fmt.Sprintf("%d", *q.CorrectAlternative)
		}
		comment := ""
		if q.AnswerComment != nil {
			comment = *q.AnswerComment
		}
		values := []any{
			q.ID,
			q.Statement,
			q.Category,
			q.ItemModel,
			strings.Join(q.Alternatives, " | "),
			correct,
			comment,
			q.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "H", 26)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
