package question

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// ImportDoc is one externally authored question document. Every field is
// optional; absent fields receive the discursive defaults.
type ImportDoc struct {
	Statement          string
	Category           string
	Alternatives       []string
	CorrectAlternative *int
	AnswerComment      *string
	ItemModel          string
}

// ParseImportBatch validates the raw payload wholesale before any store
// interaction. A single malformed element rejects the entire batch.
func ParseImportBatch(data []byte) ([]ImportDoc, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: import payload must be a JSON array", ErrInvalidInput)
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: import payload is empty", ErrInvalidInput)
	}

	docs := make([]ImportDoc, 0, len(elements))
	for i, el := range elements {
		var raw struct {
			Statement          *string         `json:"statement"`
			Category           *string         `json:"category"`
			Alternatives       json.RawMessage `json:"alternatives"`
			CorrectAlternative *int            `json:"correct_alternative"`
			AnswerComment      *string         `json:"answer_comment"`
			ItemModel          *string         `json:"item_model"`
		}
		if err := json.Unmarshal(el, &raw); err != nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidInput, i)
		}

		doc := ImportDoc{
			Category:           CategoryDiscursive,
			ItemModel:          ItemModelDiscursive,
			CorrectAlternative: raw.CorrectAlternative,
			AnswerComment:      raw.AnswerComment,
		}
		if raw.Statement != nil {
			doc.Statement = *raw.Statement
		}
		if raw.Category != nil && *raw.Category != "" {
			doc.Category = *raw.Category
		}
		if raw.ItemModel != nil && *raw.ItemModel != "" {
			doc.ItemModel = *raw.ItemModel
		}
		if len(raw.Alternatives) > 0 && !bytes.Equal(bytes.TrimSpace(raw.Alternatives), []byte("null")) {
			var alts []string
			if err := json.Unmarshal(raw.Alternatives, &alts); err != nil {
				return nil, fmt.Errorf("%w: element %d: alternatives must be an array of strings or null", ErrInvalidInput, i)
			}
			doc.Alternatives = alts
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ImportQuestions inserts the whole batch inside one transaction. Any insert
// failure rolls everything back; there is no partial success.
func (s *Service) ImportQuestions(ctx context.Context, docs []ImportDoc) (int, error) {
	if len(docs) == 0 {
		return 0, fmt.Errorf("%w: import payload is empty", ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, doc := range docs {
		altsJSON, err := marshalAlternatives(doc.Alternatives)
		if err != nil {
			return 0, err
		}
		var comment interface{}
		if doc.AnswerComment != nil {
			comment = *doc.AnswerComment
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO questions (
				statement, category, alternatives, correct_alternative, answer_comment, item_model, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, now()
			)
		`, doc.Statement, doc.Category, altsJSON, nullIntPtr(doc.CorrectAlternative), comment, doc.ItemModel)
		if err != nil {
			return 0, fmt.Errorf("insert imported question %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(docs), nil
}
