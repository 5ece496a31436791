package question

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestNormalizeInputMultipleChoice(t *testing.T) {
	in := QuestionInput{
		Statement:          "Qual a capital do Brasil?",
		Category:           CategoryMultipleChoice,
		Alternatives:       []string{"Brasília", "Rio de Janeiro", "São Paulo"},
		CorrectAlternative: intPtr(0),
	}

	got, err := normalizeInput(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Alternatives) != alternativeSlots {
		t.Fatalf("alternatives padded to %d, want %d", len(got.Alternatives), alternativeSlots)
	}
	if got.Alternatives[0] != "Brasília" || got.Alternatives[3] != "" {
		t.Fatalf("padding corrupted alternatives: %v", got.Alternatives)
	}
	if got.ItemModel != ItemModelSingleAnswer {
		t.Fatalf("empty item model should default to %q, got %q", ItemModelSingleAnswer, got.ItemModel)
	}
}

func TestNormalizeInputDiscursiveForcesModel(t *testing.T) {
	in := QuestionInput{
		Statement:          "Disserte sobre o tema.",
		Category:           CategoryDiscursive,
		Alternatives:       []string{"a", "b"},
		CorrectAlternative: intPtr(1),
		ItemModel:          ItemModelSingleAnswer,
	}

	got, err := normalizeInput(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ItemModel != ItemModelDiscursive {
		t.Fatalf("item model = %q, want %q", got.ItemModel, ItemModelDiscursive)
	}
	if got.Alternatives != nil {
		t.Fatalf("discursive question must not keep alternatives: %v", got.Alternatives)
	}
	if got.CorrectAlternative != nil {
		t.Fatalf("discursive question must not keep a correct index")
	}
}

func TestNormalizeInputRejections(t *testing.T) {
	tests := []struct {
		name string
		in   QuestionInput
	}{
		{
			name: "empty statement",
			in:   QuestionInput{Statement: "  ", Category: CategoryDiscursive},
		},
		{
			name: "unknown category",
			in:   QuestionInput{Statement: "q", Category: "essay"},
		},
		{
			name: "discursive model on multiple-choice",
			in: QuestionInput{
				Statement:          "q",
				Category:           CategoryMultipleChoice,
				ItemModel:          ItemModelDiscursive,
				CorrectAlternative: intPtr(0),
			},
		},
		{
			name: "too many alternatives",
			in: QuestionInput{
				Statement:          "q",
				Category:           CategoryMultipleChoice,
				Alternatives:       []string{"a", "b", "c", "d", "e", "f"},
				CorrectAlternative: intPtr(0),
			},
		},
		{
			name: "missing correct index",
			in:   QuestionInput{Statement: "q", Category: CategoryMultipleChoice},
		},
		{
			name: "correct index out of range",
			in: QuestionInput{
				Statement:          "q",
				Category:           CategoryMultipleChoice,
				CorrectAlternative: intPtr(5),
			},
		},
		{
			name: "negative correct index",
			in: QuestionInput{
				Statement:          "q",
				Category:           CategoryMultipleChoice,
				CorrectAlternative: intPtr(-1),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := normalizeInput(tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
