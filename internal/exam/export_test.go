package exam

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"examboard/internal/question"
)

func sampleExam() (*Exam, []question.Question) {
	correct := 2
	comment := "a capital foi transferida em 1960"
	course := "Geografia"
	created, _ := time.Parse(time.RFC3339, "2024-12-01T10:00:00Z")

	e := &Exam{
		ID:                5,
		Title:             "Prova Final",
		Course:            &course,
		CreatedBy:         "usuario@exemplo.com",
		MaxScore:          10,
		CalculationMethod: CalculationMethodWeighted,
		Questions:         []int64{2, 1, 3},
		CreatedAt:         created,
	}
	resolved := []question.Question{
		{
			ID:                 1,
			Statement:          "Qual a capital do Brasil?",
			Category:           question.CategoryMultipleChoice,
			Alternatives:       []string{"Brasília", "Rio", "São Paulo", "", ""},
			CorrectAlternative: &correct,
			AnswerComment:      &comment,
			ItemModel:          question.ItemModelSingleAnswer,
		},
		{
			ID:        2,
			Statement: "Disserte sobre urbanização.",
			Category:  question.CategoryDiscursive,
			ItemModel: question.ItemModelDiscursive,
		},
	}
	return e, resolved
}

func TestBuildExportDocumentOrderAndDanglingDrop(t *testing.T) {
	e, resolved := sampleExam()

	doc := BuildExportDocument(e, resolved, false)
	if len(doc.Questions) != 2 {
		t.Fatalf("got %d questions, want 2 (id 3 is dangling)", len(doc.Questions))
	}
	if doc.Questions[0].ID != 2 || doc.Questions[1].ID != 1 {
		t.Fatalf("export must keep the exam's ordering: %d, %d", doc.Questions[0].ID, doc.Questions[1].ID)
	}
}

func TestExportVariantsDifferOnlyByAnswerKeyFields(t *testing.T) {
	e, resolved := sampleExam()

	student, err := json.MarshalIndent(BuildExportDocument(e, resolved, false), "", "  ")
	if err != nil {
		t.Fatalf("marshal student copy: %v", err)
	}
	keyed, err := json.MarshalIndent(BuildExportDocument(e, resolved, true), "", "  ")
	if err != nil {
		t.Fatalf("marshal answer-key copy: %v", err)
	}

	if strings.Contains(string(student), "correct_alternative") {
		t.Fatalf("student copy must not carry the answer key")
	}
	if !strings.Contains(string(keyed), `"correct_alternative": 2`) {
		t.Fatalf("answer-key copy missing correct_alternative:\n%s", keyed)
	}
	if !strings.Contains(string(keyed), "answer_comment") {
		t.Fatalf("answer-key copy missing answer_comment")
	}

	// Stripping only the two answer-key fields from the keyed variant must
	// yield a document equal to the student variant.
	var studentDoc, keyedDoc map[string]interface{}
	if err := json.Unmarshal(student, &studentDoc); err != nil {
		t.Fatalf("decode student copy: %v", err)
	}
	if err := json.Unmarshal(keyed, &keyedDoc); err != nil {
		t.Fatalf("decode answer-key copy: %v", err)
	}
	for _, q := range keyedDoc["questions"].([]interface{}) {
		entry := q.(map[string]interface{})
		delete(entry, "correct_alternative")
		delete(entry, "answer_comment")
	}
	stripped, _ := json.Marshal(keyedDoc)
	plain, _ := json.Marshal(studentDoc)
	if string(stripped) != string(plain) {
		t.Fatalf("variants differ beyond the answer-key fields:\n%s\n---\n%s", stripped, plain)
	}
}

func TestExportAnswerKeyNullForDiscursive(t *testing.T) {
	e, resolved := sampleExam()

	keyed, err := json.Marshal(BuildExportDocument(e, resolved, true))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc struct {
		Questions []map[string]json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(keyed, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// First entry is the discursive question (exam order 2, 1).
	if string(doc.Questions[0]["correct_alternative"]) != "null" {
		t.Fatalf("discursive correct_alternative = %s, want null", doc.Questions[0]["correct_alternative"])
	}
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		title     string
		answerKey bool
		want      string
	}{
		{"Prova Final", false, "Prova Final.json"},
		{"Prova Final", true, "Prova Final_gabarito.json"},
		{"", false, "prova.json"},
		{"   ", true, "prova_gabarito.json"},
	}
	for _, tc := range tests {
		if got := ExportFilename(tc.title, tc.answerKey); got != tc.want {
			t.Errorf("ExportFilename(%q, %v) = %q, want %q", tc.title, tc.answerKey, got, tc.want)
		}
	}
}
