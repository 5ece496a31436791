package exam

import (
	"fmt"
	"math/rand"
	"time"

	"examboard/internal/question"
)

type SelectionMode string

const (
	ModeManual    SelectionMode = "manual"
	ModeAutomatic SelectionMode = "automatic"
)

// ValidationError carries a user-facing message that is surfaced verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Assembly is the working state of one exam draft: a read-only snapshot of
// the question pool plus the ordered selection built against it. The pool is
// fetched once per draft; edits made by another session are not observed
// until a new assembly is started.
type Assembly struct {
	pool     []question.Question
	selected []int64
	rng      *rand.Rand

	availableMultiple   int
	availableDiscursive int
}

func NewAssembly(pool []question.Question, rng *rand.Rand) *Assembly {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	a := &Assembly{
		pool:     pool,
		selected: make([]int64, 0, len(pool)),
		rng:      rng,
	}
	for _, q := range pool {
		switch q.Category {
		case question.CategoryMultipleChoice:
			a.availableMultiple++
		case question.CategoryDiscursive:
			a.availableDiscursive++
		}
	}
	return a
}

func (a *Assembly) AvailableMultiple() int   { return a.availableMultiple }
func (a *Assembly) AvailableDiscursive() int { return a.availableDiscursive }

// Selected returns the current selection in order.
func (a *Assembly) Selected() []int64 {
	out := make([]int64, len(a.selected))
	copy(out, a.selected)
	return out
}

// ToggleSelection adds the id when absent and removes it when present, so
// two calls with the same id cancel out.
func (a *Assembly) ToggleSelection(id int64) {
	for i, sel := range a.selected {
		if sel == id {
			a.selected = append(a.selected[:i], a.selected[i+1:]...)
			return
		}
	}
	a.selected = append(a.selected, id)
}

func (a *Assembly) SelectAll() {
	a.selected = a.selected[:0]
	for _, q := range a.pool {
		a.selected = append(a.selected, q.ID)
	}
}

func (a *Assembly) ClearSelection() {
	a.selected = a.selected[:0]
}

// DrawRandom replaces the selection with numMultiple multiple-choice ids
// followed by numDiscursive discursive ids, each block in shuffle order.
// When either count exceeds availability the draw is rejected and the prior
// selection is left untouched.
func (a *Assembly) DrawRandom(numMultiple, numDiscursive int) error {
	if err := checkQuota(numMultiple, numDiscursive, a.availableMultiple, a.availableDiscursive); err != nil {
		return err
	}

	var multiple, discursive []int64
	for _, q := range a.pool {
		switch q.Category {
		case question.CategoryMultipleChoice:
			multiple = append(multiple, q.ID)
		case question.CategoryDiscursive:
			discursive = append(discursive, q.ID)
		}
	}

	a.shuffle(multiple)
	a.shuffle(discursive)

	a.selected = a.selected[:0]
	a.selected = append(a.selected, multiple[:numMultiple]...)
	a.selected = append(a.selected, discursive[:numDiscursive]...)
	return nil
}

// shuffle is an unbiased Fisher-Yates pass: walk i from the last index down
// to 1, swapping with a uniform j in [0, i].
func (a *Assembly) shuffle(ids []int64) {
	for i := len(ids) - 1; i >= 1; i-- {
		j := a.rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func checkQuota(numMultiple, numDiscursive, availableMultiple, availableDiscursive int) error {
	if numMultiple < 0 || numDiscursive < 0 {
		return &ValidationError{Message: "question counts must not be negative"}
	}
	if numMultiple > availableMultiple {
		return &ValidationError{Message: quotaMessage(question.CategoryMultipleChoice, availableMultiple)}
	}
	if numDiscursive > availableDiscursive {
		return &ValidationError{Message: quotaMessage(question.CategoryDiscursive, availableDiscursive)}
	}
	return nil
}

func quotaMessage(category string, available int) string {
	if category == question.CategoryDiscursive {
		return fmt.Sprintf("exceeds available discursive count (%d)", available)
	}
	return fmt.Sprintf("exceeds available multiple-choice count (%d)", available)
}

// Draft holds the submitted exam fields awaiting validation.
type Draft struct {
	Title         string
	Mode          SelectionMode
	NumMultiple   int
	NumDiscursive int
	MaxScore      float64
	Questions     []int64
}

// validateDraft runs the ordered submission checks; the first failure wins.
func validateDraft(d Draft, availableMultiple, availableDiscursive int) error {
	if d.Mode == ModeAutomatic {
		if err := checkQuota(d.NumMultiple, d.NumDiscursive, availableMultiple, availableDiscursive); err != nil {
			return err
		}
	}
	if d.Mode == ModeManual && len(d.Questions) == 0 {
		return &ValidationError{Message: "select at least one question"}
	}
	if d.MaxScore < 1 || d.MaxScore > 10 {
		return &ValidationError{Message: "score must be between 1 and 10"}
	}
	if len(d.Questions) == 0 {
		return &ValidationError{Message: "select at least one question"}
	}
	seen := make(map[int64]struct{}, len(d.Questions))
	for _, id := range d.Questions {
		if _, dup := seen[id]; dup {
			return &ValidationError{Message: "duplicate question selected"}
		}
		seen[id] = struct{}{}
	}
	if d.Title == "" {
		return &ValidationError{Message: "title is required"}
	}
	return nil
}
