package draft

import (
	"fmt"
	"strings"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/questiontype"
)

type ErrInvalidQuestionType struct {
	Type questiontype.Type
}

func (e ErrInvalidQuestionType) Error() string {
	return fmt.Sprintf("invalid question type: %q", e.Type)
}

func (e ErrInvalidQuestionType) Unwrap() error {
	return internal.ErrInvalidQuestionType
}

// ErrValidation carries every problem found by ValidateForPublish.
type ErrValidation struct {
	Problems []Problem
}

func (e ErrValidation) Error() string {
	messages := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.QuestionID == "" {
			messages[i] = p.Message
		} else {
			messages[i] = fmt.Sprintf("question %s: %s", p.QuestionID, p.Message)
		}
	}
	return fmt.Sprintf("survey is not ready to publish: %s", strings.Join(messages, "; "))
}

func (e ErrValidation) Unwrap() error {
	return internal.ErrValidationFailed
}
