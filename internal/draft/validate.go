package draft

import (
	"fmt"
	"strings"

	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"
)

const (
	MessageSurveyTitleRequired = "survey title required"
	MessageQuestionRequired    = "at least one question required"
	MessageTitleRequired       = "title required"
	MessageOptionRequired      = "at least one option required"
)

// Problem points at what blocks publishing. QuestionID is empty for survey level problems.
type Problem struct {
	QuestionID survey.ID `json:"questionId,omitempty"`
	Message    string    `json:"message"`
}

type Validation struct {
	Valid    bool      `json:"valid"`
	Problems []Problem `json:"problems"`
}

// ValidateForPublish reports every problem that blocks publishing. It only reads the draft.
func (s *Store) ValidateForPublish() Validation {
	s.mu.Lock()
	snapshot := s.survey.Clone()
	s.mu.Unlock()

	return Validate(s.registry, snapshot)
}

func Validate(registry *questiontype.Registry, value survey.Survey) Validation {
	problems := make([]Problem, 0)

	if strings.TrimSpace(value.Title) == "" {
		problems = append(problems, Problem{Message: MessageSurveyTitleRequired})
	}
	if len(value.Questions) == 0 {
		problems = append(problems, Problem{Message: MessageQuestionRequired})
	}

	for _, q := range value.Questions {
		for _, message := range validateQuestion(registry, q) {
			problems = append(problems, Problem{QuestionID: q.ID, Message: message})
		}
	}

	return Validation{Valid: len(problems) == 0, Problems: problems}
}

func validateQuestion(registry *questiontype.Registry, q survey.Question) []string {
	config, ok := registry.Config(q.Type)
	if !ok {
		return []string{questiontype.MessageInvalidType}
	}

	var messages []string
	if strings.TrimSpace(q.Title) == "" {
		messages = append(messages, MessageTitleRequired)
	}

	if config.HasOptions {
		if len(q.Options) == 0 {
			messages = append(messages, MessageOptionRequired)
		}
		for i, o := range q.Options {
			if o.IsBlank() {
				messages = append(messages, fmt.Sprintf("option %d must not be blank", i+1))
			}
		}
	}

	result := registry.ValidateSettings(q.Type, q.Settings)
	messages = append(messages, result.Errors...)

	// Typed checks only run once every single-key rule holds.
	if result.Valid {
		typed, err := questiontype.DecodeSettings(q.Type, q.Settings)
		if err == nil {
			messages = append(messages, typed.Check()...)
		}
	}

	return messages
}
