package draft

import (
	"testing"

	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	registry := questiontype.MustDefault()

	question := func(id survey.ID, t questiontype.Type, title string, options []survey.Option, settings map[string]any) survey.Question {
		if settings == nil {
			settings = registry.DefaultSettings(t)
		}
		return survey.Question{ID: id, Type: t, Title: title, Options: options, Settings: settings}
	}

	tests := []struct {
		name     string
		survey   func() survey.Survey
		problems []Problem
	}{
		{
			name: "Should accept a complete survey",
			survey: func() survey.Survey {
				s := survey.New()
				s.Questions = []survey.Question{question("a", questiontype.TypeRadio, "Pick", survey.NewOptions("A", "B"), nil)}
				return s
			},
			problems: []Problem{},
		},
		{
			name: "Should report survey level problems",
			survey: func() survey.Survey {
				s := survey.New()
				s.Title = "  "
				return s
			},
			problems: []Problem{{Message: MessageSurveyTitleRequired}, {Message: MessageQuestionRequired}},
		},
		{
			name: "Should report blank options",
			survey: func() survey.Survey {
				s := survey.New()
				s.Questions = []survey.Question{question("a", questiontype.TypeCheckbox, "Pick", survey.NewOptions("A", " "), nil)}
				return s
			},
			problems: []Problem{{QuestionID: "a", Message: "option 2 must not be blank"}},
		},
		{
			name: "Should report missing options and title",
			survey: func() survey.Survey {
				s := survey.New()
				s.Questions = []survey.Question{question("a", questiontype.TypeSelect, "", []survey.Option{}, nil)}
				return s
			},
			problems: []Problem{{QuestionID: "a", Message: MessageTitleRequired}, {QuestionID: "a", Message: MessageOptionRequired}},
		},
		{
			name: "Should report unknown question types",
			survey: func() survey.Survey {
				s := survey.New()
				s.Questions = []survey.Question{question("a", "hologram", "Beam", nil, map[string]any{})}
				return s
			},
			problems: []Problem{{QuestionID: "a", Message: questiontype.MessageInvalidType}},
		},
		{
			name: "Should run typed checks on valid settings",
			survey: func() survey.Survey {
				s := survey.New()
				settings := registry.DefaultSettings(questiontype.TypeNumber)
				settings["min"] = 10
				settings["max"] = 1
				s.Questions = []survey.Question{question("a", questiontype.TypeNumber, "Age", nil, settings)}
				return s
			},
			problems: []Problem{{QuestionID: "a", Message: "min must not exceed max"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Validate(registry, tc.survey())
			assert.Equal(t, len(tc.problems) == 0, result.Valid)
			assert.Equal(t, tc.problems, result.Problems)
		})
	}
}

func TestStore_ValidateForPublishIsIdempotent(t *testing.T) {
	persister := &mockPersister{}
	store, scheduler := newTestStore(t, persister)
	store.SetSurvey(persistedSurvey("1"))

	_, err := store.AddQuestion(questiontype.TypeRadio, nil)
	require.NoError(t, err)
	require.Equal(t, 1, scheduler.Pending())

	before := store.Survey()
	dirty := store.Dirty()

	first := store.ValidateForPublish()
	second := store.ValidateForPublish()

	assert.Equal(t, first, second)
	assert.False(t, first.Valid)
	assert.Equal(t, before, store.Survey())
	assert.Equal(t, dirty, store.Dirty())
	assert.Equal(t, 1, scheduler.Pending())
	persister.AssertNotCalled(t, "UpdateSurvey", mock.Anything, mock.Anything, mock.Anything)
}
