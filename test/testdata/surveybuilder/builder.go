package surveybuilder

import (
	"fmt"
	"testing"

	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"
	"NYCU-SDC/survey-builder/test/testdata"

	"github.com/stretchr/testify/require"
)

type Builder struct {
	t        *testing.T
	registry *questiontype.Registry
}

func New(t *testing.T) *Builder {
	registry, err := questiontype.Default()
	require.NoError(t, err)
	return &Builder{t: t, registry: registry}
}

func (b Builder) Registry() *questiontype.Registry {
	return b.registry
}

// Create returns an unsaved survey with random title and description. Question
// ids are q1, q2 and so on.
func (b Builder) Create(opts ...Option) survey.Survey {
	p := &FactoryParams{
		Title:       testdata.RandomTitle(),
		Description: testdata.RandomDescription(),
		Status:      survey.StatusDraft,
	}
	for _, opt := range opts {
		opt(p)
	}

	result := survey.New()
	result.ID = p.ID
	result.Title = p.Title
	result.Description = p.Description
	result.Status = p.Status
	if p.Theme != "" {
		result.Settings = result.Settings.WithTheme(p.Theme)
	}

	for i, qp := range p.Questions {
		require.True(b.t, b.registry.IsValid(qp.Type), "unknown question type %q", qp.Type)

		options := qp.Options
		if options == nil {
			options = b.registry.DefaultOptions(qp.Type)
		}
		result.Questions = append(result.Questions, survey.Question{
			ID:       survey.ID(fmt.Sprintf("q%d", i+1)),
			Type:     qp.Type,
			Title:    qp.Title,
			Required: qp.Required,
			Options:  survey.NewOptions(options...),
			Settings: questiontype.MergeSettings(b.registry.DefaultSettings(qp.Type), qp.Settings),
		})
	}
	survey.Renumber(result.Questions)

	return result
}

// CreateValid returns a survey that passes publish validation.
func (b Builder) CreateValid(opts ...Option) survey.Survey {
	base := []Option{
		WithQuestion(questiontype.TypeText, testdata.RandomQuestion()),
		WithChoiceQuestion(questiontype.TypeRadio, testdata.RandomQuestion(), testdata.RandomWords(3)...),
	}
	return b.Create(append(base, opts...)...)
}
