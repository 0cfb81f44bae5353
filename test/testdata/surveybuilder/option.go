package surveybuilder

import (
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"
)

type Option func(*FactoryParams)

type QuestionParams struct {
	Type     questiontype.Type
	Title    string
	Required bool
	Options  []string
	Settings map[string]any
}

type FactoryParams struct {
	ID          survey.ID
	Title       string
	Description string
	Status      survey.Status
	Theme       string
	Questions   []QuestionParams
}

func WithID(id survey.ID) Option {
	return func(p *FactoryParams) { p.ID = id }
}

func WithTitle(title string) Option {
	return func(p *FactoryParams) { p.Title = title }
}

func WithDescription(description string) Option {
	return func(p *FactoryParams) { p.Description = description }
}

func WithStatus(status survey.Status) Option {
	return func(p *FactoryParams) { p.Status = status }
}

func WithTheme(theme string) Option {
	return func(p *FactoryParams) { p.Theme = theme }
}

// WithQuestion appends a question. Missing options and settings fall back to the type's defaults.
func WithQuestion(t questiontype.Type, title string) Option {
	return func(p *FactoryParams) {
		p.Questions = append(p.Questions, QuestionParams{Type: t, Title: title})
	}
}

func WithRequiredQuestion(t questiontype.Type, title string) Option {
	return func(p *FactoryParams) {
		p.Questions = append(p.Questions, QuestionParams{Type: t, Title: title, Required: true})
	}
}

func WithChoiceQuestion(t questiontype.Type, title string, options ...string) Option {
	return func(p *FactoryParams) {
		p.Questions = append(p.Questions, QuestionParams{Type: t, Title: title, Options: options})
	}
}

func WithSettingsQuestion(t questiontype.Type, title string, settings map[string]any) Option {
	return func(p *FactoryParams) {
		p.Questions = append(p.Questions, QuestionParams{Type: t, Title: title, Settings: settings})
	}
}
