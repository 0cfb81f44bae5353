package template

import (
	"maps"

	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"
)

type Category string

type CategoryInfo struct {
	ID          Category `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
}

// Blueprint is a question without identity or position.
type Blueprint struct {
	Type        questiontype.Type `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Required    bool              `json:"required"`
	Options     []string          `json:"options,omitempty"`
	Settings    map[string]any    `json:"settings,omitempty"`
}

type Template struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    Category     `json:"category"`
	Icon        string       `json:"icon"`
	Questions   []Blueprint  `json:"questions"`
	Settings    survey.Patch `json:"settings"`
}

type Summary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      Category `json:"category"`
	Icon          string   `json:"icon"`
	QuestionCount int      `json:"questionCount"`
}

type Preview struct {
	Summary
	EstimatedMinutes int      `json:"estimatedTime"`
	Features         []string `json:"features"`
}

// Customization overrides what a template would otherwise produce. Empty strings keep the template's values.
type Customization struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Settings    survey.Patch `json:"settings"`
}

func (t Template) Summary() Summary {
	return Summary{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Category:      t.Category,
		Icon:          t.Icon,
		QuestionCount: len(t.Questions),
	}
}

func (t Template) clone() Template {
	result := t
	result.Questions = make([]Blueprint, len(t.Questions))
	for i, q := range t.Questions {
		q.Options = append([]string(nil), q.Options...)
		q.Settings = questiontype.CopySettings(q.Settings)
		result.Questions[i] = q
	}
	result.Settings = clonePatch(t.Settings)
	return result
}

func clonePatch(p survey.Patch) survey.Patch {
	return survey.Patch{
		AllowAnonymous:  clonePtr(p.AllowAnonymous),
		RequireLogin:    clonePtr(p.RequireLogin),
		ShowProgress:    clonePtr(p.ShowProgress),
		AllowBack:       clonePtr(p.AllowBack),
		AutoSave:        clonePtr(p.AutoSave),
		MaxResponses:    clonePtr(p.MaxResponses),
		ResponseTimeout: clonePtr(p.ResponseTimeout),
		Theme:           clonePtr(p.Theme),
		Colors:          maps.Clone(p.Colors),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
