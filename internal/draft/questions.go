package draft

import (
	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"
)

// QuestionOverrides seeds a new question. Nil fields fall back to the type's defaults.
type QuestionOverrides struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Required    *bool           `json:"required,omitempty"`
	Options     []survey.Option `json:"options,omitempty"`
	Settings    map[string]any  `json:"settings,omitempty"`
}

// QuestionPatch is merged into an existing question. Nil fields are left untouched,
// a non-nil Settings replaces the settings map.
type QuestionPatch struct {
	Type        *questiontype.Type `json:"type,omitempty" validate:"omitempty,question_type"`
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Required    *bool              `json:"required,omitempty"`
	Options     []survey.Option    `json:"options,omitempty"`
	Settings    map[string]any     `json:"settings,omitempty"`
}

func (s *Store) AddQuestion(t questiontype.Type, overrides *QuestionOverrides) (survey.Question, error) {
	if !s.registry.IsValid(t) {
		return survey.Question{}, ErrInvalidQuestionType{Type: t}
	}
	if overrides == nil {
		overrides = &QuestionOverrides{}
	}

	options := survey.CloneOptions(overrides.Options)
	if len(overrides.Options) == 0 {
		options = survey.NewOptions(s.registry.DefaultOptions(t)...)
	}

	q := survey.Question{
		Type:     t,
		Options:  options,
		Settings: questiontype.MergeSettings(s.registry.DefaultSettings(t), overrides.Settings),
	}
	if overrides.Title != nil {
		q.Title = *overrides.Title
	}
	if overrides.Description != nil {
		q.Description = *overrides.Description
	}
	if overrides.Required != nil {
		q.Required = *overrides.Required
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q.ID = s.newID()
	q.Order = len(s.survey.Questions)
	s.survey.Questions = append(s.survey.Questions, q)
	s.touchLocked()

	return q.Clone(), nil
}

// UpdateQuestion merges patch into the question with the given id. An unknown id
// is not an error, the question may have been deleted by an earlier edit.
func (s *Store) UpdateQuestion(id survey.ID, patch QuestionPatch) error {
	if patch.Type != nil && !s.registry.IsValid(*patch.Type) {
		return ErrInvalidQuestionType{Type: *patch.Type}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.survey.QuestionIndex(id)
	if i < 0 {
		return nil
	}

	q := &s.survey.Questions[i]
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.Description != nil {
		q.Description = *patch.Description
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.Options != nil {
		q.Options = survey.CloneOptions(patch.Options)
	}
	if patch.Settings != nil {
		q.Settings = questiontype.CopySettings(patch.Settings)
	}
	s.touchLocked()
	return nil
}

func (s *Store) DeleteQuestion(id survey.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.survey.QuestionIndex(id)
	if i < 0 {
		return
	}

	s.survey.Questions = append(s.survey.Questions[:i], s.survey.Questions[i+1:]...)
	survey.Renumber(s.survey.Questions)
	s.touchLocked()
}

// DuplicateQuestion appends a deep copy of the question titled "<title> (Copy)".
func (s *Store) DuplicateQuestion(id survey.ID) (survey.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.survey.QuestionIndex(id)
	if i < 0 {
		return survey.Question{}, false
	}

	q := s.survey.Questions[i].Clone()
	q.ID = s.newID()
	q.Title = q.Title + " (Copy)"
	q.Order = len(s.survey.Questions)
	q.CreatedAt = nil
	s.survey.Questions = append(s.survey.Questions, q)
	s.touchLocked()

	return q.Clone(), true
}

// ReorderQuestions rearranges the questions to match ids, which must name every
// current question exactly once.
func (s *Store) ReorderQuestions(ids []survey.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.survey.Questions) {
		return internal.ErrInvalidReorder
	}

	byID := make(map[survey.ID]survey.Question, len(s.survey.Questions))
	for _, q := range s.survey.Questions {
		byID[q.ID] = q
	}

	reordered := make([]survey.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return internal.ErrInvalidReorder
		}
		delete(byID, id)
		reordered = append(reordered, q)
	}

	survey.Renumber(reordered)
	s.survey.Questions = reordered
	s.touchLocked()
	return nil
}

// MoveQuestion moves one question to index, shifting the ones in between.
func (s *Store) MoveQuestion(id survey.ID, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.survey.QuestionIndex(id)
	if from < 0 {
		return internal.ErrQuestionNotFound
	}
	if index < 0 || index >= len(s.survey.Questions) {
		return internal.ErrInvalidPosition
	}
	if from == index {
		return nil
	}

	q := s.survey.Questions[from]
	questions := append(s.survey.Questions[:from:from], s.survey.Questions[from+1:]...)
	questions = append(questions[:index], append([]survey.Question{q}, questions[index:]...)...)

	survey.Renumber(questions)
	s.survey.Questions = questions
	s.touchLocked()
	return nil
}
