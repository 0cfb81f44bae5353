package template

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"
)

const (
	FeatureRating     = "Rating Questions"
	FeatureEmojiScale = "Emoji Scales"
	FeatureMultiple   = "Multiple Choice"
	FeatureText       = "Text Responses"
	FeatureRequired   = "Required Questions"
)

// secondsPerQuestion drives the preview's time estimate.
const secondsPerQuestion = 30

type document struct {
	Categories []CategoryInfo `json:"categories"`
	Templates  []Template     `json:"templates"`
}

// Catalog is the static template library. It is read-only once parsed.
type Catalog struct {
	registry   *questiontype.Registry
	categories []CategoryInfo
	templates  []Template
	byID       map[string]int

	newID  survey.IDGenerator
	copies *atomic.Int64
}

//go:embed templates.json
var templatesJSON []byte

var (
	once    sync.Once
	loadErr error
	catalog *Catalog
)

// Default returns the catalog built from the embedded templates.json.
func Default() (*Catalog, error) {
	once.Do(func() {
		registry, err := questiontype.Default()
		if err != nil {
			loadErr = err
			return
		}
		catalog, loadErr = Parse(templatesJSON, registry)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return catalog, nil
}

func Parse(data []byte, registry *questiontype.Registry) (*Catalog, error) {
	var doc document

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("template: failed to decode templates.json: %w", err)
	}

	categories := make(map[Category]struct{}, len(doc.Categories))
	for i, c := range doc.Categories {
		if c.ID == "" || c.Name == "" {
			return nil, fmt.Errorf("template: invalid category entry at index %d (empty id/name)", i)
		}
		categories[c.ID] = struct{}{}
	}

	byID := make(map[string]int, len(doc.Templates))
	for i, t := range doc.Templates {
		if t.ID == "" || t.Name == "" {
			return nil, fmt.Errorf("template: invalid template entry at index %d (empty id/name)", i)
		}
		if _, exists := byID[t.ID]; exists {
			return nil, fmt.Errorf("template: duplicated template: %s", t.ID)
		}
		if _, ok := categories[t.Category]; !ok {
			return nil, fmt.Errorf("template: template %s has unknown category %q", t.ID, t.Category)
		}
		for j, q := range t.Questions {
			if !registry.IsValid(q.Type) {
				return nil, fmt.Errorf("template: template %s question %d has unknown type %q", t.ID, j, q.Type)
			}
		}
		byID[t.ID] = i
	}

	return &Catalog{
		registry:   registry,
		categories: doc.Categories,
		templates:  doc.Templates,
		byID:       byID,
		newID:      survey.NewUUID,
		copies:     &atomic.Int64{},
	}, nil
}

// WithIDGenerator returns a catalog sharing the same templates that numbers
// instantiated questions with gen.
func (c *Catalog) WithIDGenerator(gen survey.IDGenerator) *Catalog {
	result := *c
	result.newID = gen
	return &result
}

func (c *Catalog) List() []Summary {
	result := make([]Summary, len(c.templates))
	for i, t := range c.templates {
		result[i] = t.Summary()
	}
	return result
}

func (c *Catalog) ListByCategory(category Category) []Summary {
	result := make([]Summary, 0)
	for _, t := range c.templates {
		if t.Category == category {
			result = append(result, t.Summary())
		}
	}
	return result
}

func (c *Catalog) Categories() []CategoryInfo {
	result := make([]CategoryInfo, len(c.categories))
	copy(result, c.categories)
	return result
}

// Search matches the query case-insensitively against name, description and category.
func (c *Catalog) Search(query string) []Summary {
	term := strings.ToLower(strings.TrimSpace(query))

	result := make([]Summary, 0)
	for _, t := range c.templates {
		if strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.Description), term) ||
			strings.Contains(strings.ToLower(string(t.Category)), term) {
			result = append(result, t.Summary())
		}
	}
	return result
}

func (c *Catalog) Get(id string) (Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, ErrTemplateNotFound{ID: id}
	}
	return c.templates[i].clone(), nil
}

// Instantiate builds an unsaved draft from the template.
func (c *Catalog) Instantiate(id string, custom Customization) (survey.Survey, error) {
	t, err := c.Get(id)
	if err != nil {
		return survey.Survey{}, err
	}

	result := survey.New()
	result.Title = t.Name
	if custom.Title != "" {
		result.Title = custom.Title
	}
	result.Description = t.Description
	if custom.Description != "" {
		result.Description = custom.Description
	}

	settings := result.Settings.Apply(t.Settings).Apply(custom.Settings)
	if len(t.Settings.Colors) == 0 && len(custom.Settings.Colors) == 0 {
		settings = settings.WithTheme(settings.Theme)
	}
	result.Settings = settings

	result.Questions = make([]survey.Question, len(t.Questions))
	for i, bp := range t.Questions {
		options := bp.Options
		if len(options) == 0 {
			options = c.registry.DefaultOptions(bp.Type)
		}
		result.Questions[i] = survey.Question{
			ID:          c.newID(),
			Type:        bp.Type,
			Title:       bp.Title,
			Description: bp.Description,
			Required:    bp.Required,
			Options:     survey.NewOptions(options...),
			Settings:    questiontype.MergeSettings(c.registry.DefaultSettings(bp.Type), bp.Settings),
			Order:       i,
		}
	}

	return result, nil
}

func (c *Catalog) Preview(id string) (Preview, error) {
	t, err := c.Get(id)
	if err != nil {
		return Preview{}, err
	}

	n := len(t.Questions)
	return Preview{
		Summary:          t.Summary(),
		EstimatedMinutes: int(math.Ceil(float64(n*secondsPerQuestion) / 60)),
		Features:         features(t.Questions),
	}, nil
}

func features(questions []Blueprint) []string {
	has := func(match func(Blueprint) bool) bool {
		for _, q := range questions {
			if match(q) {
				return true
			}
		}
		return false
	}
	ofType := func(t questiontype.Type) func(Blueprint) bool {
		return func(q Blueprint) bool { return q.Type == t }
	}

	result := make([]string, 0, 5)
	if has(ofType(questiontype.TypeRating)) {
		result = append(result, FeatureRating)
	}
	if has(ofType(questiontype.TypeEmojiScale)) {
		result = append(result, FeatureEmojiScale)
	}
	if has(ofType(questiontype.TypeCheckbox)) {
		result = append(result, FeatureMultiple)
	}
	if has(ofType(questiontype.TypeTextarea)) {
		result = append(result, FeatureText)
	}
	if has(func(q Blueprint) bool { return q.Required }) {
		result = append(result, FeatureRequired)
	}
	return result
}

// Duplicate returns an unregistered copy of the template. An empty name yields "<name> (Copy)".
func (c *Catalog) Duplicate(id, name string) (Template, error) {
	t, err := c.Get(id)
	if err != nil {
		return Template{}, err
	}

	n := c.copies.Add(1)
	t.ID = fmt.Sprintf("%s_copy_%d", t.ID, n)
	if name != "" {
		t.Name = name
	} else {
		t.Name = t.Name + " (Copy)"
	}
	return t, nil
}
