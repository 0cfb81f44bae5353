package questiontype

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

type Type string

const (
	TypeText             Type = "text"
	TypeTextarea         Type = "textarea"
	TypeEmail            Type = "email"
	TypeNumber           Type = "number"
	TypePhone            Type = "phone"
	TypeURL              Type = "url"
	TypeDate             Type = "date"
	TypeTime             Type = "time"
	TypeDatetime         Type = "datetime"
	TypeRadio            Type = "radio"
	TypeCheckbox         Type = "checkbox"
	TypeSelect           Type = "select"
	TypeMultiselect      Type = "multiselect"
	TypeRating           Type = "rating"
	TypeEmojiScale       Type = "emoji_scale"
	TypeCustomEmojiScale Type = "custom_emoji_scale"
	TypeSlider           Type = "slider"
	TypeRanking          Type = "ranking"
	TypeMatrix           Type = "matrix"
	TypeFileUpload       Type = "file_upload"
	TypeSignature        Type = "signature"
	TypeLocation         Type = "location"
	TypeContactInfo      Type = "contact_info"
	TypePayment          Type = "payment"
	TypeCalculated       Type = "calculated"
	TypeConditional      Type = "conditional"
)

type Category string

const (
	CategoryTextInput Category = "text_input"
	CategoryChoice    Category = "choice"
	CategoryRating    Category = "rating"
	CategorySpecial   Category = "special"
	CategoryAdvanced  Category = "advanced"
)

const (
	UnknownName = "Unknown"
	UnknownIcon = "❓"
)

// Config describes how questions of one type are created, rendered and validated.
type Config struct {
	Type            Type            `json:"type"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        Category        `json:"category"`
	Icon            string          `json:"icon"`
	HasOptions      bool            `json:"hasOptions"`
	HasValidation   bool            `json:"hasValidation"`
	HasConditional  bool            `json:"hasConditional"`
	DefaultOptions  []string        `json:"defaultOptions,omitempty"`
	DefaultSettings map[string]any  `json:"defaultSettings"`
	ValidationRules map[string]Rule `json:"validationRules"`
}

type CategoryInfo struct {
	ID   Category `json:"id"`
	Name string   `json:"name"`
}

type EmojiScale struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Emojis []string `json:"emojis"`
	Labels []string `json:"labels"`
}

type document struct {
	Categories  []CategoryInfo `json:"categories"`
	Types       []Config       `json:"types"`
	EmojiScales []EmojiScale   `json:"emojiScales"`
}

// Registry is immutable after Parse, every accessor hands out copies.
type Registry struct {
	categories []CategoryInfo
	types      []Config
	byType     map[Type]int
	scales     []EmojiScale
}

//go:embed types.json
var typesJSON []byte

var (
	once     sync.Once
	loadErr  error
	registry *Registry
)

func loadOnce() {
	registry, loadErr = Parse(typesJSON)
}

// Default returns the registry built from the embedded types.json.
func Default() (*Registry, error) {
	once.Do(loadOnce)
	if loadErr != nil {
		return nil, loadErr
	}
	return registry, nil
}

func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

func Parse(data []byte) (*Registry, error) {
	var doc document

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("questiontype: failed to decode types.json: %w", err)
	}

	categories := make(map[Category]struct{}, len(doc.Categories))
	for i, c := range doc.Categories {
		if c.ID == "" || c.Name == "" {
			return nil, fmt.Errorf("questiontype: invalid category entry at index %d (empty id/name)", i)
		}
		categories[c.ID] = struct{}{}
	}

	byType := make(map[Type]int, len(doc.Types))
	for i, t := range doc.Types {
		if t.Type == "" || t.Name == "" {
			return nil, fmt.Errorf("questiontype: invalid type entry at index %d (empty type/name)", i)
		}
		if _, exists := byType[t.Type]; exists {
			return nil, fmt.Errorf("questiontype: duplicated type: %s", t.Type)
		}
		if _, ok := categories[t.Category]; !ok {
			return nil, fmt.Errorf("questiontype: type %s has unknown category %q", t.Type, t.Category)
		}
		if t.HasOptions && len(t.DefaultOptions) == 0 {
			return nil, fmt.Errorf("questiontype: type %s has options but no default options", t.Type)
		}
		for key, rule := range t.ValidationRules {
			err := rule.validate()
			if err != nil {
				return nil, fmt.Errorf("questiontype: type %s rule %s: %w", t.Type, key, err)
			}
		}
		if t.DefaultSettings == nil {
			doc.Types[i].DefaultSettings = map[string]any{}
		}
		byType[t.Type] = i
	}

	return &Registry{
		categories: doc.Categories,
		types:      doc.Types,
		byType:     byType,
		scales:     doc.EmojiScales,
	}, nil
}

// Config looks up a question type. A miss is reported through ok, never as an error.
func (r *Registry) Config(t Type) (Config, bool) {
	i, ok := r.byType[t]
	if !ok {
		return Config{}, false
	}
	return r.types[i].clone(), true
}

func (r *Registry) IsValid(t Type) bool {
	_, ok := r.byType[t]
	return ok
}

func (r *Registry) List() []Config {
	result := make([]Config, len(r.types))
	for i, c := range r.types {
		result[i] = c.clone()
	}
	return result
}

// ListByCategory keeps registration order.
func (r *Registry) ListByCategory(category Category) []Config {
	result := make([]Config, 0)
	for _, c := range r.types {
		if c.Category == category {
			result = append(result, c.clone())
		}
	}
	return result
}

func (r *Registry) Categories() []CategoryInfo {
	result := make([]CategoryInfo, len(r.categories))
	copy(result, r.categories)
	return result
}

func (r *Registry) IsValidCategory(category Category) bool {
	for _, c := range r.categories {
		if c.ID == category {
			return true
		}
	}
	return false
}

// DefaultSettings returns a fresh copy of the type's default settings, empty for unknown types.
func (r *Registry) DefaultSettings(t Type) map[string]any {
	i, ok := r.byType[t]
	if !ok {
		return map[string]any{}
	}
	return CopySettings(r.types[i].DefaultSettings)
}

func (r *Registry) DefaultOptions(t Type) []string {
	i, ok := r.byType[t]
	if !ok || !r.types[i].HasOptions {
		return []string{}
	}
	result := make([]string, len(r.types[i].DefaultOptions))
	copy(result, r.types[i].DefaultOptions)
	return result
}

func (r *Registry) Name(t Type) string {
	i, ok := r.byType[t]
	if !ok {
		return UnknownName
	}
	return r.types[i].Name
}

func (r *Registry) Icon(t Type) string {
	i, ok := r.byType[t]
	if !ok {
		return UnknownIcon
	}
	return r.types[i].Icon
}

func (r *Registry) EmojiScales() []EmojiScale {
	result := make([]EmojiScale, len(r.scales))
	for i, s := range r.scales {
		result[i] = EmojiScale{
			ID:     s.ID,
			Name:   s.Name,
			Emojis: append([]string(nil), s.Emojis...),
			Labels: append([]string(nil), s.Labels...),
		}
	}
	return result
}

func (r *Registry) EmojiScale(id string) (EmojiScale, bool) {
	for _, s := range r.EmojiScales() {
		if s.ID == id {
			return s, true
		}
	}
	return EmojiScale{}, false
}

func (c Config) clone() Config {
	result := c
	result.DefaultOptions = append([]string(nil), c.DefaultOptions...)
	result.DefaultSettings = CopySettings(c.DefaultSettings)
	result.ValidationRules = make(map[string]Rule, len(c.ValidationRules))
	for key, rule := range c.ValidationRules {
		rule.Options = append([]string(nil), rule.Options...)
		result.ValidationRules[key] = rule
	}
	return result
}
