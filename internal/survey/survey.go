package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"NYCU-SDC/survey-builder/internal/questiontype"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

const DefaultTitle = "Untitled Survey"

// ID is an opaque identifier. The storage service emits numeric ids, so decoding
// accepts both JSON strings and numbers.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	err := json.Unmarshal(data, &n)
	if err != nil {
		return fmt.Errorf("survey: invalid id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

// Timestamp decodes RFC3339 as well as the "2006-01-02 15:04:05" form the storage service writes.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("survey: invalid timestamp %q", s)
}

// Option is one choice of a question. Without a value it travels as a bare string.
type Option struct {
	Label string
	Value *float64
}

func NewOptions(labels ...string) []Option {
	options := make([]Option, len(labels))
	for i, label := range labels {
		options[i] = Option{Label: label}
	}
	return options
}

type optionObject struct {
	Label string   `json:"label"`
	Value *float64 `json:"value,omitempty"`
}

func (o Option) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return json.Marshal(o.Label)
	}
	return json.Marshal(optionObject{Label: o.Label, Value: o.Value})
}

func (o *Option) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		o.Value = nil
		return json.Unmarshal(data, &o.Label)
	case '{':
		var obj optionObject
		err := json.Unmarshal(data, &obj)
		if err != nil {
			return err
		}
		o.Label = obj.Label
		o.Value = obj.Value
		return nil
	default:
		var n float64
		err := json.Unmarshal(data, &n)
		if err != nil {
			return fmt.Errorf("survey: invalid option %s: %w", string(data), err)
		}
		o.Label = strconv.FormatFloat(n, 'f', -1, 64)
		o.Value = &n
		return nil
	}
}

func (o Option) IsBlank() bool {
	return strings.TrimSpace(o.Label) == ""
}

type Question struct {
	ID          ID                `json:"id"`
	Type        questiontype.Type `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Required    bool              `json:"required"`
	Options     []Option          `json:"options"`
	Settings    map[string]any    `json:"settings"`
	Order       int               `json:"order"`
	CreatedAt   *Timestamp        `json:"created_at,omitempty"`
}

type questionAlias Question

// UnmarshalJSON accepts settings stored as a JSON encoded string and 0/1 booleans.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw struct {
		questionAlias
		Required json.RawMessage `json:"required"`
		Settings json.RawMessage `json:"settings"`
	}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	*q = Question(raw.questionAlias)
	q.Required, err = decodeBool(raw.Required)
	if err != nil {
		return fmt.Errorf("survey: question %s: %w", q.ID, err)
	}
	q.Settings, err = decodeSettingsMap(raw.Settings)
	if err != nil {
		return fmt.Errorf("survey: question %s: %w", q.ID, err)
	}
	if q.Options == nil {
		q.Options = []Option{}
	}
	return nil
}

func decodeBool(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", "0":
		return false, nil
	case "true", "1":
		return true, nil
	}
	return false, fmt.Errorf("invalid boolean %s", string(raw))
}

func decodeSettingsMap(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]any{}, nil
	}

	if raw[0] == '"' {
		var encoded string
		err := json.Unmarshal(raw, &encoded)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(encoded) == "" {
			return map[string]any{}, nil
		}
		raw = json.RawMessage(encoded)
	}

	settings := map[string]any{}
	err := json.Unmarshal(raw, &settings)
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

type Survey struct {
	ID          ID         `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Settings    Settings   `json:"settings"`
	Questions   []Question `json:"questions"`
	OwnerID     ID         `json:"user_id,omitempty"`
	CreatedAt   *Timestamp `json:"created_at,omitempty"`
	UpdatedAt   *Timestamp `json:"updated_at,omitempty"`
}

// New returns an empty draft with default settings.
func New() Survey {
	return Survey{
		Title:     DefaultTitle,
		Status:    StatusDraft,
		Settings:  DefaultSettings(),
		Questions: []Question{},
	}
}

func (s Survey) IsPersisted() bool {
	return s.ID != ""
}

func (s Survey) QuestionIndex(id ID) int {
	for i, q := range s.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Renumber re-derives every question's order from its position.
func Renumber(questions []Question) {
	for i := range questions {
		questions[i].Order = i
	}
}

// Clone deep copies the survey so the copy shares no mutable state with s.
func (s Survey) Clone() Survey {
	result := s
	result.Settings = s.Settings.Clone()
	result.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		result.Questions[i] = q.Clone()
	}
	result.CreatedAt = cloneTimestamp(s.CreatedAt)
	result.UpdatedAt = cloneTimestamp(s.UpdatedAt)
	return result
}

func (q Question) Clone() Question {
	result := q
	result.Options = CloneOptions(q.Options)
	result.Settings = questiontype.CopySettings(q.Settings)
	result.CreatedAt = cloneTimestamp(q.CreatedAt)
	return result
}

func CloneOptions(options []Option) []Option {
	result := make([]Option, len(options))
	for i, o := range options {
		result[i] = Option{Label: o.Label}
		if o.Value != nil {
			v := *o.Value
			result[i].Value = &v
		}
	}
	return result
}

func cloneTimestamp(t *Timestamp) *Timestamp {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

type surveyAlias Survey

// UnmarshalJSON starts from New so fields the payload omits keep their defaults.
func (s *Survey) UnmarshalJSON(data []byte) error {
	alias := surveyAlias(New())
	err := json.Unmarshal(data, &alias)
	if err != nil {
		return err
	}
	*s = Survey(alias)
	if s.Questions == nil {
		s.Questions = []Question{}
	}
	return nil
}
