package questiontype

import (
	"encoding/json"
	"fmt"
	"time"
)

type Family string

const (
	FamilyText       Family = "text"
	FamilyNumber     Family = "number"
	FamilyDateTime   Family = "datetime"
	FamilyChoice     Family = "choice"
	FamilyRating     Family = "rating"
	FamilyEmojiScale Family = "emoji_scale"
	FamilySlider     Family = "slider"
	FamilyMatrix     Family = "matrix"
	FamilyFileUpload Family = "file_upload"
	FamilySpecial    Family = "special"
	FamilyAdvanced   Family = "advanced"
)

var families = map[Type]Family{
	TypeText:             FamilyText,
	TypeTextarea:         FamilyText,
	TypeEmail:            FamilyText,
	TypePhone:            FamilyText,
	TypeURL:              FamilyText,
	TypeNumber:           FamilyNumber,
	TypeDate:             FamilyDateTime,
	TypeTime:             FamilyDateTime,
	TypeDatetime:         FamilyDateTime,
	TypeRadio:            FamilyChoice,
	TypeCheckbox:         FamilyChoice,
	TypeSelect:           FamilyChoice,
	TypeMultiselect:      FamilyChoice,
	TypeRanking:          FamilyChoice,
	TypeRating:           FamilyRating,
	TypeEmojiScale:       FamilyEmojiScale,
	TypeCustomEmojiScale: FamilyEmojiScale,
	TypeSlider:           FamilySlider,
	TypeMatrix:           FamilyMatrix,
	TypeFileUpload:       FamilyFileUpload,
	TypeSignature:        FamilySpecial,
	TypeLocation:         FamilySpecial,
	TypeContactInfo:      FamilySpecial,
	TypePayment:          FamilySpecial,
	TypeCalculated:       FamilyAdvanced,
	TypeConditional:      FamilyAdvanced,
}

// Settings is the typed view of a question's free-form settings map.
// Check reports cross-field problems that single-key rules cannot see.
type Settings interface {
	Family() Family
	Check() []string
}

type TextSettings struct {
	Placeholder string   `json:"placeholder"`
	MinLength   *float64 `json:"minLength"`
	MaxLength   *float64 `json:"maxLength"`
	Rows        *float64 `json:"rows"`
	Pattern     string   `json:"pattern"`
	Format      string   `json:"format"`
	Protocol    string   `json:"protocol"`
	Required    bool     `json:"required"`
}

func (s TextSettings) Family() Family { return FamilyText }

func (s TextSettings) Check() []string {
	if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
		return []string{"minLength must not exceed maxLength"}
	}
	return nil
}

type NumberSettings struct {
	Placeholder string   `json:"placeholder"`
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	Step        *float64 `json:"step"`
	Required    bool     `json:"required"`
}

func (s NumberSettings) Family() Family { return FamilyNumber }

func (s NumberSettings) Check() []string {
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return []string{"min must not exceed max"}
	}
	return nil
}

type DateTimeSettings struct {
	MinDate  *string `json:"minDate"`
	MaxDate  *string `json:"maxDate"`
	Format   string  `json:"format"`
	Required bool    `json:"required"`
}

func (s DateTimeSettings) Family() Family { return FamilyDateTime }

func (s DateTimeSettings) Check() []string {
	if s.MinDate == nil || s.MaxDate == nil {
		return nil
	}
	minDate, minOK := parseAny(*s.MinDate, datetimeLayouts)
	maxDate, maxOK := parseAny(*s.MaxDate, datetimeLayouts)
	if minOK && maxOK && minDate.After(maxDate) {
		return []string{"minDate must not be after maxDate"}
	}
	return nil
}

type ChoiceSettings struct {
	AllowOther    bool     `json:"allowOther"`
	OtherLabel    string   `json:"otherLabel"`
	MinSelections *float64 `json:"minSelections"`
	MaxSelections *float64 `json:"maxSelections"`
	Randomize     bool     `json:"randomize"`
	Searchable    bool     `json:"searchable"`
	AllowTies     bool     `json:"allowTies"`
	Placeholder   string   `json:"placeholder"`
	Required      bool     `json:"required"`
}

func (s ChoiceSettings) Family() Family { return FamilyChoice }

func (s ChoiceSettings) Check() []string {
	if s.MinSelections != nil && s.MaxSelections != nil && *s.MinSelections > *s.MaxSelections {
		return []string{"minSelections must not exceed maxSelections"}
	}
	return nil
}

type RatingSettings struct {
	MaxRating      float64  `json:"maxRating"`
	AllowHalfStars bool     `json:"allowHalfStars"`
	ShowLabels     bool     `json:"showLabels"`
	Labels         []string `json:"labels"`
	Required       bool     `json:"required"`
}

func (s RatingSettings) Family() Family { return FamilyRating }

func (s RatingSettings) Check() []string { return nil }

type EmojiScaleSettings struct {
	Scale      string   `json:"scale"`
	Emojis     []string `json:"emojis"`
	Labels     []string `json:"labels"`
	ShowLabels bool     `json:"showLabels"`
	Required   bool     `json:"required"`
}

func (s EmojiScaleSettings) Family() Family { return FamilyEmojiScale }

func (s EmojiScaleSettings) Check() []string {
	if len(s.Emojis) > 0 && len(s.Labels) > 0 && len(s.Emojis) != len(s.Labels) {
		return []string{"emojis and labels must have the same length"}
	}
	return nil
}

type SliderSettings struct {
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	Step       *float64 `json:"step"`
	ShowValue  bool     `json:"showValue"`
	ShowLabels bool     `json:"showLabels"`
	LeftLabel  string   `json:"leftLabel"`
	RightLabel string   `json:"rightLabel"`
	Required   bool     `json:"required"`
}

func (s SliderSettings) Family() Family { return FamilySlider }

func (s SliderSettings) Check() []string {
	if s.Min != nil && s.Max != nil && *s.Min >= *s.Max {
		return []string{"min must be less than max"}
	}
	return nil
}

type MatrixSettings struct {
	Rows     []string `json:"rows"`
	Columns  []string `json:"columns"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
}

func (s MatrixSettings) Family() Family { return FamilyMatrix }

func (s MatrixSettings) Check() []string {
	if len(s.Columns) == 0 {
		return []string{"columns must not be empty"}
	}
	return nil
}

type FileUploadSettings struct {
	AllowedTypes []string `json:"allowedTypes"`
	MaxSize      float64  `json:"maxSize"`
	MaxFiles     float64  `json:"maxFiles"`
	Required     bool     `json:"required"`
}

func (s FileUploadSettings) Family() Family { return FamilyFileUpload }

func (s FileUploadSettings) Check() []string { return nil }

type SpecialSettings struct {
	Accuracy string   `json:"accuracy"`
	Fields   []string `json:"fields"`
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
	Required bool     `json:"required"`
}

func (s SpecialSettings) Family() Family { return FamilySpecial }

func (s SpecialSettings) Check() []string { return nil }

type AdvancedSettings struct {
	Formula       string           `json:"formula"`
	DecimalPlaces *float64         `json:"decimalPlaces"`
	Conditions    []map[string]any `json:"conditions"`
	Required      bool             `json:"required"`
}

func (s AdvancedSettings) Family() Family { return FamilyAdvanced }

func (s AdvancedSettings) Check() []string { return nil }

func FamilyOf(t Type) (Family, bool) {
	f, ok := families[t]
	return f, ok
}

// DecodeSettings converts a settings map into the typed variant for t.
// Keys the variant does not know are ignored.
func DecodeSettings(t Type, settings map[string]any) (Settings, error) {
	family, ok := families[t]
	if !ok {
		return nil, fmt.Errorf("questiontype: no settings variant for type %q", t)
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("questiontype: failed to encode settings: %w", err)
	}

	var target Settings
	switch family {
	case FamilyText:
		target, err = decodeInto[TextSettings](raw)
	case FamilyNumber:
		target, err = decodeInto[NumberSettings](raw)
	case FamilyDateTime:
		target, err = decodeInto[DateTimeSettings](raw)
	case FamilyChoice:
		target, err = decodeInto[ChoiceSettings](raw)
	case FamilyRating:
		target, err = decodeInto[RatingSettings](raw)
	case FamilyEmojiScale:
		target, err = decodeInto[EmojiScaleSettings](raw)
	case FamilySlider:
		target, err = decodeInto[SliderSettings](raw)
	case FamilyMatrix:
		target, err = decodeInto[MatrixSettings](raw)
	case FamilyFileUpload:
		target, err = decodeInto[FileUploadSettings](raw)
	case FamilySpecial:
		target, err = decodeInto[SpecialSettings](raw)
	case FamilyAdvanced:
		target, err = decodeInto[AdvancedSettings](raw)
	}
	if err != nil {
		return nil, fmt.Errorf("questiontype: failed to decode %s settings: %w", t, err)
	}

	return target, nil
}

func decodeInto[T Settings](raw []byte) (Settings, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func parseAny(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
