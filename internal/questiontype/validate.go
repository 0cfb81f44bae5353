package questiontype

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

type RuleKind string

const (
	RuleKindNumber   RuleKind = "number"
	RuleKindString   RuleKind = "string"
	RuleKindSelect   RuleKind = "select"
	RuleKindArray    RuleKind = "array"
	RuleKindDate     RuleKind = "date"
	RuleKindDatetime RuleKind = "datetime"
)

const MessageInvalidType = "Invalid question type"

type Rule struct {
	Kind    RuleKind `json:"kind"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Options []string `json:"options,omitempty"`
}

type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

var datetimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func (r Rule) validate() error {
	switch r.Kind {
	case RuleKindNumber, RuleKindString, RuleKindArray, RuleKindDate, RuleKindDatetime:
	case RuleKindSelect:
		if len(r.Options) == 0 {
			return errors.New("select rule without options")
		}
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return errors.New("min greater than max")
	}
	return nil
}

// ValidateSettings checks every rule of the type against settings and collects one
// message per violated rule. Absent and null values are skipped.
func (r *Registry) ValidateSettings(t Type, settings map[string]any) Result {
	i, ok := r.byType[t]
	if !ok {
		return Result{Valid: false, Errors: []string{MessageInvalidType}}
	}

	rules := r.types[i].ValidationRules
	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	problems := make([]string, 0)
	for _, key := range keys {
		value, present := settings[key]
		if !present || value == nil {
			continue
		}

		message, ok := rules[key].check(key, value)
		if !ok {
			problems = append(problems, message)
		}
	}

	return Result{Valid: len(problems) == 0, Errors: problems}
}

func (r Rule) check(key string, value any) (string, bool) {
	switch r.Kind {
	case RuleKindNumber:
		n, ok := ToFloat(value)
		if !ok {
			return fmt.Sprintf("%s must be a number", key), false
		}
		if r.Min != nil && n < *r.Min {
			return fmt.Sprintf("%s must be at least %s", key, formatNumber(*r.Min)), false
		}
		if r.Max != nil && n > *r.Max {
			return fmt.Sprintf("%s must be at most %s", key, formatNumber(*r.Max)), false
		}
	case RuleKindString:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s must be a string", key), false
		}
	case RuleKindSelect:
		s, ok := value.(string)
		if !ok || !slices.Contains(r.Options, s) {
			return fmt.Sprintf("%s must be one of: %s", key, strings.Join(r.Options, ", ")), false
		}
	case RuleKindArray:
		if !isArray(value) {
			return fmt.Sprintf("%s must be an array", key), false
		}
	case RuleKindDate:
		if !parsesAs(value, dateLayouts) {
			return fmt.Sprintf("%s must be a valid date", key), false
		}
	case RuleKindDatetime:
		if !parsesAs(value, datetimeLayouts) {
			return fmt.Sprintf("%s must be a valid date", key), false
		}
	}
	return "", true
}

// ToFloat accepts every Go numeric kind plus json.Number. Booleans and numeric strings are not numbers.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isArray(value any) bool {
	kind := reflect.ValueOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func parsesAs(value any, layouts []string) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
