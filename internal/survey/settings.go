package survey

import (
	"bytes"
	"encoding/json"
	"maps"
	"strings"
)

const (
	DefaultTheme           = "default"
	DefaultResponseTimeout = 3600
)

const (
	ColorPrimary    = "primary"
	ColorSecondary  = "secondary"
	ColorSuccess    = "success"
	ColorWarning    = "warning"
	ColorError      = "error"
	ColorBackground = "background"
	ColorText       = "text"
)

type Settings struct {
	AllowAnonymous  bool              `json:"allowAnonymous"`
	RequireLogin    bool              `json:"requireLogin"`
	ShowProgress    bool              `json:"showProgress"`
	AllowBack       bool              `json:"allowBack"`
	AutoSave        bool              `json:"autoSave"`
	MaxResponses    int               `json:"maxResponses"`
	ResponseTimeout int               `json:"responseTimeout"`
	Theme           string            `json:"theme"`
	Colors          map[string]string `json:"colors"`
}

func DefaultSettings() Settings {
	return Settings{
		AllowAnonymous:  true,
		RequireLogin:    false,
		ShowProgress:    true,
		AllowBack:       true,
		AutoSave:        true,
		MaxResponses:    0,
		ResponseTimeout: DefaultResponseTimeout,
		Theme:           DefaultTheme,
		Colors: map[string]string{
			ColorPrimary:   "#3b82f6",
			ColorSecondary: "#64748b",
			ColorSuccess:   "#10b981",
			ColorWarning:   "#f59e0b",
			ColorError:     "#ef4444",
		},
	}
}

func (s Settings) Clone() Settings {
	result := s
	result.Colors = maps.Clone(s.Colors)
	if result.Colors == nil {
		result.Colors = map[string]string{}
	}
	return result
}

// Patch is a partial settings update. Nil fields are left untouched and
// Colors is merged key by key.
type Patch struct {
	AllowAnonymous  *bool             `json:"allowAnonymous,omitempty"`
	RequireLogin    *bool             `json:"requireLogin,omitempty"`
	ShowProgress    *bool             `json:"showProgress,omitempty"`
	AllowBack       *bool             `json:"allowBack,omitempty"`
	AutoSave        *bool             `json:"autoSave,omitempty"`
	MaxResponses    *int              `json:"maxResponses,omitempty" validate:"omitempty,min=0"`
	ResponseTimeout *int              `json:"responseTimeout,omitempty" validate:"omitempty,min=0"`
	Theme           *string           `json:"theme,omitempty"`
	Colors          map[string]string `json:"colors,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.AllowAnonymous == nil && p.RequireLogin == nil && p.ShowProgress == nil && p.AllowBack == nil &&
		p.AutoSave == nil && p.MaxResponses == nil && p.ResponseTimeout == nil && p.Theme == nil && len(p.Colors) == 0
}

// Apply returns a copy of s with p merged in.
func (s Settings) Apply(p Patch) Settings {
	result := s.Clone()
	if p.AllowAnonymous != nil {
		result.AllowAnonymous = *p.AllowAnonymous
	}
	if p.RequireLogin != nil {
		result.RequireLogin = *p.RequireLogin
	}
	if p.ShowProgress != nil {
		result.ShowProgress = *p.ShowProgress
	}
	if p.AllowBack != nil {
		result.AllowBack = *p.AllowBack
	}
	if p.AutoSave != nil {
		result.AutoSave = *p.AutoSave
	}
	if p.MaxResponses != nil {
		result.MaxResponses = *p.MaxResponses
	}
	if p.ResponseTimeout != nil {
		result.ResponseTimeout = *p.ResponseTimeout
	}
	if p.Theme != nil {
		result.Theme = *p.Theme
	}
	maps.Copy(result.Colors, p.Colors)
	return result
}

// Valid reports whether the numeric limits are non-negative.
func (s Settings) Valid() bool {
	return s.MaxResponses >= 0 && s.ResponseTimeout >= 0
}

type settingsAlias Settings

// UnmarshalJSON overlays the payload onto the current value and accepts settings
// stored as a JSON encoded string.
func (s *Settings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var encoded string
		err := json.Unmarshal(data, &encoded)
		if err != nil {
			return err
		}
		if strings.TrimSpace(encoded) == "" {
			return nil
		}
		data = []byte(encoded)
	}

	return json.Unmarshal(data, (*settingsAlias)(s))
}
