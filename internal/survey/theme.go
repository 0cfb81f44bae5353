package survey

import "maps"

type Theme struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Colors map[string]string `json:"colors"`
}

var themes = []Theme{
	{
		ID:   "default",
		Name: "Default",
		Colors: map[string]string{
			ColorPrimary: "#3b82f6", ColorSecondary: "#64748b", ColorSuccess: "#10b981", ColorWarning: "#f59e0b",
			ColorError: "#ef4444", ColorBackground: "#ffffff", ColorText: "#1e293b",
		},
	},
	{
		ID:   "modern",
		Name: "Modern",
		Colors: map[string]string{
			ColorPrimary: "#6366f1", ColorSecondary: "#8b5cf6", ColorSuccess: "#059669", ColorWarning: "#d97706",
			ColorError: "#dc2626", ColorBackground: "#f8fafc", ColorText: "#0f172a",
		},
	},
	{
		ID:   "corporate",
		Name: "Corporate",
		Colors: map[string]string{
			ColorPrimary: "#1e40af", ColorSecondary: "#374151", ColorSuccess: "#047857", ColorWarning: "#b45309",
			ColorError: "#b91c1c", ColorBackground: "#ffffff", ColorText: "#111827",
		},
	},
	{
		ID:   "colorful",
		Name: "Colorful",
		Colors: map[string]string{
			ColorPrimary: "#ec4899", ColorSecondary: "#8b5cf6", ColorSuccess: "#10b981", ColorWarning: "#f59e0b",
			ColorError: "#ef4444", ColorBackground: "#fef3c7", ColorText: "#1e293b",
		},
	},
}

func Themes() []Theme {
	result := make([]Theme, len(themes))
	for i, t := range themes {
		result[i] = Theme{ID: t.ID, Name: t.Name, Colors: maps.Clone(t.Colors)}
	}
	return result
}

func ThemeByID(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return Theme{ID: t.ID, Name: t.Name, Colors: maps.Clone(t.Colors)}, true
		}
	}
	return Theme{}, false
}

// WithTheme switches to the theme and replaces the palette with the theme's colors.
// Unknown themes only change the identifier.
func (s Settings) WithTheme(id string) Settings {
	result := s.Clone()
	result.Theme = id
	if theme, ok := ThemeByID(id); ok {
		result.Colors = theme.Colors
	}
	return result
}
