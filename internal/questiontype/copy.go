package questiontype

// CopySettings deep copies a JSON-shaped settings map. Nested maps and slices are
// copied, scalars are shared. A nil map yields an empty map.
func CopySettings(settings map[string]any) map[string]any {
	result := make(map[string]any, len(settings))
	for key, value := range settings {
		result[key] = CopyValue(value)
	}
	return result
}

func CopyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return CopySettings(v)
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = CopyValue(item)
		}
		return result
	case []string:
		return append([]string(nil), v...)
	case []map[string]any:
		result := make([]map[string]any, len(v))
		for i, item := range v {
			result[i] = CopySettings(item)
		}
		return result
	case []float64:
		return append([]float64(nil), v...)
	case []int:
		return append([]int(nil), v...)
	default:
		return v
	}
}

// MergeSettings copies base and overlays the top-level keys of override.
func MergeSettings(base, override map[string]any) map[string]any {
	result := CopySettings(base)
	for key, value := range override {
		result[key] = CopyValue(value)
	}
	return result
}
