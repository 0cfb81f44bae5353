package questiontype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedTypes(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	configs := r.List()
	require.Len(t, configs, 26)
	require.Equal(t, TypeText, configs[0].Type)
	require.Equal(t, TypeConditional, configs[len(configs)-1].Type)
	require.Len(t, r.Categories(), 5)
	require.Len(t, r.EmojiScales(), 4)
}

func TestRegistry_Config(t *testing.T) {
	r := MustDefault()

	tests := []struct {
		name         string
		questionType Type
		expectFound  bool
		expectName   string
	}{
		{name: "Should find short text", questionType: TypeText, expectFound: true, expectName: "Short Text"},
		{name: "Should find emoji scale", questionType: TypeEmojiScale, expectFound: true, expectName: "Emoji Scale"},
		{name: "Should report a miss for unknown type", questionType: Type("hologram"), expectFound: false},
		{name: "Should report a miss for empty type", questionType: Type(""), expectFound: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config, ok := r.Config(tc.questionType)
			require.Equal(t, tc.expectFound, ok)
			if tc.expectFound {
				require.Equal(t, tc.expectName, config.Name)
				require.Equal(t, tc.expectName, r.Name(tc.questionType))
			} else {
				require.Equal(t, UnknownName, r.Name(tc.questionType))
				require.Equal(t, UnknownIcon, r.Icon(tc.questionType))
			}
		})
	}
}

func TestRegistry_ListByCategory(t *testing.T) {
	r := MustDefault()

	tests := []struct {
		name     string
		category Category
		expected []Type
	}{
		{
			name:     "Should keep registration order for choice",
			category: CategoryChoice,
			expected: []Type{TypeRadio, TypeCheckbox, TypeSelect, TypeMultiselect, TypeRanking},
		},
		{
			name:     "Should keep registration order for rating",
			category: CategoryRating,
			expected: []Type{TypeRating, TypeEmojiScale, TypeCustomEmojiScale, TypeSlider},
		},
		{
			name:     "Should return empty list for unknown category",
			category: Category("unknown"),
			expected: []Type{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			configs := r.ListByCategory(tc.category)
			types := make([]Type, len(configs))
			for i, c := range configs {
				types[i] = c.Type
			}
			require.Equal(t, tc.expected, types)
		})
	}
}

func TestRegistry_DefaultSettingsAreFreshCopies(t *testing.T) {
	r := MustDefault()

	first := r.DefaultSettings(TypeRating)
	first["maxRating"] = 99
	labels, ok := first["labels"].([]any)
	require.True(t, ok)
	labels[0] = "mutated"

	second := r.DefaultSettings(TypeRating)
	require.Equal(t, float64(5), second["maxRating"])
	require.Equal(t, "Poor", second["labels"].([]any)[0])

	config, _ := r.Config(TypeRating)
	config.DefaultSettings["maxRating"] = 1
	require.Equal(t, float64(5), r.DefaultSettings(TypeRating)["maxRating"])

	require.Empty(t, r.DefaultSettings(Type("unknown")))
}

func TestRegistry_DefaultOptionsForEveryOptionType(t *testing.T) {
	r := MustDefault()

	for _, config := range r.List() {
		t.Run(string(config.Type), func(t *testing.T) {
			options := r.DefaultOptions(config.Type)
			if config.HasOptions {
				require.NotEmpty(t, options)
				options[0] = "changed"
				require.NotEqual(t, "changed", r.DefaultOptions(config.Type)[0])
			} else {
				require.Empty(t, options)
			}
		})
	}
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "Should reject unknown fields",
			data: `{"categories":[],"types":[],"emojiScales":[],"extra":1}`,
		},
		{
			name: "Should reject duplicated types",
			data: `{"categories":[{"id":"choice","name":"Choice"}],"types":[
				{"type":"radio","name":"A","category":"choice","defaultSettings":{},"validationRules":{}},
				{"type":"radio","name":"B","category":"choice","defaultSettings":{},"validationRules":{}}],"emojiScales":[]}`,
		},
		{
			name: "Should reject unknown category",
			data: `{"categories":[],"types":[{"type":"radio","name":"A","category":"choice","defaultSettings":{},"validationRules":{}}],"emojiScales":[]}`,
		},
		{
			name: "Should reject option types without default options",
			data: `{"categories":[{"id":"choice","name":"Choice"}],"types":[
				{"type":"radio","name":"A","category":"choice","hasOptions":true,"defaultSettings":{},"validationRules":{}}],"emojiScales":[]}`,
		},
		{
			name: "Should reject unknown rule kind",
			data: `{"categories":[{"id":"choice","name":"Choice"}],"types":[
				{"type":"radio","name":"A","category":"choice","defaultSettings":{},"validationRules":{"x":{"kind":"color"}}}],"emojiScales":[]}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestRegistry_EmojiScale(t *testing.T) {
	r := MustDefault()

	scale, ok := r.EmojiScale("agreement")
	require.True(t, ok)
	require.Equal(t, "Strongly Agree", scale.Labels[4])

	_, ok = r.EmojiScale("missing")
	require.False(t, ok)
}
