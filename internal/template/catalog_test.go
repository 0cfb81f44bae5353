package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"

	"github.com/stretchr/testify/require"
)

func sequentialIDs() survey.IDGenerator {
	n := 0
	return func() survey.ID {
		n++
		return survey.ID(fmt.Sprintf("q%d", n))
	}
}

func TestDefault_LoadsEmbeddedTemplates(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	summaries := c.List()
	require.Len(t, summaries, 7)
	require.Equal(t, "customer_satisfaction", summaries[0].ID)
	require.Equal(t, "contact_form", summaries[6].ID)
	require.Len(t, c.Categories(), 6)
}

func TestCatalog_Get(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name        string
		id          string
		expectName  string
		expectCount int
		expectErr   bool
	}{
		{name: "Should find customer satisfaction", id: "customer_satisfaction", expectName: "Customer Satisfaction Survey", expectCount: 5},
		{name: "Should find nps survey", id: "nps_survey", expectName: "Net Promoter Score (NPS) Survey", expectCount: 3},
		{name: "Should report unknown template", id: "nope", expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tpl, err := c.Get(tc.id)
			if tc.expectErr {
				require.Error(t, err)
				require.ErrorIs(t, err, internal.ErrTemplateNotFound)
				var notFound ErrTemplateNotFound
				require.True(t, errors.As(err, &notFound))
				require.Equal(t, tc.id, notFound.ID)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectName, tpl.Name)
			require.Len(t, tpl.Questions, tc.expectCount)
		})
	}
}

func TestCatalog_GetReturnsCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	first, err := c.Get("customer_satisfaction")
	require.NoError(t, err)
	first.Questions[1].Options[0] = "changed"
	first.Questions[0].Settings["scale"] = "changed"
	*first.Settings.Theme = "changed"

	second, err := c.Get("customer_satisfaction")
	require.NoError(t, err)
	require.Equal(t, "Social Media", second.Questions[1].Options[0])
	require.Equal(t, "satisfaction", second.Questions[0].Settings["scale"])
	require.Equal(t, "modern", *second.Settings.Theme)
}

func TestCatalog_ListByCategory(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name     string
		category Category
		expected []string
	}{
		{name: "Should list business templates in order", category: "business", expected: []string{"customer_satisfaction", "nps_survey"}},
		{name: "Should list forms", category: "forms", expected: []string{"contact_form"}},
		{name: "Should return empty for unknown category", category: "space", expected: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ids := make([]string, 0)
			for _, s := range c.ListByCategory(tc.category) {
				ids = append(ids, s.ID)
			}
			require.Equal(t, tc.expected, ids)
		})
	}
}

func TestCatalog_Search(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "Should match name case-insensitively", query: "NPS", expected: []string{"nps_survey"}},
		{name: "Should match description", query: "attendees", expected: []string{"event_feedback"}},
		{name: "Should match category", query: "hr", expected: []string{"employee_feedback"}},
		{name: "Should return nothing for unmatched query", query: "zebra", expected: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ids := make([]string, 0)
			for _, s := range c.Search(tc.query) {
				ids = append(ids, s.ID)
			}
			require.Equal(t, tc.expected, ids)
		})
	}
}

func TestCatalog_InstantiateCustomerSatisfaction(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)
	c := base.WithIDGenerator(sequentialIDs())

	s, err := c.Instantiate("customer_satisfaction", Customization{})
	require.NoError(t, err)

	require.Equal(t, survey.ID(""), s.ID)
	require.Equal(t, survey.StatusDraft, s.Status)
	require.Equal(t, "Customer Satisfaction Survey", s.Title)
	require.Equal(t, "modern", s.Settings.Theme)
	require.True(t, s.Settings.AllowAnonymous)
	require.True(t, s.Settings.ShowProgress)
	require.Equal(t, "#6366f1", s.Settings.Colors[survey.ColorPrimary])

	require.Len(t, s.Questions, 5)
	for i, q := range s.Questions {
		require.Equal(t, i, q.Order)
		require.Equal(t, survey.ID(fmt.Sprintf("q%d", i+1)), q.ID)
	}

	require.Equal(t, questiontype.TypeEmojiScale, s.Questions[0].Type)
	require.Equal(t, "satisfaction", s.Questions[0].Settings["scale"])

	radio := s.Questions[1]
	require.Equal(t, "How did you hear about us?", radio.Title)
	require.True(t, radio.Required)
	require.Equal(t, survey.NewOptions("Social Media", "Search Engine", "Friend/Family Recommendation", "Advertisement", "Other"), radio.Options)
	require.Equal(t, true, radio.Settings["allowOther"])
	require.Equal(t, "Other (please specify)", radio.Settings["otherLabel"])
	require.Equal(t, false, radio.Settings["randomize"])

	rating := s.Questions[3]
	require.Equal(t, float64(10), rating.Settings["maxRating"])
	require.Len(t, rating.Settings["labels"], 10)

	require.Equal(t, "Please share your suggestions...", s.Questions[4].Settings["placeholder"])
	require.Equal(t, float64(500), s.Questions[4].Settings["maxLength"])
}

func TestCatalog_InstantiateCustomized(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)
	c := base.WithIDGenerator(sequentialIDs())

	theme := "corporate"
	limit := 100
	tests := []struct {
		name          string
		custom        Customization
		expectTitle   string
		expectTheme   string
		expectPrimary string
		expectLimit   int
	}{
		{
			name:          "Should keep template values without customization",
			custom:        Customization{},
			expectTitle:   "Contact Form",
			expectTheme:   "default",
			expectPrimary: "#3b82f6",
		},
		{
			name:          "Should apply custom title and theme palette",
			custom:        Customization{Title: "Reach Us", Settings: survey.Patch{Theme: &theme, MaxResponses: &limit}},
			expectTitle:   "Reach Us",
			expectTheme:   "corporate",
			expectPrimary: "#1e40af",
			expectLimit:   100,
		},
		{
			name:          "Should keep custom colors over theme palette",
			custom:        Customization{Settings: survey.Patch{Theme: &theme, Colors: map[string]string{survey.ColorPrimary: "#000000"}}},
			expectTitle:   "Contact Form",
			expectTheme:   "corporate",
			expectPrimary: "#000000",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := c.Instantiate("contact_form", tc.custom)
			require.NoError(t, err)
			require.Equal(t, tc.expectTitle, s.Title)
			require.Equal(t, "Simple contact form for inquiries and support", s.Description)
			require.Equal(t, tc.expectTheme, s.Settings.Theme)
			require.Equal(t, tc.expectPrimary, s.Settings.Colors[survey.ColorPrimary])
			require.Equal(t, tc.expectLimit, s.Settings.MaxResponses)
		})
	}
}

func TestCatalog_InstantiateUnknown(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, err = c.Instantiate("missing", Customization{})
	require.ErrorIs(t, err, internal.ErrTemplateNotFound)
}

func TestCatalog_InstantiateRoundTrip(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)
	c := base.WithIDGenerator(sequentialIDs())

	s, err := c.Instantiate("event_feedback", Customization{})
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded survey.Survey
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, s, decoded)
}

func TestCatalog_Preview(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name           string
		id             string
		expectMinutes  int
		expectFeatures []string
	}{
		{
			name:           "Should list every feature of customer satisfaction",
			id:             "customer_satisfaction",
			expectMinutes:  3,
			expectFeatures: []string{FeatureRating, FeatureEmojiScale, FeatureMultiple, FeatureText, FeatureRequired},
		},
		{
			name:           "Should round estimate up for nps",
			id:             "nps_survey",
			expectMinutes:  2,
			expectFeatures: []string{FeatureRating, FeatureText, FeatureRequired},
		},
		{
			name:           "Should only report text responses for contact form",
			id:             "contact_form",
			expectMinutes:  3,
			expectFeatures: []string{FeatureText, FeatureRequired},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := c.Preview(tc.id)
			require.NoError(t, err)
			require.Equal(t, tc.id, p.ID)
			require.Equal(t, tc.expectMinutes, p.EstimatedMinutes)
			require.Equal(t, tc.expectFeatures, p.Features)
		})
	}
}

func TestCatalog_Duplicate(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name       string
		newName    string
		expectName string
	}{
		{name: "Should suffix the name with copy", expectName: "Product Feedback Survey (Copy)"},
		{name: "Should use the requested name", newName: "Beta Feedback", expectName: "Beta Feedback"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dup, err := c.Duplicate("product_feedback", tc.newName)
			require.NoError(t, err)
			require.Equal(t, tc.expectName, dup.Name)
			require.Regexp(t, `^product_feedback_copy_\d+$`, dup.ID)
			require.Len(t, dup.Questions, 5)

			_, err = c.Get(dup.ID)
			require.ErrorIs(t, err, internal.ErrTemplateNotFound)
		})
	}
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	registry := questiontype.MustDefault()

	tests := []struct {
		name string
		data string
	}{
		{name: "Should reject unknown category", data: `{"categories":[{"id":"a","name":"A","icon":"","description":""}],"templates":[{"id":"t","name":"T","description":"","category":"b","icon":"","questions":[],"settings":{}}]}`},
		{name: "Should reject unknown question type", data: `{"categories":[{"id":"a","name":"A","icon":"","description":""}],"templates":[{"id":"t","name":"T","description":"","category":"a","icon":"","questions":[{"type":"hologram","title":"x","required":false}],"settings":{}}]}`},
		{name: "Should reject duplicated ids", data: `{"categories":[{"id":"a","name":"A","icon":"","description":""}],"templates":[{"id":"t","name":"T","description":"","category":"a","icon":"","questions":[],"settings":{}},{"id":"t","name":"T","description":"","category":"a","icon":"","questions":[],"settings":{}}]}`},
		{name: "Should reject unknown fields", data: `{"categories":[],"templates":[],"extra":1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), registry)
			require.Error(t, err)
		})
	}
}
