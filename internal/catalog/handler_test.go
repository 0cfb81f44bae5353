package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	templates, err := template.Default()
	require.NoError(t, err)

	h := NewHandler(zap.NewNop(), internal.NewValidator(), internal.NewProblemWriter(), questiontype.MustDefault(), templates)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/question-types", h.ListTypesHandler)
	mux.HandleFunc("GET /api/question-types/{type}", h.GetTypeHandler)
	mux.HandleFunc("POST /api/question-types/{type}/validate", h.ValidateSettingsHandler)
	mux.HandleFunc("GET /api/question-categories", h.ListCategoriesHandler)
	mux.HandleFunc("GET /api/emoji-scales", h.ListEmojiScalesHandler)
	mux.HandleFunc("GET /api/survey-themes", h.ListThemesHandler)
	mux.HandleFunc("GET /api/templates", h.ListTemplatesHandler)
	mux.HandleFunc("GET /api/templates/categories", h.ListTemplateCategoriesHandler)
	mux.HandleFunc("GET /api/templates/{id}", h.GetTemplateHandler)
	mux.HandleFunc("GET /api/templates/{id}/preview", h.PreviewTemplateHandler)
	return mux
}

func serve(mux *http.ServeMux, method, target string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, target, &payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_QuestionTypes(t *testing.T) {
	mux := newTestMux(t)
	registry := questiontype.MustDefault()

	tests := []struct {
		name          string
		target        string
		expectedCode  int
		expectedCount int
	}{
		{name: "Should list every type", target: "/api/question-types", expectedCode: http.StatusOK, expectedCount: len(registry.List())},
		{name: "Should filter by category", target: "/api/question-types?category=rating", expectedCode: http.StatusOK, expectedCount: len(registry.ListByCategory(questiontype.CategoryRating))},
		{name: "Should reject unknown categories", target: "/api/question-types?category=nope", expectedCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(mux, http.MethodGet, tc.target, nil)
			require.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode != http.StatusOK {
				return
			}
			var configs []questiontype.Config
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&configs))
			assert.Len(t, configs, tc.expectedCount)
		})
	}
}

func TestHandler_GetType(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, http.MethodGet, "/api/question-types/slider", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var config questiontype.Config
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&config))
	assert.Equal(t, questiontype.TypeSlider, config.Type)

	rec = serve(mux, http.MethodGet, "/api/question-types/hologram", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ValidateSettings(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name          string
		target        string
		body          any
		expectedCode  int
		expectedValid bool
	}{
		{
			name:          "Should accept valid settings",
			target:        "/api/question-types/rating/validate",
			body:          ValidateSettingsRequest{Settings: map[string]any{"maxRating": 5}},
			expectedCode:  http.StatusOK,
			expectedValid: true,
		},
		{
			name:         "Should report rule violations",
			target:       "/api/question-types/rating/validate",
			body:         ValidateSettingsRequest{Settings: map[string]any{"maxRating": 50}},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Should reject unknown types",
			target:       "/api/question-types/hologram/validate",
			body:         ValidateSettingsRequest{Settings: map[string]any{}},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(mux, http.MethodPost, tc.target, tc.body)
			require.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode != http.StatusOK {
				return
			}
			var result questiontype.Result
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
			assert.Equal(t, tc.expectedValid, result.Valid)
			if !tc.expectedValid {
				assert.Equal(t, []string{"maxRating must be at most 10"}, result.Errors)
			}
		})
	}
}

func TestHandler_Templates(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name        string
		target      string
		expectedIDs []string
	}{
		{name: "Should filter by category", target: "/api/templates?category=events", expectedIDs: []string{"event_feedback"}},
		{name: "Should combine category and search", target: "/api/templates?category=business&q=promoter", expectedIDs: []string{"nps_survey"}},
		{name: "Should return an empty list without matches", target: "/api/templates?q=zzzz", expectedIDs: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(mux, http.MethodGet, tc.target, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var summaries []template.Summary
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&summaries))
			ids := make([]string, len(summaries))
			for i, s := range summaries {
				ids[i] = s.ID
			}
			assert.Equal(t, tc.expectedIDs, ids)
		})
	}
}

func TestHandler_TemplatePreview(t *testing.T) {
	mux := newTestMux(t)

	rec := serve(mux, http.MethodGet, "/api/templates/nps_survey/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var preview template.Preview
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&preview))
	assert.Equal(t, 2, preview.EstimatedMinutes)

	rec = serve(mux, http.MethodGet, "/api/templates/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
