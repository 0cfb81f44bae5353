package draft

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/gateway"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) CreateSurvey(ctx context.Context, s survey.Survey) (survey.Survey, error) {
	args := m.Called(ctx, s)
	saved, _ := args.Get(0).(survey.Survey)
	return saved, args.Error(1)
}

func (m *mockPersister) UpdateSurvey(ctx context.Context, id survey.ID, s survey.Survey) (survey.Survey, error) {
	args := m.Called(ctx, id, s)
	saved, _ := args.Get(0).(survey.Survey)
	return saved, args.Error(1)
}

func (m *mockPersister) PublishSurvey(ctx context.Context, id survey.ID) (gateway.StatusChange, error) {
	args := m.Called(ctx, id)
	change, _ := args.Get(0).(gateway.StatusChange)
	return change, args.Error(1)
}

func (m *mockPersister) UnpublishSurvey(ctx context.Context, id survey.ID) (gateway.StatusChange, error) {
	args := m.Called(ctx, id)
	change, _ := args.Get(0).(gateway.StatusChange)
	return change, args.Error(1)
}

func (m *mockPersister) GetSurvey(ctx context.Context, id survey.ID) (survey.Survey, error) {
	args := m.Called(ctx, id)
	loaded, _ := args.Get(0).(survey.Survey)
	return loaded, args.Error(1)
}

type fakeTimer struct {
	scheduler *fakeScheduler
	delay     time.Duration
	f         func()
	done      bool
}

func (t *fakeTimer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()

	wasPending := !t.done
	t.done = true
	return wasPending
}

// fakeScheduler only runs callbacks when the test fires them.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &fakeTimer{scheduler: s, delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Fire runs every pending callback synchronously.
func (s *fakeScheduler) Fire() {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.done {
			t.done = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func sequentialIDs() survey.IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() survey.ID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return survey.ID(fmt.Sprintf("q%d", n))
	}
}

func newTestStore(t *testing.T, persister Persister) (*Store, *fakeScheduler) {
	t.Helper()
	scheduler := &fakeScheduler{}
	store := NewStore(zap.NewNop(), questiontype.MustDefault(), persister,
		WithScheduler(scheduler),
		WithIDGenerator(sequentialIDs()),
	)
	t.Cleanup(store.Close)
	return store, scheduler
}

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func persistedSurvey(id survey.ID) survey.Survey {
	s := survey.New()
	s.ID = id
	s.Title = "Feedback"
	s.Questions = []survey.Question{
		{ID: "a", Type: questiontype.TypeText, Title: "Name", Options: []survey.Option{}, Settings: map[string]any{}},
	}
	return s
}

func TestStore_AddQuestion(t *testing.T) {
	registry := questiontype.MustDefault()

	tests := []struct {
		name            string
		questionType    questiontype.Type
		overrides       *QuestionOverrides
		expectedOptions []string
		expectedTitle   string
		expectErr       error
	}{
		{
			name:            "Should seed options from the registry for option types",
			questionType:    questiontype.TypeRadio,
			expectedOptions: registry.DefaultOptions(questiontype.TypeRadio),
		},
		{
			name:            "Should use no options for text types",
			questionType:    questiontype.TypeText,
			expectedOptions: []string{},
		},
		{
			name:            "Should prefer explicit overrides",
			questionType:    questiontype.TypeCheckbox,
			overrides:       &QuestionOverrides{Title: stringPtr("Pick some"), Options: survey.NewOptions("X", "Y")},
			expectedOptions: []string{"X", "Y"},
			expectedTitle:   "Pick some",
		},
		{
			name:         "Should reject unknown types",
			questionType: "hologram",
			expectErr:    internal.ErrInvalidQuestionType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newTestStore(t, &mockPersister{})

			q, err := store.AddQuestion(tc.questionType, tc.overrides)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				require.Empty(t, store.Survey().Questions)
				require.False(t, store.Dirty())
				return
			}
			require.NoError(t, err)

			labels := make([]string, len(q.Options))
			for i, o := range q.Options {
				labels[i] = o.Label
			}
			assert.Equal(t, tc.expectedOptions, labels)
			assert.Equal(t, tc.expectedTitle, q.Title)
			assert.Equal(t, registry.DefaultSettings(tc.questionType)["required"], q.Settings["required"])
			assert.Equal(t, 0, q.Order)
			assert.True(t, store.Dirty())
		})
	}
}

func TestStore_AddQuestionSeedsDefaultOptions(t *testing.T) {
	registry := questiontype.MustDefault()
	store, _ := newTestStore(t, &mockPersister{})

	for _, config := range registry.List() {
		if !config.HasOptions {
			continue
		}
		t.Run("Should seed options for "+string(config.Type), func(t *testing.T) {
			q, err := store.AddQuestion(config.Type, &QuestionOverrides{Title: stringPtr(config.Name)})
			require.NoError(t, err)

			require.NotEmpty(t, q.Options)
			labels := make([]string, len(q.Options))
			for i, o := range q.Options {
				labels[i] = o.Label
			}
			assert.Equal(t, registry.DefaultOptions(config.Type), labels)
		})
	}

	validation := store.ValidateForPublish()
	assert.True(t, validation.Valid, "problems: %v", validation.Problems)
}

func TestStore_QuestionOrderFollowsPosition(t *testing.T) {
	store, _ := newTestStore(t, &mockPersister{})

	for i := 0; i < 4; i++ {
		_, err := store.AddQuestion(questiontype.TypeText, &QuestionOverrides{Title: stringPtr(fmt.Sprintf("Q%d", i))})
		require.NoError(t, err)
	}

	assertOrder := func(expected ...survey.ID) {
		t.Helper()
		questions := store.Survey().Questions
		require.Len(t, questions, len(expected))
		for i, q := range questions {
			assert.Equal(t, expected[i], q.ID)
			assert.Equal(t, i, q.Order)
		}
	}

	assertOrder("q1", "q2", "q3", "q4")

	store.DeleteQuestion("q2")
	assertOrder("q1", "q3", "q4")

	require.NoError(t, store.ReorderQuestions([]survey.ID{"q4", "q1", "q3"}))
	assertOrder("q4", "q1", "q3")

	require.ErrorIs(t, store.ReorderQuestions([]survey.ID{"q4", "q1"}), internal.ErrInvalidReorder)
	require.ErrorIs(t, store.ReorderQuestions([]survey.ID{"q4", "q4", "q1"}), internal.ErrInvalidReorder)
	assertOrder("q4", "q1", "q3")

	require.NoError(t, store.MoveQuestion("q3", 0))
	assertOrder("q3", "q4", "q1")
	require.ErrorIs(t, store.MoveQuestion("q3", 3), internal.ErrInvalidPosition)
	require.ErrorIs(t, store.MoveQuestion("zz", 0), internal.ErrQuestionNotFound)

	dup, ok := store.DuplicateQuestion("q4")
	require.True(t, ok)
	assert.Equal(t, "Q3 (Copy)", dup.Title)
	assertOrder("q3", "q4", "q1", dup.ID)
}

func TestStore_DuplicateQuestionIsDeepCopy(t *testing.T) {
	store, _ := newTestStore(t, &mockPersister{})

	q, err := store.AddQuestion(questiontype.TypeRadio, nil)
	require.NoError(t, err)

	dup, ok := store.DuplicateQuestion(q.ID)
	require.True(t, ok)

	require.NoError(t, store.UpdateQuestion(dup.ID, QuestionPatch{
		Options:  survey.NewOptions("Changed"),
		Settings: map[string]any{"allowOther": true},
	}))

	original := store.Survey().Questions[0]
	assert.Equal(t, q.Options, original.Options)
	assert.Equal(t, false, original.Settings["allowOther"])

	_, ok = store.DuplicateQuestion("missing")
	assert.False(t, ok)
}

func TestStore_UpdateQuestion(t *testing.T) {
	store, _ := newTestStore(t, &mockPersister{})
	q, err := store.AddQuestion(questiontype.TypeText, nil)
	require.NoError(t, err)

	require.NoError(t, store.UpdateQuestion(q.ID, QuestionPatch{Title: stringPtr("Email"), Required: boolPtr(true)}))
	updated := store.Survey().Questions[0]
	assert.Equal(t, "Email", updated.Title)
	assert.True(t, updated.Required)

	bad := questiontype.Type("nope")
	require.ErrorIs(t, store.UpdateQuestion(q.ID, QuestionPatch{Type: &bad}), internal.ErrInvalidQuestionType)

	require.NoError(t, store.UpdateQuestion("unknown", QuestionPatch{Title: stringPtr("x")}))
	assert.Len(t, store.Survey().Questions, 1)
}

func TestStore_UpdateSettings(t *testing.T) {
	store, _ := newTestStore(t, &mockPersister{})

	require.NoError(t, store.UpdateSettings(survey.Patch{ShowProgress: boolPtr(false)}))
	assert.False(t, store.Survey().Settings.ShowProgress)

	negative := -1
	require.ErrorIs(t, store.UpdateSettings(survey.Patch{MaxResponses: &negative}), internal.ErrInvalidSettings)
}

func TestStore_SurveyReturnsCopies(t *testing.T) {
	store, _ := newTestStore(t, &mockPersister{})
	_, err := store.AddQuestion(questiontype.TypeRadio, nil)
	require.NoError(t, err)

	snapshot := store.Survey()
	snapshot.Questions[0].Options[0].Label = "mutated"
	snapshot.Questions[0].Settings["allowOther"] = true

	fresh := store.Survey()
	assert.NotEqual(t, "mutated", fresh.Questions[0].Options[0].Label)
	assert.Equal(t, false, fresh.Questions[0].Settings["allowOther"])
}
