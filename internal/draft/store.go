package draft

import (
	"context"
	"sync"
	"time"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/gateway"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultAutoSaveDelay = 5 * time.Second

// Persister is the part of the storage gateway a draft needs.
type Persister interface {
	CreateSurvey(ctx context.Context, s survey.Survey) (survey.Survey, error)
	UpdateSurvey(ctx context.Context, id survey.ID, s survey.Survey) (survey.Survey, error)
	PublishSurvey(ctx context.Context, id survey.ID) (gateway.StatusChange, error)
	UnpublishSurvey(ctx context.Context, id survey.ID) (gateway.StatusChange, error)
}

type MetadataPatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
}

// Store owns the survey of one editing session. Every mutation is applied
// under the lock, so observers never see half of an update.
type Store struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	registry  *questiontype.Registry
	persister Persister
	scheduler Scheduler
	newID     survey.IDGenerator
	delay     time.Duration

	saves singleflight.Group

	mu            sync.Mutex
	survey        survey.Survey
	dirty         bool
	lastSavedHash uint64
	generation    uint64
	revision      uint64
	saving        bool
	savingGen     uint64
	closed        bool
	timer         Timer
	timerSeq      uint64
}

type Option func(*Store)

func WithScheduler(scheduler Scheduler) Option {
	return func(s *Store) {
		s.scheduler = scheduler
	}
}

func WithIDGenerator(gen survey.IDGenerator) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

func WithAutoSaveDelay(delay time.Duration) Option {
	return func(s *Store) {
		if delay > 0 {
			s.delay = delay
		}
	}
}

func NewStore(logger *zap.Logger, registry *questiontype.Registry, persister Persister, opts ...Option) *Store {
	s := &Store{
		logger:    logger,
		tracer:    otel.Tracer("draft/store"),
		registry:  registry,
		persister: persister,
		scheduler: timeScheduler{},
		newID:     survey.NewUUID,
		delay:     DefaultAutoSaveDelay,
		survey:    survey.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSavedHash = hashSurvey(s.survey)
	return s
}

// SetSurvey replaces the draft wholesale. Pending auto-saves are cancelled and
// any save still in flight will not touch the new survey.
func (s *Store) SetSurvey(value survey.Survey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(value.Clone())
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(survey.New())
}

func (s *Store) replaceLocked(value survey.Survey) {
	s.stopTimerLocked()
	if value.Questions == nil {
		value.Questions = []survey.Question{}
	}
	survey.Renumber(value.Questions)
	s.survey = value
	s.dirty = false
	s.generation++
	s.revision++
	s.lastSavedHash = hashSurvey(s.survey)
}

// Close stops auto-saving and invalidates saves in flight.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.closed = true
	s.generation++
}

func (s *Store) Survey() survey.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.survey.Clone()
}

func (s *Store) ID() survey.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.survey.ID
}

func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirty
}

func (s *Store) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.savingLocked()
}

func (s *Store) UpdateMetadata(patch MetadataPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Title != nil {
		s.survey.Title = *patch.Title
	}
	if patch.Description != nil {
		s.survey.Description = *patch.Description
	}
	s.touchLocked()
}

// UpdateSettings merges patch into the settings. Colors are merged key by key.
func (s *Store) UpdateSettings(patch survey.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.survey.Settings.Apply(patch)
	if !settings.Valid() {
		return internal.ErrInvalidSettings
	}
	s.survey.Settings = settings
	s.touchLocked()
	return nil
}

func (s *Store) touchLocked() {
	s.dirty = true
	s.revision++
	s.scheduleLocked()
}

// savingLocked reports a save in flight for the current survey. Flights of a
// replaced survey do not count.
func (s *Store) savingLocked() bool {
	return s.saving && s.savingGen == s.generation
}
