package draft

import (
	"context"
	"strconv"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/survey"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.uber.org/zap"
)

// Save creates or updates the survey remotely. Calls that overlap an in-flight
// save of the same survey share its result instead of issuing a second request.
func (s *Store) Save(ctx context.Context) (survey.Survey, error) {
	ctx, span := s.tracer.Start(ctx, "Save")
	defer span.End()

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	// The flight outlives any single caller, so it must not inherit one caller's cancellation.
	// Flights are keyed by generation: a replaced survey never joins the flight of its predecessor.
	flightCtx := context.WithoutCancel(ctx)
	result := s.saves.DoChan(strconv.FormatUint(generation, 10), func() (interface{}, error) {
		return s.save(flightCtx, generation)
	})

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return survey.Survey{}, ctx.Err()
	case r := <-result:
		if r.Err != nil {
			span.RecordError(r.Err)
			return survey.Survey{}, r.Err
		}
		saved := r.Val.(survey.Survey)
		return saved.Clone(), nil
	}
}

func (s *Store) save(ctx context.Context, generation uint64) (survey.Survey, error) {
	logger := logutil.WithContext(ctx, s.logger)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return survey.Survey{}, internal.ErrDraftClosed
	}
	if generation != s.generation {
		s.mu.Unlock()
		return survey.Survey{}, internal.ErrDraftReplaced
	}
	s.stopTimerLocked()
	snapshot := s.survey.Clone()
	revision := s.revision
	s.saving = true
	s.savingGen = generation
	s.mu.Unlock()

	var saved survey.Survey
	var err error
	if snapshot.IsPersisted() {
		saved, err = s.persister.UpdateSurvey(ctx, snapshot.ID, snapshot)
	} else {
		saved, err = s.persister.CreateSurvey(ctx, snapshot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.savingGen == generation {
		s.saving = false
	}
	if generation != s.generation {
		// A debounce of the new survey that fired during this flight skipped itself.
		if !s.closed && s.dirty && s.timer == nil && !s.savingLocked() {
			s.scheduleLocked()
		}
	}
	if err != nil {
		logger.Warn("Failed to save survey", zap.String("survey_id", snapshot.ID.String()), zap.Error(err))
		return survey.Survey{}, err
	}
	if generation != s.generation {
		logger.Debug("Discarding save result of a replaced draft", zap.String("survey_id", snapshot.ID.String()))
		return survey.Survey{}, internal.ErrDraftReplaced
	}

	adopt(&snapshot, saved)
	adopt(&s.survey, saved)
	s.lastSavedHash = hashSurvey(snapshot)
	if revision == s.revision {
		s.dirty = false
	} else {
		s.scheduleLocked()
	}

	logger.Debug("Saved survey", zap.String("survey_id", s.survey.ID.String()), zap.Bool("dirty", s.dirty))
	return s.survey.Clone(), nil
}

// adopt copies the fields the storage service owns.
func adopt(dst *survey.Survey, saved survey.Survey) {
	if saved.ID != "" {
		dst.ID = saved.ID
	}
	if saved.OwnerID != "" {
		dst.OwnerID = saved.OwnerID
	}
	if saved.CreatedAt != nil {
		t := *saved.CreatedAt
		dst.CreatedAt = &t
	}
	if saved.UpdatedAt != nil {
		t := *saved.UpdatedAt
		dst.UpdatedAt = &t
	}
}

// Publish refuses drafts that fail ValidateForPublish without touching the
// network, saves unsaved changes and then publishes.
func (s *Store) Publish(ctx context.Context) (survey.Survey, error) {
	ctx, span := s.tracer.Start(ctx, "Publish")
	defer span.End()

	validation := s.ValidateForPublish()
	if !validation.Valid {
		err := ErrValidation{Problems: validation.Problems}
		span.RecordError(err)
		return survey.Survey{}, err
	}

	generation, err := s.flush(ctx)
	if err != nil {
		span.RecordError(err)
		return survey.Survey{}, err
	}

	return s.changeStatus(ctx, generation, survey.StatusPublished)
}

func (s *Store) Unpublish(ctx context.Context) (survey.Survey, error) {
	ctx, span := s.tracer.Start(ctx, "Unpublish")
	defer span.End()

	s.mu.Lock()
	generation := s.generation
	persisted := s.survey.IsPersisted()
	s.mu.Unlock()

	if !persisted {
		span.RecordError(internal.ErrSurveyNotPersisted)
		return survey.Survey{}, internal.ErrSurveyNotPersisted
	}

	return s.changeStatus(ctx, generation, survey.StatusDraft)
}

// CloseSurvey stops a persisted survey from accepting responses.
func (s *Store) CloseSurvey(ctx context.Context) (survey.Survey, error) {
	ctx, span := s.tracer.Start(ctx, "CloseSurvey")
	defer span.End()

	s.mu.Lock()
	switch {
	case !s.survey.IsPersisted():
		s.mu.Unlock()
		span.RecordError(internal.ErrSurveyNotPersisted)
		return survey.Survey{}, internal.ErrSurveyNotPersisted
	case s.survey.Status == survey.StatusClosed:
		s.mu.Unlock()
		return survey.Survey{}, internal.ErrSurveyAlreadyClosed
	}
	previous := s.survey.Status
	generation := s.generation
	s.survey.Status = survey.StatusClosed
	s.touchLocked()
	s.mu.Unlock()

	saved, err := s.Save(ctx)
	if err != nil {
		s.mu.Lock()
		if generation == s.generation && s.survey.Status == survey.StatusClosed {
			s.survey.Status = previous
		}
		s.mu.Unlock()
		span.RecordError(err)
		return survey.Survey{}, err
	}
	return saved, nil
}

// flush saves until nothing is left unsaved. A coalesced save may have started
// before the latest edit, which is why one more round can be needed.
func (s *Store) flush(ctx context.Context) (uint64, error) {
	for attempt := 0; attempt < 2; attempt++ {
		s.mu.Lock()
		generation := s.generation
		pending := s.dirty || !s.survey.IsPersisted()
		s.mu.Unlock()

		if !pending {
			return generation, nil
		}

		_, err := s.Save(ctx)
		if err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation, nil
}

func (s *Store) changeStatus(ctx context.Context, generation uint64, status survey.Status) (survey.Survey, error) {
	logger := logutil.WithContext(ctx, s.logger)

	s.mu.Lock()
	id := s.survey.ID
	s.mu.Unlock()

	statusChange := s.persister.UnpublishSurvey
	if status == survey.StatusPublished {
		statusChange = s.persister.PublishSurvey
	}

	result, err := statusChange(ctx, id)
	if err != nil {
		logger.Warn("Failed to change survey status", zap.String("survey_id", id.String()), zap.String("status", string(status)), zap.Error(err))
		return survey.Survey{}, err
	}
	if result.Survey.Status != "" {
		status = result.Survey.Status
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return survey.Survey{}, internal.ErrDraftReplaced
	}
	s.survey.Status = status
	if !s.dirty {
		s.lastSavedHash = hashSurvey(s.survey)
	}

	logger.Info("Changed survey status", zap.String("survey_id", id.String()), zap.String("status", string(status)))
	return s.survey.Clone(), nil
}
