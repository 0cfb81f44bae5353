package draft

import (
	"context"
	"encoding/json"
	"errors"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/survey"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

func (s *Store) autoSaveEnabledLocked() bool {
	return !s.closed && s.survey.Settings.AutoSave && s.survey.IsPersisted() && len(s.survey.Questions) > 0
}

// scheduleLocked restarts the debounce window. Only the last mutation of a burst saves.
func (s *Store) scheduleLocked() {
	s.stopTimerLocked()
	if !s.autoSaveEnabledLocked() {
		return
	}

	s.timerSeq++
	seq := s.timerSeq
	generation := s.generation
	s.timer = s.scheduler.AfterFunc(s.delay, func() {
		s.autoSave(seq, generation)
	})
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// A callback that already fired must notice it was superseded.
	s.timerSeq++
}

func (s *Store) autoSave(seq, generation uint64) {
	s.mu.Lock()
	switch {
	case seq != s.timerSeq, generation != s.generation, !s.dirty, !s.autoSaveEnabledLocked():
		s.mu.Unlock()
		return
	case s.savingLocked():
		// The running save re-arms the timer when it finishes with edits left over.
		s.mu.Unlock()
		return
	case hashSurvey(s.survey) == s.lastSavedHash:
		s.dirty = false
		s.timer = nil
		s.mu.Unlock()
		return
	}
	s.timer = nil
	id := s.survey.ID
	s.mu.Unlock()

	_, err := s.Save(context.Background())
	if err != nil && !errors.Is(err, internal.ErrDraftReplaced) {
		s.logger.Warn("Auto-save failed", zap.String("survey_id", id.String()), zap.Error(err))
	}
}

// hashSurvey fingerprints the serialized survey. Map keys are sorted by encoding/json,
// so equal surveys hash equally.
func hashSurvey(value survey.Survey) uint64 {
	data, err := json.Marshal(value)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
