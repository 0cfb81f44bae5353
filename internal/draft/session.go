package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/auth"
	"NYCU-SDC/survey-builder/internal/gateway"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"
	"NYCU-SDC/survey-builder/internal/template"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultIdleTimeout = 30 * time.Minute

// Remote is what a session needs from the storage service beyond saving.
type Remote interface {
	Persister
	GetSurvey(ctx context.Context, id survey.ID) (survey.Survey, error)
}

// RemoteFactory builds the storage client of one session. onUnauthorized must be
// called when the storage service rejects the session's credentials.
type RemoteFactory func(credentials *auth.Credentials, onUnauthorized gateway.UnauthorizedFunc) Remote

// Session is one user's editing session of one survey.
type Session struct {
	ID      string
	OwnerID string
	Store   *Store

	credentials *auth.Credentials
	lastSeen    time.Time
}

type SessionRequest struct {
	TemplateID string    `json:"templateId"`
	SurveyID   survey.ID `json:"surveyId"`
	Title      string    `json:"title" validate:"max=255"`
}

type Manager struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	registry  *questiontype.Registry
	catalog   *template.Catalog
	newRemote RemoteFactory
	storeOpts []Option
	idle      time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(logger *zap.Logger, registry *questiontype.Registry, catalog *template.Catalog, newRemote RemoteFactory, idle time.Duration, storeOpts ...Option) *Manager {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Manager{
		logger:    logger,
		tracer:    otel.Tracer("draft/manager"),
		registry:  registry,
		catalog:   catalog,
		newRemote: newRemote,
		storeOpts: storeOpts,
		idle:      idle,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// GatewayFactory returns a RemoteFactory backed by gateway clients for baseURL.
func GatewayFactory(logger *zap.Logger, baseURL string, opts ...gateway.Option) RemoteFactory {
	return func(credentials *auth.Credentials, onUnauthorized gateway.UnauthorizedFunc) Remote {
		clientOpts := append([]gateway.Option{gateway.WithUnauthorizedHandler(onUnauthorized)}, opts...)
		return gateway.New(logger, baseURL, credentials, clientOpts...)
	}
}

// Open starts a session for principal. A survey id loads the stored survey, a
// template id instantiates the template, otherwise the draft starts blank.
func (m *Manager) Open(ctx context.Context, principal auth.Principal, req SessionRequest) (*Session, error) {
	ctx, span := m.tracer.Start(ctx, "Open")
	defer span.End()
	logger := logutil.WithContext(ctx, m.logger)

	id := uuid.New().String()
	credentials := auth.NewCredentials(principal.Token)
	remote := m.newRemote(credentials, func(ctx context.Context) {
		m.drop(ctx, id)
	})

	var initial survey.Survey
	switch {
	case req.SurveyID != "":
		loaded, err := remote.GetSurvey(ctx, req.SurveyID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		initial = loaded
	case req.TemplateID != "":
		instantiated, err := m.catalog.Instantiate(req.TemplateID, template.Customization{Title: req.Title})
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		initial = instantiated
	default:
		initial = survey.New()
		if req.Title != "" {
			initial.Title = req.Title
		}
	}

	store := NewStore(m.logger, m.registry, remote, m.storeOpts...)
	store.SetSurvey(initial)

	session := &Session{
		ID:          id,
		OwnerID:     principal.ID,
		Store:       store,
		credentials: credentials,
		lastSeen:    m.now(),
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	logger.Info("Opened draft session", zap.String("session_id", id), zap.String("owner_id", principal.ID), zap.String("survey_id", initial.ID.String()))
	return session, nil
}

// Get returns the principal's session and refreshes its credentials with the
// principal's current token. Sessions of other users are reported as not found.
func (m *Manager) Get(principal auth.Principal, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok || session.OwnerID != principal.ID {
		return nil, internal.ErrDraftNotFound
	}
	session.lastSeen = m.now()
	if principal.Token != "" {
		session.credentials.Set(principal.Token)
	}
	return session, nil
}

func (m *Manager) Close(ctx context.Context, principal auth.Principal, id string) error {
	_, err := m.Get(principal, id)
	if err != nil {
		return err
	}
	m.drop(ctx, id)
	return nil
}

// CloseOwner closes every session of ownerID and reports how many there were.
func (m *Manager) CloseOwner(ctx context.Context, ownerID string) int {
	m.mu.Lock()
	var closed []*Session
	for id, session := range m.sessions {
		if session.OwnerID == ownerID {
			closed = append(closed, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range closed {
		session.Store.Close()
	}
	if len(closed) > 0 {
		logutil.WithContext(ctx, m.logger).Info("Closed sessions of owner", zap.String("owner_id", ownerID), zap.Int("count", len(closed)))
	}
	return len(closed)
}

// CloseIdle closes sessions not used within the idle timeout.
func (m *Manager) CloseIdle(ctx context.Context) int {
	deadline := m.now().Add(-m.idle)

	m.mu.Lock()
	var idle []*Session
	for id, session := range m.sessions {
		if session.lastSeen.Before(deadline) {
			idle = append(idle, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	logger := logutil.WithContext(ctx, m.logger)
	for _, session := range idle {
		if session.Store.Dirty() {
			logger.Warn("Closing idle session with unsaved changes", zap.String("session_id", session.ID), zap.String("survey_id", session.Store.ID().String()))
		}
		session.Store.Close()
	}
	return len(idle)
}

// Sweep runs CloseIdle every interval until ctx is done.
func (m *Manager) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.Canceled) {
				m.logger.Warn("Session sweep stopped", zap.Error(ctx.Err()))
			}
			return
		case <-ticker.C:
			closed := m.CloseIdle(ctx)
			if closed > 0 {
				m.logger.Info("Closed idle sessions", zap.Int("count", closed))
			}
		}
	}
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Store.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// drop ends a session whose credentials the storage service no longer accepts.
func (m *Manager) drop(ctx context.Context, id string) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return
	}
	session.credentials.Clear()
	session.Store.Close()
	logutil.WithContext(ctx, m.logger).Info("Dropped draft session", zap.String("session_id", id), zap.String("owner_id", session.OwnerID))
}
