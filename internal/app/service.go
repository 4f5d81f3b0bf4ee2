// Package service wires the dataset, filter engine, renderers and session
// store into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/passmap/internal/adapters/repository"
	"github.com/okian/passmap/internal/adapters/session"
	"github.com/okian/passmap/internal/domain/aggregate"
	"github.com/okian/passmap/internal/domain/catalog"
	"github.com/okian/passmap/internal/domain/dashboard"
	"github.com/okian/passmap/internal/domain/filter"
	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/internal/domain/render"
	"github.com/okian/passmap/pkg/logger"
	"github.com/okian/passmap/pkg/metrics"
)

// Service implements the API dependencies for the pass dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components, immutable once started.
	dataset  *repository.Dataset
	aggs     []model.PlayerAggregate
	catalogs catalog.Set
	reducer  *dashboard.Reducer
	sessions session.Store

	// Configuration
	passesPath  string
	matchesPath string
	pitchMargin float64
	slider      render.Slider
	maxSessions int

	// State
	started   bool
	startedAt time.Time
	loadTime  time.Duration

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		passesPath:  repository.DefaultPassesFile,
		matchesPath: repository.DefaultMatchesFile,
		pitchMargin: repository.DefaultPitchMargin,
		slider:      render.DefaultSlider(),
		maxSessions: session.DefaultMaxSessions,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and builds everything derived from it. A load
// error is returned as is: the service cannot run without its data.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting pass dashboard service...")
	begin := time.Now()

	if s.dataset == nil {
		ds, err := repository.Load(ctx,
			repository.WithPassesPath(s.passesPath),
			repository.WithMatchesPath(s.matchesPath),
			repository.WithPitchMargin(s.pitchMargin),
			repository.WithLogger(s.logger),
		)
		if err != nil {
			return err
		}
		s.dataset = ds
	}

	s.aggs = aggregate.Build(s.dataset.Passes())
	metrics.UpdateAggregateRows(len(s.aggs))

	s.catalogs = catalog.NewSet(s.dataset.Passes(), s.dataset.Matches(), s.aggs)
	engine := filter.New(s.dataset, s.aggs, s.catalogs)
	s.reducer = dashboard.NewReducer(engine, s.dataset, s.slider.Value)

	store, err := session.NewLRUStore(session.WithMaxSessions(s.maxSessions))
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	s.sessions = store

	s.started = true
	s.startedAt = time.Now()
	s.loadTime = s.startedAt.Sub(begin)
	s.logger.Info(ctx, "pass dashboard service started",
		logger.Int("passes", s.dataset.Count()),
		logger.Int("matches", s.dataset.MatchCount()),
		logger.Int("aggregates", len(s.aggs)),
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("elapsed", s.loadTime),
	)

	return nil
}

// Stop drops the sessions. The dataset stays loaded, so a later Start only
// rebuilds the derived state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping pass dashboard service...")
	s.sessions = nil
	s.reducer = nil
	s.started = false
	metrics.UpdateSessionsActive(0)
	s.logger.Info(context.Background(), "pass dashboard service stopped")
}

// Ready reports whether the dataset is loaded.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// running returns the live components or ErrNotStarted.
func (s *Service) running() (*dashboard.Reducer, session.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.reducer, s.sessions, nil
}

// Catalogs returns the unfiltered dropdown options.
func (s *Service) Catalogs() catalog.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogs
}

// Aggregates returns the player aggregate table, best first.
func (s *Service) Aggregates() []model.PlayerAggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggs
}

// Slider returns the xT range control settings.
func (s *Service) Slider() render.Slider {
	return s.slider
}

// CreateSession opens a fresh dashboard.
func (s *Service) CreateSession(ctx context.Context) (string, dashboard.Session, error) {
	reducer, store, err := s.running()
	if err != nil {
		return "", dashboard.Session{}, err
	}
	sess := reducer.Initial()
	id, err := store.Create(ctx, sess)
	if err != nil {
		return "", dashboard.Session{}, err
	}
	return id, sess, nil
}

// Session returns the current state of a dashboard.
func (s *Service) Session(ctx context.Context, id string) (dashboard.Session, error) {
	_, store, err := s.running()
	if err != nil {
		return dashboard.Session{}, err
	}
	return store.Get(ctx, id)
}

// ApplyEvent runs one interaction on a session. Interactions on the same
// store are serialised.
func (s *Service) ApplyEvent(ctx context.Context, id string, ev dashboard.Event) (dashboard.Session, error) {
	reducer, store, err := s.running()
	if err != nil {
		return dashboard.Session{}, err
	}
	next, err := store.Apply(ctx, id, func(cur dashboard.Session) (dashboard.Session, error) {
		return reducer.Reduce(cur, ev)
	})
	if err != nil {
		s.recordEventError(ctx, id, ev, err)
		return dashboard.Session{}, err
	}
	s.recordEvent(ev, next)
	return next, nil
}

// DeleteSession closes a dashboard.
func (s *Service) DeleteSession(ctx context.Context, id string) bool {
	_, store, err := s.running()
	if err != nil {
		return false
	}
	return store.Delete(ctx, id)
}

// PassDetail draws one pass with its freeze frame outside any session.
func (s *Service) PassDetail(_ context.Context, passID string) (render.DetailView, error) {
	s.mu.RLock()
	ds, started := s.dataset, s.started
	s.mu.RUnlock()
	if !started {
		return render.DetailView{}, ErrNotStarted
	}

	view, err := render.Detail(ds, passID)
	if err != nil {
		metrics.RecordDetailFailure(dashboard.FailureReason(err))
		return render.DetailView{}, err
	}
	metrics.RecordRender("detail")
	return view, nil
}

func (s *Service) recordEvent(ev dashboard.Event, next dashboard.Session) {
	metrics.RecordFilterTransition(ev.Type())
	switch ev.(type) {
	case dashboard.RenderRequested, dashboard.RangeChanged:
		if !next.Filter.PlayerSelected() {
			metrics.RecordRender("idle")
			return
		}
		metrics.RecordRender("plot")
		metrics.ObserveRenderedMarkers(next.Figure.Markers())
	case dashboard.PointSelected:
		if next.Detail.Open {
			metrics.RecordRender("detail")
			return
		}
		metrics.RecordDetailFailure(next.Detail.Reason)
	}
}

func (s *Service) recordEventError(ctx context.Context, id string, ev dashboard.Event, err error) {
	kind := "internal"
	switch {
	case errors.Is(err, session.ErrNotFound):
		kind = "session_not_found"
	case errors.Is(err, dashboard.ErrUnknownEvent):
		kind = "unknown_event"
	case errors.Is(err, dashboard.ErrInvalidEvent):
		kind = "invalid_event"
	}
	metrics.RecordErrorByComponent("dashboard", kind)

	typ := "<nil>"
	if ev != nil {
		typ = ev.Type()
	}
	s.logger.Debug(ctx, "event rejected",
		logger.String("session", id),
		logger.String("event", typ),
		logger.Error(err),
	)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"passesFile":  s.passesPath,
		"matchesFile": s.matchesPath,
		"maxSessions": s.maxSessions,
	}

	if s.started {
		stats["passes"] = s.dataset.Count()
		stats["matches"] = s.dataset.MatchCount()
		stats["aggregates"] = len(s.aggs)
		stats["sessions"] = s.sessions.Len()
		stats["loadTimeMs"] = s.loadTime.Milliseconds()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		metrics.UpdateSessionsActive(s.sessions.Len())
	}

	return stats
}
