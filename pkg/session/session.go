// Package session holds the state of one user's audit workflow: the current
// report, the last request, the last failure and the view settings.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/helmcode/hotel-audit/pkg/auditor"
	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/deeplink"
	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/views"
)

var (
	ErrAuditInProgress = errors.New("an audit is already in progress")
	ErrNothingToRetry  = errors.New("no audit request to retry")
	ErrNoReport        = errors.New("no report available")
)

// Runner performs one audit. *auditor.Auditor implements it.
type Runner interface {
	Run(ctx context.Context, input model.AuditInput) (*model.Report, error)
}

type Session struct {
	runner  Runner
	catalog *catalog.Catalog
	links   deeplink.Store
	logger  *zap.Logger

	inflight *semaphore.Weighted
	loading  atomic.Bool

	mu     sync.RWMutex
	report *model.Report
	last   *model.AuditInput
	err    error
	filter views.CategoryFilter
	metric views.Metric
}

type Option func(*Session)

// WithLinks makes the session record successful requests in store and clear
// them on Reset.
func WithLinks(store deeplink.Store) Option {
	return func(s *Session) { s.links = store }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func New(runner Runner, cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		runner:   runner,
		catalog:  cat,
		logger:   zap.NewNop(),
		inflight: semaphore.NewWeighted(1),
		filter:   views.NewCategoryFilter(),
		metric:   views.MetricRating,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs an audit for input. Only one audit runs at a time; a second
// call while one is pending fails with ErrAuditInProgress. Invalid input is
// rejected before anything else changes. A failed audit keeps the previous
// report; a successful one replaces it and resets the category filter.
func (s *Session) Submit(ctx context.Context, input model.AuditInput) (*model.Report, error) {
	if fields := input.Validate(); fields != nil {
		return nil, &auditor.ValidationError{Fields: fields}
	}
	if !s.inflight.TryAcquire(1) {
		return nil, ErrAuditInProgress
	}
	defer s.inflight.Release(1)
	s.loading.Store(true)
	defer s.loading.Store(false)

	issued := input
	s.mu.Lock()
	s.last = &issued
	s.err = nil
	s.mu.Unlock()

	report, err := s.runner.Run(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.logger.Warn("audit failed", zap.Error(err), zap.Bool("kept_previous", s.report != nil))
		return nil, err
	}
	s.report = report
	s.filter = views.NewCategoryFilter()
	if s.links != nil {
		deeplink.Write(s.links, input)
	}
	return report, nil
}

// Retry re-issues the last request exactly as it was sent.
func (s *Session) Retry(ctx context.Context) (*model.Report, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last == nil {
		return nil, ErrNothingToRetry
	}
	return s.Submit(ctx, *last)
}

// Resume starts the audit stored in the link store, if any. ok is false when
// the store holds no complete request.
func (s *Session) Resume(ctx context.Context) (report *model.Report, ok bool, err error) {
	if s.links == nil {
		return nil, false, nil
	}
	input, ok := deeplink.Read(s.links)
	if !ok {
		return nil, false, nil
	}
	report, err = s.Submit(ctx, input)
	return report, true, err
}

// Reset drops the report, the last request and error, the filter and the
// stored link.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = nil
	s.last = nil
	s.err = nil
	s.filter = views.NewCategoryFilter()
	if s.links != nil {
		deeplink.Clear(s.links)
	}
}

func (s *Session) Loading() bool {
	return s.loading.Load()
}

func (s *Session) Report() *model.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Err returns the failure of the last attempt, nil after a success.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Session) LastInput() (model.AuditInput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return model.AuditInput{}, false
	}
	return *s.last, true
}

// ToggleCategory applies one filter click and returns the new filter.
func (s *Session) ToggleCategory(category string) views.CategoryFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = s.filter.Toggle(category)
	return s.filter
}

func (s *Session) Filter() views.CategoryFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *Session) SetMetric(m views.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metric = m
}

// View derives the current display state. It fails with ErrNoReport before
// the first successful audit.
func (s *Session) View() (*views.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, ErrNoReport
	}
	return views.Build(s.report, s.catalog, s.filter, s.metric), nil
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}
