// Package auditor runs one audit end to end: it validates the request,
// calls the AI service once and turns whatever comes back into a Report.
package auditor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/config"
	"github.com/helmcode/hotel-audit/pkg/llm"
	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/parser"
	"github.com/helmcode/hotel-audit/pkg/prompts"
	"github.com/helmcode/hotel-audit/pkg/repair"
)

type Auditor struct {
	llm     llm.LLM
	catalog *catalog.Catalog
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Auditor)

func WithLogger(l *zap.Logger) Option {
	return func(a *Auditor) { a.logger = l }
}

// WithTimeout bounds each call to the AI service. Zero means no bound
// beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(a *Auditor) { a.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(a *Auditor) { a.now = now }
}

func NewWithLLM(l llm.LLM, cat *catalog.Catalog, opts ...Option) *Auditor {
	a := &Auditor{
		llm:     l,
		catalog: cat,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig wires the provider, catalog and timeout from configuration.
func NewFromConfig(ctx context.Context, cfg *config.Config, provider, modelName string, logger *zap.Logger) (*Auditor, error) {
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	l, err := llm.CreateFromConfig(ctx, cfg, provider, modelName)
	if err != nil {
		return nil, err
	}
	return NewWithLLM(l, cat, WithLogger(logger), WithTimeout(cfg.AuditTimeout)), nil
}

func (a *Auditor) Catalog() *catalog.Catalog {
	return a.catalog
}

func (a *Auditor) Model() string {
	return a.llm.Model()
}

// Run validates input, requests the audit and repairs the answer. Errors
// wrap ErrInvalidInput, ErrServiceUnavailable, ErrEmptyResponse or
// ErrCorruptedData; any other problem in the answer is repaired.
func (a *Auditor) Run(ctx context.Context, input model.AuditInput) (*model.Report, error) {
	if fields := input.Validate(); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	req := prompts.BuildAuditRequest(input, a.catalog)
	log := a.logger.With(
		zap.String("hotel", strings.TrimSpace(input.HotelName)),
		zap.String("city", strings.TrimSpace(input.City)),
		zap.String("model", a.llm.Model()),
	)

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := a.now()
	log.Info("requesting audit", zap.Bool("location", req.Location != nil))
	resp, err := a.llm.Generate(ctx, req)
	if err != nil {
		log.Warn("audit request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		log.Warn("audit service returned no text")
		return nil, ErrEmptyResponse
	}

	raw, err := parser.Decode(resp.Text)
	if err != nil {
		log.Warn("audit payload could not be decoded", zap.Error(err), zap.Int("bytes", len(resp.Text)))
		return nil, fmt.Errorf("%w: %w", ErrCorruptedData, err)
	}

	report, notes := repair.Repair(raw, input, a.catalog)
	for _, n := range notes {
		log.Debug("repaired audit field", zap.String("note", n))
	}
	report.GroundingSources = repair.GroundingSources(resp.Citations)
	report.Reference = uuid.NewString()
	report.GeneratedAt = a.now().UTC()

	log.Info("audit complete",
		zap.String("reference", report.Reference),
		zap.String("decision", string(report.ExecutiveSummary.FinalDecision)),
		zap.Int("repairs", len(notes)),
		zap.Int("sources", len(report.GroundingSources)),
		zap.Duration("elapsed", a.now().Sub(start)),
	)
	return report, nil
}
