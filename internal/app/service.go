// Package service is the entry point callers use to work with the scores:
// listing them, reading their schemas, validating input, computing results
// and running the self-check harness.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/okian/cardiorisk/internal/domain/generator"
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/scoring"
	"github.com/okian/cardiorisk/internal/domain/types"
	"github.com/okian/cardiorisk/internal/domain/validation"
	"github.com/okian/cardiorisk/internal/selfcheck"
	"github.com/okian/cardiorisk/pkg/logger"
	"github.com/okian/cardiorisk/pkg/metrics"
)

const tracerName = "github.com/okian/cardiorisk/internal/app"

// Validation failure kinds used as metric labels.
const (
	failureMissing      = "missing"
	failureInvalidType  = "invalid_type"
	failureOutOfRange   = "out_of_range"
	failureUnknownField = "unknown_field"
	failureOther        = "other"
)

// Outcome is the result of one score in EvaluateAll.
type Outcome struct {
	Score  string
	Result model.Result
	Err    error
}

// Service exposes the score engines.
type Service struct {
	registry *scoring.Registry
	tracer   trace.Tracer

	// Self-check configuration
	workerCount int
	queueSize   int
	dedupeSize  int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRegistry sets the engine registry. The process-wide default registry
// is used otherwise.
func WithRegistry(r *scoring.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithTracerProvider sets the provider the service takes its tracer from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithWorkerCount sets the parallelism of EvaluateAll and the self-check.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the self-check queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the self-check duplicate tracker.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. It fails only when the default registry cannot
// compile its combination rules.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		tracer:      otel.Tracer(tracerName),
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  50000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.registry == nil {
		reg, err := scoring.Default()
		if err != nil {
			return nil, fmt.Errorf("building score registry: %w", err)
		}
		s.registry = reg
	}
	return s, nil
}

// ListScores returns the score identifiers in presentation order.
func (s *Service) ListScores() []string {
	return s.registry.IDs()
}

// Schema returns the input schema of score id.
func (s *Service) Schema(id string) (types.Schema, error) {
	eng, err := s.registry.Engine(id)
	if err != nil {
		return types.Schema{}, err
	}
	return eng.Schema(), nil
}

// Validate coerces raw input into typed parameters for score id. Every
// field error is returned, joined in schema order.
func (s *Service) Validate(ctx context.Context, id string, raw validation.RawInputs) (model.Parameters, error) {
	ctx, span := s.tracer.Start(ctx, "Validate", trace.WithAttributes(
		attribute.String("score.id", id),
		attribute.Int("input.fields", len(raw)),
	))
	defer span.End()

	eng, err := s.registry.Engine(id)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	params, err := validation.Validate(eng.Schema(), raw)
	if err != nil {
		s.recordValidationFailures(ctx, id, err)
		fail(span, err)
		return nil, err
	}
	return params, nil
}

// ValidatePartial checks a single value as it is being typed. Empty input
// is accepted and only the value's type is checked.
func (s *Service) ValidatePartial(id, field, raw string) error {
	eng, err := s.registry.Engine(id)
	if err != nil {
		return err
	}
	return validation.ValidatePartial(eng.Schema(), field, raw)
}

// Compute evaluates score id. params are checked against the schema first,
// so a hand-built mapping cannot bypass validation.
func (s *Service) Compute(ctx context.Context, id string, params model.Parameters) (model.Result, error) {
	ctx, span := s.tracer.Start(ctx, "Compute", trace.WithAttributes(attribute.String("score.id", id)))
	defer span.End()

	eng, err := s.registry.Engine(id)
	if err != nil {
		fail(span, err)
		return model.Result{}, err
	}

	start := time.Now()
	res, outcome, err := s.compute(ctx, eng, params)
	metrics.RecordComputation(id, outcome, float64(time.Since(start).Microseconds())/1000)
	span.SetAttributes(attribute.String("score.outcome", outcome))
	if err != nil {
		fail(span, err)
		return model.Result{}, err
	}
	if res.Points != nil {
		span.SetAttributes(attribute.Int("score.points", *res.Points))
	}
	return res, nil
}

func (s *Service) compute(ctx context.Context, eng scoring.Engine, params model.Parameters) (model.Result, string, error) {
	id := eng.ID()
	if err := validation.Check(eng.Schema(), params); err != nil {
		s.recordValidationFailures(ctx, id, err)
		return model.Result{}, metrics.OutcomeInvalidInput, err
	}
	res, err := eng.Compute(params)
	if err != nil {
		var ce *scoring.CombinationError
		if errors.As(err, &ce) {
			metrics.RecordCombinationFailure(id, ce.Rule)
			s.logger.Debug(ctx, "combination rejected",
				logger.String("score", id),
				logger.String("rule", ce.Rule),
				logger.Any("fields", ce.Fields),
			)
			return model.Result{}, metrics.OutcomeInvalidCombination, err
		}
		s.logger.Error(ctx, "computation failed", logger.String("score", id), logger.Error(err))
		return model.Result{}, metrics.OutcomeError, err
	}
	return res, metrics.OutcomeOK, nil
}

// Evaluate validates raw input and computes score id from it.
func (s *Service) Evaluate(ctx context.Context, id string, raw validation.RawInputs) (model.Result, error) {
	ctx, span := s.tracer.Start(ctx, "Evaluate", trace.WithAttributes(attribute.String("score.id", id)))
	defer span.End()

	params, err := s.Validate(ctx, id, raw)
	if err != nil {
		fail(span, err)
		return model.Result{}, err
	}
	res, err := s.Compute(ctx, id, params)
	if err != nil {
		fail(span, err)
		return model.Result{}, err
	}
	return res, nil
}

// EvaluateAll evaluates every score against one patient profile. Each score
// reads the fields its schema declares and ignores the rest, so a failure
// in one score does not affect the others. Outcomes follow ListScores order.
func (s *Service) EvaluateAll(ctx context.Context, raw validation.RawInputs) []Outcome {
	ctx, span := s.tracer.Start(ctx, "EvaluateAll")
	defer span.End()

	ids := s.registry.IDs()
	outcomes := make([]Outcome, len(ids))

	var g errgroup.Group
	g.SetLimit(s.workerCount)
	for i, id := range ids {
		g.Go(func() error {
			res, err := s.Evaluate(ctx, id, raw)
			outcomes[i] = Outcome{Score: id, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("scores.failed", failed))
	s.logger.Debug(ctx, "evaluated all scores",
		logger.Int("scores", len(ids)),
		logger.Int("failed", failed),
	)
	return outcomes
}

// GenerateRandomParameters draws a valid parameter set for score id.
func (s *Service) GenerateRandomParameters(id string, seed int64) (model.Parameters, error) {
	if _, err := s.registry.Engine(id); err != nil {
		return nil, err
	}
	return generator.New(seed).Generate(id)
}

// SelfCheck generates and verifies cases according to plan.
func (s *Service) SelfCheck(ctx context.Context, plan selfcheck.Plan) (*selfcheck.Report, error) {
	ctx, span := s.tracer.Start(ctx, "SelfCheck", trace.WithAttributes(
		attribute.Int64("selfcheck.seed", plan.Seed),
		attribute.Int("selfcheck.cases", plan.Cases),
	))
	defer span.End()

	report, err := s.runner().Run(ctx, plan)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("selfcheck.run_id", report.RunID),
		attribute.Int("selfcheck.failed", len(report.Failures())),
	)
	return report, nil
}

// Replay re-verifies the cases stored in a replay file.
func (s *Service) Replay(ctx context.Context, path string) (*selfcheck.Report, error) {
	ctx, span := s.tracer.Start(ctx, "Replay", trace.WithAttributes(attribute.String("replay.path", path)))
	defer span.End()

	r := s.runner()
	cases, err := r.LoadReplay(path)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	report, err := r.Replay(ctx, cases)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return report, nil
}

func (s *Service) runner() *selfcheck.Runner {
	return selfcheck.New(s.registry,
		selfcheck.WithWorkers(s.workerCount),
		selfcheck.WithQueueSize(s.queueSize),
		selfcheck.WithDedupeSize(s.dedupeSize),
		selfcheck.WithLogger(s.logger.Named("selfcheck")),
	)
}

func (s *Service) recordValidationFailures(ctx context.Context, id string, err error) {
	for _, fe := range validation.FieldErrors(err) {
		kind := failureKind(fe)
		metrics.RecordValidationFailure(id, kind)
		s.logger.Debug(ctx, "input rejected",
			logger.String("score", id),
			logger.String("kind", kind),
			logger.Error(fe),
		)
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, validation.ErrMissingRequiredField):
		return failureMissing
	case errors.Is(err, validation.ErrInvalidType):
		return failureInvalidType
	case errors.Is(err, validation.ErrOutOfRange):
		return failureOutOfRange
	case errors.Is(err, validation.ErrUnknownField):
		return failureUnknownField
	}
	return failureOther
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
