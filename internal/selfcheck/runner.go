// Package selfcheck verifies the score engines against generated input.
//
// A run draws seeded random parameter sets for every score, drops
// duplicates, and pushes the rest through a bounded queue to a worker pool.
// Each worker checks that the parameters conform to the schema, survive a
// round trip through their string form, evaluate deterministically and
// produce finite, bounded outputs. Every case keeps its own seed so a
// single failure can be regenerated in isolation.
package selfcheck

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cardiorisk/internal/adapters/mq/queue"
	"github.com/okian/cardiorisk/internal/adapters/mq/worker"
	"github.com/okian/cardiorisk/internal/domain/dedupe"
	"github.com/okian/cardiorisk/internal/domain/generator"
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/internal/domain/scoring"
	"github.com/okian/cardiorisk/pkg/logger"
	"github.com/okian/cardiorisk/pkg/metrics"
)

const (
	defaultQueueSize  = 1024
	defaultDedupeSize = 50000
)

// Plan describes what a run generates.
type Plan struct {
	Seed int64
	// Cases is the number of cases generated per score.
	Cases int
	// Scores restricts the run; empty means every registered score.
	Scores []string
}

// ScoreSummary counts the verdicts of one score.
type ScoreSummary struct {
	Score  string `json:"score" yaml:"score"`
	Cases  int    `json:"cases" yaml:"cases"`
	Failed int    `json:"failed" yaml:"failed"`
}

// Report is the outcome of a run.
type Report struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	Seed       int64          `json:"seed" yaml:"seed"`
	Started    time.Time      `json:"started" yaml:"started"`
	Duration   time.Duration  `json:"duration" yaml:"duration"`
	Generated  int            `json:"generated" yaml:"generated"`
	Duplicates int            `json:"duplicates" yaml:"duplicates"`
	Scores     []ScoreSummary `json:"scores" yaml:"scores"`

	// Verdicts are in generation order.
	Verdicts []model.Verdict `json:"-" yaml:"-"`
}

// Total returns the number of verified cases.
func (r *Report) Total() int {
	return len(r.Verdicts)
}

// Failures returns the verdicts that did not pass.
func (r *Report) Failures() []model.Verdict {
	var out []model.Verdict
	for _, v := range r.Verdicts {
		if !v.Passed {
			out = append(out, v)
		}
	}
	return out
}

// OK reports whether every verified case passed.
func (r *Report) OK() bool {
	return len(r.Failures()) == 0
}

// Runner executes self-check runs against a registry.
type Runner struct {
	registry   *scoring.Registry
	workers    int
	queueSize  int
	dedupeSize int
	logger     logger.Logger
}

// New creates a runner for the engines of registry.
func New(registry *scoring.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry:   registry,
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		logger:     logger.Get().Named("selfcheck"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run generates plan.Cases cases per score and verifies them.
func (r *Runner) Run(ctx context.Context, plan Plan) (*Report, error) {
	if plan.Cases < 1 {
		return nil, fmt.Errorf("%w: %d cases per score", ErrNoCases, plan.Cases)
	}
	scores := plan.Scores
	if len(scores) == 0 {
		scores = r.registry.IDs()
	}
	for _, id := range scores {
		if _, err := r.registry.Engine(id); err != nil {
			return nil, err
		}
	}

	report := r.newReport(plan.Seed)
	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(r.dedupeSize))
	r.logger.Info(ctx, "self-check started",
		logger.String("run_id", report.RunID),
		logger.Int64("seed", plan.Seed),
		logger.Int("scores", len(scores)),
		logger.Int("cases_per_score", plan.Cases),
	)

	produce := func(ctx context.Context, emit func(model.Case) error) error {
		k := 0
		for _, id := range scores {
			for range plan.Cases {
				gen := generator.ForCase(plan.Seed, k)
				k++
				params, err := gen.Generate(id)
				if err != nil {
					return err
				}
				report.Generated++
				if seen.SeenAndRecord(ctx, dedupe.Fingerprint(id, params)) {
					report.Duplicates++
					metrics.RecordSelfcheckDuplicate()
					continue
				}
				if err := emit(model.Case{ID: uuid.NewString(), Score: id, Seed: gen.Seed(), Params: params}); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := r.execute(ctx, report, produce); err != nil {
		return nil, err
	}
	return report, nil
}

// Replay verifies previously recorded cases.
func (r *Runner) Replay(ctx context.Context, cases []model.Case) (*Report, error) {
	if len(cases) == 0 {
		return nil, ErrNoCases
	}
	report := r.newReport(0)
	r.logger.Info(ctx, "replay started",
		logger.String("run_id", report.RunID),
		logger.Int("cases", len(cases)),
	)
	produce := func(_ context.Context, emit func(model.Case) error) error {
		for _, c := range cases {
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			report.Generated++
			if err := emit(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := r.execute(ctx, report, produce); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Runner) newReport(seed int64) *Report {
	return &Report{
		RunID:   uuid.NewString(),
		Seed:    seed,
		Started: time.Now(),
	}
}

type producer func(ctx context.Context, emit func(model.Case) error) error

// execute feeds the produced cases through a queue to a worker pool and
// collects the verdicts into report.
func (r *Runner) execute(ctx context.Context, report *Report, produce producer) error {
	q := queue.NewInMemoryQueue(queue.WithCapacity(r.queueSize))
	sink := &collector{}
	pool := worker.NewPool(r.workers, q, engineVerifier{registry: r.registry}, sink)
	pool.Start(ctx)

	order := make(map[string]int)
	emit := func(c model.Case) error {
		if _, dup := order[c.ID]; !dup {
			order[c.ID] = len(order)
		}
		return q.EnqueueWait(ctx, c)
	}
	if err := produce(ctx, emit); err != nil {
		if shutdownErr := pool.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			r.logger.Warn(ctx, "worker pool shutdown", logger.Error(shutdownErr))
		}
		return fmt.Errorf("producing cases: %w", err)
	}
	if err := q.Close(); err != nil {
		return fmt.Errorf("closing queue: %w", err)
	}
	if err := pool.Wait(ctx); err != nil {
		return err
	}

	verdicts := sink.all()
	sort.SliceStable(verdicts, func(i, j int) bool {
		return order[verdicts[i].Case.ID] < order[verdicts[j].Case.ID]
	})
	report.Verdicts = verdicts
	report.Scores = r.summarize(verdicts)
	report.Duration = time.Since(report.Started)

	r.logger.Info(ctx, "self-check finished",
		logger.String("run_id", report.RunID),
		logger.Int("verified", report.Total()),
		logger.Int("failed", len(report.Failures())),
		logger.Int("duplicates", report.Duplicates),
		logger.Duration("took", report.Duration),
	)
	return nil
}

func (r *Runner) summarize(verdicts []model.Verdict) []ScoreSummary {
	byScore := make(map[string]*ScoreSummary)
	for _, v := range verdicts {
		s, ok := byScore[v.Case.Score]
		if !ok {
			s = &ScoreSummary{Score: v.Case.Score}
			byScore[v.Case.Score] = s
		}
		s.Cases++
		if !v.Passed {
			s.Failed++
		}
	}
	out := make([]ScoreSummary, 0, len(byScore))
	for _, id := range r.registry.IDs() {
		if s, ok := byScore[id]; ok {
			out = append(out, *s)
		}
	}
	return out
}
