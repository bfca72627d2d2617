// Package worker verifies queued self-check cases.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/pkg/logger"
	"github.com/okian/cardiorisk/pkg/metrics"
)

const (
	metricsUpdateInterval = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Verifier checks one case.
type Verifier interface {
	// Verify returns the verdict for c. An error means the case could not
	// be evaluated at all, as opposed to evaluating and failing.
	Verify(ctx context.Context, c model.Case) (model.Verdict, error)
}

// Sink receives verdicts. Implementations must be safe for concurrent use.
type Sink interface {
	Record(ctx context.Context, v model.Verdict)
}

// Queue defines how workers receive cases.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Case
}

// Worker processes cases from a queue.
type Worker interface {
	// Run processes cases until the queue drains, ctx is done or Shutdown
	// is called.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for the case in flight. It is
	// safe to call more than once.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	verifier Verifier
	sink     Sink
	name     string

	processed *atomic.Int64

	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker.
func NewInMemoryWorker(queue Queue, verifier Verifier, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		verifier:  verifier,
		sink:      sink,
		name:      "worker",
		processed: new(atomic.Int64),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	cases := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case c, ok := <-cases:
			if !ok {
				return
			}
			w.processCase(ctx, c)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) processCase(ctx context.Context, c model.Case) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
		w.processed.Add(1)
	}()

	v, err := w.verifier.Verify(ctx, c)
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "case could not be verified",
			logger.String("caseID", c.ID),
			logger.String("score", c.Score),
			logger.Error(err),
		)
		v = model.Verdict{Case: c, Failures: []string{err.Error()}}
	}
	metrics.RecordSelfcheckCase(c.Score, v.Passed)
	if !v.Passed {
		w.logger.Debug(ctx, "case failed",
			logger.String("caseID", c.ID),
			logger.String("score", c.Score),
			logger.Any("failures", v.Failures),
		)
	}
	w.sink.Record(ctx, v)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	processed     atomic.Int64
	lastProcessed int64
	lastTick      time.Time

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers, one per CPU when
// workerCount is below one.
func NewPool(workerCount int, queue Queue, verifier Verifier, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		lastTick: time.Now(),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		w := NewInMemoryWorker(queue, verifier, sink, WithName("worker-"+strconv.Itoa(i)))
		w.processed = &p.processed
		p.workers[i] = w
	}
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerCasesPerSecond(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns the number of cases handled so far.
func (p *Pool) Processed() int64 {
	return p.processed.Load()
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	now := time.Now()
	total := p.processed.Load()
	if elapsed := now.Sub(p.lastTick).Seconds(); elapsed > 0 {
		metrics.UpdateWorkerCasesPerSecond(float64(total-p.lastProcessed) / elapsed)
	}
	p.lastProcessed = total
	p.lastTick = now
}

// Wait blocks until every worker has returned, which happens once the queue
// is closed and drained.
func (p *Pool) Wait(ctx context.Context) error {
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return fmt.Errorf("waiting for worker %d: %w", i, ctx.Err())
		}
	}
	p.stopUpdater()
	metrics.UpdateWorkerActiveCount(0)
	return nil
}

func (p *Pool) stopUpdater() {
	select {
	case <-p.shutdown:
	default:
		close(p.shutdown)
	}
}

// Shutdown closes the queue when it supports it, stops every worker and
// waits for them up to poolShutdownTimeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	p.stopUpdater()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			timedOut++
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	if timedOut > 0 {
		return fmt.Errorf("%d workers did not stop: %w", timedOut, shutdownCtx.Err())
	}
	return nil
}
