package selfcheck

import "github.com/okian/cardiorisk/pkg/logger"

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of verifying workers. Values below one mean
// one worker per CPU.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithQueueSize bounds the number of cases waiting for a worker.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// WithDedupeSize bounds the fingerprint cache. Values of zero or less keep
// every fingerprint.
func WithDedupeSize(n int) Option {
	return func(r *Runner) {
		r.dedupeSize = n
	}
}

// WithLogger sets the runner's logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
