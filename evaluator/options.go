package evaluator

import (
	"io"
	"math/rand"

	"github.com/rs/zerolog"
)

// Option is a configuration function for an Evaluator.
type Option func(*Evaluator)

// WithStdout sets where print writes. The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(e *Evaluator) {
		e.stdout = w
	}
}

// WithStdin sets where input reads from. The default is os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(e *Evaluator) {
		e.stdin = r
	}
}

// WithRand sets the source used by random.
func WithRand(r *rand.Rand) Option {
	return func(e *Evaluator) {
		e.rand = r
	}
}

// WithLogger sets the logger for evaluation events.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithObserver sets an observer for evaluation events. Returning false from
// any observer method halts evaluation with ErrHalted.
func WithObserver(observer Observer) Option {
	return func(e *Evaluator) {
		e.observer = observer
	}
}

// WithContextCheckInterval sets how many statements run between checks of
// ctx.Done(). A value of 0 disables the check. The default is
// DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(e *Evaluator) {
		e.contextCheckInterval = interval
	}
}
