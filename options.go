package quill

import (
	"io"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/risor-io/quill/evaluator"
	"github.com/risor-io/quill/parser"
)

// Option configures a compilation or evaluation.
type Option func(*options)

type options struct {
	filename string
	logger   zerolog.Logger
	stdout   io.Writer
	stdin    io.Reader
	rand     *rand.Rand
	observer evaluator.Observer
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) evaluatorOpts() []evaluator.Option {
	opts := []evaluator.Option{evaluator.WithLogger(o.logger)}
	if o.stdout != nil {
		opts = append(opts, evaluator.WithStdout(o.stdout))
	}
	if o.stdin != nil {
		opts = append(opts, evaluator.WithStdin(o.stdin))
	}
	if o.rand != nil {
		opts = append(opts, evaluator.WithRand(o.rand))
	}
	if o.observer != nil {
		opts = append(opts, evaluator.WithObserver(o.observer))
	}
	return opts
}

// WithFilename sets the filename for the source code being evaluated.
// This is used in diagnostic locations.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithLogger sets the logger for compile and evaluation events. Events are
// logged at debug level. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStdout sets where print writes.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithStdin sets where input reads from.
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		o.stdin = r
	}
}

// WithRand sets the random source used by random.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithObserver sets an observer for evaluation events: statement steps,
// function calls and function returns.
func WithObserver(observer evaluator.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}
