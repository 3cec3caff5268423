package pdgen

import (
	"github.com/rs/zerolog"
	"github.com/tutils/pdgen/counter"
)

// Options configures a Generator.
type Options struct {
	logger   zerolog.Logger
	counter  counter.Counter
	maxCount int
}

// Option is option setter for Generator
type Option func(*Options)

// default generator options
var (
	DefaultMaxCount = 1 << 26
)

func newOptions(opts ...Option) *Options {
	opt := &Options{
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(opt)
	}

	if opt.maxCount <= 0 {
		opt.maxCount = DefaultMaxCount
	}

	return opt
}

// WithLogger sets the logger receiving one debug event per sample.
func WithLogger(l zerolog.Logger) Option {
	return func(opts *Options) {
		opts.logger = l
	}
}

// WithCounter sets a counter that is advanced by the length of every
// produced sequence.
func WithCounter(c counter.Counter) Option {
	return func(opts *Options) {
		opts.counter = c
	}
}

// WithMaxCount caps the length of a single request.
func WithMaxCount(n int) Option {
	return func(opts *Options) {
		opts.maxCount = n
	}
}
