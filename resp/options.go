package resp

import (
	"github.com/rs/zerolog"
	"github.com/tutils/pdgen/counter"
)

// ServerOptions is server options
type ServerOptions struct {
	Address  string
	Seed     uint32
	Seeded   bool
	MaxCount int
	Logger   zerolog.Logger
	Counter  counter.Counter
}

// ServerOption is option setter for server
type ServerOption func(*ServerOptions)

// default server options
var (
	DefaultListenAddress = "0.0.0.0:6380"
	DefaultMaxCount      = 1 << 20
)

// NewServerOptions applies opts over the defaults.
func NewServerOptions(opts ...ServerOption) *ServerOptions {
	opt := &ServerOptions{
		Logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(opt)
	}

	if opt.Address == "" {
		opt.Address = DefaultListenAddress
	}
	if opt.MaxCount <= 0 {
		opt.MaxCount = DefaultMaxCount
	}

	return opt
}

// WithListenAddress sets server listen address opt
func WithListenAddress(addr string) ServerOption {
	return func(opts *ServerOptions) {
		opts.Address = addr
	}
}

// WithSeed fixes the seed of the generator shared by connections that never
// send SEED. Without it the server picks a random seed at start.
func WithSeed(seed uint32) ServerOption {
	return func(opts *ServerOptions) {
		opts.Seed = seed
		opts.Seeded = true
	}
}

// WithMaxCount caps the length of one SAMPLE or GOF request.
func WithMaxCount(n int) ServerOption {
	return func(opts *ServerOptions) {
		opts.MaxCount = n
	}
}

// WithLogger sets the server logger.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(opts *ServerOptions) {
		opts.Logger = l
	}
}

// WithCounter sets the counter advanced by every generator of the server.
func WithCounter(c counter.Counter) ServerOption {
	return func(opts *ServerOptions) {
		opts.Counter = c
	}
}
