package stream

import (
	"github.com/rs/zerolog"
	"github.com/tutils/pdgen/counter"
)

// ServerOptions is server options
type ServerOptions struct {
	Address  string
	Chunk    int
	MaxCount int
	Logger   zerolog.Logger
	Counter  counter.Counter
}

// ServerOption is option setter for server
type ServerOption func(*ServerOptions)

// default server options
var (
	DefaultListenAddress = "ws://0.0.0.0:8080/stream"
	DefaultChunk         = 4096
	DefaultMaxCount      = 1 << 24
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
	if opt.Chunk <= 0 {
		opt.Chunk = DefaultChunk
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

// WithChunk sets the largest number of values sent in one message.
func WithChunk(n int) ServerOption {
	return func(opts *ServerOptions) {
		opts.Chunk = n
	}
}

// WithMaxCount caps the length of one request.
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

// WithCounter sets the counter shared by every session's generator.
func WithCounter(c counter.Counter) ServerOption {
	return func(opts *ServerOptions) {
		opts.Counter = c
	}
}
