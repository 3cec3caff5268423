// Package resp serves variate sequences over the Redis protocol, so that any
// Redis client can draw from a generator:
//
//	SEED 3
//	SAMPLE normal 1000 mu 0 sigma 1
//	GOF poisson 10000 0.05 lambda 4
//
// A connection that sends SEED gets its own generator for the rest of its
// life. Connections that never do share one server-wide generator.
package resp

import (
	"errors"
	"io"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/redcon"
	"github.com/tutils/pdgen"
)

// Server is a RESP endpoint.
type Server struct {
	opts   ServerOptions
	shared *pdgen.SyncGenerator
	srv    *redcon.Server
}

// client is the per-connection state kept in the redcon context.
type client struct {
	id    string
	gen   pdgen.Sampler
	bound bool
	log   zerolog.Logger
}

// NewServer builds a server and its shared generator.
func NewServer(opts ...ServerOption) (*Server, error) {
	opt := NewServerOptions(opts...)

	seed := opt.Seed
	if !opt.Seeded {
		var err error
		if seed, err = pdgen.NewSeed(); err != nil {
			return nil, err
		}
	}

	s := &Server{opts: *opt}
	s.shared = pdgen.NewSyncGenerator(s.newGenerator(seed, opt.Logger))
	s.srv = redcon.NewServer(opt.Address, s.handle, s.accept, s.closed)
	return s, nil
}

func (s *Server) newGenerator(seed uint32, l zerolog.Logger) *pdgen.Generator {
	genOpts := []pdgen.Option{
		pdgen.WithLogger(l),
		pdgen.WithMaxCount(s.opts.MaxCount),
	}
	if s.opts.Counter != nil {
		genOpts = append(genOpts, pdgen.WithCounter(s.opts.Counter))
	}
	return pdgen.NewGenerator(seed, genOpts...)
}

// Seed returns the seed of the shared generator.
func (s *Server) Seed() uint32 {
	return s.shared.Seed()
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe() error {
	s.opts.Logger.Info().
		Str("address", s.opts.Address).
		Uint32("seed", s.shared.Seed()).
		Msg("resp server listening")
	return s.srv.ListenAndServe()
}

// Serve accepts connections on ln until ln is closed. It does not use the
// configured address.
func (s *Server) Serve(ln net.Listener) error {
	return redcon.Serve(ln, s.handle, s.accept, s.closed)
}

// Close stops the listener opened by ListenAndServe.
func (s *Server) Close() error {
	return s.srv.Close()
}

func (s *Server) accept(conn redcon.Conn) bool {
	c := &client{
		id:  uuid.New().String()[:8],
		gen: s.shared,
	}
	c.log = s.opts.Logger.With().Str("conn", c.id).Logger()
	conn.SetContext(c)
	c.log.Debug().Str("remote", conn.RemoteAddr()).Msg("connection open")
	return true
}

func (s *Server) closed(conn redcon.Conn, err error) {
	c, ok := conn.Context().(*client)
	if !ok {
		return
	}
	ev := c.log.Debug()
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
		ev = c.log.Warn().Err(err)
	}
	ev.Msg("connection closed")
}

func (s *Server) handle(conn redcon.Conn, cmd redcon.Command) {
	c := conn.Context().(*client)
	args := commandToArgs(cmd)

	h, ok := commands[args[0]]
	if !ok {
		conn.WriteError("ERR unknown command '" + args[0] + "'")
		return
	}
	if err := h(s, c, conn, args); err != nil {
		c.log.Debug().Err(err).Str("command", args[0]).Msg("command failed")
		conn.WriteError("ERR " + err.Error())
	}
}

func commandToArgs(cmd redcon.Command) []string {
	args := make([]string, len(cmd.Args))
	args[0] = strings.ToLower(string(cmd.Args[0]))
	for i := 1; i < len(cmd.Args); i++ {
		args[i] = string(cmd.Args[i])
	}
	return args
}
