// Package stream serves variate sequences over WebSocket.
//
// A client connects to ws://host:port/stream?seed=S. The seed is bound once
// per connection and every request on that connection draws from the same
// generator, so the concatenated replies equal what a local generator seeded
// with S would produce for the same requests. Without a seed the server picks
// one and reports it in every chunk.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/tutils/pdgen"
)

type addr struct {
	url *url.URL
}

func (a *addr) String() string {
	return a.url.String()
}

func (a *addr) host() string {
	return a.url.Host
}

func (a *addr) uri() string {
	if p := a.url.EscapedPath(); p != "" {
		return p
	}
	return "/"
}

func newAddr(rawURL string) (*addr, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	return &addr{
		url: u,
	}, nil
}

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  4 << 10,
		WriteBufferSize: 64 << 10,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// Server streams sequences to WebSocket clients.
type Server struct {
	opts ServerOptions
	addr *addr
	srv  *http.Server
}

// NewServer builds a server; it does not listen until ListenAndServe.
func NewServer(opts ...ServerOption) (*Server, error) {
	opt := NewServerOptions(opts...)

	a, err := newAddr(opt.Address)
	if err != nil {
		return nil, fmt.Errorf("stream listen address: %w", err)
	}

	s := &Server{
		opts: *opt,
		addr: a,
	}

	mux := http.NewServeMux()
	mux.Handle(a.uri(), s)
	s.srv = &http.Server{
		Addr:    a.host(),
		Handler: mux,
	}

	return s, nil
}

// Handler returns the routing handler, for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe listens on the host of the configured address.
func (s *Server) ListenAndServe() error {
	s.opts.Logger.Info().Str("address", s.addr.String()).Msg("stream server listening")
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for open handlers.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	seed, err := seedFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sess := &session{
		id:   uuid.New().String()[:8],
		conn: conn,
		opts: &s.opts,
	}
	sess.log = s.opts.Logger.With().Str("session", sess.id).Uint32("seed", seed).Logger()

	genOpts := []pdgen.Option{
		pdgen.WithLogger(sess.log),
		pdgen.WithMaxCount(s.opts.Chunk),
	}
	if s.opts.Counter != nil {
		genOpts = append(genOpts, pdgen.WithCounter(s.opts.Counter))
	}
	sess.gen = pdgen.NewGenerator(seed, genOpts...)

	sess.log.Info().Str("remote", r.RemoteAddr).Msg("session open")

	done := make(chan struct{})
	go startPing(conn, done)

	err = sess.serve(r.Context())
	close(done)

	ev := sess.log.Info()
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		ev = sess.log.Warn().Err(err)
	}
	ev.Int("requests", sess.requests).Msg("session closed")
}

func seedFromQuery(q url.Values) (uint32, error) {
	raw := q.Get("seed")
	if raw == "" {
		return pdgen.NewSeed()
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", raw, err)
	}
	return uint32(v), nil
}

type session struct {
	id       string
	conn     *websocket.Conn
	gen      *pdgen.Generator
	opts     *ServerOptions
	log      zerolog.Logger
	requests int
}

func (s *session) serve(ctx context.Context) error {
	for {
		typ, msg, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		if typ != websocket.TextMessage {
			continue
		}

		s.requests++
		if err := s.handle(ctx, s.requests-1, msg); err != nil {
			return err
		}
	}
}

// handle answers one request. Only write failures are returned; request
// errors are reported to the client and the session continues.
func (s *session) handle(ctx context.Context, id int, msg []byte) error {
	req, err := decodeRequest(msg)
	if err == nil {
		err = s.check(req)
	}
	if err != nil {
		s.log.Debug().Err(err).Int("request", id).Msg("request rejected")
		return s.write(Chunk{ID: s.id, Request: id, Seed: s.gen.Seed(), Error: err.Error()})
	}

	remaining := req.N
	for seq := 0; ; seq++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := remaining
		if n > s.opts.Chunk {
			n = s.opts.Chunk
		}
		out, err := s.gen.SampleKind(req.Kind, req.Params, n)
		if err != nil {
			// check already validated the request
			return err
		}
		remaining -= n

		chunk := Chunk{
			ID:      s.id,
			Request: id,
			Seed:    s.gen.Seed(),
			Kind:    req.Kind.String(),
			Seq:     seq,
			Values:  out.Floats,
			Ints:    out.Ints,
			Done:    remaining == 0,
		}
		if err := s.write(chunk); err != nil {
			if errors.Is(err, errUnencodable) {
				return s.write(Chunk{ID: s.id, Request: id, Seed: s.gen.Seed(), Seq: seq, Error: err.Error()})
			}
			return err
		}
		if chunk.Done {
			return nil
		}
	}
}

// check validates req without drawing so that errors arrive before any
// chunk.
func (s *session) check(req pdgen.Request) error {
	if req.N < 0 || req.N > s.opts.MaxCount {
		return fmt.Errorf("%w: %d not in [0, %d]", pdgen.ErrInvalidCount, req.N, s.opts.MaxCount)
	}
	_, err := s.gen.SampleKind(req.Kind, req.Params, 0)
	return err
}

var errUnencodable = errors.New("values not representable in JSON")

func (s *session) write(c Chunk) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: %v", errUnencodable, err)
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, b)
}

const readTimeout = time.Second * 60
const pingPeriod = time.Second * 10
const writeTimeout = time.Second * 10

func startPing(conn *websocket.Conn, done chan struct{}) {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeTimeout))
		case <-done:
			return
		}
	}
}
