package resp

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/redcon"
	"github.com/tutils/pdgen"
	"github.com/tutils/pdgen/goftest"
)

// ErrWrongNumArgs is returned for a command with the wrong argument count.
var ErrWrongNumArgs = errors.New("wrong number of arguments")

// ErrSeedBound is returned by SEED on a connection that already has its own
// generator.
var ErrSeedBound = errors.New("seed already bound on this connection")

type command func(s *Server, c *client, conn redcon.Conn, args []string) error

var commands = map[string]command{
	"ping":   cmdPING,
	"quit":   cmdQUIT,
	"seed":   cmdSEED,
	"kinds":  cmdKINDS,
	"sample": cmdSAMPLE,
	"gof":    cmdGOF,
}

// PING [message]
func cmdPING(s *Server, c *client, conn redcon.Conn, args []string) error {
	switch len(args) {
	case 1:
		conn.WriteString("PONG")
	case 2:
		conn.WriteBulkString(args[1])
	default:
		return ErrWrongNumArgs
	}
	return nil
}

// QUIT
func cmdQUIT(s *Server, c *client, conn redcon.Conn, args []string) error {
	conn.WriteString("OK")
	return conn.Close()
}

// SEED [seed]
// help: without an argument returns the seed this connection draws from.
// With one, binds a private generator; a connection can bind only once.
func cmdSEED(s *Server, c *client, conn redcon.Conn, args []string) error {
	switch len(args) {
	case 1:
		conn.WriteInt64(int64(c.gen.Seed()))
		return nil
	case 2:
	default:
		return ErrWrongNumArgs
	}
	if c.bound {
		return ErrSeedBound
	}
	seed, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid seed %q", args[1])
	}
	c.gen = s.newGenerator(uint32(seed), c.log)
	c.bound = true
	c.log.Debug().Uint32("seed", uint32(seed)).Msg("seed bound")
	conn.WriteString("OK")
	return nil
}

// KINDS
// help: lists the canonical distribution names.
func cmdKINDS(s *Server, c *client, conn redcon.Conn, args []string) error {
	if len(args) != 1 {
		return ErrWrongNumArgs
	}
	conn.WriteArray(len(pdgen.Kinds))
	for _, k := range pdgen.Kinds {
		conn.WriteBulkString(k.String())
	}
	return nil
}

// SAMPLE kind n [name value ...]
// help: draws n variates. Continuous kinds reply with bulk strings holding
// the shortest exact decimal form; discrete kinds reply with integers.
func cmdSAMPLE(s *Server, c *client, conn redcon.Conn, args []string) error {
	if len(args) < 3 || len(args)%2 == 0 {
		return ErrWrongNumArgs
	}
	req, err := parseRequest(args[1], args[2], args[3:])
	if err != nil {
		return err
	}
	seq, err := c.gen.Sample(req)
	if err != nil {
		return err
	}

	conn.WriteArray(seq.Len())
	if seq.Kind.Discrete() {
		for _, v := range seq.Ints {
			conn.WriteInt64(v)
		}
		return nil
	}
	for _, v := range seq.Floats {
		conn.WriteBulkString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return nil
}

// GOF kind n alpha [name value ...]
// help: draws n variates and tests them against the distribution they were
// drawn from. Replies with a flat array of field/value bulk strings.
func cmdGOF(s *Server, c *client, conn redcon.Conn, args []string) error {
	if len(args) < 4 || len(args)%2 != 0 {
		return ErrWrongNumArgs
	}
	alpha, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("invalid alpha %q", args[3])
	}
	if err := goftest.CheckAlpha(alpha); err != nil {
		return err
	}
	req, err := parseRequest(args[1], args[2], args[4:])
	if err != nil {
		return err
	}
	seq, err := c.gen.Sample(req)
	if err != nil {
		return err
	}
	r, err := goftest.ForSequence(seq, alpha)
	if err != nil {
		return err
	}

	accept := 0
	if r.Accept {
		accept = 1
	}
	conn.WriteArray(12)
	conn.WriteBulkString("method")
	conn.WriteBulkString(r.Method)
	conn.WriteBulkString("statistic")
	conn.WriteBulkString(strconv.FormatFloat(r.Statistic, 'g', -1, 64))
	conn.WriteBulkString("pvalue")
	conn.WriteBulkString(strconv.FormatFloat(r.PValue, 'g', -1, 64))
	conn.WriteBulkString("critical")
	conn.WriteBulkString(strconv.FormatFloat(r.Critical, 'g', -1, 64))
	conn.WriteBulkString("df")
	conn.WriteBulkString(strconv.Itoa(r.DF))
	conn.WriteBulkString("accept")
	conn.WriteBulkString(strconv.Itoa(accept))
	return nil
}

// parseRequest reads "kind n [name value ...]"; parameters that are not
// given take their defaults for the kind.
func parseRequest(kindArg, nArg string, kv []string) (pdgen.Request, error) {
	kind, err := pdgen.ParseKind(kindArg)
	if err != nil {
		return pdgen.Request{}, err
	}
	n, err := strconv.Atoi(nArg)
	if err != nil {
		return pdgen.Request{}, fmt.Errorf("%w: %q", pdgen.ErrInvalidCount, nArg)
	}

	params := pdgen.DefaultParamsFor(kind)
	for i := 0; i+1 < len(kv); i += 2 {
		if err := params.Set(kv[i], kv[i+1]); err != nil {
			return pdgen.Request{}, err
		}
	}
	return pdgen.Request{Kind: kind, Params: params, N: n}, nil
}
