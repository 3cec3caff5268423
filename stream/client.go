package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/tutils/pdgen"
)

// ErrRemote wraps an error reported by the server in a chunk.
var ErrRemote = errors.New("stream server error")

// Client is one streaming session. Requests on a Client are served in order
// from the server-side generator bound at Dial.
type Client struct {
	conn *websocket.Conn
	seed uint32
	id   string
}

// Dial opens a session at rawURL, e.g. ws://127.0.0.1:8080/stream?seed=3.
func Dial(ctx context.Context, rawURL string) (*Client, error) {
	dialer := websocket.Dialer{
		ReadBufferSize:  64 << 10,
		WriteBufferSize: 4 << 10,
	}
	conn, resp, err := dialer.DialContext(ctx, rawURL, http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", rawURL, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	return &Client{conn: conn}, nil
}

// Seed returns the session seed as reported by the server. It is zero until
// the first reply arrives.
func (c *Client) Seed() uint32 {
	return c.seed
}

// ID returns the server-assigned session id, once known.
func (c *Client) ID() string {
	return c.id
}

// Sample sends req and reassembles the reply chunks into one sequence.
func (c *Client) Sample(req Request) (pdgen.Sequence, error) {
	kind, err := pdgen.ParseKind(req.Kind)
	if err != nil {
		return pdgen.Sequence{}, err
	}
	if err := c.conn.WriteJSON(req); err != nil {
		return pdgen.Sequence{}, err
	}

	seq := pdgen.Sequence{Kind: kind}
	for want := 0; ; want++ {
		var chunk Chunk
		if err := c.conn.ReadJSON(&chunk); err != nil {
			return pdgen.Sequence{}, err
		}
		c.seed, c.id = chunk.Seed, chunk.ID
		seq.Seed = chunk.Seed
		if chunk.Error != "" {
			return pdgen.Sequence{}, fmt.Errorf("%w: %s", ErrRemote, chunk.Error)
		}
		if chunk.Seq != want {
			return pdgen.Sequence{}, fmt.Errorf("chunk %d out of order, want %d", chunk.Seq, want)
		}
		seq.Floats = append(seq.Floats, chunk.Values...)
		seq.Ints = append(seq.Ints, chunk.Ints...)
		if chunk.Done {
			break
		}
	}

	if kind.Discrete() {
		seq.Floats = nil
		if seq.Ints == nil {
			seq.Ints = []int64{}
		}
	} else {
		seq.Ints = nil
		if seq.Floats == nil {
			seq.Floats = []float64{}
		}
	}
	return seq, nil
}

// Close ends the session.
func (c *Client) Close() error {
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
