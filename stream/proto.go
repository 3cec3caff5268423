package stream

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
	"github.com/tutils/pdgen"
)

// Chunk is one server message. A request is answered by chunks numbered
// from zero; the last one has Done set. A failed request is answered by a
// single chunk carrying Error.
type Chunk struct {
	ID      string    `json:"id"`
	Request int       `json:"request"`
	Seed    uint32    `json:"seed"`
	Kind    string    `json:"kind,omitempty"`
	Seq     int       `json:"seq"`
	Values  []float64 `json:"values,omitempty"`
	Ints    []int64   `json:"ints,omitempty"`
	Done    bool      `json:"done"`
	Error   string    `json:"error,omitempty"`
}

// Request is the client message:
//
//	{"kind": "normal", "n": 1000, "params": {"mu": 0, "sigma": 1}}
//
// Parameters that are not given take their defaults for the kind.
type Request struct {
	Kind   string             `json:"kind"`
	N      int                `json:"n"`
	Params map[string]float64 `json:"params,omitempty"`
}

// decodeRequest parses a client message into a sampling request.
func decodeRequest(msg []byte) (pdgen.Request, error) {
	if !gjson.ValidBytes(msg) {
		return pdgen.Request{}, fmt.Errorf("malformed request: not JSON")
	}

	kind, err := pdgen.ParseKind(gjson.GetBytes(msg, "kind").String())
	if err != nil {
		return pdgen.Request{}, err
	}

	n := gjson.GetBytes(msg, "n")
	if n.Type != gjson.Number || n.Num != math.Trunc(n.Num) {
		return pdgen.Request{}, fmt.Errorf("%w: n must be an integer", pdgen.ErrInvalidCount)
	}

	req := pdgen.Request{
		Kind:   kind,
		Params: pdgen.DefaultParamsFor(kind),
		N:      int(n.Int()),
	}

	var perr error
	gjson.GetBytes(msg, "params").ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			perr = fmt.Errorf("%w: %s must be a number", pdgen.ErrInvalidParams, key.String())
			return false
		}
		if err := req.Params.SetFloat(key.String(), value.Num); err != nil {
			perr = err
			return false
		}
		return true
	})
	if perr != nil {
		return pdgen.Request{}, perr
	}
	return req, nil
}
