package stream

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tutils/pdgen"
)

func newTestServer(t *testing.T, opts ...ServerOption) *httptest.Server {
	t.Helper()
	s, err := NewServer(opts...)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/stream"+query)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestChunkedStreamMatchesLocalGenerator(t *testing.T) {
	ts := newTestServer(t, WithChunk(4))
	c := dial(t, ts, "?seed=3")

	local := pdgen.NewGenerator(3)
	params := pdgen.DefaultParamsFor(pdgen.KindNormal)
	params.Mu, params.Sigma = 1, 2

	// two requests on one session continue the same stream
	for _, n := range []int{10, 7} {
		got, err := c.Sample(Request{Kind: "normal", N: n, Params: map[string]float64{"mu": 1, "sigma": 2}})
		if err != nil {
			t.Fatal(err)
		}
		want, err := local.SampleKind(pdgen.KindNormal, params, n)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Floats) != n {
			t.Fatalf("got %d values, want %d", len(got.Floats), n)
		}
		for i := range want.Floats {
			if got.Floats[i] != want.Floats[i] {
				t.Fatalf("value %d: got %v, want %v", i, got.Floats[i], want.Floats[i])
			}
		}
	}
	if c.Seed() != 3 || c.ID() == "" {
		t.Fatalf("session seed %d id %q", c.Seed(), c.ID())
	}
}

func TestDiscreteStream(t *testing.T) {
	ts := newTestServer(t, WithChunk(3))
	c := dial(t, ts, "?seed=11")

	seq, err := c.Sample(Request{Kind: "pois", N: 8, Params: map[string]float64{"lambda": 4}})
	if err != nil {
		t.Fatal(err)
	}
	params := pdgen.DefaultParamsFor(pdgen.KindPoisson)
	params.Lambda = 4
	want, _ := pdgen.NewGenerator(11).SampleKind(pdgen.KindPoisson, params, 8)
	if seq.Kind != pdgen.KindPoisson || len(seq.Ints) != 8 || seq.Floats != nil {
		t.Fatalf("unexpected sequence %+v", seq)
	}
	for i := range want.Ints {
		if seq.Ints[i] != want.Ints[i] {
			t.Fatalf("value %d: got %d, want %d", i, seq.Ints[i], want.Ints[i])
		}
	}
}

func TestStreamErrorsKeepSession(t *testing.T) {
	ts := newTestServer(t, WithMaxCount(100))
	c := dial(t, ts, "?seed=5")

	_, err := c.Sample(Request{Kind: "normal", N: 5, Params: map[string]float64{"sigma": -1}})
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("negative sigma: %v", err)
	}
	_, err = c.Sample(Request{Kind: "uniform", N: 101})
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("oversized request: %v", err)
	}

	// rejected requests draw nothing
	seq, err := c.Sample(Request{Kind: "uniform", N: 3})
	if err != nil {
		t.Fatal(err)
	}
	want, _ := pdgen.NewGenerator(5).SampleKind(pdgen.KindUniform, pdgen.DefaultParams(), 3)
	for i := range want.Floats {
		if seq.Floats[i] != want.Floats[i] {
			t.Fatalf("value %d: got %v, want %v", i, seq.Floats[i], want.Floats[i])
		}
	}
}

func TestEmptyRequest(t *testing.T) {
	ts := newTestServer(t)
	c := dial(t, ts, "?seed=1")

	seq, err := c.Sample(Request{Kind: "exponential", N: 0})
	if err != nil {
		t.Fatal(err)
	}
	if seq.Len() != 0 || seq.Floats == nil {
		t.Fatalf("unexpected sequence %+v", seq)
	}
}

func TestRandomSeedIsReported(t *testing.T) {
	ts := newTestServer(t)
	c := dial(t, ts, "")

	seq, err := c.Sample(Request{Kind: "uniform", N: 4})
	if err != nil {
		t.Fatal(err)
	}
	want, _ := pdgen.NewGenerator(c.Seed()).SampleKind(pdgen.KindUniform, pdgen.DefaultParams(), 4)
	for i := range want.Floats {
		if seq.Floats[i] != want.Floats[i] {
			t.Fatalf("reported seed %d does not reproduce the stream", c.Seed())
		}
	}
}

func TestBadSeedRefused(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/stream?seed=-1")
	if err == nil {
		t.Fatal("negative seed accepted")
	}
}

func TestDecodeRequest(t *testing.T) {
	req, err := decodeRequest([]byte(`{"kind":"tria","n":5,"params":{"a":1,"b":3}}`))
	if err != nil {
		t.Fatal(err)
	}
	if req.Kind != pdgen.KindTriangular || req.N != 5 || req.Params.A != 1 || req.Params.B != 3 {
		t.Fatalf("decoded %+v", req)
	}

	tests := []struct {
		msg  string
		want error
	}{
		{`{"kind":"normal","n":`, nil},
		{`{"kind":"gauss","n":1}`, pdgen.ErrUnknownKind},
		{`{"kind":"normal","n":1.5}`, pdgen.ErrInvalidCount},
		{`{"kind":"normal"}`, pdgen.ErrInvalidCount},
		{`{"kind":"normal","n":1,"params":{"mu":"0"}}`, pdgen.ErrInvalidParams},
		{`{"kind":"normal","n":1,"params":{"nu":1}}`, pdgen.ErrInvalidParams},
		{`{"kind":"chi-square","n":1,"params":{"m":2.5}}`, pdgen.ErrInvalidParams},
	}
	for _, tt := range tests {
		_, err := decodeRequest([]byte(tt.msg))
		if err == nil {
			t.Errorf("%s: accepted", tt.msg)
			continue
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.msg, err, tt.want)
		}
	}
}
