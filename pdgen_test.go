package pdgen

import (
	"errors"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/tutils/pdgen/counter/period"
	"github.com/tutils/pdgen/dist"
)

func sampleAll(t *testing.T, g *Generator) []Sequence {
	t.Helper()
	var out []Sequence
	for _, k := range Kinds {
		seq, err := g.SampleKind(k, DefaultParamsFor(k), 50)
		if err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		out = append(out, seq)
	}
	return out
}

func TestDeterminism(t *testing.T) {
	a := sampleAll(t, NewGenerator(3))
	b := sampleAll(t, NewGenerator(3))
	for i := range a {
		x, y := a[i].Float64s(), b[i].Float64s()
		if len(x) != 50 || len(y) != 50 {
			t.Fatalf("%v: lengths %d and %d", a[i].Kind, len(x), len(y))
		}
		for j := range x {
			if math.Float64bits(x[j]) != math.Float64bits(y[j]) {
				t.Fatalf("%v draw %d: %v != %v", a[i].Kind, j, x[j], y[j])
			}
		}
	}

	c := sampleAll(t, NewGenerator(4))
	if a[0].Floats[0] == c[0].Floats[0] {
		t.Fatal("different seeds produced the same first uniform")
	}
}

func TestChunkedSamplingMatchesSingleRequest(t *testing.T) {
	params := Params{Mu: 1, Sigma: 2}
	whole, err := NewGenerator(8).SampleKind(KindNormal, params, 10)
	if err != nil {
		t.Fatal(err)
	}

	g := NewGenerator(8)
	first, _ := g.SampleKind(KindNormal, params, 4)
	second, _ := g.SampleKind(KindNormal, params, 6)
	joined := append(first.Floats, second.Floats...)
	for i := range whole.Floats {
		if whole.Floats[i] != joined[i] {
			t.Fatalf("draw %d: %v != %v", i, whole.Floats[i], joined[i])
		}
	}
}

func TestErlangMatchesExponentialDraws(t *testing.T) {
	params := Params{M: 3, Lambda: 2}
	a := NewGenerator(11)
	b := NewGenerator(11)
	for i := 0; i < 20; i++ {
		erl, err := a.SampleKind(KindErlang, params, 1)
		if err != nil {
			t.Fatal(err)
		}
		exp, err := b.SampleKind(KindExponential, params, 3)
		if err != nil {
			t.Fatal(err)
		}
		if sum := exp.Floats[0] + exp.Floats[1] + exp.Floats[2]; erl.Floats[0] != sum {
			t.Fatalf("round %d: erlang %v, exponential sum %v", i, erl.Floats[0], sum)
		}
	}
}

func TestRangeInvariants(t *testing.T) {
	g := NewGenerator(5)

	seq, err := g.SampleKind(KindUniform, Params{A: 2, B: 4}, 5000)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range seq.Floats {
		if v < 2 || v > 4 {
			t.Fatalf("uniform out of range: %v", v)
		}
	}

	seq, err = g.SampleKind(KindBernoulli, Params{P: 0.3}, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if seq.Floats != nil {
		t.Fatal("discrete kind filled Floats")
	}
	for _, v := range seq.Ints {
		if v != 0 && v != 1 {
			t.Fatalf("bernoulli produced %d", v)
		}
	}

	for seed := uint32(0); seed < 200; seed++ {
		seq, err := NewGenerator(seed).SampleKind(KindDiscreteUniform, Params{A: 2, B: 4}, 1)
		if err != nil {
			t.Fatal(err)
		}
		if v := seq.Ints[0]; v < 2 || v > 4 {
			t.Fatalf("seed %d: discrete uniform gave %d", seed, v)
		}
	}
}

func TestValidation(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		kind   Kind
		params Params
		n      int
		err    error
	}{
		{"triangular mode above b", KindTriangular, Params{A: 0, B: 1, C: 1.5}, 1, ErrInvalidParams},
		{"triangular a == b", KindTriangular, Params{A: 1, B: 1, C: 1}, 1, ErrInvalidParams},
		{"uniform reversed", KindUniform, Params{A: 2, B: 1}, 1, ErrInvalidParams},
		{"uniform nan", KindUniform, Params{A: nan, B: 1}, 1, ErrInvalidParams},
		{"discrete fractional", KindDiscreteUniform, Params{A: 0.5, B: 3}, 1, ErrInvalidParams},
		{"exponential negative rate", KindExponential, Params{Lambda: -1}, 1, ErrInvalidParams},
		{"weibull zero shape", KindWeibull, Params{Lambda: 1, Beta: 0}, 1, ErrInvalidParams},
		{"erlang m zero", KindErlang, Params{M: 0, Lambda: 1}, 1, ErrInvalidParams},
		{"normal zero sigma", KindNormal, Params{Sigma: 0}, 1, ErrInvalidParams},
		{"lognormal infinite mean", KindLogNormal, Params{Mu: math.Inf(1), Sigma: 1}, 1, ErrInvalidParams},
		{"chi-square m zero", KindChiSquare, Params{}, 1, ErrInvalidParams},
		{"student-t negative m", KindStudentT, Params{M: -2}, 1, ErrInvalidParams},
		{"bernoulli p above one", KindBernoulli, Params{P: 1.2}, 1, ErrInvalidParams},
		{"binomial m zero", KindBinomial, Params{P: 0.5}, 1, ErrInvalidParams},
		{"geometric p zero", KindGeometric, Params{P: 0}, 1, ErrInvalidParams},
		{"negative-binomial p nan", KindNegativeBinomial, Params{M: 2, P: nan}, 1, ErrInvalidParams},
		{"poisson zero mean", KindPoisson, Params{Lambda: 0}, 1, ErrInvalidParams},
		{"poisson mean above bound", KindPoisson, Params{Lambda: 1e15}, 1, ErrInvalidParams},
		{"unspecified kind", KindUnspecified, Params{}, 1, ErrUnknownKind},
		{"negative n", KindUniform, Params{A: 0, B: 1}, -1, ErrInvalidCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(1)
			seq, err := g.SampleKind(tt.kind, tt.params, tt.n)
			if !errors.Is(err, tt.err) {
				t.Fatalf("got %v, want %v", err, tt.err)
			}
			if seq.Len() != 0 {
				t.Fatalf("partial sequence of %d values returned", seq.Len())
			}

			// the failed request must not have advanced the state
			got, _ := g.SampleKind(KindUniform, Params{A: 0, B: 1}, 3)
			want, _ := NewGenerator(1).SampleKind(KindUniform, Params{A: 0, B: 1}, 3)
			for i := range want.Floats {
				if got.Floats[i] != want.Floats[i] {
					t.Fatalf("state advanced by a rejected request")
				}
			}
		})
	}
}

func TestBoundaryParamsAccepted(t *testing.T) {
	tests := []struct {
		kind   Kind
		params Params
	}{
		{KindTriangular, Params{A: 0, B: 1, C: 0}},
		{KindTriangular, Params{A: 0, B: 1, C: 1}},
		{KindUniform, Params{A: 3, B: 3}},
		{KindDiscreteUniform, Params{A: -5, B: -5}},
		{KindBernoulli, Params{P: 0}},
		{KindBinomial, Params{M: 4, P: 1}},
		{KindGeometric, Params{P: 1}},
		{KindPoisson, Params{Lambda: dist.MaxPoissonLambda}},
	}
	for _, tt := range tests {
		if _, err := NewGenerator(2).SampleKind(tt.kind, tt.params, 10); err != nil {
			t.Errorf("%v %+v: %v", tt.kind, tt.params, err)
		}
	}
}

func TestTriangularDefaultMode(t *testing.T) {
	p := DefaultParamsFor(KindTriangular)
	p.A, p.B = 2, 6
	seq, err := NewGenerator(1).SampleKind(KindTriangular, p, 1)
	if err != nil {
		t.Fatal(err)
	}
	if seq.Params.C != 4 {
		t.Fatalf("mode %v, want midpoint 4", seq.Params.C)
	}

	// a literal without C keeps mode 0
	seq, err = NewGenerator(1).SampleKind(KindTriangular, Params{A: 0, B: 2}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if seq.Params.C != 0 {
		t.Fatalf("mode %v, want 0", seq.Params.C)
	}
}

func TestMaxCount(t *testing.T) {
	g := NewGenerator(1, WithMaxCount(10))
	if _, err := g.SampleKind(KindUniform, Params{B: 1}, 11); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("got %v", err)
	}
	if seq, err := g.SampleKind(KindUniform, Params{B: 1}, 0); err != nil || seq.Len() != 0 {
		t.Fatalf("empty request: %v, len %d", err, seq.Len())
	}
}

func TestCounterOption(t *testing.T) {
	c := period.NewPeriodCounter(time.Hour)
	g := NewGenerator(1, WithCounter(c))
	g.SampleKind(KindUniform, Params{B: 1}, 7)
	g.SampleKind(KindPoisson, Params{Lambda: 2}, 5)
	g.SampleKind(KindPoisson, Params{Lambda: -2}, 5)
	if c.Value() != 12 {
		t.Fatalf("counter %d, want 12", c.Value())
	}
}

func TestSyncGenerator(t *testing.T) {
	const workers, n = 4, 100
	sg := NewSyncGenerator(NewGenerator(21))

	var mu sync.Mutex
	var got []float64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := sg.Sample(Request{Kind: KindUniform, Params: Params{B: 1}, N: n})
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			got = append(got, seq.Floats...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	want, _ := NewGenerator(21).SampleKind(KindUniform, Params{B: 1}, workers*n)
	sort.Float64s(got)
	sort.Float64s(want.Floats)
	if len(got) != len(want.Floats) {
		t.Fatalf("got %d draws, want %d", len(got), len(want.Floats))
	}
	for i := range got {
		if got[i] != want.Floats[i] {
			t.Fatalf("concurrent callers skipped or duplicated draws")
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"normal", KindNormal},
		{"NORM", KindNormal},
		{"chi-square", KindChiSquare},
		{"chi2", KindChiSquare},
		{" negbin ", KindNegativeBinomial},
		{"t", KindStudentT},
		{"discrete-uniform", KindDiscreteUniform},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, err)
		}
	}
	for _, bad := range []string{"", "unspecified", "cauchy"} {
		if _, err := ParseKind(bad); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("ParseKind(%q) = %v", bad, err)
		}
	}
	for _, k := range Kinds {
		if got, err := ParseKind(k.String()); err != nil || got != k {
			t.Errorf("round trip of %v: %v, %v", k, got, err)
		}
	}
}

func TestParamsSetGet(t *testing.T) {
	p := DefaultParams()
	for name, value := range map[string]string{"a": "-1", "B": "3", "lambda": "2.5", "m": "4", "p": "0.25"} {
		if err := p.Set(name, value); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}
	if p.A != -1 || p.B != 3 || p.Lambda != 2.5 || p.M != 4 || p.P != 0.25 {
		t.Fatalf("unexpected params %+v", p)
	}
	if v, err := p.Get("m"); err != nil || v != 4 {
		t.Fatalf("Get(m) = %v, %v", v, err)
	}
	if err := p.Set("m", "2.5"); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("fractional m: %v", err)
	}
	if err := p.SetFloat("m", 2.5); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("fractional m: %v", err)
	}
	if err := p.Set("gamma", "1"); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("unknown name: %v", err)
	}
	for _, k := range Kinds {
		for _, name := range ParamNames(k) {
			if _, err := p.Get(name); err != nil {
				t.Errorf("%v: %v", k, err)
			}
		}
	}
}
