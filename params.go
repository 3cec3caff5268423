package pdgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tutils/pdgen/dist"
)

// maxExactInt bounds discrete-uniform limits to integers a float64 holds
// exactly.
const maxExactInt = 1 << 53

// Params carries the parameters of every kind; each kind reads only the
// fields named by ParamNames.
//
// The zero value is not the default set. In particular a literal that omits
// C has mode 0 rather than the midpoint, which is only selected by C = NaN
// as DefaultParamsFor sets it.
type Params struct {
	A float64 // lower bound (uniform, discrete-uniform, triangular)
	B float64 // upper bound (uniform, discrete-uniform, triangular)
	C float64 // triangular mode; NaN selects (A+B)/2

	Lambda float64 // rate (exponential, Weibull, Erlang) or mean (Poisson)
	Beta   float64 // Weibull shape
	Mu     float64
	Sigma  float64
	M      int     // number of composed draws or degrees of freedom
	P      float64 // success probability
}

// DefaultParams returns the defaults used when a parameter is not given.
func DefaultParams() Params {
	return Params{
		A:      0,
		B:      1,
		C:      math.NaN(),
		Lambda: 1,
		Beta:   1,
		Mu:     0,
		Sigma:  1,
		M:      2,
		P:      0.5,
	}
}

// DefaultParamsFor returns DefaultParams adjusted for kind. Student-t
// defaults to one degree of freedom.
func DefaultParamsFor(kind Kind) Params {
	p := DefaultParams()
	if kind == KindStudentT {
		p.M = 1
	}
	return p
}

// ParamNames lists the parameter names kind reads, in the order they are
// usually written.
func ParamNames(kind Kind) []string {
	switch kind {
	case KindUniform, KindDiscreteUniform:
		return []string{"a", "b"}
	case KindTriangular:
		return []string{"a", "b", "c"}
	case KindExponential:
		return []string{"lambda"}
	case KindWeibull:
		return []string{"lambda", "beta"}
	case KindErlang:
		return []string{"m", "lambda"}
	case KindNormal, KindLogNormal:
		return []string{"mu", "sigma"}
	case KindChiSquare, KindStudentT:
		return []string{"m"}
	case KindBernoulli, KindGeometric:
		return []string{"p"}
	case KindBinomial, KindNegativeBinomial:
		return []string{"m", "p"}
	case KindPoisson:
		return []string{"lambda"}
	}
	return nil
}

// Get returns the named parameter as a float64.
func (p Params) Get(name string) (float64, error) {
	switch strings.ToLower(name) {
	case "a":
		return p.A, nil
	case "b":
		return p.B, nil
	case "c":
		return p.C, nil
	case "lambda":
		return p.Lambda, nil
	case "beta":
		return p.Beta, nil
	case "mu":
		return p.Mu, nil
	case "sigma":
		return p.Sigma, nil
	case "m":
		return float64(p.M), nil
	case "p":
		return p.P, nil
	}
	return 0, fmt.Errorf("%w: unknown parameter %q", ErrInvalidParams, name)
}

// Set parses value into the named parameter.
func (p *Params) Set(name, value string) error {
	key := strings.ToLower(name)
	if key == "m" {
		m, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: m: %v", ErrInvalidParams, err)
		}
		p.M = m
		return nil
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidParams, name, err)
	}
	return p.SetFloat(key, v)
}

// SetFloat stores v in the named parameter. m must be integral.
func (p *Params) SetFloat(name string, v float64) error {
	switch strings.ToLower(name) {
	case "a":
		p.A = v
	case "b":
		p.B = v
	case "c":
		p.C = v
	case "lambda":
		p.Lambda = v
	case "beta":
		p.Beta = v
	case "mu":
		p.Mu = v
	case "sigma":
		p.Sigma = v
	case "p":
		p.P = v
	case "m":
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return fmt.Errorf("%w: m must be an integer, got %v", ErrInvalidParams, v)
		}
		p.M = int(v)
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidParams, name)
	}
	return nil
}

// Normalize resolves defaults that depend on other parameters.
func (p Params) Normalize(kind Kind) Params {
	if kind == KindTriangular && math.IsNaN(p.C) {
		p.C = (p.A + p.B) / 2
	}
	return p
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Validate checks that p describes a proper distribution of the given kind.
// It must pass before any draw so that no transform sees a log of zero or a
// division by zero.
func (p Params) Validate(kind Kind) error {
	switch kind {
	case KindUniform:
		if !finite(p.A, p.B) || p.A > p.B {
			return fmt.Errorf("%w: uniform requires finite a <= b, got a=%v b=%v", ErrInvalidParams, p.A, p.B)
		}
	case KindDiscreteUniform:
		if !finite(p.A, p.B) || p.A != math.Trunc(p.A) || p.B != math.Trunc(p.B) {
			return fmt.Errorf("%w: discrete-uniform requires integer bounds, got a=%v b=%v", ErrInvalidParams, p.A, p.B)
		}
		if p.A > p.B || math.Abs(p.A) > maxExactInt || math.Abs(p.B) > maxExactInt {
			return fmt.Errorf("%w: discrete-uniform requires a <= b within ±2^53, got a=%v b=%v", ErrInvalidParams, p.A, p.B)
		}
	case KindTriangular:
		if !finite(p.A, p.B, p.C) || p.A >= p.B {
			return fmt.Errorf("%w: triangular requires finite a < b, got a=%v b=%v", ErrInvalidParams, p.A, p.B)
		}
		if p.C < p.A || p.C > p.B {
			return fmt.Errorf("%w: triangular mode c=%v outside [%v, %v]", ErrInvalidParams, p.C, p.A, p.B)
		}
	case KindExponential:
		if err := positiveParam(kind, "lambda", p.Lambda); err != nil {
			return err
		}
	case KindPoisson:
		if err := positiveParam(kind, "lambda", p.Lambda); err != nil {
			return err
		}
		if p.Lambda > dist.MaxPoissonLambda {
			return fmt.Errorf("%w: poisson requires lambda <= %g, got %v", ErrInvalidParams, dist.MaxPoissonLambda, p.Lambda)
		}
	case KindWeibull:
		if err := positiveParam(kind, "lambda", p.Lambda); err != nil {
			return err
		}
		if err := positiveParam(kind, "beta", p.Beta); err != nil {
			return err
		}
	case KindErlang:
		if err := countParam(kind, p.M); err != nil {
			return err
		}
		if err := positiveParam(kind, "lambda", p.Lambda); err != nil {
			return err
		}
	case KindNormal, KindLogNormal:
		if !finite(p.Mu) {
			return fmt.Errorf("%w: %s mean must be finite, got %v", ErrInvalidParams, kind, p.Mu)
		}
		if err := positiveParam(kind, "sigma", p.Sigma); err != nil {
			return err
		}
	case KindChiSquare, KindStudentT:
		if err := countParam(kind, p.M); err != nil {
			return err
		}
	case KindBernoulli:
		if !(p.P >= 0 && p.P <= 1) {
			return fmt.Errorf("%w: bernoulli requires p in [0, 1], got %v", ErrInvalidParams, p.P)
		}
	case KindBinomial:
		if err := countParam(kind, p.M); err != nil {
			return err
		}
		if !(p.P >= 0 && p.P <= 1) {
			return fmt.Errorf("%w: binomial requires p in [0, 1], got %v", ErrInvalidParams, p.P)
		}
	case KindGeometric:
		if !(p.P > 0 && p.P <= 1) {
			return fmt.Errorf("%w: geometric requires p in (0, 1], got %v", ErrInvalidParams, p.P)
		}
	case KindNegativeBinomial:
		if err := countParam(kind, p.M); err != nil {
			return err
		}
		if !(p.P > 0 && p.P <= 1) {
			return fmt.Errorf("%w: negative-binomial requires p in (0, 1], got %v", ErrInvalidParams, p.P)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	return nil
}

func positiveParam(kind Kind, name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s requires finite %s > 0, got %v", ErrInvalidParams, kind, name, v)
	}
	return nil
}

func countParam(kind Kind, m int) error {
	if m < 1 {
		return fmt.Errorf("%w: %s requires m >= 1, got %d", ErrInvalidParams, kind, m)
	}
	return nil
}
