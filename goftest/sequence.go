package goftest

import (
	"fmt"

	"github.com/tutils/pdgen"
)

// ForSequence runs the tester matching the kind of seq against the
// parameters seq was drawn with.
func ForSequence(seq pdgen.Sequence, alpha float64) (Result, error) {
	p := seq.Params
	switch seq.Kind {
	case pdgen.KindUniform:
		if p.A == p.B {
			return constant(seq.Floats, p.A, alpha)
		}
		unit := make([]float64, len(seq.Floats))
		for i, x := range seq.Floats {
			unit[i] = (x - p.A) / (p.B - p.A)
		}
		return ChiSquareUniform(unit, DefaultBins(len(unit)), alpha)
	case pdgen.KindDiscreteUniform:
		return DiscreteUniform(seq.Ints, int64(p.A), int64(p.B), alpha)
	case pdgen.KindTriangular:
		return Triangular(seq.Floats, p.A, p.B, p.C, alpha)
	case pdgen.KindExponential:
		return Exponential(seq.Floats, p.Lambda, alpha)
	case pdgen.KindWeibull:
		return Weibull(seq.Floats, p.Lambda, p.Beta, alpha)
	case pdgen.KindErlang:
		return Erlang(seq.Floats, p.M, p.Lambda, alpha)
	case pdgen.KindNormal:
		return Normal(seq.Floats, p.Mu, p.Sigma, alpha)
	case pdgen.KindChiSquare:
		return ChiSquared(seq.Floats, p.M, alpha)
	case pdgen.KindLogNormal:
		return LogNormal(seq.Floats, p.Mu, p.Sigma, alpha)
	case pdgen.KindStudentT:
		return StudentT(seq.Floats, p.M, alpha)
	case pdgen.KindBernoulli:
		return Bernoulli(seq.Ints, p.P, alpha)
	case pdgen.KindBinomial:
		return Binomial(seq.Ints, p.M, p.P, alpha)
	case pdgen.KindGeometric:
		return Geometric(seq.Ints, p.P, alpha)
	case pdgen.KindNegativeBinomial:
		return NegativeBinomial(seq.Ints, p.M, p.P, alpha)
	case pdgen.KindPoisson:
		return Poisson(seq.Ints, p.Lambda, alpha)
	}
	return Result{}, fmt.Errorf("%w: %v", pdgen.ErrUnknownKind, seq.Kind)
}

// constant accepts a degenerate uniform sequence when every value equals v.
func constant(data []float64, v, alpha float64) (Result, error) {
	if err := CheckAlpha(alpha); err != nil {
		return Result{}, err
	}
	if len(data) == 0 {
		return Result{}, ErrNoData
	}
	for _, x := range data {
		if x != v {
			return Result{Method: "constant", PValue: 0, Alpha: alpha}, nil
		}
	}
	return Result{Method: "constant", PValue: 1, Alpha: alpha, Accept: true}, nil
}
