package dist

import (
	"math"
)

// DiscreteUniform returns an integer in [a, b], each with probability
// 1/(b-a+1). The result is floor(a + (b-a+1)u) clamped to b, so a unit draw
// of exactly 1.0 yields b rather than b+1.
func DiscreteUniform(src Source, a, b int64) int64 {
	u := src.Float64()
	v := int64(math.Floor(float64(a) + float64(b-a+1)*u))
	if v > b {
		return b
	}
	if v < a {
		return a
	}
	return v
}

// Bernoulli returns 1 when u <= p and 0 otherwise.
func Bernoulli(src Source, p float64) int64 {
	if src.Float64() <= p {
		return 1
	}
	return 0
}

// Binomial sums m Bernoulli variates.
func Binomial(src Source, m int, p float64) int64 {
	var sum int64
	for i := 0; i < m; i++ {
		sum += Bernoulli(src, p)
	}
	return sum
}

// Geometric returns the number of trials up to and including the first
// success, ceil(ln u / ln(1-p)). The draw is consumed even when p is 1.
func Geometric(src Source, p float64) int64 {
	u := below1(positive(src.Float64()))
	if p >= 1 {
		return 1
	}

	g := math.Ceil(math.Log(u) / math.Log1p(-p))
	switch {
	case g < 1 || math.IsNaN(g):
		return 1
	case g >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(g)
}

// NegativeBinomial sums m geometric variates: the number of trials needed for
// m successes.
func NegativeBinomial(src Source, m int, p float64) int64 {
	var sum int64
	for i := 0; i < m; i++ {
		sum += Geometric(src, p)
	}
	return sum
}

// MaxPoissonLambda is the largest mean Poisson accepts. The search walks
// about 40*sqrt(lambda) terms per variate.
const MaxPoissonLambda = 1e7

// Poisson searches for the first k whose cumulative mass exceeds a unit draw.
//
// Terms are evaluated in log space so that large lambda does not underflow
// e^-lambda. Once k is past the mode and a term underflows to zero the
// cumulative mass can no longer grow, and the search returns k; this bounds
// the loop even when rounding leaves the total mass just below u.
func Poisson(src Source, lambda float64) int64 {
	u := below1(src.Float64())

	var cum float64
	for k := poissonStart(lambda); ; k++ {
		term := PoissonPMF(k, lambda)
		cum += term
		if u < cum {
			return k
		}
		if term == 0 && float64(k) > lambda {
			return k
		}
	}
}

// poissonStart returns where the search can begin without changing its
// result. For k <= lambda-40*sqrt(lambda), ln P(X = k) <= -(lambda-k)^2/(2*lambda)
// <= -800, so every skipped term is exactly zero in float64 and adds nothing
// to the cumulative mass.
func poissonStart(lambda float64) int64 {
	k := math.Floor(lambda - 40*math.Sqrt(lambda))
	if k <= 0 {
		return 0
	}
	return int64(k)
}

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda).
func PoissonPMF(k int64, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	lg, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lambda) - lambda - lg)
}
