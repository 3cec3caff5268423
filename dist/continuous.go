package dist

import (
	"math"
)

// Uniform returns a + (b-a)u.
func Uniform(src Source, a, b float64) float64 {
	return a + (b-a)*src.Float64()
}

// Triangular inverts the triangular CDF with lower bound a, upper bound b and
// mode c. Requires a < b and a <= c <= b.
func Triangular(src Source, a, b, c float64) float64 {
	u := below1(src.Float64())
	if u < (c-a)/(b-a) {
		return a + math.Sqrt(u*(b-a)*(c-a))
	}
	return b - math.Sqrt((1-u)*(b-a)*(b-c))
}

// Exponential is Weibull with shape 1.
func Exponential(src Source, lambda float64) float64 {
	return Weibull(src, lambda, 1)
}

// Weibull returns (-ln u)^(1/beta) / lambda.
func Weibull(src Source, lambda, beta float64) float64 {
	u := positive(src.Float64())
	return math.Pow(-math.Log(u), 1/beta) / lambda
}

// Erlang sums m exponential variates.
func Erlang(src Source, m int, lambda float64) float64 {
	var sum float64
	for i := 0; i < m; i++ {
		sum += Exponential(src, lambda)
	}
	return sum
}

// coefficients of the rational approximation to the inverse normal CDF
// (Abramowitz and Stegun 26.2.23, |error| < 4.5e-4).
const (
	c0 = 2.515517
	c1 = 0.802853
	c2 = 0.010328
	d1 = 1.432788
	d2 = 0.189269
	d3 = 0.001308
)

// maxRedraws bounds the redraws of a zero unit value in StdNormal.
const maxRedraws = 32

// StdNormal returns a standard normal variate from a single unit draw.
// A draw of exactly zero sits outside the approximation's domain and is
// redrawn; after maxRedraws zeros the smallest positive draw is used.
func StdNormal(src Source) float64 {
	u := src.Float64()
	for i := 0; u <= 0 && i < maxRedraws; i++ {
		u = src.Float64()
	}
	u = below1(positive(u))

	t := math.Sqrt(-2 * math.Log(math.Min(u, 1-u)))
	z := t - (c0+c1*t+c2*t*t)/(1+d1*t+d2*t*t+d3*t*t*t)

	switch {
	case u > 0.5:
		return z
	case u < 0.5:
		return -z
	default:
		return 0
	}
}

// Normal returns mu + sigma*Z.
func Normal(src Source, mu, sigma float64) float64 {
	return mu + sigma*StdNormal(src)
}

// ChiSquare sums the squares of m standard normal variates.
func ChiSquare(src Source, m int) float64 {
	var sum float64
	for i := 0; i < m; i++ {
		z := StdNormal(src)
		sum += z * z
	}
	return sum
}

// LogNormal exponentiates a normal variate.
func LogNormal(src Source, mu, sigma float64) float64 {
	return math.Exp(Normal(src, mu, sigma))
}

// StudentT draws Z first and then an independent chi-square with m degrees
// of freedom, returning Z / sqrt(chi2/m).
func StudentT(src Source, m int) float64 {
	z := StdNormal(src)
	chi2 := ChiSquare(src, m)
	return z / math.Sqrt(chi2/float64(m))
}
