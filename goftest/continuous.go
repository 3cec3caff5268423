package goftest

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// CDF is a cumulative distribution function.
type CDF func(x float64) float64

// KolmogorovSmirnov compares the empirical distribution of data with cdf.
// The p-value uses the asymptotic Kolmogorov distribution with Stephens'
// small-sample correction.
func KolmogorovSmirnov(data []float64, cdf CDF, alpha float64) (Result, error) {
	if err := CheckAlpha(alpha); err != nil {
		return Result{}, err
	}
	if len(data) == 0 {
		return Result{}, ErrNoData
	}

	xs := make([]float64, len(data))
	copy(xs, data)
	sort.Float64s(xs)

	n := float64(len(xs))
	var d float64
	for i, x := range xs {
		f := cdf(x)
		if math.IsNaN(f) {
			return Result{}, fmt.Errorf("cdf undefined at %v", x)
		}
		if hi := float64(i+1)/n - f; hi > d {
			d = hi
		}
		if lo := f - float64(i)/n; lo > d {
			d = lo
		}
	}

	scale := math.Sqrt(n) + 0.12 + 0.11/math.Sqrt(n)
	critical := math.Sqrt(-0.5*math.Log(alpha/2)) / scale
	pValue := kolmogorovQ(scale * d)
	return Result{
		Method:    "kolmogorov-smirnov",
		Statistic: d,
		PValue:    pValue,
		Critical:  critical,
		Alpha:     alpha,
		Accept:    pValue > alpha,
	}, nil
}

// kolmogorovQ returns P(K > x) = 2 * sum_{j>=1} (-1)^(j-1) exp(-2 j^2 x^2).
func kolmogorovQ(x float64) float64 {
	if x < 0.2 {
		return 1
	}
	var sum, prev float64
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := sign * math.Exp(-2*float64(j*j)*x*x)
		sum += term
		if math.Abs(term) <= 1e-10*math.Abs(prev) || math.Abs(term) <= 1e-16*sum {
			break
		}
		prev = term
		sign = -sign
	}
	q := 2 * sum
	switch {
	case q < 0:
		return 0
	case q > 1:
		return 1
	}
	return q
}

func ks(method string, data []float64, cdf CDF, alpha float64) (Result, error) {
	r, err := KolmogorovSmirnov(data, cdf, alpha)
	if err != nil {
		return Result{}, err
	}
	r.Method = method
	return r, nil
}

// Uniform tests data against Uniform(a, b).
func Uniform(data []float64, a, b, alpha float64) (Result, error) {
	return ks("uniform ks", data, distuv.Uniform{Min: a, Max: b}.CDF, alpha)
}

// Triangular tests data against the triangular distribution on [a, b] with
// mode c.
func Triangular(data []float64, a, b, c, alpha float64) (Result, error) {
	ref := distuv.NewTriangle(a, b, c, nil)
	return ks("triangular ks", data, ref.CDF, alpha)
}

// Exponential tests data against an exponential distribution with rate
// lambda.
func Exponential(data []float64, lambda, alpha float64) (Result, error) {
	return ks("exponential ks", data, distuv.Exponential{Rate: lambda}.CDF, alpha)
}

// Weibull tests data against the Weibull variates (-ln U)^(1/beta)/lambda,
// i.e. shape beta and scale 1/lambda.
func Weibull(data []float64, lambda, beta, alpha float64) (Result, error) {
	return ks("weibull ks", data, distuv.Weibull{K: beta, Lambda: 1 / lambda}.CDF, alpha)
}

// Erlang tests data against the sum of m exponentials with rate lambda.
func Erlang(data []float64, m int, lambda, alpha float64) (Result, error) {
	return ks("erlang ks", data, distuv.Gamma{Alpha: float64(m), Beta: lambda}.CDF, alpha)
}

// Normal tests data against Normal(mu, sigma).
func Normal(data []float64, mu, sigma, alpha float64) (Result, error) {
	return ks("normal ks", data, distuv.Normal{Mu: mu, Sigma: sigma}.CDF, alpha)
}

// ChiSquared tests data against a chi-square distribution with m degrees of
// freedom.
func ChiSquared(data []float64, m int, alpha float64) (Result, error) {
	return ks("chi-square ks", data, distuv.ChiSquared{K: float64(m)}.CDF, alpha)
}

// LogNormal tests data against exp(Normal(mu, sigma)).
func LogNormal(data []float64, mu, sigma, alpha float64) (Result, error) {
	return ks("log-normal ks", data, distuv.LogNormal{Mu: mu, Sigma: sigma}.CDF, alpha)
}

// StudentT tests data against Student's t with m degrees of freedom.
func StudentT(data []float64, m int, alpha float64) (Result, error) {
	return ks("student-t ks", data, distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m)}.CDF, alpha)
}
