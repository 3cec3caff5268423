// Package goftest checks finished variate sequences against the distribution
// they claim to follow.
//
// Every tester returns a Result holding the test statistic, its p-value, the
// critical value at the requested significance level and the verdict. The
// testers only read the data they are given.
package goftest

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha is the significance level used when none is given.
const DefaultAlpha = 0.05

// ErrNoData indicates an empty sequence.
var ErrNoData = errors.New("no observations")

// ErrInvalidAlpha indicates a significance level outside (0, 1).
var ErrInvalidAlpha = errors.New("significance level must be in (0, 1)")

// ErrInvalidBins indicates fewer than two bins or mismatched cell slices.
var ErrInvalidBins = errors.New("invalid bins")

// Result is the outcome of one hypothesis test. Accept reports that the null
// hypothesis (the data follows the distribution) is not rejected.
type Result struct {
	Method    string
	Statistic float64
	PValue    float64
	Critical  float64
	DF        int
	Alpha     float64
	Accept    bool
}

func (r Result) String() string {
	verdict := "REJECT"
	if r.Accept {
		verdict = "ACCEPT"
	}
	return fmt.Sprintf("%s %s: statistic=%.6g critical=%.6g p-value=%.6g alpha=%g",
		r.Method, verdict, r.Statistic, r.Critical, r.PValue, r.Alpha)
}

// CheckAlpha reports ErrInvalidAlpha unless alpha is in (0, 1).
func CheckAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidAlpha, alpha)
	}
	return nil
}

// ChiSquare runs Pearson's test on observed against expected cell counts.
// The degrees of freedom are len(observed)-1-ddof.
func ChiSquare(observed, expected []float64, ddof int, alpha float64) (Result, error) {
	if err := CheckAlpha(alpha); err != nil {
		return Result{}, err
	}
	if len(observed) != len(expected) {
		return Result{}, fmt.Errorf("%w: %d observed cells, %d expected", ErrInvalidBins, len(observed), len(expected))
	}
	df := len(observed) - 1 - ddof
	if df < 1 {
		return Result{}, fmt.Errorf("%w: %d degrees of freedom", ErrInvalidBins, df)
	}

	var stat float64
	for i, o := range observed {
		e := expected[i]
		if e <= 0 {
			if o > 0 {
				stat = math.Inf(1)
			}
			continue
		}
		stat += (o - e) * (o - e) / e
	}
	return chiSquareResult("chi-square", stat, df, alpha), nil
}

func chiSquareResult(method string, stat float64, df int, alpha float64) Result {
	ref := distuv.ChiSquared{K: float64(df)}
	critical := ref.Quantile(1 - alpha)
	pValue := 0.0
	if !math.IsInf(stat, 1) {
		pValue = ref.Survival(stat)
	}
	return Result{
		Method:    method,
		Statistic: stat,
		PValue:    pValue,
		Critical:  critical,
		DF:        df,
		Alpha:     alpha,
		Accept:    stat < critical,
	}
}

// DefaultBins picks the number of equal-width bins for n uniform
// observations: 100, or fewer so that each bin expects at least five.
func DefaultBins(n int) int {
	k := n / 5
	if k > 100 {
		k = 100
	}
	if k < 2 {
		k = 2
	}
	return k
}

// ChiSquareUniform tests data against Uniform(0, 1) using k equal bins. The
// first bin is [0, 1/k]; bin i > 0 is (i/k, (i+1)/k]. Values outside [0, 1]
// fall in no bin but still count towards the expected frequency n/k.
func ChiSquareUniform(data []float64, k int, alpha float64) (Result, error) {
	if len(data) == 0 {
		return Result{}, ErrNoData
	}
	if k < 2 {
		return Result{}, fmt.Errorf("%w: %d bins", ErrInvalidBins, k)
	}

	observed := make([]float64, k)
	for _, x := range data {
		if x < 0 || x > 1 {
			continue
		}
		i := int(math.Ceil(x*float64(k))) - 1
		if i < 0 {
			i = 0
		}
		if i >= k {
			i = k - 1
		}
		observed[i]++
	}

	expected := make([]float64, k)
	e := float64(len(data)) / float64(k)
	for i := range expected {
		expected[i] = e
	}

	r, err := ChiSquare(observed, expected, 0, alpha)
	if err != nil {
		return Result{}, err
	}
	r.Method = "chi-square uniform"
	return r, nil
}

// Correlation tests uniform data for lag-1 autocorrelation. The estimate
// rho = 12/(n-1) * sum(u[k]*u[k+1]) - 3 has variance (13n-19)/(n-1)^2 under
// independence; the data is accepted when |z| does not exceed the two-sided
// critical value.
func Correlation(data []float64, alpha float64) (Result, error) {
	if err := CheckAlpha(alpha); err != nil {
		return Result{}, err
	}
	n := len(data)
	if n < 3 {
		return Result{}, fmt.Errorf("%w: need at least 3 values, got %d", ErrNoData, n)
	}

	var sum float64
	for k := 0; k < n-1; k++ {
		sum += data[k] * data[k+1]
	}
	nf := float64(n)
	rho := 12/(nf-1)*sum - 3
	variance := (13*nf - 19) / ((nf - 1) * (nf - 1))
	z := rho / math.Sqrt(variance)

	critical := distuv.UnitNormal.Quantile(1 - alpha/2)
	return Result{
		Method:    "lag-1 correlation",
		Statistic: z,
		PValue:    2 * distuv.UnitNormal.CDF(-math.Abs(z)),
		Critical:  critical,
		Alpha:     alpha,
		Accept:    math.Abs(z) <= critical,
	}, nil
}
