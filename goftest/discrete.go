package goftest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// minExpected is the smallest expected count a chi-square cell may hold;
// sparser cells are merged with their neighbours.
const minExpected = 5

// maxCells bounds the support scan for heavy-tailed pmfs.
const maxCells = 1 << 20

// PMF is a probability mass function.
type PMF func(k int64) float64

// cell covers the integers [lo, hi]; the last cell is open above.
type cell struct {
	lo, hi int64
	prob   float64
}

// buildCells walks the support upwards from lo, closing the scan once the
// remaining tail expects fewer than minExpected observations, then merges
// sparse cells into their neighbours.
func buildCells(lo int64, pmf PMF, n int) []cell {
	nf := float64(n)
	var cells []cell
	var cum float64
	for k := lo; k-lo < maxCells; k++ {
		p := pmf(k)
		cum += p
		tail := math.Max(0, 1-cum)
		if nf*tail < minExpected || k-lo == maxCells-1 {
			cells = append(cells, cell{lo: k, hi: math.MaxInt64, prob: p + tail})
			break
		}
		cells = append(cells, cell{lo: k, hi: k, prob: p})
	}

	// merge sparse cells forwards, then a sparse last cell backwards
	var merged []cell
	for _, c := range cells {
		if len(merged) > 0 && nf*merged[len(merged)-1].prob < minExpected {
			last := &merged[len(merged)-1]
			last.hi = c.hi
			last.prob += c.prob
			continue
		}
		merged = append(merged, c)
	}
	for len(merged) > 1 && nf*merged[len(merged)-1].prob < minExpected {
		last := merged[len(merged)-1]
		merged = merged[:len(merged)-1]
		merged[len(merged)-1].hi = last.hi
		merged[len(merged)-1].prob += last.prob
	}
	return merged
}

// PMFTest runs Pearson's test of integer data against pmf on the support
// [lo, +inf). Any observation below lo rejects outright.
func PMFTest(method string, data []int64, lo int64, pmf PMF, alpha float64) (Result, error) {
	if err := CheckAlpha(alpha); err != nil {
		return Result{}, err
	}
	if len(data) == 0 {
		return Result{}, ErrNoData
	}

	cells := buildCells(lo, pmf, len(data))
	observed := make([]float64, len(cells))
	outside := 0
	for _, v := range data {
		if v < lo {
			outside++
			continue
		}
		i := findCell(cells, v)
		if i < 0 {
			outside++
			continue
		}
		observed[i]++
	}

	if outside > 0 || len(cells) < 2 {
		accept := outside == 0
		r := Result{
			Method:    method,
			Statistic: 0,
			PValue:    1,
			Alpha:     alpha,
			Accept:    accept,
		}
		if !accept {
			r.Statistic = math.Inf(1)
			r.PValue = 0
		}
		return r, nil
	}

	expected := make([]float64, len(cells))
	for i, c := range cells {
		expected[i] = float64(len(data)) * c.prob
	}
	r, err := ChiSquare(observed, expected, 0, alpha)
	if err != nil {
		return Result{}, err
	}
	r.Method = method
	return r, nil
}

func findCell(cells []cell, v int64) int {
	lo, hi := 0, len(cells)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch c := cells[mid]; {
		case v < c.lo:
			hi = mid - 1
		case v > c.hi:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// DiscreteUniform tests data against the discrete uniform distribution on
// [a, b].
func DiscreteUniform(data []int64, a, b int64, alpha float64) (Result, error) {
	if a > b {
		return Result{}, fmt.Errorf("%w: a=%d > b=%d", ErrInvalidBins, a, b)
	}
	width := float64(b-a) + 1
	pmf := func(k int64) float64 {
		if k < a || k > b {
			return 0
		}
		return 1 / width
	}
	return PMFTest("discrete-uniform chi-square", data, a, pmf, alpha)
}

// Bernoulli tests 0/1 data against success probability p.
func Bernoulli(data []int64, p, alpha float64) (Result, error) {
	ref := distuv.Bernoulli{P: p}
	pmf := func(k int64) float64 {
		if k > 1 {
			return 0
		}
		return ref.Prob(float64(k))
	}
	return PMFTest("bernoulli chi-square", data, 0, pmf, alpha)
}

// Binomial tests data against Binomial(m, p).
func Binomial(data []int64, m int, p, alpha float64) (Result, error) {
	ref := distuv.Binomial{N: float64(m), P: p}
	pmf := func(k int64) float64 {
		if k > int64(m) {
			return 0
		}
		return ref.Prob(float64(k))
	}
	return PMFTest("binomial chi-square", data, 0, pmf, alpha)
}

// Geometric tests data against the number of trials up to the first
// success, supported on 1, 2, ...
func Geometric(data []int64, p, alpha float64) (Result, error) {
	pmf := func(k int64) float64 {
		if p >= 1 {
			if k == 1 {
				return 1
			}
			return 0
		}
		return p * math.Exp(float64(k-1)*math.Log1p(-p))
	}
	return PMFTest("geometric chi-square", data, 1, pmf, alpha)
}

// NegativeBinomial tests data against the number of trials needed for m
// successes, supported on m, m+1, ...
func NegativeBinomial(data []int64, m int, p, alpha float64) (Result, error) {
	pmf := func(k int64) float64 {
		failures := k - int64(m)
		if p >= 1 {
			if failures == 0 {
				return 1
			}
			return 0
		}
		lc, _ := math.Lgamma(float64(k))
		la, _ := math.Lgamma(float64(m))
		lb, _ := math.Lgamma(float64(failures) + 1)
		return math.Exp(lc - la - lb + float64(m)*math.Log(p) + float64(failures)*math.Log1p(-p))
	}
	return PMFTest("negative-binomial chi-square", data, int64(m), pmf, alpha)
}

// Poisson tests data against Poisson(lambda). For large lambda the cells
// start at lambda-40*sqrt(lambda), below which the mass is under e^-800.
func Poisson(data []int64, lambda, alpha float64) (Result, error) {
	ref := distuv.Poisson{Lambda: lambda}
	pmf := func(k int64) float64 {
		return ref.Prob(float64(k))
	}
	lo := int64(math.Max(0, math.Floor(lambda-40*math.Sqrt(lambda))))
	return PMFTest("poisson chi-square", data, lo, pmf, alpha)
}
