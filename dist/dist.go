// Package dist turns unit draws into variates of the supported distributions.
//
// Every function consumes draws from a Source strictly in sequence, so a
// composite variate (Erlang, chi-square, Student-t, binomial, negative
// binomial) is exactly the combination of the simpler variates that the same
// Source would have produced one after another.
//
// Parameters are not validated here; pdgen.Params.Validate does that before
// any draw is made.
package dist

import (
	"github.com/tutils/pdgen/mt"
)

// Source yields unit draws in [0, 1). *mt.Source satisfies it.
type Source interface {
	Float64() float64
}

var _ Source = (*mt.Source)(nil)

// positive maps a zero draw to the smallest non-zero value the generator can
// produce so that log-based transforms stay finite.
func positive(u float64) float64 {
	if u <= 0 {
		return mt.SmallestPositive
	}
	return u
}

// below1 clamps a draw to the generator's [0, 1) contract for sources that
// do not honour it.
func below1(u float64) float64 {
	if u >= 1 {
		return mt.MaxBelowOne
	}
	return u
}
