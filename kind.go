package pdgen

import (
	"fmt"
	"strings"
)

// Kind identifies a supported distribution.
type Kind int

const (
	KindUnspecified Kind = iota
	KindUniform
	KindDiscreteUniform
	KindTriangular
	KindExponential
	KindWeibull
	KindErlang
	KindNormal
	KindChiSquare
	KindLogNormal
	KindStudentT
	KindBernoulli
	KindBinomial
	KindGeometric
	KindNegativeBinomial
	KindPoisson
)

// Kinds lists every supported distribution in declaration order.
var Kinds = []Kind{
	KindUniform,
	KindDiscreteUniform,
	KindTriangular,
	KindExponential,
	KindWeibull,
	KindErlang,
	KindNormal,
	KindChiSquare,
	KindLogNormal,
	KindStudentT,
	KindBernoulli,
	KindBinomial,
	KindGeometric,
	KindNegativeBinomial,
	KindPoisson,
}

var kindNames = map[Kind]string{
	KindUnspecified:      "unspecified",
	KindUniform:          "uniform",
	KindDiscreteUniform:  "discrete-uniform",
	KindTriangular:       "triangular",
	KindExponential:      "exponential",
	KindWeibull:          "weibull",
	KindErlang:           "erlang",
	KindNormal:           "normal",
	KindChiSquare:        "chi-square",
	KindLogNormal:        "log-normal",
	KindStudentT:         "student-t",
	KindBernoulli:        "bernoulli",
	KindBinomial:         "binomial",
	KindGeometric:        "geometric",
	KindNegativeBinomial: "negative-binomial",
	KindPoisson:          "poisson",
}

// short names accepted by ParseKind in addition to the canonical ones
var kindAliases = map[string]Kind{
	"unif":    KindUniform,
	"dunif":   KindDiscreteUniform,
	"tria":    KindTriangular,
	"expo":    KindExponential,
	"norm":    KindNormal,
	"chi2":    KindChiSquare,
	"lognorm": KindLogNormal,
	"t":       KindStudentT,
	"bern":    KindBernoulli,
	"bino":    KindBinomial,
	"geom":    KindGeometric,
	"negbin":  KindNegativeBinomial,
	"pois":    KindPoisson,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Discrete reports whether variates of k are integers.
func (k Kind) Discrete() bool {
	switch k {
	case KindDiscreteUniform, KindBernoulli, KindBinomial, KindGeometric, KindNegativeBinomial, KindPoisson:
		return true
	}
	return false
}

// ParseKind resolves a canonical name or short alias, ignoring case.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, v := range kindNames {
		if k != KindUnspecified && v == name {
			return k, nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return KindUnspecified, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
