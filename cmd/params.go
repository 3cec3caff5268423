package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tutils/pdgen"
)

// distribution parameter flags shared by sample and test
var paramFlags = []struct {
	name  string
	usage string
}{
	{"a", "lower bound (uniform, discrete-uniform, triangular)"},
	{"b", "upper bound (uniform, discrete-uniform, triangular)"},
	{"c", "mode (triangular, default (a+b)/2)"},
	{"lambda", "rate (exponential, weibull, erlang) or mean (poisson)"},
	{"beta", "shape (weibull)"},
	{"mu", "mean of the underlying normal (normal, log-normal)"},
	{"sigma", "deviation of the underlying normal (normal, log-normal)"},
	{"m", "composed draws or degrees of freedom (erlang, chi-square, student-t, binomial, negative-binomial)"},
	{"p", "success probability (bernoulli, binomial, geometric, negative-binomial)"},
}

func addParamFlags(flags *pflag.FlagSet) {
	for _, f := range paramFlags {
		// kind-dependent defaults are applied in paramsFromFlags
		flags.String(f.name, "", f.usage)
	}
}

// paramsFromFlags starts from the defaults of kind and applies the
// parameter flags given on the command line.
func paramsFromFlags(flags *pflag.FlagSet, kind pdgen.Kind) (pdgen.Params, error) {
	params := pdgen.DefaultParamsFor(kind)
	for _, f := range paramFlags {
		fl := flags.Lookup(f.name)
		if fl == nil || !fl.Changed {
			continue
		}
		if err := params.Set(f.name, fl.Value.String()); err != nil {
			return pdgen.Params{}, err
		}
	}
	return params, nil
}

// kindArg parses the single positional argument of sample and test.
func kindArg(args []string) (pdgen.Kind, error) {
	return pdgen.ParseKind(args[0])
}

// bindFlags binds the named local flags of cmd to viper. Commands sharing
// a key bind when they run, so the running command owns the key.
func bindFlags(cmd *cobra.Command, keys ...string) error {
	for _, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return err
		}
	}
	return nil
}

// seedFromConfig returns the configured seed, or a fresh one when the seed
// is negative.
func seedFromConfig() (uint32, error) {
	seed := viper.GetInt64("seed")
	if seed < 0 {
		return pdgen.NewSeed()
	}
	if seed > math.MaxUint32 {
		return 0, fmt.Errorf("seed %d out of range [0, %d]", seed, uint32(math.MaxUint32))
	}
	return uint32(seed), nil
}
