package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tutils/pdgen"
	"github.com/tutils/pdgen/goftest"
	"github.com/tutils/pdgen/logger"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test <kind>",
	Short: "Sample a sequence and test its goodness of fit",
	Long: `Sample a sequence and test it against the distribution it was drawn
from. Exits with status 1 when the hypothesis is rejected, For example:
  pdgen test uniform --seed=3 --n=10000 --bins=100
  pdgen test poisson --seed=3 --n=10000 --lambda=4 --alpha=0.01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, "n", "alpha"); err != nil {
			return err
		}
		if err := goftest.CheckAlpha(viper.GetFloat64("alpha")); err != nil {
			return err
		}
		kind, err := kindArg(args)
		if err != nil {
			return err
		}
		params, err := paramsFromFlags(cmd.Flags(), kind)
		if err != nil {
			return err
		}
		seed, err := seedFromConfig()
		if err != nil {
			return err
		}

		g := pdgen.NewGenerator(seed, pdgen.WithLogger(*logger.Log()))
		seq, err := g.SampleKind(kind, params, viper.GetInt("n"))
		if err != nil {
			return err
		}

		results, err := runTests(seq, viper.GetFloat64("alpha"))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s n=%d seed=%d\n", seq.Kind, seq.Len(), seq.Seed)
		accept := true
		for _, r := range results {
			fmt.Fprintln(out, r)
			accept = accept && r.Accept
		}
		if !accept {
			return errRejected
		}
		return nil
	},
}

var (
	testBins        int
	testCorrelation bool
)

// runTests runs the tester for the kind of seq, honouring --bins for
// uniform data, and the lag-1 correlation test when asked.
func runTests(seq pdgen.Sequence, alpha float64) ([]goftest.Result, error) {
	var results []goftest.Result

	if seq.Kind == pdgen.KindUniform && testBins > 0 && seq.Params.A < seq.Params.B {
		unit := unitInterval(seq)
		r, err := goftest.ChiSquareUniform(unit, testBins, alpha)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	} else {
		r, err := goftest.ForSequence(seq, alpha)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if testCorrelation {
		if seq.Kind != pdgen.KindUniform || !(seq.Params.A < seq.Params.B) {
			return nil, fmt.Errorf("correlation test needs a non-degenerate uniform sequence")
		}
		r, err := goftest.Correlation(unitInterval(seq), alpha)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// unitInterval rescales a uniform sequence onto [0, 1].
func unitInterval(seq pdgen.Sequence) []float64 {
	a, b := seq.Params.A, seq.Params.B
	unit := make([]float64, len(seq.Floats))
	for i, x := range seq.Floats {
		unit[i] = (x - a) / (b - a)
	}
	return unit
}

func init() {
	rootCmd.AddCommand(testCmd)

	flags := testCmd.Flags()
	flags.Int("n", 10000, "sequence length")
	flags.Float64("alpha", goftest.DefaultAlpha, "significance level")
	flags.IntVar(&testBins, "bins", 0, "chi-square bins for uniform data (default min(n/5, 100))")
	flags.BoolVar(&testCorrelation, "correlation", false, "also run the lag-1 correlation test (uniform only)")
	addParamFlags(flags)
}
