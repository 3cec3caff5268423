package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tutils/pdgen"
	"github.com/tutils/pdgen/logger"
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample <kind>",
	Short: "Print a sequence of variates",
	Long: `Print a sequence of variates drawn from one distribution, For example:
  pdgen sample uniform --seed=3 --n=10
  pdgen sample binomial --seed=3 --n=100 --m=10 --p=0.3 --format=csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, "n"); err != nil {
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
		return writeSequence(cmd.OutOrStdout(), seq, sampleFormat)
	},
}

var (
	sampleFormat string
)

func init() {
	rootCmd.AddCommand(sampleCmd)

	flags := sampleCmd.Flags()
	flags.Int("n", 10, "sequence length")
	flags.StringVarP(&sampleFormat, "format", "f", formatLines, "output format: lines, csv or json")
	addParamFlags(flags)
}
