package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tutils/pdgen/logger"
)

var (
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pdgen",
	Short: "Reproducible pseudo-random variates.",
	Long: `Reproducible pseudo-random variates.
Repo: https://github.com/tutils/pdgen
Draw a sequence, test it, or serve it to remote consumers, For example:
  pdgen sample normal --seed=3 --n=1000 --mu=0 --sigma=1
  pdgen test poisson --seed=3 --n=10000 --lambda=4 --alpha=0.05
  pdgen serve --ws-listen=ws://0.0.0.0:8080/stream --resp-listen=0.0.0.0:6380`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		return logger.Setup(os.Stderr, logger.Format(viper.GetString("log-format")), level)
	},
}

// errRejected makes the process exit with status 1 without printing an
// error; the verdict has already been written.
var errRejected = errors.New("hypothesis rejected")

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			logger.Log().Error().Err(err).Msg("pdgen")
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pdgen.yaml)")
	flags.Int64("seed", -1, "generator seed in [0, 2^32); negative picks a random seed")
	flags.String("log-format", string(logger.FormatAuto), "log format: auto, console or json")
	flags.String("log-level", "info", "log level")

	for _, key := range []string{"seed", "log-format", "log-level"} {
		viper.BindPFlag(key, flags.Lookup(key))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".pdgen" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".pdgen")
	}

	viper.SetEnvPrefix("pdgen")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Log().Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}
