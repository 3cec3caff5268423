package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tutils/pdgen"
)

// kindsCmd represents the kinds command
var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List distributions and their default parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tTYPE\tPARAMETERS")
		for _, k := range pdgen.Kinds {
			typ := "continuous"
			if k.Discrete() {
				typ = "discrete"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", k, typ, defaultsString(k))
		}
		return w.Flush()
	},
}

func defaultsString(k pdgen.Kind) string {
	p := pdgen.DefaultParamsFor(k)
	var parts []string
	for _, name := range pdgen.ParamNames(k) {
		if name == "c" {
			parts = append(parts, "c=(a+b)/2")
			continue
		}
		v, _ := p.Get(name)
		parts = append(parts, name+"="+strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
