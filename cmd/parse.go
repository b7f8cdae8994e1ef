package cmd

import (
	"fmt"

	"github.com/n2cholas/shapecheck/shapeerr"
	"github.com/n2cholas/shapecheck/shapespec"
	"github.com/n2cholas/shapecheck/util"
	"github.com/spf13/cobra"
)

var ParseCmd = &cobra.Command{
	Use:          "parse SPEC...",
	Short:        "Parse shape specs and print their tokens",
	RunE:         runParse,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func runParse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, arg := range args {
		spec, err := shapespec.Parse(arg)
		if err != nil {
			return fmt.Errorf("could not parse %q:\n%s", arg, shapeerr.FormatWithCode(err))
		}
		fmt.Fprintf(out, "(%s)\n", spec)
		for i, tok := range spec.All() {
			fmt.Fprintf(out, "  %d: %-14s %s\n", i, tok.Kind, tok)
		}
		fmt.Fprintf(out, "  labels: %v\n", util.Sorted[string](spec.Labels()))
	}
	return nil
}
