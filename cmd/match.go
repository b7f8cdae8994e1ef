package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/n2cholas/shapecheck/match"
	"github.com/n2cholas/shapecheck/report"
	"github.com/n2cholas/shapecheck/shape"
	"github.com/n2cholas/shapecheck/shapeerr"
	"github.com/n2cholas/shapecheck/shapespec"
	"github.com/spf13/cobra"
)

var MatchCmd = &cobra.Command{
	Use:   "match SPEC SHAPE...",
	Short: "Match shapes against a spec, e.g. match 'N, ...' '(3, 2)'",
	Long: "Match each SHAPE against SPEC in turn. Named dimensions bound by one " +
		"shape must agree with the following ones, as for the arguments of one call.",
	RunE:         runMatch,
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
}

func runMatch(cmd *cobra.Command, args []string) error {
	spec, err := shapespec.Parse(args[0])
	if err != nil {
		return fmt.Errorf("could not parse %q:\n%s", args[0], shapeerr.FormatWithCode(err))
	}

	out := cmd.OutOrStdout()
	reg := match.NewRegistry()
	mismatches := 0
	for _, arg := range args[1:] {
		actual, err := parseShape(arg)
		if err != nil {
			return err
		}
		res := match.Shape(spec, actual, reg, nil)
		if res.OK() {
			fmt.Fprintln(out, paint(styles.Match, fmt.Sprintf("%-10s%v", "Match:", actual)))
			continue
		}
		mismatches++
		fmt.Fprintln(out, paint(styles.Mismatch, fmt.Sprintf("%-10s%v %s", "MisMatch:", actual, res.Reason)))
	}
	fmt.Fprintf(out, "Named Dimensions: %s.\n", report.FormatBindings(reg.Snapshot()))

	if mismatches > 0 {
		return fmt.Errorf("%d of %d shapes do not match (%s)", mismatches, len(args)-1, spec)
	}
	return nil
}

// parseShape reads shapes written as "3,2", "(3, 2)", "(3,)" or "()".
func parseShape(s string) (shape.Shape, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "("), ")")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), ",")
	out := shape.Shape{}
	if strings.TrimSpace(trimmed) == "" {
		return out, nil
	}
	for _, part := range strings.Split(trimmed, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid shape %q: %w", s, err)
		}
		out = append(out, n)
	}
	return out, nil
}
