package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/n2cholas/shapecheck/check"
	"github.com/n2cholas/shapecheck/report"
	"github.com/n2cholas/shapecheck/shapeerr"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:          "check FILE.toml",
	Short:        "Run the checked call trees of a case file",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

func runCheck(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("could not open case file: %w", err)
	}
	defer f.Close()

	s, err := loadSuite(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	unexpected := 0
	for i, c := range s.calls {
		_, err := s.run(ctx, c)
		failed := err != nil
		switch {
		case failed && c.Fail:
			fmt.Fprintf(out, "%s %s (expected)\n", paint(styles.Skipped, "FAIL"), c.label(i))
		case failed:
			fmt.Fprintf(out, "%s %s\n", paint(styles.Mismatch, "FAIL"), c.label(i))
		case c.Fail:
			fmt.Fprintf(out, "%s %s (expected to fail)\n", paint(styles.Mismatch, "PASS"), c.label(i))
		default:
			fmt.Fprintf(out, "%s %s\n", paint(styles.Match, "PASS"), c.label(i))
		}
		if failed {
			writeFailure(out, err)
		}
		if failed != c.Fail {
			unexpected++
		}
	}

	if unexpected > 0 {
		return fmt.Errorf("%d of %d calls did not go as expected", unexpected, len(s.calls))
	}
	return nil
}

func writeFailure(w io.Writer, err error) {
	var text string
	var mm *check.MismatchError
	if errors.As(err, &mm) {
		text = report.Render(*mm.Report, styles)
	} else {
		text = shapeerr.FormatWithCode(err)
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
}
