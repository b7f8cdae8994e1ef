package main

import (
	"os"

	"github.com/n2cholas/shapecheck/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := execute(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
}

var (
	configPath    string
	restoreConfig = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "shapecheck [subcommand]",
	Short: "shapecheck checks array shapes against declarations like 'N, C, ...'",
	Args:  cobra.MinimumNArgs(1),
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		restore, err := cmd.Configure(configPath)
		if err != nil {
			return err
		}
		restoreConfig = restore
		return nil
	},
	SilenceUsage: true,
}

// execute runs the CLI with args and undoes the configuration it applied.
func execute(args []string) error {
	defer func() {
		restoreConfig()
		restoreConfig = func() {}
	}()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./shapecheck.toml)")
	rootCmd.AddCommand(cmd.ParseCmd)
	rootCmd.AddCommand(cmd.MatchCmd)
	rootCmd.AddCommand(cmd.CheckCmd)
}
