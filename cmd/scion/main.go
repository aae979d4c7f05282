package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scion",
		Short: "scion grows statistically-guided decision trees over expression data",
		Long:  `A tool to grow conditional-inference classification trees from single-cell expression matrices, test them, export their rules, and use them to classify new cells`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), growCmd(config), predictCmd(config), testCmd(config), rulesCmd(config))
	return rootCmd
}
