package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/scion/rules"
	"github.com/spf13/cobra"
)

type rulesCmdConfig struct {
	*rootCmdConfig
	treeInput string
	output    string
	garnett   bool
}

func rulesCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &rulesCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Export the rules of a tree",
		Long:  `Flatten a tree into human-readable classification rules, one per leaf, or into garnett-style marker blocks.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := context.Background()
			t, err := loadTree(ctx, config.treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			rs, err := rules.Export(ctx, t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Exported %d rules for label %s", len(rs.Rules), rs.Label)
			f, done, err := outputFile(config.output)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer done()
			if config.garnett {
				err = rs.WriteGarnett(f)
			} else {
				err = rs.Write(f)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the rules will be written (defaults to STDOUT)")
	cmd.PersistentFlags().BoolVar(&(config.garnett), "garnett", false, "write garnett-style marker blocks instead of one rule per line")
	return cmd
}

func (rcc *rulesCmdConfig) Validate() error {
	if rcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}
