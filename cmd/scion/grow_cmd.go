package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/scion"
	"github.com/pbanos/scion/panel"
	"github.com/pbanos/scion/tree"
	treejson "github.com/pbanos/scion/tree/json"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	dataInput
	panelInput string
	output     string
	label      string
	alpha      float64
	maxDepth   int
	minBucket  int
	minSplit   int
	maxNodes   int
	workers    int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{dataInput: dataInput{rootCmdConfig: rootConfig}}
	defaults := tree.DefaultControl()
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from an expression matrix",
		Long:  `Grow a conditional-inference classification tree from labeled expression data.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := context.Background()
			label, genesUse, classes, err := config.panel()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			m, labels, err := config.labeledMatrix(ctx, label)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			control := tree.Control{
				Alpha:     config.alpha,
				MaxDepth:  config.maxDepth,
				MinBucket: config.minBucket,
				MinSplit:  config.minSplit,
				GenesUse:  genesUse,
				MaxNodes:  config.maxNodes,
			}
			config.Logf("Growing tree from a matrix with %d cells and %d genes to predict %s ...", m.Rows(), m.Cols(), label)
			t, err := scion.Grow(ctx, label, m, labels, control, config.workers)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(8)
			}
			if len(classes) > 0 {
				t.Classes = classes
			}
			config.Logf("Done")
			config.Logf("%v", t)
			err = outputTree(ctx, config.output, t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(9)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.input), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL/MongoDB connection URL with expression data to grow the tree from (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.panelInput), "panel", "p", "", "path to a YAML marker panel naming the label to predict and optionally the candidate genes and class order")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the grown tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "l", "", "name of the label column the tree should predict (required unless given by the panel)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "cells", "name of the table holding the cells when the input is a SQL database")
	cmd.PersistentFlags().Float64Var(&(config.alpha), "alpha", defaults.Alpha, "largest association p-value a split may be accepted with, in (0,1]")
	cmd.PersistentFlags().IntVar(&(config.maxDepth), "max-depth", defaults.MaxDepth, "largest allowed root-to-leaf depth")
	cmd.PersistentFlags().IntVar(&(config.minBucket), "min-bucket", defaults.MinBucket, "smallest allowed cell count for a leaf")
	cmd.PersistentFlags().IntVar(&(config.minSplit), "min-split", defaults.MinSplit, "smallest cell count a node needs to be considered for splitting")
	cmd.PersistentFlags().IntVar(&(config.maxNodes), "max-nodes", 0, "cap on the total number of tree nodes (defaults to 0: no cap)")
	cmd.PersistentFlags().IntVar(&(config.workers), "workers", 1, "number of concurrent growing workers")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.label == "" && gcc.panelInput == "" {
		return fmt.Errorf("required label flag was not set and no panel was given")
	}
	return nil
}

// panel resolves the label, candidate genes and class order from the
// panel file and the label flag, the flag winning over the panel.
func (gcc *growCmdConfig) panel() (string, []string, []string, error) {
	label := gcc.label
	var genesUse, classes []string
	if gcc.panelInput != "" {
		gcc.Logf("Reading marker panel from %s...", gcc.panelInput)
		p, err := panel.ReadPanelFromFilePath(gcc.panelInput)
		if err != nil {
			return "", nil, nil, err
		}
		if label == "" {
			label = p.Label
		}
		genesUse = p.Genes
		classes = p.Classes
	}
	return label, genesUse, classes, nil
}

func outputTree(ctx context.Context, outputPath string, t *tree.Tree) error {
	f, done, err := outputFile(outputPath)
	if err != nil {
		return err
	}
	defer done()
	return treejson.WriteJSONTree(ctx, t, treejson.NewNodeEncodeDecoder(), f)
}
