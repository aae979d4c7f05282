package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/scion/eval"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	dataInput
	treeInput string
	label     string
	normalize string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{dataInput: dataInput{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against labeled expression data: accuracy, confusion matrix and class frequencies.`,
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
			label := config.label
			if label == "" {
				label = t.Label
			}
			m, labels, err := config.labeledMatrix(ctx, label)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Testing tree against a matrix with %d cells...", m.Rows())
			predicted, err := t.PredictMatrix(ctx, m)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(6)
			}
			cm, err := eval.New(predicted, labels.Values())
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Done")
			axis := eval.AxisColumn
			if config.normalize == "row" {
				axis = eval.AxisRow
			}
			fmt.Printf("%f accuracy over %d cells\n\n", cm.Accuracy(), cm.Total())
			fmt.Println("Confusion matrix (rows: predicted, columns: actual):")
			fmt.Println(cm)
			fmt.Printf("Frequencies normalized by %s:\n", config.normalize)
			fmt.Println(cm.Normalize(axis))
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.input), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL/MongoDB connection URL with labeled expression data to test against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "l", "", "name of the label column with the actual classes (defaults to the label the tree predicts)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "cells", "name of the table holding the cells when the input is a SQL database")
	cmd.PersistentFlags().StringVar(&(config.normalize), "normalize", "column", "axis to normalize the frequency matrix along, either column or row")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.normalize != "column" && tcc.normalize != "row" {
		return fmt.Errorf("normalize must be either column or row, got %s", tcc.normalize)
	}
	return nil
}
