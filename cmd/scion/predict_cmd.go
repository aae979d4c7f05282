package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pbanos/scion/tree"
	treejson "github.com/pbanos/scion/tree/json"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	dataInput
	treeInput string
	output    string
	probs     bool
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{dataInput: dataInput{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify new cells with a tree",
		Long:  `Classify unlabeled expression data with a previously grown tree and write one predicted class per cell.`,
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
			m, err := config.newDataMatrix(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Classifying %d cells with tree predicting %s...", m.Rows(), t.Label)
			f, done, err := outputFile(config.output)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			defer done()
			w := csv.NewWriter(f)
			header := []string{"cell", t.Label}
			if config.probs {
				header = append(header, "probability")
			}
			err = w.Write(header)
			if err != nil {
				fmt.Fprintf(os.Stderr, "writing predictions: %v\n", err)
				os.Exit(6)
			}
			cells := m.Cells()
			for i := 0; i < m.Rows(); i++ {
				class, prob, err := t.PredictClass(ctx, m.Sample(i))
				if err != nil {
					fmt.Fprintf(os.Stderr, "classifying cell %d: %v\n", i, err)
					os.Exit(7)
				}
				cell := strconv.Itoa(i)
				if cells != nil {
					cell = cells[i]
				}
				record := []string{cell, class}
				if config.probs {
					record = append(record, strconv.FormatFloat(prob, 'f', 4, 64))
				}
				err = w.Write(record)
				if err != nil {
					fmt.Fprintf(os.Stderr, "writing predictions: %v\n", err)
					os.Exit(6)
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				fmt.Fprintf(os.Stderr, "writing predictions: %v\n", err)
				os.Exit(6)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.input), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL/MongoDB connection URL with unlabeled expression data (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the predictions will be written as CSV (defaults to STDOUT)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "cells", "name of the table holding the cells when the input is a SQL database")
	cmd.PersistentFlags().BoolVar(&(config.probs), "probs", false, "also write the probability of the predicted class for each cell")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

func loadTree(ctx context.Context, filepath string) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t := &tree.Tree{NodeStore: tree.NewMemoryNodeStore()}
	err = treejson.ReadJSONTree(ctx, t, treejson.NewNodeEncodeDecoder(), f)
	if err != nil {
		return nil, fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return t, nil
}
