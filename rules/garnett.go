package rules

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

/*
WriteGarnett serializes the rule set onto the given writer as
marker blocks, one per class, in the tree's class order:

	>celltype
	expressed above: GENE1 3.5, GENE2 0
	expressed below: GENE3 1.25

Each class block merges the terms of every rule predicting the
class: genes required above a threshold by at least one of its rules
go on the "expressed above" line with the smallest such threshold,
genes required at or below a threshold on the "expressed below" line
with the largest. Genes within a line are sorted alphabetically.
Classes no rule predicts are still written, as an empty block.
*/
func (rs *RuleSet) WriteGarnett(w io.Writer) error {
	for _, class := range rs.Classes {
		above := map[string]float64{}
		below := map[string]float64{}
		for _, r := range rs.Rules {
			if r.Class != class {
				continue
			}
			for _, t := range r.Terms {
				switch t.Op {
				case OpGT:
					if current, ok := above[t.Gene]; !ok || t.Threshold < current {
						above[t.Gene] = t.Threshold
					}
				case OpLTE:
					if current, ok := below[t.Gene]; !ok || t.Threshold > current {
						below[t.Gene] = t.Threshold
					}
				}
			}
		}
		_, err := fmt.Fprintf(w, ">%s\n", class)
		if err != nil {
			return fmt.Errorf("writing marker block for %s: %v", class, err)
		}
		err = writeMarkerLine(w, "expressed above", above)
		if err != nil {
			return fmt.Errorf("writing marker block for %s: %v", class, err)
		}
		err = writeMarkerLine(w, "expressed below", below)
		if err != nil {
			return fmt.Errorf("writing marker block for %s: %v", class, err)
		}
	}
	return nil
}

func writeMarkerLine(w io.Writer, header string, thresholds map[string]float64) error {
	if len(thresholds) == 0 {
		return nil
	}
	genes := make([]string, 0, len(thresholds))
	for g := range thresholds {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	markers := make([]string, len(genes))
	for i, g := range genes {
		markers[i] = fmt.Sprintf("%s %s", g, strconv.FormatFloat(thresholds[g], 'g', -1, 64))
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", header, strings.Join(markers, ", "))
	return err
}
