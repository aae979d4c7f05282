package scion

import (
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pbanos/scion/expr"
	"github.com/pbanos/scion/tree"
)

/*
split is an accepted binary partition of a node's rows: the winning
gene, the cut threshold (left takes values <= threshold), the
association statistic and p-value the gene won with, and the two
disjoint row subsets in their original order.
*/
type split struct {
	gene      string
	threshold float64
	statistic float64
	pValue    float64
	left      []int
	right     []int
}

/*
selectSplit runs the split selection contract over a row subset:
it tests every candidate gene for association with the class label
using the Kruskal-Wallis rank statistic, keeps the gene with the
smallest p-value (first declared column wins ties), gives up if
that p-value exceeds alpha, and then scans the winning gene's
distinct values for the cut maximizing the two-group Pearson
statistic, subject to minbucket on both sides (smallest threshold
wins ties).

It returns nil when the node cannot be split: no gene reaches
alpha, every gene is constant within the subset, or no cut of the
winning gene respects minbucket. Zero-variance genes are skipped as
failed candidates, never surfaced as errors.
*/
func selectSplit(m *expr.Matrix, labels *expr.Labels, rows []int, genes []string, control tree.Control) (*split, error) {
	classOf, k := compactClasses(labels, rows)
	if k < 2 {
		return nil, nil
	}
	chi2 := distuv.ChiSquared{K: float64(k - 1)}
	var (
		bestGene string
		bestStat float64
		bestP    float64
		found    bool
	)
	for _, g := range genes {
		values, err := m.GeneValues(g, rows)
		if err != nil {
			return nil, err
		}
		h, err := kruskalWallis(values, classOf, k)
		if err == ErrDegenerateSplit {
			continue
		}
		if err != nil {
			return nil, err
		}
		p := chi2.Survival(h)
		if !found || p < bestP {
			bestGene = g
			bestStat = h
			bestP = p
			found = true
		}
	}
	if !found || bestP > control.Alpha {
		return nil, nil
	}
	values, err := m.GeneValues(bestGene, rows)
	if err != nil {
		return nil, err
	}
	threshold, ok := bestCut(values, classOf, k, control.MinBucket)
	if !ok {
		return nil, nil
	}
	sp := &split{gene: bestGene, threshold: threshold, statistic: bestStat, pValue: bestP}
	for i, r := range rows {
		if values[i] <= threshold {
			sp.left = append(sp.left, r)
		} else {
			sp.right = append(sp.right, r)
		}
	}
	return sp, nil
}

/*
compactClasses maps the labels of the given rows to dense indices
0..k-1 in first-occurrence order and returns the per-row index slice
and k, the number of classes present on the subset.
*/
func compactClasses(labels *expr.Labels, rows []int) ([]int, int) {
	classOf := make([]int, len(rows))
	compact := make(map[string]int)
	for i, r := range rows {
		c := labels.Value(r)
		idx, ok := compact[c]
		if !ok {
			idx = len(compact)
			compact[c] = idx
		}
		classOf[i] = idx
	}
	return classOf, len(compact)
}

/*
kruskalWallis computes the Kruskal-Wallis rank statistic of the
given values grouped by class, with midranks for ties and the usual
tie correction. Under independence the statistic follows a
chi-squared distribution with k-1 degrees of freedom, which makes
the derived p-values comparable across genes within a node.

It returns ErrDegenerateSplit when the values cannot discriminate at
all: fewer than two of them, or all of them equal.
*/
func kruskalWallis(values []float64, classOf []int, k int) (float64, error) {
	n := len(values)
	if n < 2 {
		return 0, ErrDegenerateSplit
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})
	if values[order[0]] == values[order[n-1]] {
		return 0, ErrDegenerateSplit
	}
	ranks := make([]float64, n)
	var tieSum float64
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		midrank := float64(i+j)/2 + 1
		for l := i; l <= j; l++ {
			ranks[order[l]] = midrank
		}
		ties := float64(j - i + 1)
		tieSum += ties*ties*ties - ties
		i = j + 1
	}
	rankSums := make([]float64, k)
	counts := make([]float64, k)
	for i, c := range classOf {
		rankSums[c] += ranks[i]
		counts[c]++
	}
	fn := float64(n)
	var h float64
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			h += rankSums[c] * rankSums[c] / counts[c]
		}
	}
	h = 12/(fn*(fn+1))*h - 3*(fn+1)
	correction := 1 - tieSum/(fn*fn*fn-fn)
	if correction <= 0 {
		return 0, ErrDegenerateSplit
	}
	h /= correction
	if h < 0 {
		h = 0
	}
	return h, nil
}

/*
bestCut scans the distinct values of a gene within a node, sorted
ascending, for the threshold whose left (<= threshold) and right
(> threshold) groups have the largest Pearson chi-squared
discrepancy against the class distribution. Candidates leaving
fewer than minBucket rows on either side are rejected; ties keep
the smallest threshold. The second return value is false when no
candidate survives.
*/
func bestCut(values []float64, classOf []int, k, minBucket int) (float64, bool) {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})
	totals := make([]int, k)
	for _, c := range classOf {
		totals[c]++
	}
	leftCounts := make([]int, k)
	leftN := 0
	var (
		bestThreshold float64
		bestStat      float64
		found         bool
	)
	for i := 0; i < n; {
		v := values[order[i]]
		j := i
		for j < n && values[order[j]] == v {
			leftCounts[classOf[order[j]]]++
			leftN++
			j++
		}
		if j == n {
			// largest distinct value: the right side would be empty
			break
		}
		if leftN >= minBucket && n-leftN >= minBucket {
			stat := pearsonTwoByK(leftCounts, totals, leftN, n)
			if !found || stat > bestStat {
				bestThreshold = v
				bestStat = stat
				found = true
			}
		}
		i = j
	}
	return bestThreshold, found
}

/*
pearsonTwoByK computes the Pearson chi-squared statistic of the 2xk
contingency table given by the left-side class counts against the
node totals.
*/
func pearsonTwoByK(leftCounts, totals []int, leftN, n int) float64 {
	fn := float64(n)
	fLeft := float64(leftN)
	fRight := float64(n - leftN)
	var stat float64
	for c := range totals {
		colTotal := float64(totals[c])
		if colTotal == 0 {
			continue
		}
		observedLeft := float64(leftCounts[c])
		observedRight := colTotal - observedLeft
		expectedLeft := fLeft * colTotal / fn
		expectedRight := fRight * colTotal / fn
		if expectedLeft > 0 {
			d := observedLeft - expectedLeft
			stat += d * d / expectedLeft
		}
		if expectedRight > 0 {
			d := observedRight - expectedRight
			stat += d * d / expectedRight
		}
	}
	return stat
}
