package tree

import (
	"fmt"
	"sort"
	"strings"
)

/*
Prediction represents the class-count distribution of the training
rows a node was built from, and derives class probabilities and the
majority class from it.
*/
type Prediction struct {
	counts map[string]int
	weight int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromSample is the error returned by the Predict
method of a tree when the walk reaches a node without a prediction,
as opposed to cases where a value for a gene cannot be obtained.
*/
const ErrCannotPredictFromSample = PredictionError("no prediction available for this kind of sample")

/*
ErrCannotPredictFromEmptySubset is the error returned when trying to
build a prediction from an empty row subset.
*/
const ErrCannotPredictFromEmptySubset = PredictionError("cannot make prediction for empty row subset")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewPrediction takes a map of class values to training-row counts and
returns a prediction representing that distribution, or an error if
the counts add up to zero rows.
*/
func NewPrediction(counts map[string]int) (*Prediction, error) {
	weight := 0
	for _, c := range counts {
		weight += c
	}
	if weight == 0 {
		return nil, ErrCannotPredictFromEmptySubset
	}
	copied := make(map[string]int, len(counts))
	for k, v := range counts {
		copied[k] = v
	}
	return &Prediction{counts: copied, weight: weight}, nil
}

/*
Counts returns a map of class values to the number of training rows
of that class behind the prediction.
*/
func (p *Prediction) Counts() map[string]int {
	counts := make(map[string]int, len(p.counts))
	for k, v := range p.counts {
		counts[k] = v
	}
	return counts
}

/*
Weight returns the weight of the prediction: the number of training
rows in the subset from which it was made.
*/
func (p *Prediction) Weight() int {
	return p.weight
}

/*
ProbabilityOf takes a class value and returns its probability
according to the prediction.
*/
func (p *Prediction) ProbabilityOf(class string) float64 {
	return float64(p.counts[class]) / float64(p.weight)
}

/*
Probabilities returns a map of class values to their probabilities
according to the prediction.
*/
func (p *Prediction) Probabilities() map[string]float64 {
	probs := make(map[string]float64, len(p.counts))
	for c, n := range p.counts {
		probs[c] = float64(n) / float64(p.weight)
	}
	return probs
}

/*
Class returns the majority class of the prediction and its
probability. Ties are broken in favor of the class appearing first
in the given class order; classes missing from the order lose every
tie.
*/
func (p *Prediction) Class(order []string) (string, float64) {
	ordinal := make(map[string]int, len(order))
	for i, c := range order {
		ordinal[c] = i
	}
	var best string
	bestCount := -1
	bestOrdinal := len(order)
	for c, n := range p.counts {
		o, ok := ordinal[c]
		if !ok {
			o = len(order)
		}
		if n > bestCount || (n == bestCount && o < bestOrdinal) {
			best = c
			bestCount = n
			bestOrdinal = o
		}
	}
	return best, float64(bestCount) / float64(p.weight)
}

func (p *Prediction) String() string {
	classes := make([]string, 0, len(p.counts))
	for c := range p.counts {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		parts = append(parts, fmt.Sprintf("%s:%d", c, p.counts[c]))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
