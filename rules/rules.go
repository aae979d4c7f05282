/*
Package rules flattens a grown classification tree into an ordered
list of conjunctive rules, one per leaf, in pre-order with the left
branch before the right one. Because the tree's splits are
exhaustive and disjoint, the resulting rule set is complete: every
input falls under exactly one rule, and exporting the same tree
twice produces byte-for-byte identical output.
*/
package rules

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pbanos/scion/expr"
	"github.com/pbanos/scion/tree"
)

/*
Error is the type for the package's constant errors.
*/
type Error string

func (e Error) Error() string {
	return string(e)
}

/*
ErrNoMatchingRule is returned by Classify when no rule matches a
sample. It cannot happen for rule sets exported from a tree, whose
rules cover every input.
*/
const ErrNoMatchingRule = Error("no rule matches the sample")

/*
Op is the comparison operator of a rule term.
*/
type Op int

const (
	// OpLTE selects values at or below the term threshold, the
	// left branch of a split.
	OpLTE Op = iota
	// OpGT selects values above the term threshold, the right
	// branch of a split.
	OpGT
)

func (o Op) String() string {
	if o == OpLTE {
		return "<="
	}
	return ">"
}

/*
Term is one conjunct of a rule: a constraint of a gene against a
threshold.
*/
type Term struct {
	Gene      string
	Op        Op
	Threshold float64
}

/*
Satisfied returns whether the given expression value satisfies the
term.
*/
func (t Term) Satisfied(value float64) bool {
	if t.Op == OpLTE {
		return value <= t.Threshold
	}
	return value > t.Threshold
}

func (t Term) String() string {
	return fmt.Sprintf("%s %s %s", t.Gene, t.Op, strconv.FormatFloat(t.Threshold, 'g', -1, 64))
}

/*
Rule is an ordered conjunction of terms, the root-to-leaf path of
one leaf, paired with the leaf's majority class. Weight is the
number of training rows behind the leaf and Confidence the majority
class's share of them.
*/
type Rule struct {
	Terms      []Term
	Class      string
	Weight     int
	Confidence float64
}

/*
Matches returns whether the given sample satisfies every term of the
rule. A sample missing a value for a term's gene makes Matches fail
with the sample's error (an *expr.MissingGeneError for matrix-backed
and map-backed samples).
*/
func (r *Rule) Matches(ctx context.Context, s expr.Sample) (bool, error) {
	for _, t := range r.Terms {
		v, err := s.ValueFor(ctx, t.Gene)
		if err != nil {
			return false, err
		}
		if !t.Satisfied(v) {
			return false, nil
		}
	}
	return true, nil
}

func (r *Rule) String() string {
	if len(r.Terms) == 0 {
		return fmt.Sprintf("true => %s", r.Class)
	}
	terms := make([]string, len(r.Terms))
	for i, t := range r.Terms {
		terms[i] = t.String()
	}
	return fmt.Sprintf("%s => %s", strings.Join(terms, " and "), r.Class)
}

/*
RuleSet is an ordered sequence of rules exported from a tree, plus
the label name and class order of the tree they came from.
*/
type RuleSet struct {
	Rules   []*Rule
	Label   string
	Classes []string
}

/*
Export takes a context and a tree and returns the tree's rule set:
one rule per leaf, each conjoining every ancestor edge's constraint
from the root down to the leaf, in pre-order with left edges before
right ones. It returns an error if the tree cannot be traversed.
*/
func Export(ctx context.Context, t *tree.Tree) (*RuleSet, error) {
	rs := &RuleSet{Label: t.Label, Classes: t.Classes}
	err := exportNode(ctx, t, t.RootID, nil, rs)
	if err != nil {
		return nil, fmt.Errorf("exporting rules: %v", err)
	}
	return rs, nil
}

func exportNode(ctx context.Context, t *tree.Tree, nodeID string, path []Term, rs *RuleSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := t.Get(ctx, nodeID)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("node %v not found", nodeID)
	}
	if n.IsLeaf() {
		if n.Prediction == nil {
			return fmt.Errorf("leaf %v has no prediction", nodeID)
		}
		class, confidence := n.Prediction.Class(t.Classes)
		terms := make([]Term, len(path))
		copy(terms, path)
		rs.Rules = append(rs.Rules, &Rule{
			Terms:      terms,
			Class:      class,
			Weight:     n.Prediction.Weight(),
			Confidence: confidence,
		})
		return nil
	}
	err = exportNode(ctx, t, n.LeftID, append(path, Term{Gene: n.Gene, Op: OpLTE, Threshold: n.Threshold}), rs)
	if err != nil {
		return err
	}
	return exportNode(ctx, t, n.RightID, append(path, Term{Gene: n.Gene, Op: OpGT, Threshold: n.Threshold}), rs)
}

/*
Classify takes a sample and returns the class of the first rule in
the set the sample satisfies, or ErrNoMatchingRule if none does.
For a rule set exported from a tree this reproduces the tree's own
predictions exactly.
*/
func (rs *RuleSet) Classify(ctx context.Context, s expr.Sample) (string, error) {
	for _, r := range rs.Rules {
		ok, err := r.Matches(ctx, s)
		if err != nil {
			return "", err
		}
		if ok {
			return r.Class, nil
		}
	}
	return "", ErrNoMatchingRule
}

/*
Write serializes the rule set onto the given writer as one line per
rule, in the set's order.
*/
func (rs *RuleSet) Write(w io.Writer) error {
	for _, r := range rs.Rules {
		_, err := fmt.Fprintln(w, r)
		if err != nil {
			return fmt.Errorf("writing rule set: %v", err)
		}
	}
	return nil
}

func (rs *RuleSet) String() string {
	var b strings.Builder
	rs.Write(&b)
	return b.String()
}
