package expr

import "fmt"

/*
ErrNoLabels is returned when building a label vector with no values.
*/
const ErrNoLabels = Error("label vector has no values")

/*
Labels is a categorical label vector: one class value per matrix row.
The class set is fixed when the vector is built and ordered by first
occurrence, which later serves as the deterministic tie-break order
for majority votes.
*/
type Labels struct {
	values     []string
	classes    []string
	classIndex map[string]int
}

/*
NewLabels takes a slice with one class value per row and returns a
label vector with them, or an error if the slice is empty.
*/
func NewLabels(values []string) (*Labels, error) {
	if len(values) == 0 {
		return nil, ErrNoLabels
	}
	l := &Labels{values: values, classIndex: make(map[string]int)}
	for _, v := range values {
		if _, ok := l.classIndex[v]; !ok {
			l.classIndex[v] = len(l.classes)
			l.classes = append(l.classes, v)
		}
	}
	return l, nil
}

/*
Len returns the number of rows the vector labels.
*/
func (l *Labels) Len() int {
	return len(l.values)
}

/*
Value returns the class value for the given row.
*/
func (l *Labels) Value(row int) string {
	return l.values[row]
}

/*
Values returns all label values in row order.
*/
func (l *Labels) Values() []string {
	values := make([]string, len(l.values))
	copy(values, l.values)
	return values
}

/*
Classes returns the distinct class values in first-occurrence order.
*/
func (l *Labels) Classes() []string {
	classes := make([]string, len(l.classes))
	copy(classes, l.classes)
	return classes
}

/*
ClassIndex returns the first-occurrence ordinal for the given class
and whether the class belongs to the vector's class set.
*/
func (l *Labels) ClassIndex(class string) (int, bool) {
	i, ok := l.classIndex[class]
	return i, ok
}

/*
Counts returns the per-class count of the labels over the given
row-index subset. Every class of the vector appears as a key, classes
absent from the subset with a zero count.
*/
func (l *Labels) Counts(rows []int) map[string]int {
	counts := make(map[string]int, len(l.classes))
	for _, c := range l.classes {
		counts[c] = 0
	}
	for _, r := range rows {
		counts[l.values[r]]++
	}
	return counts
}

/*
Distinct returns the number of distinct classes present on the given
row-index subset.
*/
func (l *Labels) Distinct(rows []int) int {
	seen := make(map[string]bool, len(l.classes))
	for _, r := range rows {
		seen[l.values[r]] = true
	}
	return len(seen)
}

func (l *Labels) String() string {
	return fmt.Sprintf("{Labels %d rows, %d classes}", len(l.values), len(l.classes))
}
