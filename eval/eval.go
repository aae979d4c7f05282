/*
Package eval scores classifier output against known labels: a
confusion matrix of predicted against actual classes, accuracy, and
frequency views normalized by column (how each actual class was
predicted) or by row (what each predicted class actually contained).
*/
package eval

import (
	"fmt"
	"strconv"
	"strings"
)

/*
LabelMismatchError is returned when the predicted and actual label
vectors given to New have different lengths.
*/
type LabelMismatchError struct {
	Predicted int
	Actual    int
}

func (e *LabelMismatchError) Error() string {
	return fmt.Sprintf("predicted and actual label vectors differ in length: %d vs %d", e.Predicted, e.Actual)
}

/*
Axis selects the normalization direction of a frequency matrix.
*/
type Axis int

const (
	// AxisColumn normalizes each actual-class column to sum to 1,
	// answering how the members of each actual class were predicted.
	AxisColumn Axis = iota
	// AxisRow normalizes each predicted-class row to sum to 1,
	// answering what each predicted class actually contained.
	AxisRow
)

/*
ConfusionMatrix counts prediction outcomes: rows are predicted
classes, columns actual classes. Its label order lists the classes
of the predicted vector first and then any classes seen only in the
actual vector, each in first-occurrence order, so the same inputs
always render the same matrix.
*/
type ConfusionMatrix struct {
	labels     []string
	labelIndex map[string]int
	counts     [][]int
	total      int
}

/*
New takes a predicted and an actual label vector of equal length and
tallies them into a confusion matrix. It returns a
*LabelMismatchError if the lengths differ.
*/
func New(predicted, actual []string) (*ConfusionMatrix, error) {
	if len(predicted) != len(actual) {
		return nil, &LabelMismatchError{Predicted: len(predicted), Actual: len(actual)}
	}
	cm := &ConfusionMatrix{labelIndex: make(map[string]int)}
	for _, l := range predicted {
		cm.addLabel(l)
	}
	for _, l := range actual {
		cm.addLabel(l)
	}
	k := len(cm.labels)
	cm.counts = make([][]int, k)
	for i := range cm.counts {
		cm.counts[i] = make([]int, k)
	}
	for i := range predicted {
		cm.counts[cm.labelIndex[predicted[i]]][cm.labelIndex[actual[i]]]++
	}
	cm.total = len(predicted)
	return cm, nil
}

func (cm *ConfusionMatrix) addLabel(l string) {
	if _, ok := cm.labelIndex[l]; !ok {
		cm.labelIndex[l] = len(cm.labels)
		cm.labels = append(cm.labels, l)
	}
}

// Labels returns the class labels of the matrix in its row and
// column order.
func (cm *ConfusionMatrix) Labels() []string {
	return cm.labels
}

/*
Count returns the number of samples predicted as the first class
whose actual class was the second. Unknown classes count zero.
*/
func (cm *ConfusionMatrix) Count(predicted, actual string) int {
	i, ok := cm.labelIndex[predicted]
	if !ok {
		return 0
	}
	j, ok := cm.labelIndex[actual]
	if !ok {
		return 0
	}
	return cm.counts[i][j]
}

// Total returns the number of samples tallied into the matrix.
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

/*
Accuracy returns the fraction of samples on the matrix diagonal,
that is, predicted as their actual class. It is 0 for an empty
matrix.
*/
func (cm *ConfusionMatrix) Accuracy() float64 {
	if cm.total == 0 {
		return 0
	}
	correct := 0
	for i := range cm.labels {
		correct += cm.counts[i][i]
	}
	return float64(correct) / float64(cm.total)
}

/*
Normalize returns the frequency view of the matrix along the given
axis. Rows or columns with a zero total stay all-zero rather than
dividing by zero.
*/
func (cm *ConfusionMatrix) Normalize(axis Axis) *FrequencyMatrix {
	k := len(cm.labels)
	fm := &FrequencyMatrix{labels: cm.labels, axis: axis}
	fm.frequencies = make([][]float64, k)
	for i := range fm.frequencies {
		fm.frequencies[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			var total int
			if axis == AxisColumn {
				for r := 0; r < k; r++ {
					total += cm.counts[r][j]
				}
			} else {
				total = cm.rowTotal(i)
			}
			if total > 0 {
				fm.frequencies[i][j] = float64(cm.counts[i][j]) / float64(total)
			}
		}
	}
	return fm
}

func (cm *ConfusionMatrix) rowTotal(i int) int {
	total := 0
	for j := range cm.counts[i] {
		total += cm.counts[i][j]
	}
	return total
}

func (cm *ConfusionMatrix) String() string {
	var b strings.Builder
	widths := cellWidths(cm.labels, func(i, j int) string {
		return strconv.Itoa(cm.counts[i][j])
	})
	writeHeader(&b, cm.labels, widths)
	for i, l := range cm.labels {
		fmt.Fprintf(&b, "%-*s", widths[0], l)
		for j := range cm.labels {
			fmt.Fprintf(&b, " %*s", widths[j+1], strconv.Itoa(cm.counts[i][j]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

/*
FrequencyMatrix is a confusion matrix normalized along one axis, with
the same label order as the matrix it came from.
*/
type FrequencyMatrix struct {
	labels      []string
	frequencies [][]float64
	axis        Axis
}

// Labels returns the class labels of the matrix in its row and
// column order.
func (fm *FrequencyMatrix) Labels() []string {
	return fm.labels
}

// Axis returns the normalization axis the matrix was built with.
func (fm *FrequencyMatrix) Axis() Axis {
	return fm.axis
}

/*
Frequency returns the normalized value of the cell for the given
predicted and actual classes. Unknown classes yield zero.
*/
func (fm *FrequencyMatrix) Frequency(predicted, actual string) float64 {
	i := labelIndexOf(fm.labels, predicted)
	j := labelIndexOf(fm.labels, actual)
	if i < 0 || j < 0 {
		return 0
	}
	return fm.frequencies[i][j]
}

func (fm *FrequencyMatrix) String() string {
	var b strings.Builder
	widths := cellWidths(fm.labels, func(i, j int) string {
		return strconv.FormatFloat(fm.frequencies[i][j], 'f', 4, 64)
	})
	writeHeader(&b, fm.labels, widths)
	for i, l := range fm.labels {
		fmt.Fprintf(&b, "%-*s", widths[0], l)
		for j := range fm.labels {
			fmt.Fprintf(&b, " %*s", widths[j+1], strconv.FormatFloat(fm.frequencies[i][j], 'f', 4, 64))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func labelIndexOf(labels []string, l string) int {
	for i, candidate := range labels {
		if candidate == l {
			return i
		}
	}
	return -1
}

func cellWidths(labels []string, cell func(i, j int) string) []int {
	widths := make([]int, len(labels)+1)
	for _, l := range labels {
		if len(l) > widths[0] {
			widths[0] = len(l)
		}
	}
	for j, l := range labels {
		widths[j+1] = len(l)
		for i := range labels {
			if w := len(cell(i, j)); w > widths[j+1] {
				widths[j+1] = w
			}
		}
	}
	return widths
}

func writeHeader(b *strings.Builder, labels []string, widths []int) {
	fmt.Fprintf(b, "%-*s", widths[0], "")
	for j, l := range labels {
		fmt.Fprintf(b, " %*s", widths[j+1], l)
	}
	b.WriteString("\n")
}
