package tree

import "fmt"

/*
InvalidControlError is returned when a Control carries a parameter
combination the growing algorithm cannot honor.
*/
type InvalidControlError struct {
	Reason string
}

func (e *InvalidControlError) Error() string {
	return fmt.Sprintf("invalid control: %s", e.Reason)
}

/*
Control holds the parameters a tree is grown with. A grown tree
keeps the control it was built from, so exports and reports can
state the fit conditions.
*/
type Control struct {
	// Alpha is the largest association p-value a split may be
	// accepted with. Must be in (0, 1].
	Alpha float64
	// MaxDepth is the largest allowed root-to-leaf depth. Must be
	// at least 1.
	MaxDepth int
	// MinBucket is the smallest allowed row count for a leaf and
	// for each side of an accepted split. Must be at least 1.
	MinBucket int
	// MinSplit is the smallest row count a node needs to be
	// considered for splitting. Must be at least 2*MinBucket.
	MinSplit int
	// GenesUse optionally restricts the candidate split genes to
	// a subset of the matrix columns. Empty means all columns.
	GenesUse []string
	// MaxNodes caps the total number of nodes a store will grow,
	// as an operational safeguard. Zero means no cap.
	MaxNodes int
}

/*
DefaultControl returns the control the CLI applies when no
parameters are given.
*/
func DefaultControl() Control {
	return Control{Alpha: 0.05, MaxDepth: 5, MinBucket: 7, MinSplit: 20}
}

/*
Validate returns an InvalidControlError if the control's parameters
are out of range or inconsistent with each other, nil otherwise.
*/
func (c Control) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return &InvalidControlError{Reason: fmt.Sprintf("alpha %v outside (0,1]", c.Alpha)}
	}
	if c.MaxDepth < 1 {
		return &InvalidControlError{Reason: fmt.Sprintf("maxdepth %d below 1", c.MaxDepth)}
	}
	if c.MinBucket < 1 {
		return &InvalidControlError{Reason: fmt.Sprintf("minbucket %d below 1", c.MinBucket)}
	}
	if c.MinSplit < 2*c.MinBucket {
		return &InvalidControlError{Reason: fmt.Sprintf("minsplit %d below 2*minbucket (%d)", c.MinSplit, 2*c.MinBucket)}
	}
	if c.MaxNodes < 0 {
		return &InvalidControlError{Reason: fmt.Sprintf("maxnodes %d below 0", c.MaxNodes)}
	}
	return nil
}
