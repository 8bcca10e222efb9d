package community

import (
	"errors"
	"fmt"
)

var (
	// ErrPartitionMismatch is returned when a partition does not cover
	// exactly the node set it is evaluated against.
	ErrPartitionMismatch = errors.New("partition does not match graph node set")

	// ErrNonConvergence marks a detection run that hit its pass cap.
	ErrNonConvergence = errors.New("community detection did not converge")

	// ErrUnknownAlgorithm is returned by Detect for an unregistered name.
	ErrUnknownAlgorithm = errors.New("unknown community detection algorithm")
)

// MismatchError describes how a partition disagrees with a node set.
type MismatchError struct {
	Op        string
	Missing   []int64 // graph nodes without a community (first few)
	Unknown   []int64 // partition nodes not in the graph (first few)
	Duplicate []int64 // nodes assigned more than once (first few)
	Empty     int     // number of empty communities
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %v (missing %v, unknown %v, duplicate %v, empty communities %d)",
		e.Op, ErrPartitionMismatch, e.Missing, e.Unknown, e.Duplicate, e.Empty)
}

// Unwrap returns ErrPartitionMismatch for errors.Is support.
func (e *MismatchError) Unwrap() error {
	return ErrPartitionMismatch
}

// maxReported caps the node lists carried by a MismatchError.
const maxReported = 8

func appendCapped(list []int64, id int64) []int64 {
	if len(list) < maxReported {
		list = append(list, id)
	}
	return list
}

// NonConvergenceWarning reports that a detection run stopped at its pass cap.
// It is carried in Result.Warnings, not returned as an error: the labeling
// at the cap is still a valid partition.
type NonConvergenceWarning struct {
	Algorithm  string
	Iterations int
}

// Error implements the error interface.
func (w *NonConvergenceWarning) Error() string {
	return fmt.Sprintf("%s: stopped after %d passes without converging", w.Algorithm, w.Iterations)
}

// Is matches ErrNonConvergence.
func (w *NonConvergenceWarning) Is(target error) bool {
	return target == ErrNonConvergence
}
