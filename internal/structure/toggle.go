package structure

import (
	"fmt"
	"sort"
)

// ToggleStrategy decides how a selection changes when one sprint number is
// toggled. Strict rejection and auto-expansion are both valid policies;
// the caller picks one.
type ToggleStrategy interface {
	// Toggle returns the new selection after flipping number in selected.
	// Implementations must leave the input slice unmodified.
	Toggle(selected []int, number int) ([]int, error)
}

// StrictToggle rejects any toggle that would break contiguity. The
// returned error carries the unchanged selection semantics: on error the
// caller keeps the old selection.
type StrictToggle struct{}

func (StrictToggle) Toggle(selected []int, number int) ([]int, error) {
	next := flip(selected, number)
	if len(next) > 0 && !Consecutive(next) {
		if contains(selected, number) {
			return nil, fmt.Errorf("removing sprint %d would leave a gap in the selection", number)
		}
		return nil, fmt.Errorf("sprint %d is not adjacent to the current selection", number)
	}
	return next, nil
}

// AutoExpandToggle re-establishes contiguity by selecting the full span
// between the existing selection and the newly added sprint. Removals are
// still rejected when they would split the run.
type AutoExpandToggle struct{}

func (AutoExpandToggle) Toggle(selected []int, number int) ([]int, error) {
	if contains(selected, number) {
		next := flip(selected, number)
		if len(next) > 0 && !Consecutive(next) {
			return nil, fmt.Errorf("removing sprint %d would leave a gap in the selection", number)
		}
		return next, nil
	}
	next := flip(selected, number)
	if len(next) == 0 {
		return next, nil
	}
	lo, hi := next[0], next[len(next)-1]
	span := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		span = append(span, n)
	}
	return span, nil
}

// flip returns a sorted copy of selected with number added or removed.
func flip(selected []int, number int) []int {
	next := make([]int, 0, len(selected)+1)
	removed := false
	for _, n := range selected {
		if n == number {
			removed = true
			continue
		}
		next = append(next, n)
	}
	if !removed {
		next = append(next, number)
	}
	sort.Ints(next)
	return next
}

func contains(nums []int, n int) bool {
	for _, v := range nums {
		if v == n {
			return true
		}
	}
	return false
}
