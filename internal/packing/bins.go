package packing

// binSet is an ordered list of open bins. Implementations must scan bins in
// opening order and only ever append new bins at the end.
type binSet interface {
	tryPlace(item int) bool
	openNewBin(item int)
	len() int
}

// remainingSet is the counting form: only remaining capacities are tracked.
type remainingSet struct {
	capacity  int
	remaining []int
}

func newRemainingSet(capacity, hint int) *remainingSet {
	return &remainingSet{capacity: capacity, remaining: make([]int, 0, hint)}
}

func (s *remainingSet) tryPlace(item int) bool {
	for i, free := range s.remaining {
		if item <= free {
			s.remaining[i] = free - item
			return true
		}
	}
	return false
}

func (s *remainingSet) openNewBin(item int) {
	s.remaining = append(s.remaining, s.capacity-item)
}

func (s *remainingSet) len() int {
	return len(s.remaining)
}

// assignmentSet is the assignment form: bins also keep their items.
type assignmentSet struct {
	capacity int
	bins     []Bin
}

func newAssignmentSet(capacity, hint int) *assignmentSet {
	return &assignmentSet{capacity: capacity, bins: make([]Bin, 0, hint)}
}

func (s *assignmentSet) tryPlace(item int) bool {
	for i := range s.bins {
		bin := &s.bins[i]
		if item <= bin.Remaining {
			bin.Items = append(bin.Items, item)
			bin.Remaining -= item
			return true
		}
	}
	return false
}

func (s *assignmentSet) openNewBin(item int) {
	s.bins = append(s.bins, Bin{
		Items:     []int{item},
		Remaining: s.capacity - item,
	})
}

func (s *assignmentSet) len() int {
	return len(s.bins)
}
