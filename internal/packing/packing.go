package packing

import (
	"cmp"
	"math"
	"slices"
)

// FirstFit packs items in the given order into the first open bin with enough
// remaining capacity, opening a new bin when none fits.
func FirstFit(items []int, capacity int) (Packing, error) {
	if err := validate(items, capacity); err != nil {
		return Packing{}, err
	}
	set := newAssignmentSet(capacity, binHint(items))
	firstFit(set, items)
	return Packing{
		Algorithm: FirstFitAlgorithm,
		Capacity:  capacity,
		Bins:      set.bins,
	}, nil
}

// FirstFitDecreasing sorts a copy of items in descending order and applies
// the First Fit rule to it. The caller's slice is left untouched.
func FirstFitDecreasing(items []int, capacity int) (Packing, error) {
	if err := validate(items, capacity); err != nil {
		return Packing{}, err
	}
	set := newAssignmentSet(capacity, binHint(items))
	firstFit(set, sortedDescending(items))
	return Packing{
		Algorithm: FirstFitDecreasingAlgorithm,
		Capacity:  capacity,
		Bins:      set.bins,
	}, nil
}

// CountFirstFit is FirstFit in counting form.
func CountFirstFit(items []int, capacity int) (int, error) {
	if err := validate(items, capacity); err != nil {
		return 0, err
	}
	set := newRemainingSet(capacity, binHint(items))
	firstFit(set, items)
	return set.len(), nil
}

// CountFirstFitDecreasing is FirstFitDecreasing in counting form.
func CountFirstFitDecreasing(items []int, capacity int) (int, error) {
	if err := validate(items, capacity); err != nil {
		return 0, err
	}
	set := newRemainingSet(capacity, binHint(items))
	firstFit(set, sortedDescending(items))
	return set.len(), nil
}

// LowerBound returns ceil(sum(items)/capacity), the trivial minimum number of
// bins any packing needs. It returns 0 for a non-positive capacity and
// ignores non-positive items.
func LowerBound(items []int, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	// Quotient and remainder are accumulated separately so the running sum
	// never exceeds capacity.
	bins, rem := 0, 0
	for _, item := range items {
		if item <= 0 {
			continue
		}
		bins += item / capacity
		r := item % capacity
		if rem >= capacity-r {
			bins++
			rem -= capacity - r
		} else {
			rem += r
		}
	}
	if rem > 0 {
		bins++
	}
	return bins
}

// Sum adds items, saturating at math.MaxInt instead of wrapping.
func Sum(items []int) int {
	total := 0
	for _, item := range items {
		if item > 0 && total > math.MaxInt-item {
			return math.MaxInt
		}
		total += item
	}
	return total
}

// New returns the Packer registered under the given algorithm.
func New(algorithm Algorithm) (Packer, error) {
	switch algorithm {
	case FirstFitAlgorithm:
		return firstFitPacker{}, nil
	case FirstFitDecreasingAlgorithm:
		return firstFitDecreasingPacker{}, nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}

type firstFitPacker struct{}

func (firstFitPacker) Name() Algorithm { return FirstFitAlgorithm }

func (firstFitPacker) Pack(items []int, capacity int) (Packing, error) {
	return FirstFit(items, capacity)
}

func (firstFitPacker) Count(items []int, capacity int) (int, error) {
	return CountFirstFit(items, capacity)
}

type firstFitDecreasingPacker struct{}

func (firstFitDecreasingPacker) Name() Algorithm { return FirstFitDecreasingAlgorithm }

func (firstFitDecreasingPacker) Pack(items []int, capacity int) (Packing, error) {
	return FirstFitDecreasing(items, capacity)
}

func (firstFitDecreasingPacker) Count(items []int, capacity int) (int, error) {
	return CountFirstFitDecreasing(items, capacity)
}

// firstFit is the shared placement rule. Items are assumed valid.
func firstFit(set binSet, items []int) {
	for _, item := range items {
		if !set.tryPlace(item) {
			set.openNewBin(item)
		}
	}
}

func validate(items []int, capacity int) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}
	for i, item := range items {
		switch {
		case item <= 0:
			return &ItemError{Index: i, Size: item, Capacity: capacity, Err: ErrInvalidItem}
		case item > capacity:
			return &ItemError{Index: i, Size: item, Capacity: capacity, Err: ErrItemTooLarge}
		}
	}
	return nil
}

func sortedDescending(items []int) []int {
	out := slices.Clone(items)
	slices.SortFunc(out, func(a, b int) int {
		return cmp.Compare(b, a)
	})
	return out
}

// binHint sizes the initial bin slice; most inputs need far fewer bins than items.
func binHint(items []int) int {
	return len(items)/2 + 1
}
