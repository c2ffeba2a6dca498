package packing

import (
	"fmt"
	"strings"
)

// Algorithm names a packing heuristic.
type Algorithm string

const (
	FirstFitAlgorithm           Algorithm = "ff"
	FirstFitDecreasingAlgorithm Algorithm = "ffd"
)

// Algorithms lists the supported heuristics in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{FirstFitAlgorithm, FirstFitDecreasingAlgorithm}
}

// ParseAlgorithm resolves short and long algorithm names, case-insensitively.
func ParseAlgorithm(raw string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ff", "first-fit", "firstfit":
		return FirstFitAlgorithm, nil
	case "ffd", "first-fit-decreasing", "firstfitdecreasing":
		return FirstFitDecreasingAlgorithm, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, raw)
	}
}

// Bin is a single container in assignment form.
// Remaining always equals the capacity minus Load().
type Bin struct {
	Items     []int
	Remaining int
}

// Load returns the sum of the items placed into the bin.
func (b Bin) Load() int {
	total := 0
	for _, item := range b.Items {
		total += item
	}
	return total
}

// Packing is the assignment-form result of a packing run. Bins are kept in
// the order they were opened.
type Packing struct {
	Algorithm Algorithm
	Capacity  int
	Bins      []Bin
}

// BinCount returns the number of bins opened.
func (p Packing) BinCount() int {
	return len(p.Bins)
}

// TotalSize returns the sum of every packed item, saturating at math.MaxInt.
func (p Packing) TotalSize() int {
	loads := make([]int, len(p.Bins))
	for i, bin := range p.Bins {
		loads[i] = bin.Load()
	}
	return Sum(loads)
}

// Items concatenates the bin contents in bin order.
func (p Packing) Items() []int {
	out := make([]int, 0, len(p.Bins)*2)
	for _, bin := range p.Bins {
		out = append(out, bin.Items...)
	}
	return out
}

// Remaining returns the remaining capacity of each bin.
func (p Packing) Remaining() []int {
	out := make([]int, len(p.Bins))
	for i, bin := range p.Bins {
		out[i] = bin.Remaining
	}
	return out
}

// Packer describes a heuristic that can report either form of result.
type Packer interface {
	Name() Algorithm
	Pack(items []int, capacity int) (Packing, error)
	Count(items []int, capacity int) (int, error)
}
