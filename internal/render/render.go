// Package render prints packing results for humans.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/eugenenazirov/binpacking/internal/packing"
)

// WriteBins prints each bin's contents and its total, one line per bin.
func WriteBins(w io.Writer, p packing.Packing) error {
	for i, bin := range p.Bins {
		if _, err := fmt.Fprintf(w, "Bin %d: %s (total = %d)\n", i+1, formatItems(bin.Items), bin.Load()); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints the headline figures of a packing run.
func WriteSummary(w io.Writer, p packing.Packing) error {
	_, err := fmt.Fprintf(w, "algorithm=%s capacity=%d bins=%d lower_bound=%d\n",
		p.Algorithm, p.Capacity, p.BinCount(), packing.LowerBound(p.Items(), p.Capacity))
	return err
}

// Title returns the heading used for an algorithm's section of output.
func Title(algorithm packing.Algorithm) string {
	switch algorithm {
	case packing.FirstFitAlgorithm:
		return "=== First Fit (FF) Packing ==="
	case packing.FirstFitDecreasingAlgorithm:
		return "=== First Fit Decreasing (FFD) Packing ==="
	default:
		return "=== " + strings.ToUpper(string(algorithm)) + " Packing ==="
	}
}

func formatItems(items []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", item)
	}
	b.WriteByte(']')
	return b.String()
}
