package render

import (
	"math"
	"strings"
	"testing"

	"github.com/eugenenazirov/binpacking/internal/packing"
)

func TestWriteBins(t *testing.T) {
	p, err := packing.FirstFit([]int{6, 5, 4, 3, 2}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out strings.Builder
	if err := WriteBins(&out, p); err != nil {
		t.Fatalf("WriteBins returned error: %v", err)
	}

	want := "Bin 1: [6, 4] (total = 10)\nBin 2: [5, 3, 2] (total = 10)\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestWriteBinsEmpty(t *testing.T) {
	var out strings.Builder
	if err := WriteBins(&out, packing.Packing{Capacity: 10}); err != nil {
		t.Fatalf("WriteBins returned error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestWriteSummary(t *testing.T) {
	p, err := packing.FirstFitDecreasing([]int{3, 8, 1, 9, 2, 5, 7, 4, 6, 2}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out strings.Builder
	if err := WriteSummary(&out, p); err != nil {
		t.Fatalf("WriteSummary returned error: %v", err)
	}
	if want := "algorithm=ffd capacity=10 bins=5 lower_bound=5\n"; out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestWriteSummaryLargeCapacity(t *testing.T) {
	p, err := packing.FirstFit([]int{5}, math.MaxInt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out strings.Builder
	if err := WriteSummary(&out, p); err != nil {
		t.Fatalf("WriteSummary returned error: %v", err)
	}
	if !strings.HasSuffix(out.String(), "bins=1 lower_bound=1\n") {
		t.Fatalf("unexpected summary %q", out.String())
	}
}

func TestTitle(t *testing.T) {
	if !strings.Contains(Title(packing.FirstFitDecreasingAlgorithm), "Decreasing") {
		t.Fatalf("unexpected FFD title")
	}
	if got := Title("nf"); got != "=== NF Packing ===" {
		t.Fatalf("unexpected fallback title %q", got)
	}
}
