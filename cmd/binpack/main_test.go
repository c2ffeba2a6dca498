package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eugenenazirov/binpacking/internal/packing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BIN_CAPACITY", "")
	t.Setenv("BENCH_SIZES", "")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"--log-level", "error"}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestDemoPrintsBothAlgorithms(t *testing.T) {
	out, err := runCLI(t, "demo")
	if err != nil {
		t.Fatalf("demo returned error: %v", err)
	}

	want := strings.Join([]string{
		"=== First Fit (FF) Packing ===",
		"Bin 1: [3, 2, 5] (total = 10)",
		"Bin 2: [8, 1] (total = 9)",
		"Bin 3: [7, 2] (total = 9)",
		"Bin 4: [9] (total = 9)",
		"Bin 5: [4, 6] (total = 10)",
		"",
		"=== First Fit Decreasing (FFD) Packing ===",
		"Bin 1: [9, 1] (total = 10)",
		"Bin 2: [8, 2] (total = 10)",
		"Bin 3: [7, 3] (total = 10)",
		"Bin 4: [6, 4] (total = 10)",
		"Bin 5: [5, 2] (total = 7)",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("unexpected demo output:\n%s\nwant:\n%s", out, want)
	}
}

func TestPackCountsBins(t *testing.T) {
	out, err := runCLI(t, "pack", "--algorithm", "ffd", "--capacity", "10", "--items", "6,5,4,3,2")
	if err != nil {
		t.Fatalf("pack returned error: %v", err)
	}
	if out != "algorithm=ffd capacity=10 bins=2 lower_bound=2\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPackVerboseFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	if err := os.WriteFile(path, []byte("6\n5\n4\n3\n2\n"), 0o644); err != nil {
		t.Fatalf("write items: %v", err)
	}

	out, err := runCLI(t, "pack", "--file", path, "--verbose")
	if err != nil {
		t.Fatalf("pack returned error: %v", err)
	}

	want := "algorithm=ff capacity=10 bins=2 lower_bound=2\n" +
		"Bin 1: [6, 4] (total = 10)\n" +
		"Bin 2: [5, 3, 2] (total = 10)\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPackErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{name: "no input", args: []string{"pack"}},
		{name: "both inputs", args: []string{"pack", "--items", "1", "--file", "x.txt"}},
		{name: "unknown algorithm", args: []string{"pack", "--algorithm", "nf", "--items", "1"}},
		{name: "oversized item", args: []string{"pack", "--items", "3,11"}, is: packing.ErrItemTooLarge},
		{name: "non-positive item", args: []string{"pack", "--items", "3,0"}, is: packing.ErrInvalidItem},
		{name: "malformed item", args: []string{"pack", "--items", "3,x"}},
		{name: "explicit zero capacity", args: []string{"pack", "--capacity", "0", "--items", "3"}, is: packing.ErrInvalidCapacity},
		{name: "explicit zero capacity verbose", args: []string{"pack", "--capacity", "0", "--items", "3", "--verbose"}, is: packing.ErrInvalidCapacity},
		{name: "negative capacity", args: []string{"pack", "--capacity=-4", "--items", "3"}, is: packing.ErrInvalidCapacity},
		{name: "demo zero capacity", args: []string{"demo", "--capacity", "0"}, is: packing.ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestGenerateThenBench(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "results.csv")

	out, err := runCLI(t, "generate", "--dir", dir, "--sizes", "20,40", "--seed", "7")
	if err != nil {
		t.Fatalf("generate returned error: %v", err)
	}
	if !strings.Contains(out, "Generated 6 files") {
		t.Fatalf("unexpected generate output %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "40_worst.txt")); err != nil {
		t.Fatalf("expected worst case file: %v", err)
	}

	for range 2 {
		out, err = runCLI(t, "bench", "--dir", dir, "--sizes", "20,40", "--csv", csvPath, "--no-progress")
		if err != nil {
			t.Fatalf("bench returned error: %v", err)
		}
	}
	if !strings.Contains(out, "20_best.txt") || !strings.Contains(out, "40_average.txt") {
		t.Fatalf("expected table rows for every file, got:\n%s", out)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if got := strings.Count(string(data), "--- AVERAGE CASE"); got != 2 {
		t.Fatalf("expected results appended twice, got %d average blocks", got)
	}
}

func TestBenchInMemory(t *testing.T) {
	out, err := runCLI(t, "bench", "--in-memory", "--seed", "3", "--sizes", "50", "--csv", "", "--no-progress")
	if err != nil {
		t.Fatalf("bench returned error: %v", err)
	}
	if strings.Contains(out, "N/A") {
		t.Fatalf("unexpected failed rows:\n%s", out)
	}
}

func TestBenchMissingFilesReportsNA(t *testing.T) {
	out, err := runCLI(t, "bench", "--dir", t.TempDir(), "--sizes", "10", "--csv", "", "--no-progress")
	if err != nil {
		t.Fatalf("bench returned error: %v", err)
	}
	if strings.Count(out, "N/A") != 12 {
		t.Fatalf("expected every cell to be N/A, got:\n%s", out)
	}
}

func TestBenchRejectsZeroCapacity(t *testing.T) {
	_, err := runCLI(t, "bench", "--in-memory", "--seed", "3", "--sizes", "10", "--capacity", "0", "--csv", "", "--no-progress")
	if !errors.Is(err, packing.ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
}

func TestPackUsesConfiguredCapacityWhenFlagOmitted(t *testing.T) {
	t.Setenv("BIN_CAPACITY", "20")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--log-level", "error", "pack", "--items", "6,5,4,3,2"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("pack returned error: %v", err)
	}
	if want := "algorithm=ff capacity=20 bins=1 lower_bound=1\n"; stdout.String() != want {
		t.Fatalf("expected %q, got %q", want, stdout.String())
	}
}

func TestParseItems(t *testing.T) {
	items, err := parseItems("3, 8,2  5\t7")
	if err != nil {
		t.Fatalf("parseItems returned error: %v", err)
	}
	want := []int{3, 8, 2, 5, 7}
	if len(items) != len(want) {
		t.Fatalf("expected %v, got %v", want, items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, items)
		}
	}
}
