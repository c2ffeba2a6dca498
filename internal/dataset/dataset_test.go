package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestGenerateCases(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(1)

	t.Run("average", func(t *testing.T) {
		items := gen.Generate(AverageCase, 1000)
		if len(items) != 1000 {
			t.Fatalf("expected 1000 items, got %d", len(items))
		}
		for i, item := range items {
			if item < MinItem || item > MaxItem {
				t.Fatalf("item %d out of range: %d", i, item)
			}
		}
	})

	t.Run("best", func(t *testing.T) {
		items := gen.Generate(BestCase, 5)
		if want := []int{4, 6, 4, 6, 4}; !slices.Equal(items, want) {
			t.Fatalf("expected %v, got %v", want, items)
		}
	})

	t.Run("worst", func(t *testing.T) {
		items := gen.Generate(WorstCase, 500)
		if !slices.IsSorted(items) {
			t.Fatalf("expected ascending items")
		}
		if items[0] < MinItem || items[len(items)-1] > MaxItem {
			t.Fatalf("items out of range: first %d last %d", items[0], items[len(items)-1])
		}
	})

	t.Run("empty", func(t *testing.T) {
		if items := gen.Generate(AverageCase, 0); len(items) != 0 {
			t.Fatalf("expected no items, got %v", items)
		}
	})
}

func TestGeneratorIsDeterministic(t *testing.T) {
	t.Parallel()

	a := NewGenerator(99).Generate(AverageCase, 200)
	b := NewGenerator(99).Generate(AverageCase, 200)
	if !slices.Equal(a, b) {
		t.Fatalf("expected identical sequences for the same seed")
	}
}

func TestParseCase(t *testing.T) {
	t.Parallel()

	got, err := ParseCase(" Worst ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != WorstCase {
		t.Fatalf("expected %q, got %q", WorstCase, got)
	}
	if _, err := ParseCase("median"); !errors.Is(err, ErrUnknownCase) {
		t.Fatalf("expected ErrUnknownCase, got %v", err)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	items := []int{3, 8, 1, 9, 2}
	var buf bytes.Buffer
	if err := Write(&buf, items); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if got := buf.String(); got != "3\n8\n1\n9\n2\n" {
		t.Fatalf("unexpected encoding %q", got)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !slices.Equal(got, items) {
		t.Fatalf("expected %v, got %v", items, got)
	}
}

func TestReadSkipsBlankLinesAndReportsBadLines(t *testing.T) {
	t.Parallel()

	got, err := Read(strings.NewReader("1\n\n  2 \n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{1, 2}; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	_, err = Read(strings.NewReader("1\n2\nx\n"))
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("expected ErrMalformedLine, got %v", err)
	}
	var lineErr *LineError
	if !errors.As(err, &lineErr) || lineErr.Line != 3 {
		t.Fatalf("expected error on line 3, got %v", err)
	}
}

func TestGenerateFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var seen []string
	paths, err := GenerateFiles(dir, []int{10, 20}, NewGenerator(5), func(path string) {
		seen = append(seen, path)
	})
	if err != nil {
		t.Fatalf("GenerateFiles returned error: %v", err)
	}
	if len(paths) != 6 || len(seen) != 6 {
		t.Fatalf("expected 6 files, got %d (callback %d)", len(paths), len(seen))
	}

	best, err := ReadFile(filepath.Join(dir, FileName(20, BestCase)))
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if len(best) != 20 || best[0] != 4 || best[1] != 6 {
		t.Fatalf("unexpected best-case file contents: %v", best)
	}

	if _, err := os.Stat(filepath.Join(dir, "10_worst.txt")); err != nil {
		t.Fatalf("expected worst-case file: %v", err)
	}
}

func TestGenerateFilesRejectsInvalidSize(t *testing.T) {
	t.Parallel()

	if _, err := GenerateFiles(t.TempDir(), []int{0}, NewGenerator(1), nil); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
