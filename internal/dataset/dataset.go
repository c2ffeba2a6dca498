package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	// MinItem and MaxItem bound generated item sizes (inclusive).
	MinItem = 1
	MaxItem = 10
)

// Case selects the distribution of a synthetic input.
type Case string

const (
	AverageCase Case = "average"
	BestCase    Case = "best"
	WorstCase   Case = "worst"
)

// bestPattern sums to the default bin capacity, so First Fit fills every bin.
var bestPattern = []int{4, 6}

// AllCases returns every case in report order.
func AllCases() []Case {
	return []Case{AverageCase, BestCase, WorstCase}
}

// ParseCase resolves a case name.
func ParseCase(raw string) (Case, error) {
	c := Case(strings.ToLower(strings.TrimSpace(raw)))
	if !slices.Contains(AllCases(), c) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCase, raw)
	}
	return c, nil
}

// Generator produces synthetic item sequences. A Generator is not safe for
// concurrent use.
type Generator struct {
	Min int
	Max int
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded deterministically.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		Min: MinItem,
		Max: MaxItem,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Generate returns n items following the requested distribution.
// Unknown cases fall back to the average distribution.
func (g *Generator) Generate(c Case, n int) []int {
	if n <= 0 {
		return []int{}
	}
	switch c {
	case BestCase:
		items := make([]int, n)
		for i := range items {
			items[i] = bestPattern[i%len(bestPattern)]
		}
		return items
	case WorstCase:
		items := g.random(n)
		slices.Sort(items)
		return items
	default:
		return g.random(n)
	}
}

func (g *Generator) random(n int) []int {
	span := g.Max - g.Min + 1
	items := make([]int, n)
	for i := range items {
		items[i] = g.rng.IntN(span) + g.Min
	}
	return items
}

// FileName returns the conventional file name for a generated input.
func FileName(n int, c Case) string {
	return fmt.Sprintf("%d_%s.txt", n, c)
}

// Write writes one item per line.
func Write(w io.Writer, items []int) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if _, err := bw.WriteString(strconv.Itoa(item)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read parses one integer per line, skipping blank lines.
func Read(r io.Reader) ([]int, error) {
	var items []int
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		value, err := strconv.Atoi(text)
		if err != nil {
			return nil, &LineError{Line: line, Text: text, Err: ErrMalformedLine}
		}
		items = append(items, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	return items, nil
}

// WriteFile stores items at path, creating or truncating the file.
func WriteFile(path string, items []int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	if err := Write(f, items); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads items from path.
func ReadFile(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	items, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return items, nil
}

// GenerateFiles writes one file per size and case into dir and returns the
// paths in generation order. onFile, when non-nil, is called after each file.
func GenerateFiles(dir string, sizes []int, gen *Generator, onFile func(path string)) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, len(sizes)*len(AllCases()))
	for _, n := range sizes {
		if n <= 0 {
			return paths, fmt.Errorf("%w: %d", ErrInvalidSize, n)
		}
		for _, c := range AllCases() {
			path := filepath.Join(dir, FileName(n, c))
			if err := WriteFile(path, gen.Generate(c, n)); err != nil {
				return paths, err
			}
			paths = append(paths, path)
			if onFile != nil {
				onFile(path)
			}
		}
	}
	return paths, nil
}
