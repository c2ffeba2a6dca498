package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cheggaaa/pb/v3"
	"go.uber.org/zap"

	"github.com/eugenenazirov/binpacking/internal/bench"
	"github.com/eugenenazirov/binpacking/internal/config"
	"github.com/eugenenazirov/binpacking/internal/dataset"
	"github.com/eugenenazirov/binpacking/internal/logging"
	"github.com/eugenenazirov/binpacking/internal/packing"
	"github.com/eugenenazirov/binpacking/internal/render"
)

var demoItems = []int{3, 8, 2, 5, 7, 1, 9, 4, 6, 2}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "binpack: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	app *kingpin.Application

	configFile string
	logLevel   string

	pack struct {
		cmd         *kingpin.CmdClause
		algorithm   string
		capacity    int
		capacitySet bool
		file        string
		items       string
		verbose     bool
	}
	demo struct {
		cmd         *kingpin.CmdClause
		capacity    int
		capacitySet bool
		items       string
	}
	generate struct {
		cmd   *kingpin.CmdClause
		dir   string
		sizes string
		seed  uint64
	}
	bench struct {
		cmd         *kingpin.CmdClause
		dir         string
		sizes       string
		capacity    int
		capacitySet bool
		csv         string
		concurrency int
		inMemory    bool
		seed        uint64
		noProgress  bool
	}
}

func newCLI() *cli {
	c := &cli{}
	c.app = kingpin.New("binpack", "Bin packing toolkit - First Fit and First Fit Decreasing heuristics")
	c.app.Flag("config", "Path to YAML configuration file").StringVar(&c.configFile)
	c.app.Flag("log-level", "Log level (debug, info, warn, error)").StringVar(&c.logLevel)

	c.pack.cmd = c.app.Command("pack", "Pack a sequence of items and report the bins used")
	c.pack.cmd.Flag("algorithm", "Packing heuristic").Short('a').Default("ff").EnumVar(&c.pack.algorithm, "ff", "ffd")
	c.pack.cmd.Flag("capacity", "Bin capacity (defaults to the configured capacity)").IsSetByUser(&c.pack.capacitySet).IntVar(&c.pack.capacity)
	c.pack.cmd.Flag("file", "File with one item per line").Short('f').StringVar(&c.pack.file)
	c.pack.cmd.Flag("items", "Comma-separated items").StringVar(&c.pack.items)
	c.pack.cmd.Flag("verbose", "Print the contents of every bin").Short('v').BoolVar(&c.pack.verbose)

	c.demo.cmd = c.app.Command("demo", "Print FF and FFD bin assignments for a small input")
	c.demo.cmd.Flag("capacity", "Bin capacity").IsSetByUser(&c.demo.capacitySet).IntVar(&c.demo.capacity)
	c.demo.cmd.Flag("items", "Comma-separated items").StringVar(&c.demo.items)

	c.generate.cmd = c.app.Command("generate", "Write average, best and worst case input files")
	c.generate.cmd.Flag("dir", "Output directory").Default(".").StringVar(&c.generate.dir)
	c.generate.cmd.Flag("sizes", "Comma-separated input sizes (defaults to the configured sizes)").StringVar(&c.generate.sizes)
	c.generate.cmd.Flag("seed", "Random seed (0 picks one from the clock)").Uint64Var(&c.generate.seed)

	c.bench.cmd = c.app.Command("bench", "Time FF and FFD over generated inputs")
	c.bench.cmd.Flag("dir", "Directory holding generated input files").Default(".").StringVar(&c.bench.dir)
	c.bench.cmd.Flag("sizes", "Comma-separated input sizes (defaults to the configured sizes)").StringVar(&c.bench.sizes)
	c.bench.cmd.Flag("capacity", "Bin capacity (defaults to the configured capacity)").IsSetByUser(&c.bench.capacitySet).IntVar(&c.bench.capacity)
	c.bench.cmd.Flag("csv", "CSV file to append results to (empty to skip)").Default("results.csv").StringVar(&c.bench.csv)
	c.bench.cmd.Flag("concurrency", "Number of inputs processed in parallel").Default("4").IntVar(&c.bench.concurrency)
	c.bench.cmd.Flag("in-memory", "Generate inputs in memory instead of reading files").BoolVar(&c.bench.inMemory)
	c.bench.cmd.Flag("seed", "Random seed for in-memory inputs (0 picks one from the clock)").Uint64Var(&c.bench.seed)
	c.bench.cmd.Flag("no-progress", "Disable the progress bar").BoolVar(&c.bench.noProgress)

	return c
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := newCLI()
	c.app.UsageWriter(stdout)
	c.app.ErrorWriter(stderr)

	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	overrides := &config.CLIOverrides{ConfigFile: c.configFile}
	if c.logLevel != "" {
		overrides.LogLevel = &c.logLevel
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case c.pack.cmd.FullCommand():
		return c.runPack(cfg, stdout)
	case c.demo.cmd.FullCommand():
		return c.runDemo(cfg, stdout)
	case c.generate.cmd.FullCommand():
		return c.runGenerate(cfg, logger, stdout)
	case c.bench.cmd.FullCommand():
		return c.runBench(ctx, cfg, logger, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) runPack(cfg config.Config, stdout io.Writer) error {
	items, err := loadItems(c.pack.file, c.pack.items)
	if err != nil {
		return err
	}

	packer, err := packing.New(packing.Algorithm(c.pack.algorithm))
	if err != nil {
		return err
	}
	capacity := capacityOrDefault(c.pack.capacity, c.pack.capacitySet, cfg.BinCapacity)

	if !c.pack.verbose {
		bins, err := packer.Count(items, capacity)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "algorithm=%s capacity=%d bins=%d lower_bound=%d\n",
			packer.Name(), capacity, bins, packing.LowerBound(items, capacity))
		return err
	}

	result, err := packer.Pack(items, capacity)
	if err != nil {
		return err
	}
	if err := render.WriteSummary(stdout, result); err != nil {
		return err
	}
	return render.WriteBins(stdout, result)
}

func (c *cli) runDemo(cfg config.Config, stdout io.Writer) error {
	items := demoItems
	if c.demo.items != "" {
		parsed, err := parseItems(c.demo.items)
		if err != nil {
			return err
		}
		items = parsed
	}
	capacity := capacityOrDefault(c.demo.capacity, c.demo.capacitySet, cfg.BinCapacity)

	for i, algorithm := range packing.Algorithms() {
		packer, err := packing.New(algorithm)
		if err != nil {
			return err
		}
		result, err := packer.Pack(items, capacity)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintln(stdout, render.Title(algorithm))
		if err := render.WriteBins(stdout, result); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) runGenerate(cfg config.Config, logger *zap.Logger, stdout io.Writer) error {
	sizes, err := sizesOrDefault(c.generate.sizes, cfg.BenchSizes)
	if err != nil {
		return err
	}
	seed := seedOrClock(c.generate.seed)

	paths, err := dataset.GenerateFiles(c.generate.dir, sizes, dataset.NewGenerator(seed), func(path string) {
		logger.Debug("generated input", zap.String("path", path))
	})
	if err != nil {
		return err
	}

	logger.Info("data generation completed",
		zap.String("dir", c.generate.dir),
		zap.Ints("sizes", sizes),
		zap.Uint64("seed", seed),
		zap.Int("files", len(paths)),
	)
	_, err = fmt.Fprintf(stdout, "Generated %d files in %s\n", len(paths), c.generate.dir)
	return err
}

func (c *cli) runBench(ctx context.Context, cfg config.Config, logger *zap.Logger, stdout, stderr io.Writer) error {
	sizes, err := sizesOrDefault(c.bench.sizes, cfg.BenchSizes)
	if err != nil {
		return err
	}

	var jobs []bench.Job
	if c.bench.inMemory {
		jobs = bench.GeneratedJobs(sizes, seedOrClock(c.bench.seed))
	} else {
		jobs = bench.FileJobs(c.bench.dir, sizes)
	}

	runner := bench.NewRunner(capacityOrDefault(c.bench.capacity, c.bench.capacitySet, cfg.BinCapacity), logger)
	runner.Concurrency = c.bench.concurrency

	if !c.bench.noProgress {
		bar := pb.New(len(jobs)).SetWriter(stderr)
		bar.Start()
		defer bar.Finish()
		runner.OnDone = func(bench.Row) {
			bar.Increment()
		}
	}

	rows, err := runner.Run(ctx, jobs)
	if err != nil {
		return err
	}

	if c.bench.csv != "" {
		if err := appendCSV(c.bench.csv, time.Now(), rows); err != nil {
			return err
		}
		logger.Info("benchmark results recorded", zap.String("csv", c.bench.csv), zap.Int("rows", len(rows)))
	}

	return bench.WriteTable(stdout, rows)
}

func appendCSV(path string, timestamp time.Time, rows []bench.Row) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()
	return bench.WriteCSV(f, timestamp, rows)
}

func loadItems(file, inline string) ([]int, error) {
	switch {
	case file != "" && inline != "":
		return nil, fmt.Errorf("--file and --items are mutually exclusive")
	case file != "":
		return dataset.ReadFile(file)
	case inline != "":
		return parseItems(inline)
	default:
		return nil, fmt.Errorf("one of --file or --items is required")
	}
}

// parseItems accepts comma or whitespace separated integers. Values are not
// range checked; the packers report invalid items themselves.
func parseItems(raw string) ([]int, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return dataset.Read(strings.NewReader(strings.Join(fields, "\n")))
}

func sizesOrDefault(raw string, fallback []int) ([]int, error) {
	if raw == "" {
		return fallback, nil
	}
	sizes, err := config.ParseSizes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse sizes: %w", err)
	}
	return sizes, nil
}

// capacityOrDefault prefers an explicit flag, even a non-positive one, so the
// packers can reject it.
func capacityOrDefault(value int, set bool, fallback int) int {
	if set {
		return value
	}
	return fallback
}

func seedOrClock(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}
