package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/fbpool/fixed"
	"github.com/joshuapare/fbpool/internal/bench"
	"github.com/joshuapare/fbpool/internal/logger"
)

var (
	benchRuns      int
	benchBlocks    int
	benchBlockSize int
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchRuns, "runs", 3, "Runs per allocator")
	cmd.Flags().IntVar(&benchBlocks, "blocks", bench.DefaultBlocks, "Blocks per fill phase")
	cmd.Flags().
		IntVar(&benchBlockSize, "block-size", bench.DefaultMaxBlockSize, "Largest block size requested")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Time the Go heap, a single pool and the dispatcher",
		Long: `The bench command drives three allocators through the same workload:
allocate --blocks blocks of half --block-size, free every other one, allocate
--blocks full-size blocks, free the rest of the first set, then free the
second set in reverse.

The single pool holds blocks of --block-size. The dispatcher uses the
configured layout, so its classes must cover both request sizes with enough
capacity; the default "bm" preset does for the default workload.

Example:
  poolctl bench
  poolctl bench --runs 5 --json
  FBPOOL_STORAGE=mlock poolctl bench --blocks 5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

func runBench() error {
	if benchRuns <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", benchRuns)
	}
	params := bench.Params{Blocks: benchBlocks, MaxBlockSize: benchBlockSize}

	pool, err := fixed.New("fb", benchBlockSize, params.PeakBlocks(), layout.PoolOptions(logger.L)...)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pool.Init(); err != nil {
		return err
	}

	d, err := layout.Build(logger.L)
	if err != nil {
		return err
	}
	defer d.Close()

	allocators := []struct {
		name string
		a    bench.Allocator
	}{
		{"heap", bench.Heap()},
		{"fb_allocator", bench.Pool(pool)},
		{"x_allocator", bench.Dispatcher(d)},
	}

	p := message.NewPrinter(language.English)
	var results []bench.Result
	for _, alloc := range allocators {
		for run := 1; run <= benchRuns; run++ {
			name := fmt.Sprintf("%s (Run %d)", alloc.name, run)
			printVerbose("Running %s\n", name)
			res, err := bench.Run(name, alloc.a, params)
			if err != nil {
				return err
			}
			logger.Debug("bench run complete", "allocator", alloc.name, "run", run, "total", res.Total)
			results = append(results, res)
			if !jsonOut {
				printResult(p, res)
			}
		}
	}

	if jsonOut {
		return printJSON(results)
	}
	return nil
}

func printResult(p *message.Printer, res bench.Result) {
	for _, ph := range res.Phases {
		printInfo("%s\n", p.Sprintf("%s %s time: %d µs (%d ops)",
			res.Name, ph.Name, ph.Duration.Microseconds(), ph.Ops))
	}
	printInfo("%s\n\n", p.Sprintf("%s TOTAL TIME: %d µs", res.Name, res.Total.Microseconds()))
}
