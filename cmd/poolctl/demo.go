package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/fbpool/fixed"
	"github.com/joshuapare/fbpool/internal/logger"
	"github.com/joshuapare/fbpool/xalloc"
)

// myDataSize is the size of the fixed-layout record the demo stores.
const myDataSize = 128

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run every pool and dispatcher operation once",
		Long: `The demo command allocates and frees a block from a dedicated 16-byte
pool, then drives the configured dispatcher through Alloc, Calloc, Realloc
and Free, and checks that every block was returned.

Example:
  poolctl demo
  poolctl demo -v
  FBPOOL_PRESET=small poolctl demo --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

// demoStep records one operation of the demo.
type demoStep struct {
	Op     string `json:"op"`
	Size   int    `json:"size"`
	Class  string `json:"class"`
	Usable int    `json:"usable"`
}

type demoReport struct {
	Steps      []demoStep   `json:"steps"`
	TestPool   fixed.Stats  `json:"test_pool"`
	Dispatcher xalloc.Stats `json:"dispatcher"`
}

// errLeak indicates blocks still in use after the demo freed everything.
var errLeak = errors.New("blocks still in use")

func runDemo() error {
	rep := demoReport{}

	test, err := fixed.New("test", 16, 5, layout.PoolOptions(logger.L)...)
	if err != nil {
		return err
	}
	defer test.Close()
	if err := test.Init(); err != nil {
		return err
	}

	data, err := test.Alloc()
	if err != nil {
		return err
	}
	clear(data)
	rep.Steps = append(rep.Steps, demoStep{Op: "pool alloc", Size: 16, Class: test.Name(), Usable: cap(data)})
	if err := test.Free(data); err != nil {
		return err
	}
	rep.Steps = append(rep.Steps, demoStep{Op: "pool free", Size: 16, Class: test.Name(), Usable: test.BlockSize()})

	d, err := layout.Build(logger.L)
	if err != nil {
		return err
	}
	defer d.Close()

	step := func(op string, size int, b []byte) {
		s := demoStep{Op: op, Size: size}
		if p, err := d.ClassFor(max(size, 1)); err == nil {
			s.Class = p.Name()
		}
		if b != nil {
			s.Usable = cap(b)
		}
		rep.Steps = append(rep.Steps, s)
		printVerbose("  %-8s %5d bytes -> %s (%d usable)\n", op, size, s.Class, s.Usable)
	}

	mem1, err := d.Alloc(28)
	if err != nil {
		return fmt.Errorf("alloc 28: %w", err)
	}
	step("alloc", 28, mem1)

	mem2, err := d.Calloc(1, 32)
	if err != nil {
		return fmt.Errorf("calloc 1x32: %w", err)
	}
	step("calloc", 32, mem2)

	mem2, err = d.Realloc(mem2, 128)
	if err != nil {
		return fmt.Errorf("realloc to 128: %w", err)
	}
	step("realloc", 128, mem2)

	clear(mem1)
	clear(mem2)

	if err := d.Free(mem1); err != nil {
		return fmt.Errorf("free: %w", err)
	}
	step("free", len(mem1), nil)
	if err := d.Free(mem2); err != nil {
		return fmt.Errorf("free: %w", err)
	}
	step("free", len(mem2), nil)

	myData, err := d.Alloc(myDataSize)
	if err != nil {
		return fmt.Errorf("alloc record: %w", err)
	}
	step("alloc", myDataSize, myData)
	clear(myData)
	if err := d.Free(myData); err != nil {
		return fmt.Errorf("free record: %w", err)
	}
	step("free", myDataSize, nil)

	rep.TestPool = test.Stats()
	rep.Dispatcher = d.Stats()

	if rep.TestPool.InUse != 0 || rep.Dispatcher.InUse != 0 {
		return fmt.Errorf("%w: test pool %d, dispatcher %d",
			errLeak, rep.TestPool.InUse, rep.Dispatcher.InUse)
	}
	if err := errors.Join(test.Verify(), d.Verify()); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rep)
	}

	st := newStyles(stdout, noColor)
	printInfo("%s %d operations across %d classes, all blocks returned\n",
		st.ok.Render("OK"), len(rep.Steps), len(rep.Dispatcher.Classes))
	return nil
}
