package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/fbpool/internal/format"
)

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Show the resolved pool layout",
		Long: `The layout command prints every size class the configuration resolves
to, with the per-block stride (payload plus header, 8-byte aligned) and the
bytes of backing storage each class reserves.

Example:
  poolctl layout
  FBPOOL_PRESET=balanced FBPOOL_CAPACITY=64 poolctl layout
  poolctl layout --config pools.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
}

// classRow is one size class in the layout report.
type classRow struct {
	Name      string `json:"name"`
	BlockSize int    `json:"block_size"`
	Stride    int    `json:"stride"`
	Capacity  int    `json:"capacity"`
	Bytes     int    `json:"bytes"`
}

type layoutReport struct {
	Preset    string     `json:"preset,omitempty"`
	Storage   string     `json:"storage"`
	Cascade   bool       `json:"cascade"`
	Strict    bool       `json:"strict"`
	Classes   []classRow `json:"classes"`
	Footprint int        `json:"footprint"`
}

func buildLayoutReport() layoutReport {
	rep := layoutReport{
		Preset:    layout.Preset,
		Storage:   layout.Storage,
		Cascade:   layout.Cascade,
		Strict:    layout.Strict,
		Footprint: layout.Footprint(),
	}
	for _, s := range layout.Sorted() {
		stride := format.SlotStride(s.BlockSize)
		rep.Classes = append(rep.Classes, classRow{
			Name:      s.Name,
			BlockSize: s.BlockSize,
			Stride:    stride,
			Capacity:  s.Capacity,
			Bytes:     stride * s.Capacity,
		})
	}
	return rep
}

func runLayout() error {
	rep := buildLayoutReport()
	if jsonOut {
		return printJSON(rep)
	}

	st := newStyles(stdout, noColor)
	p := message.NewPrinter(language.English)

	rows := make([][]string, 0, len(rep.Classes))
	for _, c := range rep.Classes {
		rows = append(rows, []string{
			c.Name,
			strconv.Itoa(c.BlockSize),
			strconv.Itoa(c.Stride),
			p.Sprintf("%d", c.Capacity),
			p.Sprintf("%d", c.Bytes),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.border).
		Headers("CLASS", "BLOCK", "STRIDE", "CAPACITY", "BYTES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case col == 0:
				return st.cell
			default:
				return st.number
			}
		})

	printInfo("%s\n", st.title.Render("Pool layout"))
	printInfo("%s\n", t.Render())
	printInfo("%s %s   %s %s   %s %t\n",
		st.muted.Render("storage:"), rep.Storage,
		st.muted.Render("classes:"), strconv.Itoa(len(rep.Classes)),
		st.muted.Render("cascade:"), rep.Cascade)
	printInfo("%s %s\n", st.muted.Render("footprint:"), p.Sprintf("%d bytes", rep.Footprint))
	return nil
}
