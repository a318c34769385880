package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/pair-montecarlo/pkg/types"
)

// ConsoleReporter prints results as go-pretty tables
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to stdout
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterWithWriter creates a reporter writing to out
func NewConsoleReporterWithWriter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// PrintResults prints one line per worker row
func (r *ConsoleReporter) PrintResults(rows []types.SampleReturnStats) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("SAMPLE RETURNS")
	t.SetStyle(table.StyleRounded)

	header := table.Row{}
	for _, h := range ResultsHeader {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		cells := table.Row{}
		for _, c := range FormatRow(row) {
			cells = append(cells, c)
		}
		t.AppendRow(cells)
	}

	t.SetColumnConfigs(numericColumns(len(ResultsHeader)))
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintTopPoints prints the n best parameter points by mean net worth
func (r *ConsoleReporter) PrintTopPoints(points []PointSummary, n int) {
	if n > len(points) {
		n = len(points)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("TOP %d PARAMETER POINTS", n))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "min_return", "ma_duration", "samples", "avg_trades", "min", "max", "mean"})

	for i, p := range points[:n] {
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.4f", p.MinReturn),
			p.MADuration,
			p.Samples,
			fmt.Sprintf("%.2f", p.AvgTrades),
			fmt.Sprintf("%.2f", p.Min),
			fmt.Sprintf("%.2f", p.Max),
			fmt.Sprintf("%.2f", p.Mean),
		})
	}

	t.SetColumnConfigs(numericColumns(8))
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintRunInfo prints the key/value description of a run
func (r *ConsoleReporter) PrintRunInfo(title string, rows [][2]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)

	for _, kv := range rows {
		t.AppendRow(table.Row{kv[0], kv[1]})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 60, Align: text.AlignLeft},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

func numericColumns(n int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, n)
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignRight}
	}
	return configs
}
