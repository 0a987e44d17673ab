package profile

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table builds the describe view over every column: kind, counts, and
// numeric summaries where defined. Callers pick the output format through
// the writer's Render, RenderMarkdown, or RenderCSV.
func (tp *TableProfile) Table() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Kind", "Missing", "Count", "Unique", "Mean", "Std", "Min", "25%", "50%", "75%", "Max", "Outliers"})
	for i := range tp.Columns {
		c := &tp.Columns[i]
		t.AppendRow(table.Row{
			c.Name,
			string(c.Kind),
			c.Missing,
			c.NonNull,
			c.Unique,
			statCell(c.Count > 0, c.Mean),
			statCell(c.Count > 1, c.Std),
			statCell(c.Count > 0, c.Min),
			statCell(c.Count > 0, c.Q25),
			statCell(c.Count > 0, c.Median),
			statCell(c.Count > 0, c.Q75),
			statCell(c.Count > 0, c.Max),
			outlierCell(c),
		})
	}
	return t
}

// NumericTable builds the summary over numeric columns only, shaped for
// embedding in a markdown report.
func (tp *TableProfile) NumericTable() table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max", "Outliers"})
	for i := range tp.Columns {
		c := &tp.Columns[i]
		if !c.Kind.Numeric() {
			continue
		}
		t.AppendRow(table.Row{
			c.Name,
			c.Count,
			statCell(c.Count > 0, c.Mean),
			statCell(c.Count > 1, c.Std),
			statCell(c.Count > 0, c.Min),
			statCell(c.Count > 0, c.Q25),
			statCell(c.Count > 0, c.Median),
			statCell(c.Count > 0, c.Q75),
			statCell(c.Count > 0, c.Max),
			outlierCell(c),
		})
	}
	return t
}

func statCell(defined bool, v float64) string {
	if !defined {
		return ""
	}
	return fmt.Sprintf("%.4g", v)
}

func outlierCell(c *ColumnProfile) string {
	if c.Count < outlierMinObs {
		return ""
	}
	return fmt.Sprintf("%d", c.Outliers)
}
