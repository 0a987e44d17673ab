package narrative

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/autolysis-cli/internal/correlate"
	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/KaramelBytes/autolysis-cli/internal/profile"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
)

const instructions = "You are a data analyst. Write a short narrative (3-5 paragraphs) about the dataset summarized below: what the data covers, notable distributions and missing data, and what the strongest correlations suggest. Plain prose only, no headings, no bullet lists, no code."

const (
	strongestPairs   = 8
	minSummaryTokens = 256
)

// Summarize renders the analysis results as a compact deterministic text
// block for the model prompt. Column order follows the dataset; correlation
// pairs are strongest first.
func Summarize(ds *dataset.Dataset, tp *profile.TableProfile, m *correlate.Matrix) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[DATASET]\n%s: %d rows, %d columns\n", ds.Name, ds.Rows, len(ds.Columns))
	if ds.Truncated {
		sb.WriteString("(row limit reached; statistics cover the loaded rows only)\n")
	}
	sb.WriteString("\n[COLUMNS]\n")
	for i := range tp.Columns {
		c := &tp.Columns[i]
		fmt.Fprintf(&sb, "- %s (%s): %d missing", c.Name, c.Kind, c.Missing)
		if c.Count > 0 {
			fmt.Fprintf(&sb, ", mean %.4g, std %.4g, range %.4g..%.4g", c.Mean, c.Std, c.Min, c.Max)
			if c.Outliers > 0 {
				fmt.Fprintf(&sb, ", %d outliers", c.Outliers)
			}
		}
		if len(c.TopValues) > 0 {
			tops := make([]string, 0, len(c.TopValues))
			for _, tv := range c.TopValues {
				tops = append(tops, fmt.Sprintf("%s (%d)", tv.Value, tv.Count))
			}
			fmt.Fprintf(&sb, ", frequent: %s", strings.Join(tops, ", "))
		}
		sb.WriteString("\n")
	}
	if pairs := m.Strongest(strongestPairs); len(pairs) > 0 {
		sb.WriteString("\n[CORRELATIONS]\n")
		for _, p := range pairs {
			fmt.Fprintf(&sb, "- %s vs %s: r=%.2f\n", p.A, p.B, p.R)
		}
	}
	return sb.String()
}

// BuildMessages assembles the chat messages, truncating the summary so
// prompt plus completion fit the model's context window.
func BuildMessages(summary, model string, maxTokens int) []Message {
	budget := 128000
	if mi, ok := LookupModel(model); ok && mi.ContextTokens > 0 {
		budget = mi.ContextTokens
	}
	budget -= maxTokens + utils.CountTokens(instructions)
	if budget < minSummaryTokens {
		budget = minSummaryTokens
	}
	if utils.CountTokens(summary) > budget {
		summary = utils.TruncateToTokenLimit(summary, budget)
	}
	return []Message{
		{Role: "system", Content: instructions},
		{Role: "user", Content: summary + "\n[TASK]\nWrite the narrative now."},
	}
}
