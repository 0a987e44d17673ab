// Package report assembles analysis outputs into the final markdown
// document. The section structure is fixed; rendering the same inputs twice
// produces byte-identical text, with no timestamps or environment details.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/KaramelBytes/autolysis-cli/internal/profile"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
)

// Report holds everything the document embeds.
type Report struct {
	Dataset *dataset.Dataset
	Profile *profile.TableProfile

	// Images holds report-relative image paths in embed order, heatmap first.
	Images []string

	// NumericSummary, when non-empty, is inserted as a "### Numeric Summary"
	// section between the missing-value listing and the visualizations.
	NumericSummary string

	// Narrative, when non-empty, is appended as a "## Narrative" section.
	Narrative string
}

// Markdown renders the document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Automated Analysis\n\n## Summary\n\n### Columns:\n")
	for i := range r.Dataset.Columns {
		c := &r.Dataset.Columns[i]
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Kind)
	}
	b.WriteString("\n### Missing Values:\n")
	for i := range r.Profile.Columns {
		p := &r.Profile.Columns[i]
		fmt.Fprintf(&b, "- %s: %d\n", p.Name, p.Missing)
	}
	if r.NumericSummary != "" {
		b.WriteString("\n### Numeric Summary\n\n")
		b.WriteString(strings.TrimRight(r.NumericSummary, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\n### Visualizations\n")
	for _, img := range r.Images {
		fmt.Fprintf(&b, "![Visualization](%s)\n", img)
	}
	if r.Narrative != "" {
		b.WriteString("\n## Narrative\n\n")
		b.WriteString(strings.TrimRight(r.Narrative, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// WriteFile renders the document and writes it through a temp file and
// rename, so an aborted run never leaves a partial report on disk. Every
// filesystem failure maps to a *SinkError wrapping the cause.
func (r *Report) WriteFile(path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return &SinkError{Path: path, Err: err}
	}
	if err := utils.SafeWriteFile(path, []byte(r.Markdown())); err != nil {
		return &SinkError{Path: path, Err: err}
	}
	return nil
}
