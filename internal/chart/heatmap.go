// Package chart renders analysis results to PNG images using gonum/plot.
// Rendering is deterministic for a given input; degenerate inputs (all-NaN
// matrices, single columns) draw rather than fail, and inputs with nothing
// to draw return ErrNoData so callers can skip the image.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/autolysis-cli/internal/correlate"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
)

// ErrNoData reports that the input has nothing to draw.
var ErrNoData = errors.New("no plottable data")

const (
	heatmapWidth  = 7 * vg.Inch
	heatmapHeight = 6 * vg.Inch

	// Cell annotations become unreadable past this many columns.
	maxAnnotated = 12
)

// corrGrid adapts a correlation matrix to the plotter.GridXYZ interface.
// Rows are flipped so the first column of the matrix lands in the top row
// of the rendered heatmap.
type corrGrid struct {
	m *correlate.Matrix
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.Len()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	return g.m.At(g.m.Len()-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }

func (g corrGrid) Y(r int) float64 { return float64(r) }

// Heatmap renders the correlation matrix to a PNG file at path. The color
// scale is fixed to [-1, +1] whatever the data range, so charts from
// different datasets compare directly; undefined coefficients render as
// light gray cells annotated "n/a". Returns ErrNoData for an empty matrix.
func Heatmap(m *correlate.Matrix, path string) error {
	n := m.Len()
	if n == 0 {
		return ErrNoData
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	h := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	h.Min = -1
	h.Max = 1
	h.NaN = color.Gray{Y: 0xdd}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.X.Tick.Marker = columnTicks(m.Columns, false)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.Y.Tick.Marker = columnTicks(m.Columns, true)
	p.Add(h)

	if n <= maxAnnotated {
		labels, err := annotations(m)
		if err != nil {
			return fmt.Errorf("failed to build heatmap annotations: %w", err)
		}
		p.Add(labels)
	}

	return savePNG(p, heatmapWidth, heatmapHeight, path)
}

// columnTicks places one tick per column at the cell centers. Flipped ticks
// label the Y axis, where row order runs top to bottom.
func columnTicks(names []string, flipped bool) plot.ConstantTicks {
	n := len(names)
	ticks := make([]plot.Tick, n)
	for i, name := range names {
		v := float64(i)
		if flipped {
			v = float64(n - 1 - i)
		}
		ticks[i] = plot.Tick{Value: v, Label: name}
	}
	return plot.ConstantTicks(ticks)
}

// annotations overlays each cell with its coefficient to two decimals.
// Saturated cells get white text, pale cells black.
func annotations(m *correlate.Matrix) (*plotter.Labels, error) {
	n := m.Len()
	xys := make(plotter.XYs, 0, n*n)
	strs := make([]string, 0, n*n)
	vals := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.At(i, j)
			xys = append(xys, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			strs = append(strs, formatCoeff(v))
			vals = append(vals, v)
		}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: strs})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Font.Size = vg.Points(7)
		if v := vals[i]; !math.IsNaN(v) && math.Abs(v) > 0.65 {
			labels.TextStyle[i].Color = color.White
		}
	}
	return labels, nil
}

func formatCoeff(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// savePNG renders the plot to memory and writes it through the shared
// temp-and-rename path so an interrupted run never leaves a truncated image.
func savePNG(p *plot.Plot, w, h vg.Length, path string) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
