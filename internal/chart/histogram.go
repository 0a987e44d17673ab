package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	histogramBins   = 16
	histogramWidth  = 6 * vg.Inch
	histogramHeight = 4 * vg.Inch
)

// Histogram renders the distribution of a numeric column to a PNG file at
// path. NaN entries (missing or unparseable cells) are dropped before
// binning; if nothing remains, it returns ErrNoData and writes no file.
func Histogram(column string, values []float64, path string) error {
	vs := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		vs = append(vs, v)
	}
	if len(vs) == 0 {
		return ErrNoData
	}

	h, err := plotter.NewHist(vs, histogramBins)
	if err != nil {
		return fmt.Errorf("failed to bin %s: %w", column, err)
	}
	h.FillColor = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", column)
	p.X.Label.Text = column
	p.Y.Label.Text = "Count"
	p.Add(h)

	return savePNG(p, histogramWidth, histogramHeight, path)
}
