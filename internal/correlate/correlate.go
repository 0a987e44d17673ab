package correlate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
)

// Matrix is the pairwise Pearson correlation matrix over a dataset's numeric
// columns. Symmetry is held by the backing mat.SymDense. Undefined
// coefficients (fewer than two complete observations, or zero variance over
// the complete pairs) are NaN, never an error.
type Matrix struct {
	Columns []string
	vals    *mat.SymDense
}

// Len returns the number of numeric columns in the matrix.
func (m *Matrix) Len() int { return len(m.Columns) }

// At returns the coefficient for column pair (i, j).
func (m *Matrix) At(i, j int) float64 { return m.vals.At(i, j) }

// Sym exposes the backing symmetric matrix.
func (m *Matrix) Sym() *mat.SymDense { return m.vals }

// Pair names one off-diagonal coefficient.
type Pair struct {
	A, B string
	R    float64
}

// Strongest returns up to k defined off-diagonal pairs ordered by |r|
// descending. Undefined coefficients are skipped; ties keep column order.
func (m *Matrix) Strongest(k int) []Pair {
	var pairs []Pair
	n := m.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.At(i, j)
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, Pair{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].R) > math.Abs(pairs[b].R)
	})
	if k > 0 && len(pairs) > k {
		pairs = pairs[:k]
	}
	return pairs
}

// Compute builds the correlation matrix using pairwise-complete observations:
// each coefficient uses exactly the rows where both columns are non-missing.
// No rows are deleted globally and nothing is imputed.
func Compute(ds *dataset.Dataset) *Matrix {
	idx := ds.NumericColumns()
	names := make([]string, len(idx))
	for i, j := range idx {
		names[i] = ds.Columns[j].Name
	}
	m := &Matrix{Columns: names}
	n := len(idx)
	if n == 0 {
		return m
	}
	m.vals = mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		xa := ds.Columns[idx[a]].Values
		m.vals.SetSym(a, a, selfCorr(xa))
		for b := a + 1; b < n; b++ {
			m.vals.SetSym(a, b, pearson(xa, ds.Columns[idx[b]].Values))
		}
	}
	return m
}

// pearson computes the product-moment coefficient over rows where both values
// are present, clamped to [-1, 1]. A constant x or y subset (min == max over
// the complete pairs) is undefined and yields NaN.
func pearson(xs, ys []float64) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		n++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	if n < 2 || minX == maxX || minY == maxY {
		return math.NaN()
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom <= 0 || math.IsNaN(denom) {
		return math.NaN()
	}
	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// selfCorr is 1 for a column with at least two observations and nonzero
// variance, NaN otherwise.
func selfCorr(xs []float64) float64 {
	n := 0
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		n++
		if x < minV {
			minV = x
		}
		if x > maxV {
			maxV = x
		}
	}
	if n < 2 || minV == maxV {
		return math.NaN()
	}
	return 1
}
