package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
)

// ColumnProfile captures per-column counts and descriptive statistics.
// Numeric summaries are populated only for integer/float columns with at
// least one observation; TopValues only for text columns.
type ColumnProfile struct {
	Name    string
	Kind    dataset.Kind
	Missing int
	NonNull int
	Unique  int
	// Numeric summaries
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
	// Robust outliers via modified z-score (MAD)
	Outliers int
	// Most frequent values for text columns
	TopValues []ValueCount
}

type ValueCount struct {
	Value string
	Count int
}

// TableProfile holds one ColumnProfile per declared column, in declared order.
type TableProfile struct {
	Dataset string
	Rows    int
	Columns []ColumnProfile
}

const (
	outlierThreshold = 3.5
	outlierMinObs    = 8
	topValueCount    = 3
	uniqueGuard      = 10000
)

// Profile computes the profile of a dataset. It has no failure modes: an
// empty dataset (header only) yields all-zero counts.
func Profile(ds *dataset.Dataset) *TableProfile {
	tp := &TableProfile{Dataset: ds.Name, Rows: ds.Rows}
	tp.Columns = make([]ColumnProfile, 0, len(ds.Columns))
	for i := range ds.Columns {
		tp.Columns = append(tp.Columns, profileColumn(&ds.Columns[i]))
	}
	return tp
}

func profileColumn(c *dataset.Column) ColumnProfile {
	p := ColumnProfile{Name: c.Name, Kind: c.Kind}
	p.Missing = c.MissingCount()
	p.NonNull = len(c.Raw) - p.Missing

	seen := make(map[string]int)
	for i, v := range c.Raw {
		if c.Missing[i] {
			continue
		}
		if len(seen) <= uniqueGuard {
			seen[v]++
		}
	}
	p.Unique = len(seen)

	if c.Kind.Numeric() {
		// Welford for mean/variance, retained values for order statistics
		var n int
		var mean, m2 float64
		minV, maxV := math.Inf(1), math.Inf(-1)
		vals := make([]float64, 0, p.NonNull)
		for _, x := range c.Values {
			if math.IsNaN(x) {
				continue
			}
			n++
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
			if x < minV {
				minV = x
			}
			if x > maxV {
				maxV = x
			}
			vals = append(vals, x)
		}
		p.Count = n
		if n > 0 {
			p.Mean = mean
			p.Min = minV
			p.Max = maxV
			sort.Float64s(vals)
			p.Q25 = stat.Quantile(0.25, stat.Empirical, vals, nil)
			p.Median = stat.Quantile(0.5, stat.Empirical, vals, nil)
			p.Q75 = stat.Quantile(0.75, stat.Empirical, vals, nil)
		}
		if n > 1 {
			p.Std = math.Sqrt(m2 / float64(n-1))
		}
		if n >= outlierMinObs {
			p.Outliers = countOutliers(vals)
		}
		return p
	}

	if c.Kind == dataset.KindText && len(seen) > 0 {
		tops := make([]ValueCount, 0, len(seen))
		for v, cnt := range seen {
			tops = append(tops, ValueCount{Value: v, Count: cnt})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > topValueCount {
			tops = tops[:topValueCount]
		}
		p.TopValues = tops
	}
	return p
}

// countOutliers counts |modified z| > threshold using the MAD-scaled score
// 0.6745*(v-median)/mad. A zero MAD yields zero outliers.
func countOutliers(sorted []float64) int {
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	dev := make([]float64, len(sorted))
	for i, v := range sorted {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad := stat.Quantile(0.5, stat.Empirical, dev, nil)
	if mad == 0 {
		return 0
	}
	cnt := 0
	for _, v := range sorted {
		if math.Abs(0.6745*(v-median)/mad) > outlierThreshold {
			cnt++
		}
	}
	return cnt
}
