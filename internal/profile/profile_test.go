package profile

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
)

func loadFixture(t *testing.T, content string) *dataset.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	ds, err := dataset.Load(path, dataset.Options{})
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return ds
}

func mean(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func sampleStd(vals []float64, m float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(vals)-1))
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) <= 1e-9 }

func TestProfileOrderMatchesColumns(t *testing.T) {
	ds := loadFixture(t, "c,a,b\n1,x,2\n3,y,4\n")
	tp := Profile(ds)
	if len(tp.Columns) != len(ds.Columns) {
		t.Fatalf("profiles = %d, want %d", len(tp.Columns), len(ds.Columns))
	}
	for i := range ds.Columns {
		if tp.Columns[i].Name != ds.Columns[i].Name {
			t.Errorf("profile %d = %q, want %q", i, tp.Columns[i].Name, ds.Columns[i].Name)
		}
	}
}

func TestProfileThreeRowScenario(t *testing.T) {
	ds := loadFixture(t, "full,sparse\n1,5\n2,\n3,6\n")
	tp := Profile(ds)
	if got := tp.Columns[0].Missing; got != 0 {
		t.Fatalf("full missing = %d, want 0", got)
	}
	if got := tp.Columns[1].Missing; got != 1 {
		t.Fatalf("sparse missing = %d, want 1", got)
	}
	if tp.Columns[0].NonNull != 3 || tp.Columns[1].NonNull != 2 {
		t.Fatalf("non-null = (%d, %d), want (3, 2)", tp.Columns[0].NonNull, tp.Columns[1].NonNull)
	}
}

func TestProfileEmptyDataset(t *testing.T) {
	ds := loadFixture(t, "a,b,c\n")
	tp := Profile(ds)
	if tp.Rows != 0 {
		t.Fatalf("rows = %d, want 0", tp.Rows)
	}
	if len(tp.Columns) != 3 {
		t.Fatalf("profiles = %d, want 3", len(tp.Columns))
	}
	for _, c := range tp.Columns {
		if c.Missing != 0 || c.NonNull != 0 || c.Count != 0 {
			t.Errorf("column %q counts = (%d, %d, %d), want zeros", c.Name, c.Missing, c.NonNull, c.Count)
		}
	}
}

func TestProfileNumericSummaries(t *testing.T) {
	ds := loadFixture(t, "v\n1\n2\n3\n4\n5\n")
	p := Profile(ds).Columns[0]
	vals := []float64{1, 2, 3, 4, 5}
	if p.Count != 5 {
		t.Fatalf("count = %d, want 5", p.Count)
	}
	if !almostEqual(p.Mean, mean(vals)) {
		t.Errorf("mean = %v, want %v", p.Mean, mean(vals))
	}
	if !almostEqual(p.Std, sampleStd(vals, mean(vals))) {
		t.Errorf("std = %v, want %v", p.Std, sampleStd(vals, mean(vals)))
	}
	if p.Min != 1 || p.Max != 5 {
		t.Errorf("min/max = (%v, %v), want (1, 5)", p.Min, p.Max)
	}
	if p.Q25 != 2 || p.Median != 3 || p.Q75 != 4 {
		t.Errorf("quartiles = (%v, %v, %v), want (2, 3, 4)", p.Q25, p.Median, p.Q75)
	}
}

func TestProfileNumericSkipsMissing(t *testing.T) {
	ds := loadFixture(t, "v,pad\n10,1\nNA,1\n20,1\n,1\n30,1\n")
	p := Profile(ds).Columns[0]
	if p.Count != 3 {
		t.Fatalf("count = %d, want 3", p.Count)
	}
	if !almostEqual(p.Mean, 20) {
		t.Fatalf("mean = %v, want 20", p.Mean)
	}
	if p.Missing != 2 {
		t.Fatalf("missing = %d, want 2", p.Missing)
	}
}

func TestProfileTopValues(t *testing.T) {
	ds := loadFixture(t, "country\nSweden\nNorway\nSweden\nChad\nSweden\nNorway\n")
	p := Profile(ds).Columns[0]
	if p.Kind != dataset.KindText {
		t.Fatalf("kind = %s, want text", p.Kind)
	}
	if p.Unique != 3 {
		t.Fatalf("unique = %d, want 3", p.Unique)
	}
	if len(p.TopValues) != 3 {
		t.Fatalf("top values = %d, want 3", len(p.TopValues))
	}
	if p.TopValues[0].Value != "Sweden" || p.TopValues[0].Count != 3 {
		t.Fatalf("top = %+v, want Sweden x3", p.TopValues[0])
	}
	if p.TopValues[1].Value != "Norway" || p.TopValues[1].Count != 2 {
		t.Fatalf("second = %+v, want Norway x2", p.TopValues[1])
	}
}

func TestProfileOutliers(t *testing.T) {
	rows := []string{"v"}
	for _, v := range []string{"10.0", "10.1", "9.9", "10.2", "9.8", "10.05", "9.95", "10.15", "100.0"} {
		rows = append(rows, v)
	}
	ds := loadFixture(t, strings.Join(rows, "\n")+"\n")
	p := Profile(ds).Columns[0]
	if p.Outliers != 1 {
		t.Fatalf("outliers = %d, want 1", p.Outliers)
	}
}

func TestProfileConstantColumnNoOutliers(t *testing.T) {
	ds := loadFixture(t, "v\n5\n5\n5\n5\n5\n5\n5\n5\n5\n")
	p := Profile(ds).Columns[0]
	if p.Outliers != 0 {
		t.Fatalf("outliers = %d, want 0 for zero MAD", p.Outliers)
	}
	if p.Std != 0 {
		t.Fatalf("std = %v, want 0", p.Std)
	}
}

func TestProfileCountInvariant(t *testing.T) {
	ds := loadFixture(t, "a,b\n1,\n,x\n2,y\n")
	tp := Profile(ds)
	for _, c := range tp.Columns {
		if c.Missing+c.NonNull != tp.Rows {
			t.Errorf("column %q: missing %d + non-null %d != rows %d", c.Name, c.Missing, c.NonNull, tp.Rows)
		}
		if c.Missing < 0 || c.Missing > tp.Rows {
			t.Errorf("column %q: missing %d outside [0, %d]", c.Name, c.Missing, tp.Rows)
		}
	}
}
