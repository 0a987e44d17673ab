package dataset

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindText    Kind = "text"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
)

// Numeric reports whether columns of this kind participate in correlation.
func (k Kind) Numeric() bool { return k == KindInteger || k == KindFloat }

// Column holds one column of a loaded table. Raw keeps the trimmed cell text
// in row order; Values holds the parsed number per row and is NaN wherever the
// cell is missing or does not parse. For columns whose Kind is numeric, NaN in
// Values means exactly "missing".
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string
	Values  []float64
	Missing []bool
}

// MissingCount returns the number of missing cells in the column.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Dataset is an immutable in-memory table: ordered, typed columns of equal
// length. It is created once by a Reader and never mutated afterwards.
type Dataset struct {
	Name      string
	Columns   []Column
	Rows      int
	Truncated bool
}

// NumericColumns returns the indices of integer and float columns in declared order.
func (d *Dataset) NumericColumns() []int {
	var idx []int
	for i := range d.Columns {
		if d.Columns[i].Kind.Numeric() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Options controls loading behavior. The zero value is ready to use:
// delimiter sniffing, '.' decimal separator, no row cap, first sheet.
type Options struct {
	// Delimiter for delimited text. If 0, auto-detects among ',', ';', '\t', '|'.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// MaxRows caps ingested rows; 0 means unlimited. Rows beyond the cap are
	// neither read nor validated, and Dataset.Truncated is set.
	MaxRows int
	// XLSX sheet selection: by name, or by 1-based index when Sheet is empty.
	Sheet      string
	SheetIndex int
}

// Conventional markers treated as missing, after whitespace trimming.
// Follows the common spreadsheet/CSV conventions for null cells.
var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"null": true,
	"NULL": true,
	"NaN":  true,
	"nan":  true,
	"-":    true,
}

func isMissing(v string) bool { return missingMarkers[v] }

// build assembles a Dataset from a header and raw rows. Every row must have
// exactly as many cells as the header; readers that cannot guarantee this
// structurally (XLSX) pad short rows before calling.
func build(path string, header []string, rows [][]string, opt Options, truncated bool) (*Dataset, error) {
	ncol := len(header)
	if ncol == 0 {
		return nil, &FormatError{Path: path, Err: errors.New("header row has no columns")}
	}
	for i, rec := range rows {
		if len(rec) != ncol {
			return nil, &FormatError{Path: path, Row: i + 1, Err: fmt.Errorf("row has %d cells, header declares %d", len(rec), ncol)}
		}
	}
	ds := &Dataset{Name: filepath.Base(path), Rows: len(rows), Truncated: truncated}
	ds.Columns = make([]Column, ncol)
	for j := 0; j < ncol; j++ {
		col := Column{
			Name:    strings.TrimSpace(header[j]),
			Raw:     make([]string, len(rows)),
			Values:  make([]float64, len(rows)),
			Missing: make([]bool, len(rows)),
		}
		var intCnt, floatCnt, textCnt int
		for i, rec := range rows {
			v := strings.TrimSpace(rec[j])
			col.Raw[i] = v
			col.Values[i] = math.NaN()
			if isMissing(v) {
				col.Missing[i] = true
				continue
			}
			if x, isInt, ok := parseNumber(v, opt); ok {
				col.Values[i] = x
				if isInt {
					intCnt++
				} else {
					floatCnt++
				}
			} else {
				textCnt++
			}
		}
		// Kind census over non-missing cells: any unparseable cell makes the
		// column text; any fractional/exponent form makes it float.
		switch {
		case textCnt > 0 || intCnt+floatCnt == 0:
			col.Kind = KindText
		case floatCnt > 0:
			col.Kind = KindFloat
		default:
			col.Kind = KindInteger
		}
		ds.Columns[j] = col
	}
	return ds, nil
}

// parseNumber parses a cell as a number, honoring the configured or detected
// decimal/thousands separators. isInt reports whether the normalized text is
// in integer form ("5.0" is not).
func parseNumber(s string, opt Options) (val float64, isInt bool, ok bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.TrimLeft(raw, "$€£")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, false
	}
	return f, !strings.ContainsAny(raw, ".eEpPxX"), true
}
