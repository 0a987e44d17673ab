package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

type csvReader struct{}

func (csvReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvReader) Read(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	br := bufio.NewReader(f)
	stripBOM(br)

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(br, path)
	}
	r := csv.NewReader(br)
	r.Comma = delim
	r.TrimLeadingSpace = true
	// FieldsPerRecord stays 0: the header fixes the width and every record
	// must match it, so ragged rows surface as parse errors below.

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Path: path, Err: errors.New("empty file: missing header row")}
		}
		return nil, readErr(path, 0, err)
	}

	var rows [][]string
	truncated := false
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, readErr(path, len(rows)+1, err)
		}
		rows = append(rows, rec)
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			truncated = true
			break
		}
	}
	return build(path, header, rows, opt, truncated)
}

// readErr maps csv parse errors to FormatError and I/O errors to
// SourceUnavailableError. row is the 1-based data row being read.
func readErr(path string, row int, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Path: path, Row: row, Err: err}
	}
	return &SourceUnavailableError{Path: path, Err: err}
}

func stripBOM(br *bufio.Reader) {
	b, err := br.Peek(3)
	if err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
}

// sniffDelimiter inspects the header line and picks the candidate delimiter
// that splits it into the most fields. .tsv files short-circuit to tab.
func sniffDelimiter(br *bufio.Reader, path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	peek, _ := br.Peek(4096)
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best := ','
	bestCount := strings.Count(line, ",")
	for _, c := range []rune{';', '\t', '|'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
