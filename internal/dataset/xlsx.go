package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// xlsxReader extracts one worksheet from a .xlsx workbook and loads it like a
// delimited table. Only the workbook structure, relationships, shared strings,
// and cell values are touched; styles are ignored and formula results are read
// as stored.
type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxReader) Read(path string, opt Options) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, &FormatError{Path: path, Err: fmt.Errorf("not a valid xlsx archive: %w", err)}
	}

	sheets := parseWorkbook(zipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(zipFile(zr, "xl/_rels/workbook.xml.rels"))

	target := ""
	if opt.Sheet != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, opt.Sheet) {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			names := make([]string, len(sheets))
			for i, s := range sheets {
				names[i] = s.Name
			}
			return nil, &FormatError{Path: path, Err: fmt.Errorf("sheet %q not found (available: %s)", opt.Sheet, strings.Join(names, ", "))}
		}
	}
	if target == "" {
		// fall back to 1-based index; Sheet1 == 1
		idx := opt.SheetIndex
		if idx <= 0 {
			idx = 1
		}
		for _, s := range sheets {
			if s.SheetID == idx {
				if rel, ok := rels[s.RID]; ok {
					target = normalizeRelPath(rel)
				}
				break
			}
		}
		if target == "" {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", idx)
		}
	}

	shared := parseSharedStrings(zipFile(zr, "xl/sharedStrings.xml"))
	rr := newSheetRowReader(zipFile(zr, target), shared)

	header, ok := rr.Next()
	if !ok || len(header) == 0 {
		return nil, &FormatError{Path: path, Err: fmt.Errorf("sheet has no header row")}
	}
	ncol := len(header)

	var rows [][]string
	truncated := false
	for {
		row, ok := rr.Next()
		if !ok {
			break
		}
		// Worksheets omit trailing empty cells, so short rows are padded to
		// the header width; extra cells beyond it are a structural error.
		if len(row) > ncol {
			return nil, &FormatError{Path: path, Row: len(rows) + 1, Err: fmt.Errorf("row has %d cells, header declares %d", len(row), ncol)}
		}
		if len(row) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, row)
			row = tmp
		}
		rows = append(rows, row)
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			truncated = true
			break
		}
	}
	return build(path, header, rows, opt, truncated)
}

type sheetRef struct {
	Name    string
	SheetID int
	RID     string
}

// parseWorkbook extracts sheet entries with names and relationship ids.
func parseWorkbook(data []byte) []sheetRef {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []sheetRef
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s sheetRef
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID = atoi(a.Value)
			case "id": // r: namespace
				s.RID = a.Value
			}
		}
		sheets = append(sheets, s)
	}
}

// parseRelationships returns map[r:id]Target.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, tgt string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				tgt = a.Value
			}
		}
		if id != "" && tgt != "" {
			out[id] = tgt
		}
	}
}

func zipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return b
		}
	}
	return nil
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	inT := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "si" {
				buf.Reset()
			}
			if se.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			if se.Name.Local == "t" {
				inT = false
			}
			if se.Name.Local == "si" {
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write([]byte(se))
			}
		}
	}
}

// sheetRowReader iterates <row> elements, resolving shared strings and cell
// references like "C12" to 0-based column positions.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	inRow  bool
	cur    []string
	maxCol int
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *sheetRowReader) Next() ([]string, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				r.inRow = true
				r.cur = nil
				r.maxCol = 0
			}
			if r.inRow && se.Name.Local == "c" {
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := colIndexFromRef(ref)
				if col < 0 { // no cell reference; treat as next in sequence
					col = len(r.cur)
				}
				if col+1 > r.maxCol {
					r.maxCol = col + 1
				}
				val := r.cellValue(typ)
				if len(r.cur) <= col {
					tmp := make([]string, col+1)
					copy(tmp, r.cur)
					r.cur = tmp
				}
				r.cur[col] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.cur) < r.maxCol {
					tmp := make([]string, r.maxCol)
					copy(tmp, r.cur)
					r.cur = tmp
				}
				r.inRow = false
				return r.cur, true
			}
		}
	}
}

// cellValue reads until </c>, capturing <v> or inline <is><t> content.
func (r *sheetRowReader) cellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					tk, er := r.dec.Token()
					if er != nil {
						break
					}
					if ed, ok := tk.(xml.EndElement); ok && (ed.Name.Local == "v" || ed.Name.Local == "t") {
						break
					}
					if ch, ok := tk.(xml.CharData); ok {
						sb.Write([]byte(ch))
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if typ == "s" { // shared string
					idx := atoi(val)
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

func colIndexFromRef(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			i++
			continue
		}
		break
	}
	s := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(s); j++ {
		idx = idx*26 + int(s[j]-'A'+1)
	}
	return idx - 1
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// normalizeRelPath converts relationship Target paths to ZIP entry paths.
// Targets may carry a leading slash ("/xl/worksheets/sheet1.xml") or be
// relative to xl/ ("worksheets/sheet1.xml"); ZIP entries use neither.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return filepath.ToSlash(filepath.Join("xl", rel))
}
