package dataset

import "fmt"

// SourceUnavailableError indicates the input file could not be opened or read.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// FormatError indicates structurally malformed tabular data, such as a row
// whose cell count disagrees with the header. Row is the 1-based data row
// (0 when the problem is not tied to a specific row).
type FormatError struct {
	Path string
	Row  int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed table: %s: row %d: %v", e.Path, e.Row, e.Err)
	}
	return fmt.Sprintf("malformed table: %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
