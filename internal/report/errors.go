package report

import "fmt"

// SinkError reports an unwritable report destination.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink unwritable: %s: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
