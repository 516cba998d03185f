package search

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller mistakes such as an oversized sample.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrContentRead marks a failed content read; it aborts a content search.
	ErrContentRead = errors.New("content read failed")
)

// ContentReadError reports which file could not be read.
type ContentReadError struct {
	FileID string
	Err    error
}

func (e *ContentReadError) Error() string {
	return fmt.Sprintf("read content of %s: %v", e.FileID, e.Err)
}

func (e *ContentReadError) Unwrap() []error {
	return []error{ErrContentRead, e.Err}
}

// InvalidSampleSizeError is returned when more items are requested than the
// collection holds, or a negative count is given.
type InvalidSampleSizeError struct {
	N   int
	Len int
}

func (e *InvalidSampleSizeError) Error() string {
	return fmt.Sprintf("sample size %d out of range [0, %d]", e.N, e.Len)
}

func (e *InvalidSampleSizeError) Unwrap() error {
	return ErrInvalidArgument
}
