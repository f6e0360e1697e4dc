// Package errs defines the error taxonomy shared by every xptcore package.
//
// Framing errors (I/O, alignment, header mismatches) are sentinel values or
// small structs wrapping a sentinel, so callers can compare with errors.Is.
// Validation failures are carried structurally as a list of issues rather
// than flattened into a single error; see the validate package.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for record- and framing-level failures (spec.md §7).
var (
	ErrFileNotFound        = errors.New("xptcore: file not found")
	ErrAlignment           = errors.New("xptcore: record not aligned to 80 bytes")
	ErrUnexpectedEOF       = errors.New("xptcore: unexpected end of file")
	ErrTrailingBytes       = errors.New("xptcore: trailing non-space bytes")
	ErrRecordOutOfBounds   = errors.New("xptcore: record access out of bounds")
	ErrObservationOverflow = errors.New("xptcore: observation length overflow")
	ErrFloatConversion     = errors.New("xptcore: IBM/IEEE float conversion failure")
	ErrNumericParse        = errors.New("xptcore: failed to parse numeric header field")
	ErrDuplicateColumn     = errors.New("xptcore: duplicate column name")
	ErrRowLengthMismatch   = errors.New("xptcore: row length does not match column count")
	ErrPlanFinalized       = errors.New("xptcore: schema plan is immutable once built")
	ErrValidation          = errors.New("xptcore: dataset failed validation")
)

// InvalidHeaderError reports a header prefix mismatch at a known offset.
type InvalidHeaderError struct {
	Expected string
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("xptcore: invalid XPT header: expected %s", e.Expected)
}

// InvalidNamestrError reports a structural failure in the i-th NAMESTR record.
type InvalidNamestrError struct {
	Index   int
	Message string
}

func (e *InvalidNamestrError) Error() string {
	return fmt.Sprintf("xptcore: invalid NAMESTR record at index %d: %s", e.Index, e.Message)
}

// InvalidFormatError reports any other framing-level parse failure.
type InvalidFormatError struct {
	Message string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("xptcore: invalid format: %s", e.Message)
}
