// Package observation implements the XPT observation (row) codec
// (spec.md §4.5): fixed-width field encoding/decoding of one dataset row,
// guided by a column descriptor list.
package observation

import (
	"strings"

	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/ibmfloat"
)

// RowLen returns the total byte length of one observation row: the sum of
// every column's length (spec.md §4.5).
func RowLen(cols []colspec.Column) int {
	total := 0
	for _, c := range cols {
		total += c.Length
	}
	return total
}

// DefaultMissing is the missing-value kind substituted for NaN/±Inf when
// encoding a numeric value (spec.md §4.1).
const DefaultMissing = ibmfloat.Standard

// Encode renders one row as RowLen(cols) bytes using DefaultMissing for
// any NaN/±Inf numeric value (spec.md §4.5 "Row encoding"). len(row) must
// equal len(cols).
func Encode(cols []colspec.Column, row []colspec.Value) ([]byte, error) {
	return EncodeWithMissing(cols, row, DefaultMissing)
}

// EncodeWithMissing renders one row like Encode, substituting
// defaultMissing for any NaN/±Inf numeric value instead of the package
// default (spec.md §4.1 "reject NaN/±Inf by mapping to the configured
// default missing pattern", §6 "default_missing: MissingKind (write;
// substituted for NaN/±Inf)").
func EncodeWithMissing(cols []colspec.Column, row []colspec.Value, defaultMissing ibmfloat.MissingKind) ([]byte, error) {
	if len(row) != len(cols) {
		return nil, errs.ErrRowLengthMismatch
	}

	buf := make([]byte, RowLen(cols))
	off := 0
	for i, col := range cols {
		field := buf[off : off+col.Length]
		off += col.Length

		val := row[i]
		switch col.Kind {
		case colspec.Numeric:
			var field8 [ibmfloat.Size]byte
			if val.IsMissing() {
				field8 = ibmfloat.EncodeMissing(val.Missing)
			} else {
				field8 = ibmfloat.Encode(val.Num, defaultMissing)
			}
			truncated := ibmfloat.Truncate(field8, col.Length)
			copy(field, truncated)
		case colspec.Character:
			encodeCharField(field, val.Str)
		}
	}
	return buf, nil
}

// encodeCharField writes s into field, space-padded on the right and
// truncated to len(field); non-ASCII bytes are replaced with '?' per the
// agency ASCII rule (spec.md §4.5).
func encodeCharField(field []byte, s string) {
	for i := range field {
		field[i] = ' '
	}
	for i := 0; i < len(s) && i < len(field); i++ {
		c := s[i]
		if c > 127 {
			c = '?'
		}
		field[i] = c
	}
}

// DecodeOptions controls row decoding behavior.
type DecodeOptions struct {
	// TrimTrailingSpaces removes trailing 0x20 bytes from Character
	// values (spec.md §4.5 "caller-selected").
	TrimTrailingSpaces bool
}

// Decode splits row (exactly RowLen(cols) bytes) into column-width fields
// and decodes each per its column type (spec.md §4.5 "Row decoding").
func Decode(cols []colspec.Column, row []byte, opts DecodeOptions) ([]colspec.Value, error) {
	want := RowLen(cols)
	if len(row) != want {
		return nil, errs.ErrRowLengthMismatch
	}

	values := make([]colspec.Value, len(cols))
	off := 0
	for i, col := range cols {
		field := row[off : off+col.Length]
		off += col.Length

		switch col.Kind {
		case colspec.Numeric:
			padded := ibmfloat.PadRight(field)
			num, kind := ibmfloat.Decode(padded)
			if kind != ibmfloat.NotMissing {
				values[i] = colspec.MissingValue(kind)
			} else {
				values[i] = colspec.NumValue(num)
			}
		case colspec.Character:
			s := string(field)
			if opts.TrimTrailingSpaces {
				s = strings.TrimRight(s, " ")
			}
			values[i] = colspec.StrValue(s)
		}
	}
	return values, nil
}

// IsAllSpaceRow reports whether every byte of a raw row is 0x20, meaning
// it is trailing padding rather than a real observation (spec.md §4.5
// "Termination").
func IsAllSpaceRow(row []byte) bool {
	for _, b := range row {
		if b != ' ' {
			return false
		}
	}
	return true
}
