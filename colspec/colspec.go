// Package colspec defines the column descriptor and value types shared by
// the observation codec, dataset model, and schema planner (spec.md §3).
package colspec

import "github.com/xport-go/xptcore/ibmfloat"

// Kind is a variable's storage kind on the wire: Numeric (8-byte IBM
// float) or Character (fixed-width ASCII/UTF-8).
type Kind uint8

const (
	// Numeric variables store an IBM System/360 float.
	Numeric Kind = iota
	// Character variables store fixed-width text.
	Character
)

// Justification controls display alignment for a Format/Informat.
type Justification uint8

const (
	// JustifyDefault applies the consumer's default alignment.
	JustifyDefault Justification = iota
	// JustifyLeft left-aligns the displayed value.
	JustifyLeft
	// JustifyRight right-aligns the displayed value. Informats never use
	// this (spec.md §3: "Informats have no justification").
	JustifyRight
)

// Format describes a SAS format or informat attached to a variable. Name
// is stored verbatim without a trailing period (spec.md §3).
type Format struct {
	Name          string
	Width         int
	Decimals      int
	Justification Justification
}

// Column is one variable's descriptor (spec.md §3 "Column descriptor").
// Invariants: Kind == Numeric implies Length == 8; Kind == Character
// implies 1 <= Length <= 32767. Position is derived from preceding
// columns' lengths and is never stored independently by callers that own
// a column list — see colspec.Positions.
type Column struct {
	Name     string
	Kind     Kind
	Length   int
	Label    string
	Format   *Format
	Informat *Format
	Position int
	Role     string
}

// Positions recomputes Position for each column as the prefix sum of
// preceding lengths, and returns the total row length (spec.md §4.7 rule
// 6-7, §3 "position_in_row is derived ... never stored independently").
func Positions(cols []Column) (rowLen int) {
	pos := 0
	for i := range cols {
		cols[i].Position = pos
		pos += cols[i].Length
	}
	return pos
}

// MissingKind re-exports ibmfloat.MissingKind for callers that work with
// numeric values without importing ibmfloat directly.
type MissingKind = ibmfloat.MissingKind

// Value is a tagged union over the wire value kinds a column may hold
// (spec.md §3 "Numeric value", §4.6 "Supported column value kinds").
type Value struct {
	// Missing, when non-NotMissing, marks this value as one of the 28 SAS
	// missing codes; Num/Str are ignored.
	Missing MissingKind
	// Num holds the numeric payload when Kind == Numeric and not missing.
	Num float64
	// Str holds the character payload when Kind == Character.
	Str string
}

// NumValue constructs a present numeric value.
func NumValue(v float64) Value { return Value{Num: v} }

// StrValue constructs a present character value.
func StrValue(s string) Value { return Value{Str: s} }

// MissingValue constructs a missing value of the given kind.
func MissingValue(kind MissingKind) Value { return Value{Missing: kind} }

// IsMissing reports whether v represents a SAS missing value.
func (v Value) IsMissing() bool { return v.Missing != ibmfloat.NotMissing }
