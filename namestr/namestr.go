// Package namestr implements the NAMESTR variable descriptor record
// (spec.md §4.4): a fixed-layout binary record describing one column's
// type, length, name, label, format/informat, and byte position within
// an observation row.
package namestr

import (
	"strings"

	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/header"
)

// Type is the variable's storage kind.
type Type uint16

const (
	// Numeric variables store an 8-byte IBM float.
	Numeric Type = 1
	// Character variables store fixed-width ASCII/UTF-8 bytes.
	Character Type = 2
)

// Justification controls display alignment for a Format/Informat.
type Justification uint16

const (
	// JustifyDefault applies the consumer's default alignment.
	JustifyDefault Justification = 0
	// JustifyLeft left-aligns the displayed value.
	JustifyLeft Justification = 1
)

// Format describes a SAS format or informat attached to a variable.
// Informats never carry justification (spec.md §3).
type Format struct {
	Name          string
	Width         uint16
	Decimals      uint16
	Justification Justification
}

// Record is one parsed/built NAMESTR entry (spec.md §4.4 table).
type Record struct {
	Type      Type
	Length    uint16 // nlng
	VarNum    uint16 // nvar0, 1-based position in the NAMESTR sequence
	Name      string
	Label     string
	Format    Format
	Informat  Format
	Position  uint32 // npos, byte offset in the observation row
}

// layout returns the fixed field widths for dialect v (spec.md §4.4):
// name/format/informat width, label width, and total record length.
func layout(v header.Version) (nameWidth, labelWidth, recLen int) {
	if v == header.V8 {
		return 32, 256, v.NamestrLen()
	}
	return 8, 40, v.NamestrLen()
}

// Bytes encodes r as a fixed-length NAMESTR record for dialect v.
func (r Record) Bytes(v header.Version) []byte {
	nameWidth, labelWidth, recLen := layout(v)
	buf := make([]byte, recLen)
	for i := range buf {
		buf[i] = ' '
	}

	putU16(buf[0:2], uint16(r.Type))
	putU16(buf[2:4], 0) // nhfun, unused
	putU16(buf[4:6], r.Length)
	putU16(buf[6:8], r.VarNum)

	off := 8
	writeField(buf[off:off+nameWidth], r.Name)
	off += nameWidth
	writeField(buf[off:off+labelWidth], r.Label)
	off += labelWidth
	writeField(buf[off:off+nameWidth], r.Format.Name)
	off += nameWidth
	putU16(buf[off:off+2], r.Format.Width)
	off += 2
	putU16(buf[off:off+2], r.Format.Decimals)
	off += 2
	putU16(buf[off:off+2], uint16(r.Format.Justification))
	off += 2
	if v == header.V5 {
		putU16(buf[off:off+2], 0) // nfill
		off += 2
	}
	writeField(buf[off:off+nameWidth], r.Informat.Name)
	off += nameWidth
	putU16(buf[off:off+2], r.Informat.Width)
	off += 2
	putU16(buf[off:off+2], r.Informat.Decimals)
	off += 2
	putU32(buf[off:off+4], r.Position)
	// remaining bytes stay space-padded (reserved)

	return buf
}

// Parse decodes a fixed-length NAMESTR record for dialect v. index is the
// record's 1-based position in the NAMESTR sequence, used to validate
// nvar0 (spec.md §4.4: "nvar0 matches sequence position").
func Parse(data []byte, v header.Version, index int) (Record, error) {
	nameWidth, labelWidth, recLen := layout(v)
	if len(data) != recLen {
		return Record{}, &errs.InvalidNamestrError{Index: index, Message: "record length mismatch"}
	}

	r := Record{}
	ntype := getU16(data[0:2])
	switch ntype {
	case 1:
		r.Type = Numeric
	case 2:
		r.Type = Character
	default:
		return Record{}, &errs.InvalidNamestrError{Index: index, Message: "ntype must be 1 or 2"}
	}

	r.Length = getU16(data[4:6])
	if r.Length == 0 {
		return Record{}, &errs.InvalidNamestrError{Index: index, Message: "nlng must be > 0"}
	}
	r.VarNum = getU16(data[6:8])
	if int(r.VarNum) != index {
		return Record{}, &errs.InvalidNamestrError{Index: index, Message: "nvar0 does not match sequence position"}
	}

	off := 8
	r.Name = readField(data[off : off+nameWidth])
	off += nameWidth
	r.Label = readField(data[off : off+labelWidth])
	off += labelWidth
	r.Format.Name = readField(data[off : off+nameWidth])
	off += nameWidth
	r.Format.Width = getU16(data[off : off+2])
	off += 2
	r.Format.Decimals = getU16(data[off : off+2])
	off += 2
	r.Format.Justification = Justification(getU16(data[off : off+2]))
	off += 2
	if v == header.V5 {
		off += 2 // nfill
	}
	r.Informat.Name = readField(data[off : off+nameWidth])
	off += nameWidth
	r.Informat.Width = getU16(data[off : off+2])
	off += 2
	r.Informat.Decimals = getU16(data[off : off+2])
	off += 2
	r.Position = getU32(data[off : off+4])

	if r.Type == Numeric && r.Length != 8 {
		return Record{}, &errs.InvalidNamestrError{Index: index, Message: "numeric nlng must be 8"}
	}
	if r.Type == Character && (r.Length < 1 || r.Length > 32767) {
		return Record{}, &errs.InvalidNamestrError{Index: index, Message: "character nlng out of range 1..32767"}
	}

	return r, nil
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func getU16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func writeField(dst []byte, s string) {
	for i := range dst {
		dst[i] = ' '
	}
	for i := 0; i < len(s) && i < len(dst); i++ {
		c := s[i]
		if c > 127 {
			c = '?'
		}
		dst[i] = c
	}
}

func readField(src []byte) string {
	return strings.TrimRight(string(src), " \x00")
}
