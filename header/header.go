package header

import (
	"strconv"
	"strings"
	"time"

	"github.com/xport-go/xptcore/errs"
)

// NamestrLenV5 is the fixed V5 NAMESTR record length, used to render the
// digit tail of the MEMBER header record (spec.md §4.3 step 4).
const NamestrLenV5 = 140

// Catalog holds the parsed metadata carried by the fixed header records
// that precede the NAMESTR table in every XPT file (spec.md §4.3).
type Catalog struct {
	Version      Version
	SasVersion   string
	OS           string
	CreatedAt    time.Time
	ModifiedAt   time.Time
	DatasetName  string
	DatasetType  string
	DatasetLabel string
	VarCount     int
}

func padTo(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	for i := 0; i < len(s) && i < n; i++ {
		c := s[i]
		if c > 127 {
			c = '?'
		}
		out[i] = c
	}
	return out
}

func trimField(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// BuildLibraryRecords renders the LIBRARY marker record plus the REAL and
// MODIFIED metadata data records (spec.md §4.3 steps 1-3): 3 records, 240
// bytes total.
func (c *Catalog) BuildLibraryRecords() [][recordLen]byte {
	marker := buildMarker(c.Version.libraryPrefix())

	var real [recordLen]byte
	for i := range real {
		real[i] = ' '
	}
	copy(real[0:24], "SAS     SAS     SASLIB  ")
	copy(real[24:32], padTo(c.SasVersion, 8))
	copy(real[32:40], padTo(c.OS, 8))
	// bytes 40..64 reserved/spaces
	copy(real[64:80], padTo(FormatTimestamp(c.CreatedAt), 16))

	var modified [recordLen]byte
	for i := range modified {
		modified[i] = ' '
	}
	copy(modified[0:16], padTo(FormatTimestamp(c.ModifiedAt), 16))
	// remaining 64 bytes are spaces

	return [][recordLen]byte{marker, real, modified}
}

// ParseLibraryRecords parses the 3 records produced by BuildLibraryRecords.
func ParseLibraryRecords(records [][]byte, v Version) (*Catalog, error) {
	if len(records) != 3 {
		return nil, &errs.InvalidHeaderError{Expected: "library header (3 records)"}
	}
	marker, real, modified := records[0], records[1], records[2]
	if !strings.HasPrefix(string(marker), v.libraryPrefix()) {
		return nil, &errs.InvalidHeaderError{Expected: v.libraryPrefix()}
	}

	c := &Catalog{Version: v}
	c.SasVersion = trimField(real[24:32])
	c.OS = trimField(real[32:40])
	createdAt, err := ParseTimestamp(string(real[64:80]))
	if err != nil {
		return nil, err
	}
	c.CreatedAt = createdAt

	modifiedAt, err := ParseTimestamp(string(modified[0:16]))
	if err != nil {
		return nil, err
	}
	c.ModifiedAt = modifiedAt

	return c, nil
}

// BuildMemberHeaderRecords renders the MEMBER marker (with the NAMESTR
// record length encoded in its ASCII digit tail) and the DSCRPTR marker
// (spec.md §4.3 steps 4-5).
func (c *Catalog) BuildMemberHeaderRecords() [][recordLen]byte {
	marker := buildMarker(c.Version.memberPrefix())
	namestrLen := c.Version.NamestrLen()
	lenDigits := strconv.Itoa(namestrLen)
	// Digits occupy the last 4 bytes before the trailing 2 spaces, per the
	// reference MEMBER_HEADER template ("...0000000140  ").
	tailStart := recordLen - 2 - len(lenDigits)
	copy(marker[tailStart:recordLen-2], lenDigits)

	dscrptr := buildMarker(c.Version.dscrptrPrefix())
	return [][recordLen]byte{marker, dscrptr}
}

// memberData1Layout returns the start offset and length of the dataset
// name field within MEMBER data record 1 for a given dialect; the fixed
// "SASDATA " and version/OS fields follow it directly.
func memberData1Layout(v Version) (nameOff, nameLen int) {
	return 8, v.MaxDatasetNameLen()
}

// BuildMemberDataRecord1 renders the fixed-size MEMBER data record 1
// (spec.md §4.3 step 6): always one 80-byte record in both dialects, since
// even a 32-byte V8 name fits alongside the surrounding fixed fields.
func (c *Catalog) BuildMemberDataRecord1() [recordLen]byte {
	nameOff, nameLen := memberData1Layout(c.Version)

	var rec1 [recordLen]byte
	for i := range rec1 {
		rec1[i] = ' '
	}
	copy(rec1[0:8], "SAS     ")
	copy(rec1[nameOff:nameOff+nameLen], padTo(c.DatasetName, nameLen))
	copy(rec1[nameOff+nameLen:nameOff+nameLen+8], "SASDATA ")
	copy(rec1[nameOff+nameLen+8:nameOff+nameLen+16], padTo(c.SasVersion, 8))
	copy(rec1[nameOff+nameLen+16:nameOff+nameLen+24], padTo(c.OS, 8))
	return rec1
}

// BuildMemberDataRecord2 renders the MEMBER data record 2 payload (spec.md
// §4.3 step 7): dataset_type + dataset_label + modification timestamp. A
// V8 256-byte label makes this payload wider than one 80-byte record; the
// caller writes it through a record-aligned Writer (package record),
// which pads the final partial record to the boundary.
func (c *Catalog) BuildMemberDataRecord2() []byte {
	labelLen := c.Version.MaxLabelLen()
	buf := make([]byte, 0, 8+labelLen+16)
	buf = append(buf, padTo(c.DatasetType, 8)...)
	buf = append(buf, padTo(c.DatasetLabel, labelLen)...)
	buf = append(buf, padTo(FormatTimestamp(c.ModifiedAt), 16)...)
	return buf
}

// ParseMemberHeader validates the MEMBER and DSCRPTR marker records and
// returns the NAMESTR record length encoded in the MEMBER marker's tail.
func ParseMemberHeader(marker, dscrptr []byte, v Version) (namestrLen int, err error) {
	if !strings.HasPrefix(string(marker), v.memberPrefix()) {
		return 0, &errs.InvalidHeaderError{Expected: v.memberPrefix()}
	}
	if !strings.HasPrefix(string(dscrptr), v.dscrptrPrefix()) {
		return 0, &errs.InvalidHeaderError{Expected: v.dscrptrPrefix()}
	}

	lenStr := strings.TrimLeft(string(marker[48:recordLen-2]), "0")
	if lenStr == "" {
		lenStr = "0"
	}
	n, convErr := strconv.Atoi(lenStr)
	if convErr != nil {
		return 0, errs.ErrNumericParse
	}
	return n, nil
}

// ParseMemberData parses MEMBER data record 1 (fixed 80 bytes) and the
// MEMBER data record 2 payload (which may be longer than 80 bytes for V8
// wide labels; the caller reassembles it from as many records as needed
// using BuildMemberDataRecord2's layout: 8 + MaxLabelLen + 16 bytes).
func ParseMemberData(data1, data2 []byte, v Version) (name, dtype, label string, err error) {
	nameOff, nameLen := memberData1Layout(v)
	name = trimField(data1[nameOff : nameOff+nameLen])

	labelLen := v.MaxLabelLen()
	if len(data2) < 8+labelLen {
		return "", "", "", &errs.InvalidFormatError{Message: "MEMBER data record 2 shorter than expected"}
	}
	dtype = trimField(data2[0:8])
	label = trimField(data2[8 : 8+labelLen])
	return name, dtype, label, nil
}

// MemberDataRecord2Len returns the exact byte length of the
// BuildMemberDataRecord2 payload for dialect v, before record-boundary
// padding.
func MemberDataRecord2Len(v Version) int {
	return 8 + v.MaxLabelLen() + 16
}

// namestrCountFieldLen returns the width of the variable-count digit field
// that starts at byte 54 of the NAMESTR header record: 4 bytes for V5
// (spec.md §4.3 "bytes 54..57 for V5"), wider for V8.
func namestrCountFieldLen(v Version) int {
	if v == V8 {
		return 8
	}
	return 4
}

// BuildNamestrHeaderRecord renders the NAMESTR header marker with the
// variable count encoded in ASCII digits (spec.md §4.3 step 8).
func BuildNamestrHeaderRecord(v Version, varCount int) [recordLen]byte {
	marker := buildMarker(v.namestrPrefix())
	digits := strconv.Itoa(varCount)
	start := 54
	end := start + namestrCountFieldLen(v)
	if end > recordLen-2 {
		end = recordLen - 2
	}
	field := make([]byte, end-start)
	for i := range field {
		field[i] = '0'
	}
	if len(digits) <= len(field) {
		copy(field[len(field)-len(digits):], digits)
	}
	copy(marker[start:end], field)
	return marker
}

// ParseNamestrHeaderRecord extracts the variable count from a NAMESTR
// header marker record.
func ParseNamestrHeaderRecord(rec []byte, v Version) (int, error) {
	if !strings.HasPrefix(string(rec), v.namestrPrefix()) {
		return 0, &errs.InvalidHeaderError{Expected: v.namestrPrefix()}
	}
	start := 54
	end := start + namestrCountFieldLen(v)
	if end > recordLen-2 {
		end = recordLen - 2
	}
	s := strings.TrimLeft(string(rec[start:end]), "0")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.ErrNumericParse
	}
	return n, nil
}

// BuildObsHeaderRecord renders the OBS header marker record (spec.md §4.3
// step 11).
func BuildObsHeaderRecord(v Version) [recordLen]byte {
	return buildMarker(v.obsPrefix())
}

// ParseObsHeaderRecord validates an OBS header marker record.
func ParseObsHeaderRecord(rec []byte, v Version) error {
	if !strings.HasPrefix(string(rec), v.obsPrefix()) {
		return &errs.InvalidHeaderError{Expected: v.obsPrefix()}
	}
	return nil
}

// LooksLikeObsHeader reports whether rec's prefix matches the OBS marker
// for v, used by the V8 reader to decide when the optional LABELV8/LABELV9
// section has ended (spec.md §4.3 step 10, §4.4 "V8 long-label overflow").
func LooksLikeObsHeader(rec []byte, v Version) bool {
	return strings.HasPrefix(string(rec), v.obsPrefix())
}

// LabelSectionKind distinguishes the two V8 long-label encodings.
type LabelSectionKind int

const (
	// NoLabelSection means all labels fit inline in the NAMESTR records.
	NoLabelSection LabelSectionKind = iota
	// LabelV8 is the default long-label section encoding.
	LabelV8
	// LabelV9 is used when a label's encoding can't be disambiguated by
	// LabelV8's length signals.
	LabelV9
)

func (k LabelSectionKind) prefix() string {
	switch k {
	case LabelV8:
		return labelv8Prefix
	case LabelV9:
		return labelv9Prefix
	default:
		return ""
	}
}

// DetectLabelSection inspects a record immediately following the NAMESTR
// block and reports which long-label section (if any) it introduces.
func DetectLabelSection(rec []byte) LabelSectionKind {
	s := string(rec)
	switch {
	case strings.HasPrefix(s, labelv8Prefix):
		return LabelV8
	case strings.HasPrefix(s, labelv9Prefix):
		return LabelV9
	default:
		return NoLabelSection
	}
}

// BuildLabelSectionHeader renders the LABELV8/LABELV9 marker record.
func BuildLabelSectionHeader(kind LabelSectionKind) [recordLen]byte {
	return buildMarker(kind.prefix())
}
