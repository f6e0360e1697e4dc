// Package header implements the XPT header catalog (spec.md §4.3): the
// chain of fixed 80-byte marker records (LIBRARY, MEMBER, DSCRPTR, NAMESTR,
// OBS, and their V8 counterparts), the REAL/MODIFIED metadata records, and
// dialect (V5/V8) auto-detection from the library prefix.
package header

// Version selects the XPT dialect. V5 is the traditional 8-byte-name,
// 40-byte-label format; V8 extends names to 32 bytes and labels to 256.
type Version int

const (
	// V5 is the traditional SAS Transport format.
	V5 Version = iota
	// V8 is the extended format with longer names and labels.
	V8
)

// String implements fmt.Stringer.
func (v Version) String() string {
	if v == V8 {
		return "v8"
	}
	return "v5"
}

// MaxVariableNameLen returns the maximum variable name length for this
// dialect (spec.md §3, §4.4).
func (v Version) MaxVariableNameLen() int {
	if v == V8 {
		return 32
	}
	return 8
}

// MaxLabelLen returns the maximum label length for this dialect.
func (v Version) MaxLabelLen() int {
	if v == V8 {
		return 256
	}
	return 40
}

// MaxDatasetNameLen returns the maximum dataset (domain code) name length.
func (v Version) MaxDatasetNameLen() int {
	if v == V8 {
		return 32
	}
	return 8
}

// NamestrLen returns the fixed NAMESTR record length for this dialect
// (spec.md §4.4): 140 bytes for V5. V8 widens nname/nform/niform to 32
// bytes and nlabel to 256, growing the fixed fields to 374 bytes before
// reserved padding rounds the record out to 400 bytes.
func (v Version) NamestrLen() int {
	if v == V8 {
		return 400
	}
	return 140
}

const recordLen = 80

// Header prefixes, spec.md §4.3. Each is exactly 48 bytes; the full 80-byte
// record is this prefix + 30 bytes of '0' + 2 spaces (see buildMarker).
const (
	libraryPrefixV5 = "HEADER RECORD*******LIBRARY HEADER RECORD!!!!!!!"
	memberPrefixV5  = "HEADER RECORD*******MEMBER  HEADER RECORD!!!!!!!"
	dscrptrPrefixV5 = "HEADER RECORD*******DSCRPTR HEADER RECORD!!!!!!!"
	namestrPrefixV5 = "HEADER RECORD*******NAMESTR HEADER RECORD!!!!!!!"
	obsPrefixV5     = "HEADER RECORD*******OBS     HEADER RECORD!!!!!!!"

	libraryPrefixV8 = "HEADER RECORD*******LIBV8   HEADER RECORD!!!!!!!"
	memberPrefixV8  = "HEADER RECORD*******MEMBV8  HEADER RECORD!!!!!!!"
	dscrptrPrefixV8 = "HEADER RECORD*******DSCPTV8 HEADER RECORD!!!!!!!"
	namestrPrefixV8 = "HEADER RECORD*******NAMSTV8 HEADER RECORD!!!!!!!"
	obsPrefixV8     = "HEADER RECORD*******OBSV8   HEADER RECORD!!!!!!!"

	labelv8Prefix = "HEADER RECORD*******LABELV8 HEADER RECORD!!!!!!!"
	labelv9Prefix = "HEADER RECORD*******LABELV9 HEADER RECORD!!!!!!!"
)

func (v Version) libraryPrefix() string {
	if v == V8 {
		return libraryPrefixV8
	}
	return libraryPrefixV5
}

func (v Version) memberPrefix() string {
	if v == V8 {
		return memberPrefixV8
	}
	return memberPrefixV5
}

func (v Version) dscrptrPrefix() string {
	if v == V8 {
		return dscrptrPrefixV8
	}
	return dscrptrPrefixV5
}

func (v Version) namestrPrefix() string {
	if v == V8 {
		return namestrPrefixV8
	}
	return namestrPrefixV5
}

func (v Version) obsPrefix() string {
	if v == V8 {
		return obsPrefixV8
	}
	return obsPrefixV5
}

// buildMarker constructs an 80-byte marker record: prefix + 30 '0' bytes +
// 2 trailing spaces (spec.md §4.3).
func buildMarker(prefix string) [recordLen]byte {
	var rec [recordLen]byte
	copy(rec[:], prefix)
	for i := len(prefix); i < recordLen-2; i++ {
		rec[i] = '0'
	}
	rec[recordLen-2] = ' '
	rec[recordLen-1] = ' '
	return rec
}

// DetectVersion inspects the first 80-byte record of a file and returns
// the dialect it declares. Only the library prefix is consulted at read
// time, per spec.md §4.3 ("Dialect selection at read time is made from the
// library prefix alone").
func DetectVersion(firstRecord []byte) (Version, bool) {
	s := string(firstRecord)
	switch {
	case len(firstRecord) >= len(libraryPrefixV5) && s[:len(libraryPrefixV5)] == libraryPrefixV5:
		return V5, true
	case len(firstRecord) >= len(libraryPrefixV8) && s[:len(libraryPrefixV8)] == libraryPrefixV8:
		return V8, true
	default:
		return V5, false
	}
}
