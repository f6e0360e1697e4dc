package header

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xport-go/xptcore/errs"
)

// DefaultTimestampString is the 1970-01-01 default header timestamp
// (spec.md §4.3). The writer does not use it: writer.New defaults both
// header timestamps to the current time.
const DefaultTimestampString = "01JAN70:00:00:00"

var monthAbbrev = [12]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

func monthNumber(abbrev string) (time.Month, bool) {
	u := strings.ToUpper(abbrev)
	for i, m := range monthAbbrev {
		if m == u {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// ParseTimestamp parses a SAS header timestamp "ddMMMyy:HH:MM:SS" (spec.md
// §4.3). Two-digit years 00-29 map to 2000-2029, 30-99 to 1930-1999.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < 16 {
		return time.Time{}, &errs.InvalidFormatError{Message: fmt.Sprintf("timestamp %q too short", s)}
	}

	day, err := strconv.Atoi(s[0:2])
	if err != nil {
		return time.Time{}, errs.ErrNumericParse
	}
	month, ok := monthNumber(s[2:5])
	if !ok {
		return time.Time{}, &errs.InvalidFormatError{Message: fmt.Sprintf("unrecognized month %q", s[2:5])}
	}
	yy, err := strconv.Atoi(s[5:7])
	if err != nil {
		return time.Time{}, errs.ErrNumericParse
	}
	year := 1900 + yy
	if yy <= 29 {
		year = 2000 + yy
	}
	if s[7:8] != ":" {
		return time.Time{}, &errs.InvalidFormatError{Message: "missing ':' after date portion"}
	}

	hour, err := strconv.Atoi(s[8:10])
	if err != nil || s[10:11] != ":" {
		return time.Time{}, errs.ErrNumericParse
	}
	minute, err := strconv.Atoi(s[11:13])
	if err != nil || s[13:14] != ":" {
		return time.Time{}, errs.ErrNumericParse
	}
	second, err := strconv.Atoi(s[14:16])
	if err != nil {
		return time.Time{}, errs.ErrNumericParse
	}

	return time.Date(year, month, day, hour, minute, second, 0, time.UTC), nil
}

// FormatTimestamp renders t as a SAS header timestamp "ddMMMyy:HH:MM:SS".
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%02d%s%02d:%02d:%02d:%02d",
		t.Day(), monthAbbrev[t.Month()-1], t.Year()%100,
		t.Hour(), t.Minute(), t.Second())
}
