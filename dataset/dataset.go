// Package dataset implements the columnar in-memory dataset model
// (spec.md §4.6): a dataset owns its column descriptors and row storage,
// keeping per-column data contiguous for cache-friendly decode/encode
// loops and for compatibility with an external DataFrame interop layer.
package dataset

import (
	"time"

	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/internal/namecheck"
)

// sasEpoch is the SAS reference date (1960-01-01), used for Date/DateTime
// conversions (spec.md §4.6).
var sasEpoch = time.Date(1960, time.January, 1, 0, 0, 0, 0, time.UTC)

// Dataset is a columnar, caller-owned container of typed columns and
// rows (spec.md §3 "Dataset").
type Dataset struct {
	DomainCode   string
	DatasetLabel string
	DatasetType  string

	columns []colspec.Column
	data    [][]colspec.Value // data[col][row]
}

// New creates an empty dataset for domainCode. The name is not checked here
// or by AddColumn; an empty or invalid name is reported by the structural
// validation pass (validate.ValidateStructural), matching the teacher's
// pattern of deferring structural checks to a single validation pass.
func New(domainCode string) *Dataset {
	return &Dataset{DomainCode: domainCode}
}

// Columns returns the dataset's column descriptors in order.
func (d *Dataset) Columns() []colspec.Column {
	return append([]colspec.Column(nil), d.columns...)
}

// NumRows returns the number of rows currently stored.
func (d *Dataset) NumRows() int {
	if len(d.data) == 0 {
		return 0
	}
	return len(d.data[0])
}

// AddColumn appends a new, initially-empty column. Returns
// errs.ErrDuplicateColumn if name collides case-insensitively with an
// existing column (spec.md §3 "within a dataset names are unique under
// case-insensitive comparison").
func (d *Dataset) AddColumn(col colspec.Column) error {
	tracker := namecheck.NewTracker()
	for _, existing := range d.columns {
		if err := tracker.Track(existing.Name); err != nil {
			return err
		}
	}
	if err := tracker.Track(col.Name); err != nil {
		return err
	}

	col.Position = 0 // recomputed by colspec.Positions below
	d.columns = append(d.columns, col)
	d.data = append(d.data, make([]colspec.Value, d.NumRows()))
	colspec.Positions(d.columns)
	return nil
}

// AppendRow appends one value per column, in column order. Returns
// errs.ErrRowLengthMismatch if len(row) != len(columns).
func (d *Dataset) AppendRow(row []colspec.Value) error {
	if len(row) != len(d.columns) {
		return errs.ErrRowLengthMismatch
	}
	for i, v := range row {
		d.data[i] = append(d.data[i], v)
	}
	return nil
}

// Row returns a copy of the values at row index i, in column order.
func (d *Dataset) Row(i int) []colspec.Value {
	row := make([]colspec.Value, len(d.columns))
	for c := range d.columns {
		row[c] = d.data[c][i]
	}
	return row
}

// Column returns the stored values for the column at index i.
func (d *Dataset) Column(i int) []colspec.Value {
	return append([]colspec.Value(nil), d.data[i]...)
}

// RowLen returns the sum of all column lengths (the fixed observation
// record width once written).
func (d *Dataset) RowLen() int {
	total := 0
	for _, c := range d.columns {
		total += c.Length
	}
	return total
}

// DaysSinceEpoch converts a calendar date to the SAS Date encoding: days
// since 1960-01-01 (spec.md §4.6).
func DaysSinceEpoch(t time.Time) float64 {
	return t.Sub(sasEpoch).Hours() / 24
}

// SecondsSinceEpoch converts a timestamp to the SAS DateTime encoding:
// seconds since 1960-01-01T00:00:00 (spec.md §4.6).
func SecondsSinceEpoch(t time.Time) float64 {
	return t.Sub(sasEpoch).Seconds()
}

// DateFromDays converts a SAS Date value back to a calendar date.
func DateFromDays(days float64) time.Time {
	return sasEpoch.Add(time.Duration(days*24) * time.Hour)
}

// DateTimeFromSeconds converts a SAS DateTime value back to a timestamp.
func DateTimeFromSeconds(seconds float64) time.Time {
	return sasEpoch.Add(time.Duration(seconds * float64(time.Second)))
}

// SecondsSinceMidnight converts a time-of-day to the SAS Time encoding:
// seconds since midnight (spec.md §4.6).
func SecondsSinceMidnight(t time.Time) float64 {
	return float64(t.Hour()*3600 + t.Minute()*60 + t.Second())
}
