package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xport-go/xptcore/colspec"
)

func buildSampleDM(t *testing.T) *Dataset {
	t.Helper()
	d := New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "STUDYID", Kind: colspec.Character, Length: 8}))
	require.NoError(t, d.AddColumn(colspec.Column{Name: "USUBJID", Kind: colspec.Character, Length: 11}))
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AGE", Kind: colspec.Numeric, Length: 8}))
	require.NoError(t, d.AddColumn(colspec.Column{Name: "SEX", Kind: colspec.Character, Length: 1}))
	return d
}

func TestAddColumn_RejectsCaseInsensitiveDuplicate(t *testing.T) {
	d := New("DM")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AGE", Kind: colspec.Numeric, Length: 8}))
	err := d.AddColumn(colspec.Column{Name: "age", Kind: colspec.Numeric, Length: 8})
	require.Error(t, err)
}

func TestAppendRowAndRow(t *testing.T) {
	d := buildSampleDM(t)
	row := []colspec.Value{
		colspec.StrValue("STUDY001"),
		colspec.StrValue("STUDY001-01"),
		colspec.NumValue(45),
		colspec.StrValue("M"),
	}
	require.NoError(t, d.AppendRow(row))
	require.Equal(t, 1, d.NumRows())

	got := d.Row(0)
	require.Equal(t, "STUDY001", got[0].Str)
	require.Equal(t, "STUDY001-01", got[1].Str)
	require.Equal(t, float64(45), got[2].Num)
	require.Equal(t, "M", got[3].Str)
}

func TestAppendRow_RejectsLengthMismatch(t *testing.T) {
	d := buildSampleDM(t)
	err := d.AppendRow([]colspec.Value{colspec.NumValue(1)})
	require.Error(t, err)
}

func TestRowLen(t *testing.T) {
	d := buildSampleDM(t)
	require.Equal(t, 8+11+8+1, d.RowLen())
}

func TestColumnPositionsDerivedFromOrder(t *testing.T) {
	d := buildSampleDM(t)
	cols := d.Columns()
	require.Equal(t, 0, cols[0].Position)
	require.Equal(t, 8, cols[1].Position)
	require.Equal(t, 19, cols[2].Position)
	require.Equal(t, 27, cols[3].Position)
}

func TestDateTimeConversions_RoundTrip(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

	days := DaysSinceEpoch(ref.Truncate(24 * time.Hour))
	back := DateFromDays(days)
	require.Equal(t, ref.Truncate(24*time.Hour).Year(), back.Year())
	require.Equal(t, ref.Truncate(24*time.Hour).YearDay(), back.YearDay())

	secs := SecondsSinceEpoch(ref)
	back2 := DateTimeFromSeconds(secs)
	require.WithinDuration(t, ref, back2, time.Second)
}

func TestSecondsSinceMidnight(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 1, 2, 3, 0, time.UTC)
	require.Equal(t, float64(1*3600+2*60+3), SecondsSinceMidnight(ref))
}
