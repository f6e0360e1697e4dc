package xptcore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/reader"
	"github.com/xport-go/xptcore/record"
	"github.com/xport-go/xptcore/validate"
	"github.com/xport-go/xptcore/writer"
)

// Scenario 1 (spec.md §8): a one-row DM dataset round-trips exactly under
// V5 with no policy, and the file is record-aligned.
func TestScenario1_DMRoundTrip(t *testing.T) {
	ds, err := NewDataset("DM", []colspec.Column{
		{Name: "STUDYID", Kind: colspec.Character, Length: 8},
		{Name: "USUBJID", Kind: colspec.Character, Length: 11},
		{Name: "AGE", Kind: colspec.Numeric, Length: 8},
		{Name: "SEX", Kind: colspec.Character, Length: 1},
	})
	require.NoError(t, err)
	require.NoError(t, ds.AppendRow([]colspec.Value{
		colspec.StrValue("STUDY001"),
		colspec.StrValue("STUDY001-01"),
		colspec.NumValue(45),
		colspec.StrValue("M"),
	}))

	dir := t.TempDir()
	path := filepath.Join(dir, "dm.xpt")
	require.NoError(t, WriteFile(path, ds))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, record.AlignedLength(fi.Size()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "DM", got.DomainCode)
	require.Equal(t, 1, got.NumRows())
	row := got.Row(0)
	require.Equal(t, "STUDY001", row[0].Str)
	require.Equal(t, "STUDY001-01", row[1].Str)
	require.Equal(t, float64(45), row[2].Num)
	require.Equal(t, "M", row[3].Str)
}

// Scenario 2 (spec.md §8): a 3-row AE dataset writes clean under FDA policy
// and reads back preserving row order.
func TestScenario2_AEThreeRowsUnderFDA(t *testing.T) {
	ds, err := NewDataset("AE", []colspec.Column{
		{Name: "AESEQ", Kind: colspec.Numeric, Length: 8},
		{Name: "USUBJID", Kind: colspec.Character, Length: 20},
	})
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		require.NoError(t, ds.AppendRow([]colspec.Value{
			colspec.NumValue(float64(i)),
			colspec.StrValue(fmt.Sprintf("01-%03d", i)),
		}))
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "ae.xpt")
	require.NoError(t, WriteFile(path, ds, writer.WithPolicy(validate.FDA())))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, got.NumRows())
	for i := 0; i < 3; i++ {
		require.Equal(t, float64(i+1), got.Row(i)[0].Num)
	}
}

// Scenario 3 (spec.md §8): a non-ASCII dataset name plans successfully
// (the planner has no ASCII requirement) but fails FDA policy validation
// with an AGENCY_001 error targeting that dataset, and the writer refuses
// to emit.
func TestScenario3_NonASCIIDatasetNameRejectedByFDA(t *testing.T) {
	ds, err := NewDataset("AÉ", []colspec.Column{
		{Name: "FLAG", Kind: colspec.Numeric, Length: 8},
	})
	require.NoError(t, err)

	w := writer.New(ds, writer.WithPolicy(validate.FDA()))
	vw, err := w.Validate("ae.xpt")
	require.NoError(t, err)
	require.True(t, vw.Issues().HasErrors())

	found := false
	for _, issue := range vw.Issues() {
		if issue.Code == "AGENCY_001" {
			found = true
		}
	}
	require.True(t, found, "expected an AGENCY_001 issue, got %+v", vw.Issues())

	dir := t.TempDir()
	path := filepath.Join(dir, "ae.xpt")
	err = WriteFile(path, ds, writer.WithPolicy(validate.FDA()))
	require.ErrorIs(t, err, errs.ErrValidation)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

// Scenario 4 (spec.md §8): case-sensitive duplicate column names fail at
// Dataset construction, not at the writer stage.
func TestScenario4_DuplicateColumnNamesFailAtConstruction(t *testing.T) {
	_, err := NewDataset("DM", []colspec.Column{
		{Name: "A", Kind: colspec.Numeric, Length: 8},
		{Name: "A", Kind: colspec.Numeric, Length: 8},
	})
	require.ErrorIs(t, err, errs.ErrDuplicateColumn)
}

// Scenario 5 (spec.md §8): a large dataset under a tight size ceiling
// splits into several "<stem>_NNN.xpt" files whose total row count is
// preserved.
func TestScenario5_LargeDatasetSplitsAcrossFiles(t *testing.T) {
	cols := []colspec.Column{
		{Name: "AESEQ", Kind: colspec.Numeric, Length: 8},
		{Name: "AETERM", Kind: colspec.Character, Length: 192},
	}
	ds, err := NewDataset("AE", cols)
	require.NoError(t, err)
	for i := 0; i < 10000; i++ {
		require.NoError(t, ds.AppendRow([]colspec.Value{
			colspec.NumValue(float64(i)),
			colspec.StrValue("adverse event term"),
		}))
	}

	w := writer.New(ds, writer.WithMaxSizeGB(0.000001))
	vw, err := w.Validate("ae.xpt")
	require.NoError(t, err)
	require.False(t, vw.Issues().HasErrors())

	dir := t.TempDir()
	path := filepath.Join(dir, "ae.xpt")
	files, err := vw.Write(path)
	require.NoError(t, err)
	require.Greater(t, len(files), 1)

	totalRows := 0
	for _, f := range files {
		ds2, err := reader.ReadFile(f)
		require.NoError(t, err)
		totalRows += ds2.NumRows()
	}
	require.Equal(t, 10000, totalRows)
}

// A written file's length is always a positive multiple of 80, and a
// zero-row dataset writes a header-only file (spec.md §8 universal
// invariants and boundary behaviors).
func TestWriteFile_ZeroRowsWritesHeaderOnlyAlignedFile(t *testing.T) {
	ds, err := NewDataset("AE", []colspec.Column{
		{Name: "AESEQ", Kind: colspec.Numeric, Length: 8},
	})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "ae.xpt")
	require.NoError(t, WriteFile(path, ds))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, record.AlignedLength(fi.Size()))
	require.Greater(t, fi.Size(), int64(0))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 0, got.NumRows())
}

var fixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// Streaming the same validated writer twice with fixed timestamps yields
// byte-identical output (determinism of the emitted layout).
func TestWriteFile_DeterministicAcrossWrites(t *testing.T) {
	ds, err := NewDataset("DM", []colspec.Column{
		{Name: "USUBJID", Kind: colspec.Character, Length: 11},
	})
	require.NoError(t, err)
	require.NoError(t, ds.AppendRow([]colspec.Value{colspec.StrValue("SUBJ-001")}))

	w := writer.New(ds, writer.WithTimestamps(fixedTime, fixedTime))
	vw, err := w.Validate("")
	require.NoError(t, err)

	var buf1, buf2 bytes.Buffer
	require.NoError(t, vw.WriteStream(&buf1))
	require.NoError(t, vw.WriteStream(&buf2))
	require.Equal(t, buf1.Bytes(), buf2.Bytes())
}
