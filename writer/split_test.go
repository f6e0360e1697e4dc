package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/dataset"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/reader"
	"github.com/xport-go/xptcore/schema"
)

func buildWideAE(t *testing.T, nrows int) *dataset.Dataset {
	t.Helper()
	d := dataset.New("AE")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AESEQ", Kind: colspec.Numeric, Length: 8}))
	require.NoError(t, d.AddColumn(colspec.Column{Name: "USUBJID", Kind: colspec.Character, Length: 20}))
	for i := 0; i < nrows; i++ {
		require.NoError(t, d.AppendRow([]colspec.Value{
			colspec.NumValue(float64(i)),
			colspec.StrValue(fmt.Sprintf("SUBJ-%05d", i)),
		}))
	}
	return d
}

func TestWrite_SingleFileWhenUnderLimit(t *testing.T) {
	d := buildWideAE(t, 10)
	w := New(d, WithMaxSizeGB(1))
	vw, err := w.Validate("ae.xpt")
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "ae.xpt")
	files, err := vw.Write(path)
	require.NoError(t, err)
	require.Equal(t, []string{path}, files)
}

func TestWrite_SplitsAcrossMultipleFiles(t *testing.T) {
	d := buildWideAE(t, 1000)
	plan, err := schema.Build(d, nil)
	require.NoError(t, err)

	// Pick a ceiling that forces a handful of rows per file.
	maxRows := 50
	ceilingBytes := int64(fixedOverhead(plan, header.V5) + maxRows*plan.RowLen)
	maxSizeGB := float64(ceilingBytes) / (1024 * 1024 * 1024)

	w := New(d, WithMaxSizeGB(maxSizeGB))
	vw, err := w.Validate("ae.xpt")
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "ae.xpt")
	files, err := vw.Write(path)
	require.NoError(t, err)
	require.Greater(t, len(files), 1)

	totalRows := 0
	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		require.LessOrEqual(t, info.Size(), ceilingBytes)

		ds, err := reader.ReadFile(f)
		require.NoError(t, err)
		totalRows += ds.NumRows()
	}
	require.Equal(t, 1000, totalRows)
}

func TestNumberedPath_PadsToThreeDigits(t *testing.T) {
	require.Equal(t, filepath.Join("out", "ae_001.xpt"), numberedPath(filepath.Join("out", "ae.xpt"), 1))
	require.Equal(t, filepath.Join("out", "ae_042.xpt"), numberedPath(filepath.Join("out", "ae.xpt"), 42))
}
