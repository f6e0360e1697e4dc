package writer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/dataset"
	"github.com/xport-go/xptcore/reader"
	"github.com/xport-go/xptcore/record"
)

func TestStreamingWriter_WriteObservationThenFinish(t *testing.T) {
	d := dataset.New("AE")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AESEQ", Kind: colspec.Numeric, Length: 8}))
	require.NoError(t, d.AddColumn(colspec.Column{Name: "USUBJID", Kind: colspec.Character, Length: 10}))

	w := New(d)
	vw, err := w.Validate("")
	require.NoError(t, err)

	var buf bytes.Buffer
	sw, err := NewStreamingWriter(&buf, vw)
	require.NoError(t, err)

	rows := [][]colspec.Value{
		{colspec.NumValue(1), colspec.StrValue("SUBJ-001")},
		{colspec.NumValue(2), colspec.StrValue("SUBJ-002")},
	}
	for _, row := range rows {
		require.NoError(t, sw.WriteObservation(row))
	}
	require.NoError(t, sw.Finish())
	require.True(t, record.AlignedLength(int64(buf.Len())))

	got, err := reader.Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 2, got.NumRows())
	require.Equal(t, "SUBJ-002", got.Row(1)[1].Str)
}

func TestStreamingWriter_RefusesOnStructuralError(t *testing.T) {
	d := dataset.New("AE")
	overLong := make([]byte, 40)
	for i := range overLong {
		overLong[i] = 'A'
	}
	require.NoError(t, d.AddColumn(colspec.Column{Name: string(overLong), Kind: colspec.Numeric, Length: 8}))

	w := New(d)
	vw, err := w.Validate("")
	require.NoError(t, err)
	require.True(t, vw.Issues().HasErrors())

	var buf bytes.Buffer
	_, err = NewStreamingWriter(&buf, vw)
	require.Error(t, err)
}

func TestStreamingWriter_FinishIsIdempotent(t *testing.T) {
	d := dataset.New("AE")
	require.NoError(t, d.AddColumn(colspec.Column{Name: "AESEQ", Kind: colspec.Numeric, Length: 8}))

	w := New(d)
	vw, err := w.Validate("")
	require.NoError(t, err)

	var buf bytes.Buffer
	sw, err := NewStreamingWriter(&buf, vw)
	require.NoError(t, err)

	require.NoError(t, sw.Finish())
	sizeAfterFirstFinish := buf.Len()
	require.NoError(t, sw.Finish())
	require.Equal(t, sizeAfterFirstFinish, buf.Len())
}
