package reader

import (
	"io"
	"os"

	"github.com/xport-go/xptcore/dataset"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/observation"
	"github.com/xport-go/xptcore/record"
)

// ReadFile opens path and fully materializes its dataset (spec.md §4.9
// "Buffered reader reads the file into memory (after an alignment
// check)").
func ReadFile(path string, opts ...Option) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrFileNotFound
		}
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !record.AlignedLength(fi.Size()) {
		return nil, errs.ErrAlignment
	}

	return Read(f, opts...)
}

// Read fully materializes the dataset found in r (spec.md §4.9 "Buffered
// reader reads the file into memory ... parses headers ... decodes all
// observations into a Dataset").
func Read(r io.Reader, opts ...Option) (*dataset.Dataset, error) {
	o := buildOptions(opts...)

	rr := record.NewReader(r)
	h, err := readHeaders(rr)
	if err != nil {
		return nil, err
	}

	ds := dataset.New(h.catalog.DatasetName)
	ds.DatasetLabel = h.catalog.DatasetLabel
	ds.DatasetType = h.catalog.DatasetType
	for _, col := range h.columns {
		if err := ds.AddColumn(col); err != nil {
			return nil, err
		}
	}

	decodeOpts := observation.DecodeOptions{TrimTrailingSpaces: !o.PreserveBlanks}

	rowsRead := 0
	for {
		if o.RowLimit > 0 && rowsRead >= o.RowLimit {
			break
		}
		row, err := rr.TryReadBytes(h.rowLen)
		if err == io.EOF {
			break
		}
		if err == errs.ErrUnexpectedEOF && record.IsAllSpace(row) {
			break // all-space record padding shorter than a row
		}
		if err != nil {
			return nil, err
		}
		if observation.IsAllSpaceRow(row) {
			break
		}
		values, err := observation.Decode(h.columns, row, decodeOpts)
		if err != nil {
			return nil, err
		}
		if err := ds.AppendRow(values); err != nil {
			return nil, err
		}
		rowsRead++
	}

	return ds, nil
}
