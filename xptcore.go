// Package xptcore is a thin root facade over the component packages: read
// and write SAS Transport (XPT) V5/V8 files without touching reader,
// writer, schema, or validate directly for the common case (spec.md §6
// "External interfaces").
package xptcore

import (
	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/dataset"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/reader"
	"github.com/xport-go/xptcore/writer"
)

// NewDataset creates an empty dataset for domainCode and appends the given
// column descriptors in order, returning errs.ErrDuplicateColumn if any two
// names collide case-insensitively (spec.md §3, §6).
func NewDataset(domainCode string, columns []colspec.Column) (*dataset.Dataset, error) {
	ds := dataset.New(domainCode)
	for _, col := range columns {
		if err := ds.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// ReadFile fully materializes the dataset stored at path (spec.md §4.9
// "Buffered reader").
func ReadFile(path string, opts ...reader.Option) (*dataset.Dataset, error) {
	return reader.ReadFile(path, opts...)
}

// WriteFile validates ds and writes it to path, refusing (errs.ErrValidation)
// if validation produced an Error (spec.md §4.10, §7 "the writer refuses to
// emit if the aggregate contains any Error"). Splitting (spec.md §4.10
// "File splitting") is transparent: path receives the single output file;
// when a size ceiling configured via writer.WithMaxSizeGB forces a split,
// the rows go to "<stem>_001.xpt", "<stem>_002.xpt", ... beside path and
// path itself is not written. Callers who need the issue list or
// the full set of split file paths should use writer.New directly.
func WriteFile(path string, ds *dataset.Dataset, opts ...writer.Option) error {
	w := writer.New(ds, opts...)
	vw, err := w.Validate(path)
	if err != nil {
		return err
	}
	if vw.Issues().HasErrors() {
		return errs.ErrValidation
	}
	_, err = vw.Write(path)
	return err
}
