package reader

import (
	"os"

	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/record"
)

// Info summarizes a member without decoding any observation rows (spec.md
// §4.11 "Inspect-without-decoding").
type Info struct {
	Version      header.Version
	DatasetName  string
	DatasetLabel string
	VarCount     int
	RowCount     int
	RowLen       int
}

// Inspect parses path's headers only and reports member name, variable
// count, row count, and dialect, without materializing any rows (spec.md
// §6 "inspect a path to obtain member list and counts without decoding
// rows"). RowCount is the bytes after the OBS header divided by the row
// length, so trailing all-space padding that spans a whole row length is
// counted as rows.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, errs.ErrFileNotFound
		}
		return Info{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	if !record.AlignedLength(fi.Size()) {
		return Info{}, errs.ErrAlignment
	}

	rr := record.NewReader(f)
	h, err := readHeaders(rr)
	if err != nil {
		return Info{}, err
	}

	remaining := fi.Size() - rr.Offset()
	rowCount := 0
	if h.rowLen > 0 {
		rowCount = int(remaining / int64(h.rowLen))
	}

	return Info{
		Version:      h.catalog.Version,
		DatasetName:  h.catalog.DatasetName,
		DatasetLabel: h.catalog.DatasetLabel,
		VarCount:     h.catalog.VarCount,
		RowCount:     rowCount,
		RowLen:       h.rowLen,
	}, nil
}
