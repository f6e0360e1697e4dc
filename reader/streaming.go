package reader

import (
	"io"
	"os"

	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/observation"
	"github.com/xport-go/xptcore/record"
)

// StreamingReader parses headers once, then yields one observation at a
// time via Next, stopping on EOF, an all-space row, or when the recorded
// row count is exhausted (spec.md §4.9 "Streaming reader").
type StreamingReader struct {
	rr         *record.Reader
	closer     io.Closer
	catalog    *header.Catalog
	columns    []colspec.Column
	rowLen     int
	dataOffset int64
	count      int
	read       int
	decodeOpts observation.DecodeOptions
}

// NewStreamingReader parses headers from r and prepares a row iterator.
// totalSize is the total byte length of the underlying stream, used to
// compute the recorded observation count (remaining_bytes / row_len);
// pass 0 if unknown, in which case Next relies solely on EOF/all-space
// detection to terminate.
func NewStreamingReader(r io.Reader, totalSize int64, opts ...Option) (*StreamingReader, error) {
	o := buildOptions(opts...)
	rr := record.NewReader(r)
	h, err := readHeaders(rr)
	if err != nil {
		return nil, err
	}

	sr := &StreamingReader{
		rr:         rr,
		catalog:    h.catalog,
		columns:    h.columns,
		rowLen:     h.rowLen,
		dataOffset: rr.Offset(),
		decodeOpts: observation.DecodeOptions{TrimTrailingSpaces: !o.PreserveBlanks},
	}
	if totalSize > 0 && h.rowLen > 0 {
		sr.count = int((totalSize - sr.dataOffset) / int64(h.rowLen))
	} else {
		sr.count = -1 // unknown; rely on EOF/all-space
	}
	if o.RowLimit > 0 && (sr.count < 0 || o.RowLimit < sr.count) {
		sr.count = o.RowLimit
	}
	return sr, nil
}

// OpenStreamingFile opens path and prepares a streaming row iterator,
// computing the recorded row count from the file's size (spec.md §4.9).
func OpenStreamingFile(path string, opts ...Option) (*StreamingReader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrFileNotFound
		}
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	sr, err := NewStreamingReader(f, fi.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	sr.closer = f
	return sr, nil
}

// Catalog returns the parsed header metadata.
func (sr *StreamingReader) Catalog() *header.Catalog { return sr.catalog }

// Columns returns the dataset's column descriptors in NAMESTR order.
func (sr *StreamingReader) Columns() []colspec.Column {
	return append([]colspec.Column(nil), sr.columns...)
}

// DataOffset returns the byte offset at which observation data begins.
func (sr *StreamingReader) DataOffset() int64 { return sr.dataOffset }

// Next reads and decodes one row, returning (nil, false, nil) when the
// iterator has stopped cleanly (EOF, all-space row, or count exhausted).
func (sr *StreamingReader) Next() ([]colspec.Value, bool, error) {
	if sr.count >= 0 && sr.read >= sr.count {
		return nil, false, nil
	}

	raw, err := sr.rr.TryReadBytes(sr.rowLen)
	if err == io.EOF {
		return nil, false, nil
	}
	if err == errs.ErrUnexpectedEOF && record.IsAllSpace(raw) {
		return nil, false, nil // all-space record padding shorter than a row
	}
	if err != nil {
		return nil, false, err
	}
	if observation.IsAllSpaceRow(raw) {
		return nil, false, nil
	}

	values, err := observation.Decode(sr.columns, raw, sr.decodeOpts)
	if err != nil {
		return nil, false, err
	}
	sr.read++
	return values, true, nil
}

// Close releases the underlying file, if this reader opened one itself.
func (sr *StreamingReader) Close() error {
	if sr.closer != nil {
		return sr.closer.Close()
	}
	return nil
}
