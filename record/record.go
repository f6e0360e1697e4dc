// Package record implements the 80-byte record framing that every XPT
// section (headers, NAMESTR table, observations) is aligned to (spec.md
// §4.2). Reader exposes aligned and spanning reads; Writer accumulates a
// partial record and flushes it, space-padded, on a forced boundary or on
// Close.
package record

import (
	"bufio"
	"io"

	"github.com/xport-go/xptcore/errs"
)

// Size is the fixed XPT record length in bytes.
const Size = 80

// PadByte is the ASCII space used to pad partial records.
const PadByte = 0x20

// Reader reads an XPT byte stream as a sequence of 80-byte records, also
// allowing reads that span record boundaries.
type Reader struct {
	r      *bufio.Reader
	offset int64
}

// NewReader wraps r for record-aligned reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, Size*64)}
}

// Offset returns the number of bytes consumed so far.
func (rd *Reader) Offset() int64 { return rd.offset }

// ReadRecord reads exactly one 80-byte record.
func (rd *Reader) ReadRecord() ([]byte, error) {
	return rd.ReadBytes(Size)
}

// ReadBytes reads exactly n bytes, which may span multiple records. It
// returns errs.ErrUnexpectedEOF if the stream ends before n bytes are
// available.
func (rd *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(rd.r, buf)
	rd.offset += int64(read)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return buf[:read], errs.ErrUnexpectedEOF
		}
		return buf[:read], err
	}
	return buf, nil
}

// TryReadRecord reads one record, returning (nil, io.EOF) if the stream is
// exhausted before any bytes are read (used to detect clean end-of-stream
// at a record boundary, as opposed to a truncated record).
func (rd *Reader) TryReadRecord() ([]byte, error) {
	return rd.TryReadBytes(Size)
}

// TryReadBytes reads exactly n bytes, which may span multiple records,
// returning (nil, io.EOF) if the stream is exhausted before any bytes are
// read, or errs.ErrUnexpectedEOF if it ends partway through the n bytes.
// Used by an observation loop to tell a clean end-of-stream at a row
// boundary apart from a truncated trailing row.
func (rd *Reader) TryReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(rd.r, buf)
	rd.offset += int64(read)
	if err == io.EOF && read == 0 {
		return nil, io.EOF
	}
	if err == io.ErrUnexpectedEOF {
		return buf[:read], errs.ErrUnexpectedEOF
	}
	if err != nil && err != io.EOF {
		return buf[:read], err
	}
	return buf, nil
}

// Writer accumulates bytes into 80-byte records, flushing each full record
// to the underlying writer as soon as it fills, and space-padding any
// partial tail on WriteRecord or Close.
type Writer struct {
	w       io.Writer
	pending []byte
}

// NewWriter wraps w for record-aligned writing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, pending: make([]byte, 0, Size)}
}

// WriteBytes appends arbitrary-length data, transparently splitting it
// across records as the internal buffer fills.
func (wr *Writer) WriteBytes(data []byte) error {
	for len(data) > 0 {
		room := Size - len(wr.pending)
		take := len(data)
		if take > room {
			take = room
		}
		wr.pending = append(wr.pending, data[:take]...)
		data = data[take:]

		if len(wr.pending) == Size {
			if _, err := wr.w.Write(wr.pending); err != nil {
				return err
			}
			wr.pending = wr.pending[:0]
		}
	}
	return nil
}

// WriteRecord forces a record boundary: if a partial record is pending it
// is flushed, space-padded to Size, before returning.
func (wr *Writer) WriteRecord() error {
	if len(wr.pending) == 0 {
		return nil
	}
	return wr.flushPadded()
}

// Close flushes any pending partial record, space-padded, and must be
// called exactly once after the last write.
func (wr *Writer) Close() error {
	if len(wr.pending) == 0 {
		return nil
	}
	return wr.flushPadded()
}

func (wr *Writer) flushPadded() error {
	padded := make([]byte, Size)
	copy(padded, wr.pending)
	for i := len(wr.pending); i < Size; i++ {
		padded[i] = PadByte
	}
	if _, err := wr.w.Write(padded); err != nil {
		return err
	}
	wr.pending = wr.pending[:0]
	return nil
}

// AlignedLength reports whether a total byte count is a multiple of Size,
// as required at EOF (spec.md §4.2 "non-multiple-of-80 total length ⇒
// Error (alignment)").
func AlignedLength(total int64) bool {
	return total%Size == 0
}

// IsAllSpace reports whether every byte in data is PadByte.
func IsAllSpace(data []byte) bool {
	for _, b := range data {
		if b != PadByte {
			return false
		}
	}
	return true
}
