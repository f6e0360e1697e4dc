package writer

import (
	"io"

	"github.com/xport-go/xptcore/colspec"
	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/ibmfloat"
	"github.com/xport-go/xptcore/record"
	"github.com/xport-go/xptcore/schema"
)

// StreamingWriter accepts one row at a time via WriteObservation after the
// header/NAMESTR/OBS sequence has already been emitted, flushing
// record-aligned blocks as it goes; Finish pads the trailing record
// (spec.md §4.10 "Streaming writer variant").
type StreamingWriter struct {
	rw             *record.Writer
	cols           []colspec.Column
	plan           *schema.Plan
	defaultMissing ibmfloat.MissingKind
	closed         bool
}

// NewStreamingWriter builds a ValidatedWriter's plan into a header-complete
// stream and returns a StreamingWriter ready to accept rows via
// WriteObservation. Refuses if vw.Issues().HasErrors().
func NewStreamingWriter(out io.Writer, vw *ValidatedWriter) (*StreamingWriter, error) {
	if vw.issues.HasErrors() {
		return nil, errs.ErrValidation
	}

	cols := plannedColumns(vw.plan)
	rw := record.NewWriter(out)
	if err := writeHeaders(rw, vw.w, vw.plan, cols); err != nil {
		return nil, err
	}

	return &StreamingWriter{rw: rw, cols: cols, plan: vw.plan, defaultMissing: vw.w.defaultMissing}, nil
}

// WriteObservation encodes values (in source dataset column order) and
// writes the resulting row bytes to the stream.
func (sw *StreamingWriter) WriteObservation(values []colspec.Value) error {
	row := reorderRow(sw.plan, values)
	return emitRow(sw.rw, sw.cols, row, sw.defaultMissing)
}

// Finish space-pads and flushes the trailing partial record. Call it after
// the last WriteObservation call; calls after the first are no-ops.
func (sw *StreamingWriter) Finish() error {
	if sw.closed {
		return nil
	}
	sw.closed = true
	return sw.rw.Close()
}
