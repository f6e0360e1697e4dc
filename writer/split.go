package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xport-go/xptcore/errs"
	"github.com/xport-go/xptcore/header"
	"github.com/xport-go/xptcore/record"
	"github.com/xport-go/xptcore/schema"
)

// fixedOverhead returns the byte size of every section preceding the
// observation data for a plan under dialect v: 3 LIBRARY + the MEMBER and
// DSCRPTR markers + MEMBER data record 1 + the record-aligned MEMBER data
// record 2 (one record in V5, four in V8) + 1 NAMESTR header + the
// record-aligned NAMESTR table + 1 OBS header, exactly as writeHeaders
// emits them (spec.md §4.10 "File splitting", grounded on the reference
// estimate_file_size/max_rows_for_size formulas).
func fixedOverhead(plan *schema.Plan, v header.Version) int {
	memberRecords := 2 + 1 + ceilDiv(header.MemberDataRecord2Len(v), record.Size)
	overhead := 3*record.Size + memberRecords*record.Size + record.Size + record.Size
	namestrBytes := len(plan.PlannedVariables) * v.NamestrLen()
	namestrRecords := ceilDiv(namestrBytes, record.Size)
	overhead += namestrRecords * record.Size
	return overhead
}

// estimateFileSize returns the exact byte size of the single-file
// emission of nrows rows of plan under dialect v.
func estimateFileSize(plan *schema.Plan, v header.Version, nrows int) int {
	overhead := fixedOverhead(plan, v)
	obsBytes := nrows * plan.RowLen
	obsRecords := ceilDiv(obsBytes, record.Size)
	return overhead + obsRecords*record.Size
}

// maxRowsForSize returns the largest row count whose emission fits within
// maxBytes, or -1 if even zero rows would exceed the ceiling.
func maxRowsForSize(plan *schema.Plan, v header.Version, maxBytes int64) int {
	overhead := fixedOverhead(plan, v)
	if int64(overhead) > maxBytes {
		return -1
	}
	if plan.RowLen == 0 {
		return int(^uint(0) >> 1) // no columns: unbounded
	}
	// Observation bytes are space-padded up to a whole record, so only the
	// whole records left under the ceiling can hold rows.
	available := (maxBytes - int64(overhead)) / record.Size * record.Size
	return int(available / int64(plan.RowLen))
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// numberedPath renders the Nth split file path alongside base, following
// the "<stem>_<NNN>.<ext>" convention (spec.md §4.10).
func numberedPath(base string, n int) string {
	dir := filepath.Dir(base)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(filepath.Base(base), ext)
	if ext == "" {
		ext = ".xpt"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%03d%s", stem, n, ext))
}

// Write emits the validated dataset to path, splitting into
// "<stem>_NNN.xpt" files when the writer's configured size ceiling
// (WithMaxSizeGB) would otherwise be exceeded. Returns the list of file
// paths actually written, in order.
func (vw *ValidatedWriter) Write(path string) ([]string, error) {
	if vw.issues.HasErrors() {
		return nil, errs.ErrValidation
	}

	nrows := vw.w.dataset.NumRows()
	if vw.w.maxSizeBytes <= 0 {
		if err := writeFile(path, vw.w, vw.plan, 0, nrows); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	maxRows := maxRowsForSize(vw.plan, vw.w.version, vw.w.maxSizeBytes)
	if maxRows <= 0 {
		return nil, &errs.InvalidFormatError{Message: "dataset schema is too large for the configured file size limit"}
	}

	if nrows <= maxRows {
		if err := writeFile(path, vw.w, vw.plan, 0, nrows); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	var written []string
	fileNum := 1
	for start := 0; start < nrows; {
		end := start + maxRows
		if end > nrows {
			end = nrows
		}
		fp := numberedPath(path, fileNum)
		if err := writeFile(fp, vw.w, vw.plan, start, end); err != nil {
			return nil, err
		}
		written = append(written, fp)
		start = end
		fileNum++
	}
	return written, nil
}

func writeFile(path string, w *Writer, plan *schema.Plan, start, end int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return emit(f, w, plan, start, end)
}
